package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/ludo-technologies/simcluster/domain"
)

// ClusteringFormatter implements domain.ClusteringOutputFormatter.
type ClusteringFormatter struct {
	showDetails bool
}

// NewClusteringFormatter creates a new formatter.
func NewClusteringFormatter(showDetails bool) *ClusteringFormatter {
	return &ClusteringFormatter{showDetails: showDetails}
}

// Format writes the clustering response in the requested format.
func (f *ClusteringFormatter) Format(response *domain.ClusteringResponse, format domain.OutputFormat, writer io.Writer) error {
	if response == nil {
		return domain.NewOutputError("clustering response cannot be nil", nil)
	}

	switch format {
	case domain.OutputFormatText:
		return f.formatText(response, writer)
	case domain.OutputFormatJSON:
		return f.formatJSON(response, writer)
	case domain.OutputFormatYAML:
		return f.formatYAML(response, writer)
	case domain.OutputFormatCSV:
		return f.formatCSV(response, writer)
	default:
		return domain.NewUnsupportedFormatError(string(format))
	}
}

func (f *ClusteringFormatter) formatText(response *domain.ClusteringResponse, writer io.Writer) error {
	var b strings.Builder

	b.WriteString("Clustering Results\n")
	b.WriteString("==================\n\n")

	if response.IsEmpty() {
		b.WriteString("No suspicious clusters found.\n")
	}

	for _, cluster := range response.Clusters {
		fmt.Fprintf(&b, "Cluster %d (strength %.3f, %d submissions)\n",
			cluster.ID, cluster.Strength, len(cluster.Members))
		if f.showDetails {
			for _, member := range cluster.Members {
				fmt.Fprintf(&b, "  - %s\n", member)
			}
		} else {
			fmt.Fprintf(&b, "  %s\n", strings.Join(cluster.Members, ", "))
		}
		b.WriteString("\n")
	}

	if stats := response.Statistics; stats != nil {
		b.WriteString("Summary\n")
		b.WriteString("-------\n")
		fmt.Fprintf(&b, "Submissions analyzed: %d\n", stats.TotalSubmissions)
		fmt.Fprintf(&b, "Clusters found:       %d\n", stats.TotalClusters)
		fmt.Fprintf(&b, "Submissions flagged:  %d\n", stats.ClusteredSubmissions)
		if stats.TotalClusters > 0 {
			fmt.Fprintf(&b, "Average strength:     %.3f\n", stats.AverageStrength)
			fmt.Fprintf(&b, "Strongest cluster:    %.3f\n", stats.MaxStrength)
		}
	}

	for _, warning := range response.Warnings {
		fmt.Fprintf(&b, "\nWarning: %s\n", warning)
	}

	_, err := io.WriteString(writer, b.String())
	if err != nil {
		return domain.NewOutputError("writing text output", err)
	}
	return nil
}

func (f *ClusteringFormatter) formatJSON(response *domain.ClusteringResponse, writer io.Writer) error {
	encoder := json.NewEncoder(writer)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(response); err != nil {
		return domain.NewOutputError("encoding JSON output", err)
	}
	return nil
}

func (f *ClusteringFormatter) formatYAML(response *domain.ClusteringResponse, writer io.Writer) error {
	encoder := yaml.NewEncoder(writer)
	defer encoder.Close()
	if err := encoder.Encode(response); err != nil {
		return domain.NewOutputError("encoding YAML output", err)
	}
	return nil
}

func (f *ClusteringFormatter) formatCSV(response *domain.ClusteringResponse, writer io.Writer) error {
	w := csv.NewWriter(writer)
	if err := w.Write([]string{"cluster_id", "strength", "size", "members"}); err != nil {
		return domain.NewOutputError("writing CSV header", err)
	}

	for _, cluster := range response.Clusters {
		record := []string{
			strconv.Itoa(cluster.ID),
			strconv.FormatFloat(cluster.Strength, 'f', 6, 64),
			strconv.Itoa(len(cluster.Members)),
			strings.Join(cluster.Members, ";"),
		}
		if err := w.Write(record); err != nil {
			return domain.NewOutputError("writing CSV record", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return domain.NewOutputError("flushing CSV output", err)
	}
	return nil
}

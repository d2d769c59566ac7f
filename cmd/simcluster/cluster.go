package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/ludo-technologies/simcluster/app"
	"github.com/ludo-technologies/simcluster/domain"
	"github.com/ludo-technologies/simcluster/service"
)

// ClusterCommand handles the clustering CLI command
type ClusterCommand struct {
	// Input parameters
	configFile string

	// Pipeline configuration
	metric       string
	algorithm    string
	preprocessor string

	// Agglomerative parameters
	threshold float64
	linkage   string

	// Spectral parameters
	bandwidth        float64
	noise            float64
	minRuns          int
	maxRuns          int
	kmeansIterations int
	seed             int64

	// Preprocessor parameters
	percentile float64
	cutoff     float64

	// Output format flags (only one should be true)
	json bool
	csv  bool
	yaml bool

	// Output options
	showDetails bool

	// Performance options
	maxGoroutines int
	noProgress    bool
}

// NewClusterCommand creates a new clustering command
func NewClusterCommand() *ClusterCommand {
	return &ClusterCommand{}
}

// CreateCobraCommand creates the Cobra command for clustering
func (c *ClusterCommand) CreateCobraCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cluster <comparisons-file>",
		Short: "Group submissions into suspicious clusters",
		Long: `Group submissions into suspicious clusters from pairwise comparison
records.

The input file holds one record per compared pair with the token-set sizes
of both submissions and the size of the matched intersection. CSV columns
are submission_a,submission_b,size_a,size_b,matched_tokens; a .json file
is parsed as an array of objects with the same fields.

Examples:
  # Cluster with the default spectral pipeline
  simcluster cluster comparisons.csv

  # Agglomerative clustering with a custom merge threshold
  simcluster cluster --algorithm agglomerative --threshold 0.4 comparisons.csv

  # Output results as JSON
  simcluster cluster --json comparisons.csv > clusters.json`,
		Args: cobra.ExactArgs(1),
		RunE: c.runClustering,
	}

	// Input flags
	cmd.Flags().StringVarP(&c.configFile, "config", "c", "",
		"Path to configuration file")

	// Pipeline configuration flags
	cmd.Flags().StringVarP(&c.metric, "metric", "m", "avg",
		"Similarity metric: avg, max, min, intersection")
	cmd.Flags().StringVarP(&c.algorithm, "algorithm", "a", "spectral",
		"Clustering algorithm: agglomerative, spectral")
	cmd.Flags().StringVarP(&c.preprocessor, "preprocessor", "p", "cdf",
		"Matrix preprocessor: none, cdf, percentile, threshold")

	// Agglomerative flags
	cmd.Flags().Float64VarP(&c.threshold, "threshold", "t", 0.2,
		"Agglomerative merge threshold (0.0-1.0)")
	cmd.Flags().StringVar(&c.linkage, "linkage", "average",
		"Agglomerative linkage: min, max, average")

	// Spectral flags
	cmd.Flags().Float64Var(&c.bandwidth, "bandwidth", 20.0,
		"Gaussian-process kernel bandwidth for the cluster-count search")
	cmd.Flags().Float64Var(&c.noise, "noise", 0.0025,
		"Gaussian-process observation noise")
	cmd.Flags().IntVar(&c.minRuns, "min-runs", 5,
		"Exploratory clustering runs before the guided search")
	cmd.Flags().IntVar(&c.maxRuns, "max-runs", 25,
		"Total clustering runs for the cluster-count search")
	cmd.Flags().IntVar(&c.kmeansIterations, "kmeans-iterations", 200,
		"Maximum k-means iterations per run")
	cmd.Flags().Int64Var(&c.seed, "seed", 1,
		"Random seed for reproducible spectral runs")

	// Preprocessor flags
	cmd.Flags().Float64Var(&c.percentile, "percentile", 0.75,
		"Percentile cutoff for the percentile preprocessor (0.0-1.0)")
	cmd.Flags().Float64Var(&c.cutoff, "cutoff", 0.15,
		"Similarity cutoff for the threshold preprocessor")

	// Output format flags
	cmd.Flags().BoolVar(&c.json, "json", false, "Output results as JSON")
	cmd.Flags().BoolVar(&c.csv, "csv", false, "Output results as CSV")
	cmd.Flags().BoolVar(&c.yaml, "yaml", false, "Output results as YAML")

	// Output options
	cmd.Flags().BoolVarP(&c.showDetails, "details", "d", false,
		"List cluster members one per line")

	// Performance flags
	cmd.Flags().IntVar(&c.maxGoroutines, "max-goroutines", 0,
		"Maximum concurrent clustering runs (0 = number of CPUs)")
	cmd.Flags().BoolVar(&c.noProgress, "no-progress", false,
		"Disable progress output")

	// Advanced parameters belong in .simcluster.toml.
	_ = cmd.Flags().MarkHidden("bandwidth")
	_ = cmd.Flags().MarkHidden("noise")
	_ = cmd.Flags().MarkHidden("kmeans-iterations")

	return cmd
}

// runClustering executes the cluster command
func (c *ClusterCommand) runClustering(cmd *cobra.Command, args []string) error {
	request, err := c.createClusteringRequest(cmd, args[0])
	if err != nil {
		return err
	}

	progress := c.createProgressReporter(cmd)

	useCase := app.NewClusteringUseCase(
		service.NewClusteringService(progress),
		service.NewClusteringFormatter(request.ShowDetails),
		progress,
	)

	if err := useCase.Execute(context.Background(), request); err != nil {
		return fmt.Errorf("clustering failed: %w", err)
	}
	return nil
}

// createClusteringRequest builds the request from the config file merged with
// explicitly set command line flags.
func (c *ClusterCommand) createClusteringRequest(cmd *cobra.Command, comparisonsPath string) (*domain.ClusteringRequest, error) {
	loader := service.NewClusteringConfigurationLoader()
	request, err := loader.LoadConfig(c.configFile)
	if err != nil {
		return nil, err
	}

	c.applyFlagOverrides(cmd.Flags(), request)

	format, err := c.determineOutputFormat(request.OutputFormat)
	if err != nil {
		return nil, err
	}
	request.OutputFormat = format
	request.OutputWriter = cmd.OutOrStdout()

	request.Comparisons, err = service.NewComparisonReader().ReadFile(comparisonsPath)
	if err != nil {
		return nil, err
	}

	return request, nil
}

// applyFlagOverrides copies explicitly set command line flags onto the
// request; file and default values stay in place otherwise.
func (c *ClusterCommand) applyFlagOverrides(flags *pflag.FlagSet, request *domain.ClusteringRequest) {
	if flags.Changed("metric") {
		request.Metric = domain.Metric(c.metric)
	}
	if flags.Changed("algorithm") {
		request.Algorithm = domain.Algorithm(c.algorithm)
	}
	if flags.Changed("preprocessor") {
		request.Preprocessor = domain.Preprocessor(c.preprocessor)
	}
	if flags.Changed("threshold") {
		request.AgglomerativeThreshold = c.threshold
	}
	if flags.Changed("linkage") {
		request.AgglomerativeLinkage = domain.Linkage(c.linkage)
	}
	if flags.Changed("bandwidth") {
		request.SpectralBandwidth = c.bandwidth
	}
	if flags.Changed("noise") {
		request.SpectralNoise = c.noise
	}
	if flags.Changed("min-runs") {
		request.SpectralMinRuns = c.minRuns
	}
	if flags.Changed("max-runs") {
		request.SpectralMaxRuns = c.maxRuns
	}
	if flags.Changed("kmeans-iterations") {
		request.SpectralKMeansIterations = c.kmeansIterations
	}
	if flags.Changed("seed") {
		request.SpectralSeed = c.seed
	}
	if flags.Changed("percentile") {
		request.PreprocessorPercentile = c.percentile
	}
	if flags.Changed("cutoff") {
		request.PreprocessorThreshold = c.cutoff
	}
	if flags.Changed("details") {
		request.ShowDetails = c.showDetails
	}
	if flags.Changed("max-goroutines") {
		request.MaxGoroutines = c.maxGoroutines
	}
}

// determineOutputFormat resolves the output format from the mutually
// exclusive format flags, falling back to the configured format.
func (c *ClusterCommand) determineOutputFormat(configured domain.OutputFormat) (domain.OutputFormat, error) {
	count := 0
	format := configured
	if c.json {
		count++
		format = domain.OutputFormatJSON
	}
	if c.csv {
		count++
		format = domain.OutputFormatCSV
	}
	if c.yaml {
		count++
		format = domain.OutputFormatYAML
	}
	if count > 1 {
		return "", fmt.Errorf("only one of --json, --csv, --yaml can be specified")
	}
	if format == "" {
		format = domain.OutputFormatText
	}
	if !format.IsValid() {
		return "", fmt.Errorf("unsupported output format: %s", format)
	}
	return format, nil
}

func (c *ClusterCommand) createProgressReporter(cmd *cobra.Command) domain.ProgressReporter {
	if c.noProgress {
		return service.NewNoOpProgressReporter()
	}
	reporter := service.NewProgressReporter()
	reporter.SetWriter(cmd.ErrOrStderr())
	return reporter
}

// NewClusterCmd creates and returns the cluster cobra command
func NewClusterCmd() *cobra.Command {
	clusterCommand := NewClusterCommand()
	return clusterCommand.CreateCobraCommand()
}

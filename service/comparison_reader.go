package service

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/ludo-technologies/simcluster/domain"
)

// ComparisonReader loads pairwise comparison records from CSV or JSON files
// produced by the upstream comparison stage.
type ComparisonReader struct{}

// NewComparisonReader creates a new comparison reader.
func NewComparisonReader() *ComparisonReader {
	return &ComparisonReader{}
}

// ReadFile loads comparison records from the given path. The format is
// derived from the file extension: .json is parsed as a JSON array,
// everything else as CSV.
func (r *ComparisonReader) ReadFile(path string) ([]domain.ComparisonRecord, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, domain.NewInvalidInputError(fmt.Sprintf("opening comparison file %s", path), err)
	}
	defer file.Close()

	if strings.EqualFold(filepath.Ext(path), ".json") {
		return r.ReadJSON(file)
	}
	return r.ReadCSV(file)
}

// ReadJSON parses a JSON array of comparison records.
func (r *ComparisonReader) ReadJSON(reader io.Reader) ([]domain.ComparisonRecord, error) {
	var records []domain.ComparisonRecord
	if err := json.NewDecoder(reader).Decode(&records); err != nil {
		return nil, domain.NewInvalidInputError("parsing JSON comparison records", err)
	}
	return records, nil
}

// ReadCSV parses comparison records from CSV with columns
// submission_a,submission_b,size_a,size_b,matched_tokens. A header row is
// detected by its non-numeric size column and skipped.
func (r *ComparisonReader) ReadCSV(reader io.Reader) ([]domain.ComparisonRecord, error) {
	cr := csv.NewReader(reader)
	cr.FieldsPerRecord = 5
	cr.TrimLeadingSpace = true

	rows, err := cr.ReadAll()
	if err != nil {
		return nil, domain.NewInvalidInputError("parsing CSV comparison records", err)
	}

	records := make([]domain.ComparisonRecord, 0, len(rows))
	for i, row := range rows {
		sizeA, errA := strconv.Atoi(row[2])
		if i == 0 && errA != nil {
			// Header row.
			continue
		}

		sizeB, errB := strconv.Atoi(row[3])
		matched, errM := strconv.Atoi(row[4])
		if errA != nil || errB != nil || errM != nil {
			return nil, domain.NewInvalidInputError(fmt.Sprintf("non-numeric value in CSV row %d", i+1), nil)
		}

		records = append(records, domain.ComparisonRecord{
			SubmissionA:   row[0],
			SubmissionB:   row[1],
			SizeA:         sizeA,
			SizeB:         sizeB,
			MatchedTokens: matched,
		})
	}
	return records, nil
}

package service

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ludo-technologies/simcluster/domain"
)

func TestReadCSVWithHeader(t *testing.T) {
	input := `submission_a,submission_b,size_a,size_b,matched_tokens
a,b,100,120,90
a,c,100,80,10
`
	records, err := NewComparisonReader().ReadCSV(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, domain.ComparisonRecord{
		SubmissionA: "a", SubmissionB: "b", SizeA: 100, SizeB: 120, MatchedTokens: 90,
	}, records[0])
}

func TestReadCSVWithoutHeader(t *testing.T) {
	records, err := NewComparisonReader().ReadCSV(strings.NewReader("a,b,100,120,90\n"))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "b", records[0].SubmissionB)
}

func TestReadCSVInvalid(t *testing.T) {
	t.Run("wrong column count", func(t *testing.T) {
		_, err := NewComparisonReader().ReadCSV(strings.NewReader("a,b,100\n"))
		assert.Error(t, err)
	})

	t.Run("non-numeric data row", func(t *testing.T) {
		_, err := NewComparisonReader().ReadCSV(strings.NewReader("a,b,100,120,90\nc,d,x,120,90\n"))
		assert.Error(t, err)
	})
}

func TestReadJSON(t *testing.T) {
	input := `[
		{"submission_a": "a", "submission_b": "b", "size_a": 100, "size_b": 120, "matched_tokens": 90}
	]`
	records, err := NewComparisonReader().ReadJSON(strings.NewReader(input))
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, 90, records[0].MatchedTokens)
}

func TestReadFileByExtension(t *testing.T) {
	dir := t.TempDir()

	csvPath := filepath.Join(dir, "comparisons.csv")
	require.NoError(t, os.WriteFile(csvPath, []byte("a,b,100,120,90\n"), 0o644))

	jsonPath := filepath.Join(dir, "comparisons.json")
	require.NoError(t, os.WriteFile(jsonPath, []byte(`[{"submission_a":"a","submission_b":"b","size_a":1,"size_b":1,"matched_tokens":1}]`), 0o644))

	reader := NewComparisonReader()

	records, err := reader.ReadFile(csvPath)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	records, err = reader.ReadFile(jsonPath)
	require.NoError(t, err)
	assert.Len(t, records, 1)

	_, err = reader.ReadFile(filepath.Join(dir, "missing.csv"))
	assert.Error(t, err)
}

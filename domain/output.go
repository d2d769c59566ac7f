package domain

// OutputFormat represents the supported output formats
type OutputFormat string

const (
	OutputFormatText OutputFormat = "text"
	OutputFormatJSON OutputFormat = "json"
	OutputFormatYAML OutputFormat = "yaml"
	OutputFormatCSV  OutputFormat = "csv"
)

// IsValid reports whether the format is one of the supported formats.
func (f OutputFormat) IsValid() bool {
	switch f {
	case OutputFormatText, OutputFormatJSON, OutputFormatYAML, OutputFormatCSV:
		return true
	}
	return false
}

// ProgressReporter reports run progress and non-fatal warnings to the user.
// Implementations live in the service layer and typically write to stderr.
type ProgressReporter interface {
	// StartProgress starts progress reporting for the given number of steps.
	StartProgress(totalSteps int)

	// UpdateProgress marks one step as completed.
	UpdateProgress()

	// FinishProgress finishes progress reporting.
	FinishProgress()

	// Warn reports a non-fatal warning (e.g., a numerical-recovery fallback).
	Warn(message string)
}

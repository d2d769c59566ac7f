package service

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/schollz/progressbar/v3"
	"golang.org/x/term"
)

// ProgressReporterImpl implements domain.ProgressReporter with a terminal
// progress bar. Progress output goes to stderr so it never mixes with the
// formatted results on stdout.
type ProgressReporterImpl struct {
	mu          sync.Mutex
	writer      io.Writer
	progressBar *progressbar.ProgressBar
	interactive bool
}

// NewProgressReporter creates a progress reporter writing to stderr. The
// progress bar is only drawn when stderr is a terminal; warnings are always
// written.
func NewProgressReporter() *ProgressReporterImpl {
	return &ProgressReporterImpl{
		writer:      os.Stderr,
		interactive: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// SetWriter redirects progress output, disabling the bar for non-terminal
// writers.
func (p *ProgressReporterImpl) SetWriter(writer io.Writer) {
	p.mu.Lock()
	defer p.mu.Unlock()

	p.writer = writer
	if file, ok := writer.(*os.File); ok {
		p.interactive = term.IsTerminal(int(file.Fd()))
	} else {
		p.interactive = false
	}
}

// StartProgress starts progress reporting for the given number of steps.
func (p *ProgressReporterImpl) StartProgress(totalSteps int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	if !p.interactive || totalSteps <= 0 {
		return
	}
	p.progressBar = p.createProgressBar("Clustering", totalSteps)
}

// UpdateProgress marks one step as completed.
func (p *ProgressReporterImpl) UpdateProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar != nil {
		_ = p.progressBar.Add(1)
	}
}

// FinishProgress finishes progress reporting.
func (p *ProgressReporterImpl) FinishProgress() {
	p.mu.Lock()
	defer p.mu.Unlock()

	if p.progressBar != nil {
		_ = p.progressBar.Finish()
		p.progressBar = nil
	}
}

// Warn reports a non-fatal warning.
func (p *ProgressReporterImpl) Warn(message string) {
	p.mu.Lock()
	defer p.mu.Unlock()

	// Clear any active bar line before writing so the warning stays readable.
	if p.progressBar != nil {
		_ = p.progressBar.Clear()
	}
	fmt.Fprintf(p.writer, "Warning: %s\n", message)
}

func (p *ProgressReporterImpl) createProgressBar(description string, max int) *progressbar.ProgressBar {
	writer := p.writer
	if writer == nil {
		writer = io.Discard
	}

	return progressbar.NewOptions(max,
		progressbar.OptionSetDescription(description),
		progressbar.OptionSetWidth(50),
		progressbar.OptionShowCount(),
		progressbar.OptionSetPredictTime(true),
		progressbar.OptionSetWriter(writer),
		progressbar.OptionOnCompletion(func() {
			fmt.Fprintln(writer)
		}),
	)
}

// NoOpProgressReporter is a progress reporter that does nothing.
type NoOpProgressReporter struct{}

// NewNoOpProgressReporter creates a no-op progress reporter.
func NewNoOpProgressReporter() *NoOpProgressReporter {
	return &NoOpProgressReporter{}
}

func (n *NoOpProgressReporter) StartProgress(totalSteps int) {}
func (n *NoOpProgressReporter) UpdateProgress()              {}
func (n *NoOpProgressReporter) FinishProgress()              {}
func (n *NoOpProgressReporter) Warn(message string)          {}

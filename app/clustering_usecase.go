package app

import (
	"context"
	"fmt"

	"github.com/ludo-technologies/simcluster/domain"
)

// ClusteringUseCase orchestrates a clustering run: validate the request,
// execute the pipeline, format the results.
type ClusteringUseCase struct {
	service   domain.ClusteringService
	formatter domain.ClusteringOutputFormatter
	progress  domain.ProgressReporter
}

// NewClusteringUseCase creates a new clustering use case with the given
// dependencies.
func NewClusteringUseCase(
	service domain.ClusteringService,
	formatter domain.ClusteringOutputFormatter,
	progress domain.ProgressReporter,
) *ClusteringUseCase {
	return &ClusteringUseCase{
		service:   service,
		formatter: formatter,
		progress:  progress,
	}
}

// Execute runs the clustering pipeline and writes the formatted results to
// the request's output writer.
func (uc *ClusteringUseCase) Execute(ctx context.Context, req *domain.ClusteringRequest) error {
	if req == nil {
		return fmt.Errorf("clustering request cannot be nil")
	}
	if err := req.Validate(); err != nil {
		return err
	}
	if req.OutputWriter == nil {
		return fmt.Errorf("no output writer specified")
	}

	response, err := uc.service.Clusterize(ctx, req)
	if err != nil {
		return err
	}

	if uc.progress != nil {
		uc.progress.FinishProgress()
	}

	if err := uc.formatter.Format(response, req.OutputFormat, req.OutputWriter); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}

	return nil
}

package ports

import (
	"context"

	"github.com/bnema/share-cli/internal/domain"
)

type PackageRequest struct {
	Source   domain.Source
	Password string
	// Fallback names the download when neither a forced name nor a path base is available.
	FallbackName string
}

type Packager interface {
	Package(ctx context.Context, req PackageRequest) (domain.Artifact, error)
	// Cleanup removes temporary files; safe to call more than once.
	Cleanup() error
}

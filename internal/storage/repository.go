// ABOUTME: Repository interfaces for annotation storage
// ABOUTME: Enables testability and storage backend swapping

package storage

import (
	"github.com/google/uuid"
	"github.com/harper/tiers/internal/models"
	"github.com/rs/zerolog"
)

// AnnotationRepository defines operations for managing annotations.
// Annotations are returned with all their tiers loaded.
type AnnotationRepository interface {
	CreateAnnotation(a *models.Annotation) error
	GetAnnotationByID(id uuid.UUID) (*models.Annotation, error)
	GetAnnotationByName(name string) (*models.Annotation, error)
	ListAnnotations() ([]*models.Annotation, error)
	DeleteAnnotation(id uuid.UUID) error
}

// TierRepository defines operations for persisting individual tiers.
type TierRepository interface {
	// SaveTier inserts or replaces a tier and all of its markers.
	SaveTier(annotationID uuid.UUID, tier *models.Tier) error
	DeleteTier(annotationID, tierID uuid.UUID) error
}

// Repository combines all repository operations with lifecycle management.
type Repository interface {
	AnnotationRepository
	TierRepository
	Close() error
	Reset() error
}

// Option configures a storage backend.
type Option func(*options)

type options struct {
	log zerolog.Logger
}

// WithLogger sets the logger used for storage diagnostics.
func WithLogger(log zerolog.Logger) Option {
	return func(o *options) {
		o.log = log
	}
}

func buildOptions(opts []Option) options {
	o := options{log: zerolog.Nop()}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

package repository

import (
	"context"

	"github.com/wekeepgrowing/billing-sync/internal/domain/entity"
)

// IdentityMappingRepository is one 1:1 mapping table between participants and
// external ids. Two instances exist, one per mapping kind; they never share
// state.
type IdentityMappingRepository interface {
	// Link creates the mapping. Returns ErrAlreadyLinked when the external id
	// is already mapped, regardless of which participant holds it.
	Link(ctx context.Context, participant, externalID string) error

	// Unlink deletes the mapping for the external id. Returns
	// ErrMappingNotFound when none exists.
	Unlink(ctx context.Context, externalID string) error

	// ResolveParticipant returns the participant mapped to the external id,
	// or ErrMappingNotFound.
	ResolveParticipant(ctx context.Context, externalID string) (string, error)

	// GetByParticipant returns the mapping held by the participant, or nil
	// when none exists.
	GetByParticipant(ctx context.Context, participant string) (*entity.IdentityMapping, error)
}

package entity

import "time"

// MappingKind distinguishes the two external identity kinds a participant
// may be linked to.
type MappingKind string

const (
	MappingKindCustomer         MappingKind = "customer"
	MappingKindConnectedAccount MappingKind = "connected_account"
)

// IdentityMapping links a participant to one external identity of a given
// kind. The external id is unique within its kind.
type IdentityMapping struct {
	ID          int64     `json:"id"`
	Participant string    `json:"participant"`
	ExternalID  string    `json:"external_id"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

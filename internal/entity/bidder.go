package entity

import "github.com/google/uuid"

// Bidder is a read-only mirror of the external user directory.
// The approved flag is trusted as supplied; the engine does no KYC of its own.
type Bidder struct {
	Id          uuid.UUID `json:"id" db:"id"`
	DisplayName string    `json:"displayName" db:"display_name"`
	Approved    bool      `json:"approved" db:"approved"`
}

package entity

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Batch struct {
	Id              uuid.UUID       `json:"id" db:"id"`
	BatchNumber     string          `json:"batchNumber" db:"batch_number"`
	Title           string          `json:"title" db:"title"`
	Description     string          `json:"description" db:"description"`
	Category        string          `json:"category" db:"category"`
	EstimatedWeight decimal.Decimal `json:"estimatedWeightKg" db:"estimated_weight_kg"`
	StorageLocation string          `json:"storageLocation" db:"storage_location"`
	Status          string          `json:"status" db:"status"`
	CreatorId       uuid.UUID       `json:"creatorId" db:"creator_id"`
	CreatedAt       string          `json:"createdAt" db:"created_at"`
	Media           []BatchMedium   `json:"media"`
}

// db model, one row per medium category present in the batch
type BatchMedium struct {
	Medium   string `json:"medium" db:"medium"`
	Quantity int    `json:"quantity" db:"quantity"`
}

// service + repo input model
type CreateBatchInput struct {
	Title           string
	Description     string
	Category        string
	EstimatedWeight decimal.Decimal
	StorageLocation string
	CreatorId       string
	Media           []BatchMedium
	BatchNumber     string // should be set by the service
	// Id UUID sets automatically
	// Status starts as "draft"
	// CreatedAt sets automatically
}

// controller model
type BatchOutputModel struct {
	Id              string        `json:"id"`
	BatchNumber     string        `json:"batchNumber"`
	Title           string        `json:"title"`
	Description     string        `json:"description"`
	Category        string        `json:"category"`
	EstimatedWeight string        `json:"estimatedWeightKg,omitempty"`
	StorageLocation string        `json:"storageLocation,omitempty"`
	Status          string        `json:"status"`
	CreatorId       string        `json:"creatorId"`
	CreatedAt       string        `json:"createdAt"`
	Media           []BatchMedium `json:"media"`
}

package api

import (
	"github.com/starford/typegen/internal/bindingservice"
	"github.com/starford/typegen/internal/models"
)

// GenerateRequest is the request body for triggering a run.
type GenerateRequest struct {
	Force bool `json:"force" example:"false"`
}

// ContractListResponse wraps the contract catalog.
type ContractListResponse struct {
	Contracts []models.Contract `json:"contracts" validate:"required"`
	Total     int               `json:"total" example:"42" validate:"required"`
}

// ContractDetail is the single contract response type (aliased from the domain layer).
type ContractDetail = bindingservice.ContractDetail

// Binding is the generated source response type (aliased from the domain layer).
type Binding = bindingservice.Binding

// ArtifactListResponse wraps the artifacts consumed by the last run.
type ArtifactListResponse struct {
	Artifacts []models.ArtifactRecord `json:"artifacts" validate:"required"`
}

// GenerateResponse summarises a triggered run.
type GenerateResponse struct {
	Run       models.Run `json:"run" validate:"required"`
	Skipped   bool       `json:"skipped"`
	Written   []string   `json:"written"`
	Unchanged int        `json:"unchanged"`
	Deleted   []string   `json:"deleted"`
}

// Package models defines the domain types shared by typegen packages.
package models

import "time"

// File is one generated output unit.
type File struct {
	Path     string `json:"path"`
	Contents string `json:"-"`
}

// ArtifactMetadata is a lightweight representation returned by artifact listings.
type ArtifactMetadata struct {
	Path      string    `json:"path"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ContractState is the position of a contract name in the pairing state machine.
type ContractState string

const (
	StateInterfaceOnly    ContractState = "interface_only"
	StateCodeOnly         ContractState = "code_only"
	StateComplete         ContractState = "complete"
	StateAbstractComplete ContractState = "abstract_complete"
)

// Contract describes the generated bindings of one contract.
type Contract struct {
	Name      string        `json:"name"`
	State     ContractState `json:"state"`
	Typings   string        `json:"typings"`
	Factory   string        `json:"factory"`
	RunID     string        `json:"run_id,omitempty"`
	UpdatedAt time.Time     `json:"updated_at"`
}

// ArtifactRecord is an artifact seen by the last generation pass.
type ArtifactRecord struct {
	Path      string    `json:"path"`
	Kind      string    `json:"kind"`
	Contract  string    `json:"contract,omitempty"`
	Checksum  string    `json:"checksum"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Run summarises one completed generation pass.
type Run struct {
	ID          string    `json:"id"`
	Fingerprint string    `json:"fingerprint"`
	StartedAt   time.Time `json:"started_at"`
	FinishedAt  time.Time `json:"finished_at"`
	Forced      bool      `json:"forced"`
	Artifacts   int       `json:"artifacts"`
	Files       int       `json:"files"`
	Written     int       `json:"written"`
	Deleted     int       `json:"deleted"`
	Contracts   int       `json:"contracts"`
}

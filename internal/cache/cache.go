package cache

import "github.com/starford/typegen/internal/models"

// Ledger defines the interface for persisted generation state.
// Consumers should depend on this interface rather than the concrete *DB type
// to facilitate testing with mocks.
type Ledger interface {
	SaveRun(run models.Run, artifacts []models.ArtifactRecord, outputs map[string]string, contracts []models.Contract) error
	LatestRun() (*models.Run, error)
	OutputChecksums() (map[string]string, error)
	ListArtifacts() ([]models.ArtifactRecord, error)
	ListContracts() ([]models.Contract, error)
	GetContract(name string) (*models.Contract, error)
	Close() error
}

// Verify *DB satisfies Ledger at compile time.
var _ Ledger = (*DB)(nil)

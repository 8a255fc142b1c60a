// Package bindingservice exposes generated bindings and generation runs to
// the HTTP and MCP surfaces.
package bindingservice

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"path"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/checksum"
	"github.com/starford/typegen/internal/generator"
	"github.com/starford/typegen/internal/models"
	"github.com/starford/typegen/internal/storage"
)

// Binding kinds accepted by ReadBinding.
const (
	KindTypings = "typings"
	KindFactory = "factory"
)

// Binding is the content of one generated file.
type Binding struct {
	Contract string `json:"contract"`
	Kind     string `json:"kind"`
	Path     string `json:"path"`
	Checksum string `json:"checksum"`
	Content  string `json:"content"`
}

// ContractDetail is a catalog entry enriched with the on-disk state of its
// files.
type ContractDetail struct {
	models.Contract
	OutDir        string `json:"out_dir"`
	TypingsExists bool   `json:"typings_exists"`
	FactoryExists bool   `json:"factory_exists"`
}

// RunNotifier is told about every run started through the service.
type RunNotifier func(report *generator.Report, err error)

// Service coordinates the generator and the output tree.
type Service struct {
	gen    *generator.Generator
	out    storage.Provider
	outDir string
	notify RunNotifier
}

// NewService creates a new binding service. notify may be nil.
func NewService(gen *generator.Generator, out storage.Provider, outDir string, notify RunNotifier) *Service {
	return &Service{gen: gen, out: out, outDir: outDir, notify: notify}
}

// OutDir returns the configured output directory.
func (s *Service) OutDir() string {
	return s.outDir
}

// ListContracts returns the contract catalog of the last run.
func (s *Service) ListContracts(_ context.Context) ([]models.Contract, error) {
	contracts, err := s.gen.Contracts()
	if err != nil {
		return nil, err
	}
	return nonNilSlice(contracts), nil
}

// GetContract returns one catalog entry by name.
func (s *Service) GetContract(_ context.Context, name string) (*ContractDetail, error) {
	c, err := s.gen.Contract(name)
	if err != nil {
		return nil, err
	}
	d := &ContractDetail{Contract: *c, OutDir: s.outDir}
	if d.TypingsExists, err = s.out.Exists(c.Typings); err != nil {
		return nil, err
	}
	if d.FactoryExists, err = s.out.Exists(c.Factory); err != nil {
		return nil, err
	}
	return d, nil
}

// ReadBinding returns the typings or factory source of a contract.
func (s *Service) ReadBinding(_ context.Context, name, kind string) (*Binding, error) {
	c, err := s.gen.Contract(name)
	if err != nil {
		return nil, err
	}
	var p string
	switch kind {
	case KindTypings, "":
		kind, p = KindTypings, c.Typings
	case KindFactory:
		p = c.Factory
	default:
		return nil, fmt.Errorf("%w: kind must be %q or %q", apperr.ErrInvalidInput, KindTypings, KindFactory)
	}
	data, err := s.out.Read(p)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, apperr.ErrNotFound
		}
		return nil, err
	}
	return &Binding{
		Contract: c.Name,
		Kind:     kind,
		Path:     path.Join(s.outDir, p),
		Checksum: checksum.Sum(data),
		Content:  string(data),
	}, nil
}

// Generate runs a pass and notifies the registered notifier.
func (s *Service) Generate(ctx context.Context, force bool) (*generator.Report, error) {
	report, err := s.gen.Generate(ctx, force)
	if s.notify != nil {
		s.notify(report, err)
	}
	return report, err
}

// LatestRun returns the last completed run.
func (s *Service) LatestRun(_ context.Context) (*models.Run, error) {
	return s.gen.LatestRun()
}

// Artifacts returns the artifacts consumed by the last run.
func (s *Service) Artifacts(_ context.Context) ([]models.ArtifactRecord, error) {
	records, err := s.gen.Artifacts()
	if err != nil {
		return nil, err
	}
	return nonNilSlice(records), nil
}

func nonNilSlice[T any](s []T) []T {
	if s == nil {
		return []T{}
	}
	return s
}

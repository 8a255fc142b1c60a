// Package generator runs generation passes over an artifact directory:
// discovery, pairing, emission, finalization, then writing the output set
// and recording it in the ledger.
package generator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/artifact"
	"github.com/starford/typegen/internal/cache"
	"github.com/starford/typegen/internal/checksum"
	"github.com/starford/typegen/internal/models"
	"github.com/starford/typegen/internal/pipeline"
	"github.com/starford/typegen/internal/storage"
)

// Config tunes the bindings produced by each pass.
type Config struct {
	AlwaysGenerateOverloads bool
	Environment             string
}

// Report describes the outcome of one Generate call.
type Report struct {
	Run       models.Run
	Skipped   bool
	Written   []string
	Unchanged []string
	Deleted   []string
	Contracts []models.Contract
}

// Generator serialises passes over one artifact tree and one output tree.
type Generator struct {
	cfg       Config
	artifacts storage.Provider
	out       storage.Provider
	ledger    cache.Ledger // nil keeps state in memory only
	logger    *slog.Logger

	runMu sync.Mutex

	mu        sync.RWMutex
	last      *models.Run
	outputs   map[string]string
	records   []models.ArtifactRecord
	contracts []models.Contract
}

// New creates a generator. ledger may be nil.
func New(cfg Config, artifacts, out storage.Provider, ledger cache.Ledger, logger *slog.Logger) *Generator {
	if logger == nil {
		logger = slog.Default()
	}
	return &Generator{
		cfg:       cfg,
		artifacts: artifacts,
		out:       out,
		ledger:    ledger,
		logger:    logger,
		outputs:   make(map[string]string),
	}
}

// Generate runs one pass. Unless force is set, a pass whose artifacts and
// options match the previous run and whose outputs are all still present is
// skipped. A malformed artifact aborts the pass before anything is written.
func (g *Generator) Generate(ctx context.Context, force bool) (*Report, error) {
	g.runMu.Lock()
	defer g.runMu.Unlock()

	started := time.Now().UTC()
	metas, err := g.artifacts.List("", artifact.IsArtifact)
	if err != nil {
		return nil, fmt.Errorf("generator: discover artifacts: %w", err)
	}
	sums := make(map[string]string, len(metas))
	for _, m := range metas {
		sums[m.Path] = m.Checksum
	}
	fingerprint := checksum.Sum([]byte(fmt.Sprintf("%s|overloads=%t|env=%s",
		checksum.Set(sums), g.cfg.AlwaysGenerateOverloads, g.cfg.Environment)))

	prev, prevOutputs, err := g.previous()
	if err != nil {
		return nil, err
	}
	if !force && prev != nil && prev.Fingerprint == fingerprint && g.intact(prevOutputs) {
		contracts, err := g.Contracts()
		if err != nil {
			return nil, err
		}
		g.logger.Debug("generator: artifacts unchanged, run skipped", slog.String("run_id", prev.ID))
		return &Report{Run: *prev, Skipped: true, Contracts: contracts}, nil
	}

	p := pipeline.New(pipeline.Config{
		AlwaysGenerateOverloads: g.cfg.AlwaysGenerateOverloads,
		Environment:             g.cfg.Environment,
	}, g.logger)

	// Later files for the same path replace earlier ones.
	files := orderedmap.New[string, string]()
	records := make([]models.ArtifactRecord, 0, len(metas))
	for _, m := range metas {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		data, err := g.artifacts.Read(m.Path)
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		emitted, err := p.Transform(artifact.Artifact{Path: m.Path, Contents: data})
		if err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		for _, f := range emitted {
			files.Set(f.Path, f.Contents)
		}
		name, _ := artifact.ContractName(m.Path)
		records = append(records, models.ArtifactRecord{
			Path:      m.Path,
			Kind:      artifact.KindOf(m.Path).String(),
			Contract:  name,
			Checksum:  m.Checksum,
			UpdatedAt: m.UpdatedAt,
		})
	}
	final, err := p.Finalize()
	if err != nil {
		return nil, fmt.Errorf("generator: finalize: %w", err)
	}
	for _, f := range final {
		files.Set(f.Path, f.Contents)
	}

	report := &Report{}
	outputs := make(map[string]string, files.Len())
	for pair := files.Oldest(); pair != nil; pair = pair.Next() {
		content := []byte(pair.Value)
		sum := checksum.Sum(content)
		outputs[pair.Key] = sum
		if existing, err := g.out.Read(pair.Key); err == nil && checksum.Sum(existing) == sum {
			report.Unchanged = append(report.Unchanged, pair.Key)
			continue
		}
		if err := g.out.Write(pair.Key, content); err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
		report.Written = append(report.Written, pair.Key)
	}

	for stale := range prevOutputs {
		if _, ok := outputs[stale]; ok {
			continue
		}
		exists, err := g.out.Exists(stale)
		if err != nil || !exists {
			continue
		}
		if err := g.out.Delete(stale); err != nil {
			g.logger.Warn("generator: delete stale output failed", slog.String("path", stale), slog.String("error", err.Error()))
			continue
		}
		report.Deleted = append(report.Deleted, stale)
	}
	sort.Strings(report.Deleted)

	finished := time.Now().UTC()
	run := models.Run{
		ID:          uuid.NewString(),
		Fingerprint: fingerprint,
		StartedAt:   started,
		FinishedAt:  finished,
		Forced:      force,
		Artifacts:   len(metas),
		Files:       files.Len(),
		Written:     len(report.Written),
		Deleted:     len(report.Deleted),
	}
	contracts := p.Contracts()
	for i := range contracts {
		contracts[i].RunID = run.ID
		contracts[i].UpdatedAt = finished
	}
	run.Contracts = len(contracts)

	if g.ledger != nil {
		if err := g.ledger.SaveRun(run, records, outputs, contracts); err != nil {
			return nil, fmt.Errorf("generator: %w", err)
		}
	}
	g.mu.Lock()
	g.last = &run
	g.outputs = outputs
	g.records = records
	g.contracts = contracts
	g.mu.Unlock()

	report.Run = run
	report.Contracts = contracts
	g.logger.Info("generator: run complete",
		slog.String("run_id", run.ID),
		slog.Int("artifacts", run.Artifacts),
		slog.Int("files", run.Files),
		slog.Int("written", run.Written),
		slog.Int("deleted", run.Deleted),
		slog.Int("contracts", run.Contracts),
		slog.Duration("took", finished.Sub(started)))
	return report, nil
}

// previous returns the last run and its outputs, preferring the ledger so
// state survives restarts.
func (g *Generator) previous() (*models.Run, map[string]string, error) {
	if g.ledger == nil {
		g.mu.RLock()
		defer g.mu.RUnlock()
		return g.last, g.outputs, nil
	}
	run, err := g.ledger.LatestRun()
	if errors.Is(err, apperr.ErrNotFound) {
		return nil, nil, nil
	}
	if err != nil {
		return nil, nil, fmt.Errorf("generator: %w", err)
	}
	outputs, err := g.ledger.OutputChecksums()
	if err != nil {
		return nil, nil, fmt.Errorf("generator: %w", err)
	}
	return run, outputs, nil
}

// intact reports whether every recorded output still exists.
func (g *Generator) intact(outputs map[string]string) bool {
	for p := range outputs {
		if ok, err := g.out.Exists(p); err != nil || !ok {
			return false
		}
	}
	return true
}

// LatestRun returns the last completed run.
func (g *Generator) LatestRun() (*models.Run, error) {
	if g.ledger != nil {
		return g.ledger.LatestRun()
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.last == nil {
		return nil, apperr.ErrNotFound
	}
	run := *g.last
	return &run, nil
}

// Contracts returns the contract catalog of the last run in index order.
func (g *Generator) Contracts() ([]models.Contract, error) {
	if g.ledger != nil {
		return g.ledger.ListContracts()
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]models.Contract(nil), g.contracts...), nil
}

// Contract returns one contract of the last run by name.
func (g *Generator) Contract(name string) (*models.Contract, error) {
	if g.ledger != nil {
		return g.ledger.GetContract(name)
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	for _, c := range g.contracts {
		if c.Name == name {
			c := c
			return &c, nil
		}
	}
	return nil, apperr.ErrNotFound
}

// Artifacts returns the artifacts consumed by the last run.
func (g *Generator) Artifacts() ([]models.ArtifactRecord, error) {
	if g.ledger != nil {
		return g.ledger.ListArtifacts()
	}
	g.mu.RLock()
	defer g.mu.RUnlock()
	return append([]models.ArtifactRecord(nil), g.records...), nil
}

package pipeline

import (
	"log/slog"
	"path"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/codegen"
	"github.com/starford/typegen/internal/models"
)

// Finalize runs once after the artifact stream is exhausted. It emits an
// abstract factory for every interface that never met its bytecode, the
// shared helper types, the re-export index and, for hardhat, the runtime
// type augmentation.
func (p *Pipeline) Finalize() ([]models.File, error) {
	if p.finalized {
		return nil, apperr.ErrFinalized
	}
	p.finalized = true

	var files []models.File
	for _, name := range p.codeOrder {
		pending := p.awaitingCode[name]
		f, err := p.abstractFactoryFile(pending.Contract, pending.RawABI)
		if err != nil {
			return nil, err
		}
		files = append(files, f)
	}

	for name := range p.awaitingInterface {
		p.logger.Warn("pipeline: bytecode without interface, no bindings generated", slog.String("contract", name))
	}

	files = append(files, models.File{Path: path.Join(p.cfg.OutDir, "common.d.ts"), Contents: codegen.Common()})

	names := p.KnownContracts()
	index, err := codegen.Index(names)
	if err != nil {
		return nil, err
	}
	files = append(files, models.File{Path: path.Join(p.cfg.OutDir, "index.ts"), Contents: index})

	if p.cfg.Environment == EnvironmentHardhat {
		helper, err := codegen.HardhatHelper(names)
		if err != nil {
			return nil, err
		}
		files = append(files, models.File{Path: path.Join(p.cfg.OutDir, "hardhat.d.ts"), Contents: helper})
	}

	p.logger.Debug("pipeline: finalized",
		slog.Int("contracts", len(names)),
		slog.Int("abstract_factories", len(p.codeOrder)))
	return files, nil
}

// KnownContracts returns every contract name whose interface was seen,
// deduplicated with the first occurrence kept. Names are the output
// basenames, so two source paths normalizing to one name yield one entry.
func (p *Pipeline) KnownContracts() []string {
	unique := orderedmap.New[string, struct{}]()
	for _, name := range p.known {
		if _, ok := unique.Get(name); ok {
			continue
		}
		unique.Set(name, struct{}{})
	}
	out := make([]string, 0, unique.Len())
	for pair := unique.Oldest(); pair != nil; pair = pair.Next() {
		out = append(out, pair.Key)
	}
	return out
}

// Contracts reports the final state of every known contract.
func (p *Pipeline) Contracts() []models.Contract {
	names := p.KnownContracts()
	out := make([]models.Contract, 0, len(names))
	for _, name := range names {
		state, _ := p.State(name)
		out = append(out, models.Contract{
			Name:    name,
			State:   state,
			Typings: TypingsPath(p.cfg.OutDir, name),
			Factory: FactoryPath(p.cfg.OutDir, name),
		})
	}
	return out
}

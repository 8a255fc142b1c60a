// Package pipeline pairs contract interfaces with their bytecode across a
// stream of artifacts and emits the generated bindings.
//
// A Pipeline serves exactly one discovery pass. Artifacts are transformed one
// at a time; the pending maps are not safe for concurrent use.
package pipeline

import (
	"fmt"
	"log/slog"

	"github.com/starford/typegen/internal/abi"
	"github.com/starford/typegen/internal/apperr"
	"github.com/starford/typegen/internal/artifact"
	"github.com/starford/typegen/internal/models"
)

// Environment values.
const (
	EnvironmentNone    = ""
	EnvironmentHardhat = "hardhat"
)

// Config is read once at construction.
type Config struct {
	// OutDir prefixes every generated path.
	OutDir string
	// AlwaysGenerateOverloads is forwarded to the typings renderer.
	AlwaysGenerateOverloads bool
	// Environment selects host-tool integration files.
	Environment string
}

// AwaitingCode is an interface that has not met its bytecode yet.
type AwaitingCode struct {
	Contract *abi.Contract
	RawABI   []byte
}

// AwaitingInterface is bytecode that has not met its interface yet.
type AwaitingInterface struct {
	Bytecode *artifact.Bytecode
}

// Pipeline holds the state of one discovery pass.
type Pipeline struct {
	cfg    Config
	logger *slog.Logger

	awaitingCode      map[string]AwaitingCode
	awaitingInterface map[string]AwaitingInterface
	// codeOrder keeps the discovery order of awaitingCode keys.
	codeOrder []string
	known     []string
	completed map[string]struct{}
	finalized bool
}

// New creates a pipeline for a single pass.
func New(cfg Config, logger *slog.Logger) *Pipeline {
	if logger == nil {
		logger = slog.Default()
	}
	return &Pipeline{
		cfg:               cfg,
		logger:            logger,
		awaitingCode:      make(map[string]AwaitingCode),
		awaitingInterface: make(map[string]AwaitingInterface),
		completed:         make(map[string]struct{}),
	}
}

// Transform processes one artifact and returns the files it completes.
// Artifacts that carry no contract produce nothing. A malformed interface
// description is returned as an error wrapping apperr.ErrMalformedArtifact.
func (p *Pipeline) Transform(a artifact.Artifact) ([]models.File, error) {
	if p.finalized {
		return nil, apperr.ErrFinalized
	}

	switch a.Kind() {
	case artifact.KindCode:
		return p.transformCode(a)
	case artifact.KindCombined, artifact.KindInterface:
		return p.transformInterface(a)
	}
	return nil, nil
}

func (p *Pipeline) transformCode(a artifact.Artifact) ([]models.File, error) {
	bytecode := artifact.ExtractBytecode(a.Contents)
	if bytecode == nil {
		p.logger.Debug("pipeline: no bytecode, skipping", slog.String("path", a.Path))
		return nil, nil
	}
	name, err := artifact.ContractName(a.Path)
	if err != nil {
		return nil, err
	}

	if _, done := p.completed[name]; done {
		p.logger.Debug("pipeline: bytecode for completed contract, skipping", slog.String("contract", name), slog.String("path", a.Path))
		return nil, nil
	}

	pending, ok := p.awaitingCode[name]
	if !ok {
		p.awaitingInterface[name] = AwaitingInterface{Bytecode: bytecode}
		p.logger.Debug("pipeline: bytecode awaiting interface", slog.String("contract", name))
		return nil, nil
	}

	p.clearAwaitingCode(name)
	factory, err := p.factoryFile(pending.Contract, pending.RawABI, bytecode)
	if err != nil {
		return nil, err
	}
	p.completed[name] = struct{}{}
	p.logger.Debug("pipeline: paired bytecode with earlier interface", slog.String("contract", name))
	return []models.File{factory}, nil
}

func (p *Pipeline) transformInterface(a artifact.Artifact) ([]models.File, error) {
	rawABI, err := artifact.ExtractABI(a.Contents)
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", a.Path, err)
	}
	if rawABI == nil {
		p.logger.Debug("pipeline: no abi, skipping", slog.String("path", a.Path))
		return nil, nil
	}
	name, err := artifact.ContractName(a.Path)
	if err != nil {
		return nil, err
	}

	contract, err := abi.Parse(rawABI, name, artifact.ExtractDocumentation(a.Contents))
	if err != nil {
		return nil, fmt.Errorf("pipeline: %s: %w", a.Path, err)
	}
	p.known = append(p.known, name)

	typings, err := p.typingsFile(contract)
	if err != nil {
		return nil, err
	}

	bytecode := artifact.ExtractBytecode(a.Contents)
	if bytecode == nil {
		if cached, ok := p.awaitingInterface[name]; ok {
			bytecode = cached.Bytecode
		}
	}

	if bytecode == nil {
		// A completed name never goes back to pending.
		if _, done := p.completed[name]; done {
			p.logger.Debug("pipeline: interface for completed contract", slog.String("contract", name), slog.String("path", a.Path))
			return []models.File{typings}, nil
		}
		if _, ok := p.awaitingCode[name]; !ok {
			p.codeOrder = append(p.codeOrder, name)
		}
		p.awaitingCode[name] = AwaitingCode{Contract: contract, RawABI: rawABI}
		p.logger.Debug("pipeline: interface awaiting bytecode", slog.String("contract", name))
		return []models.File{typings}, nil
	}

	delete(p.awaitingInterface, name)
	p.clearAwaitingCode(name)
	factory, err := p.factoryFile(contract, rawABI, bytecode)
	if err != nil {
		return nil, err
	}
	p.completed[name] = struct{}{}
	return []models.File{typings, factory}, nil
}

func (p *Pipeline) clearAwaitingCode(name string) {
	if _, ok := p.awaitingCode[name]; !ok {
		return
	}
	delete(p.awaitingCode, name)
	for i, n := range p.codeOrder {
		if n == name {
			p.codeOrder = append(p.codeOrder[:i], p.codeOrder[i+1:]...)
			break
		}
	}
}

// AwaitingCodeNames returns contract names whose interface is waiting for
// bytecode, in discovery order.
func (p *Pipeline) AwaitingCodeNames() []string {
	return append([]string(nil), p.codeOrder...)
}

// AwaitingInterface reports whether bytecode for name is waiting for its interface.
func (p *Pipeline) AwaitingInterface(name string) bool {
	_, ok := p.awaitingInterface[name]
	return ok
}

// State returns where name currently sits in the pairing state machine.
// ok is false for names never seen.
func (p *Pipeline) State(name string) (state models.ContractState, ok bool) {
	if _, done := p.completed[name]; done {
		return models.StateComplete, true
	}
	if _, waiting := p.awaitingCode[name]; waiting {
		if p.finalized {
			return models.StateAbstractComplete, true
		}
		return models.StateInterfaceOnly, true
	}
	if _, waiting := p.awaitingInterface[name]; waiting {
		return models.StateCodeOnly, true
	}
	return "", false
}

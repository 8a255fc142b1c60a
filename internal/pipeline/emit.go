package pipeline

import (
	"path"

	"github.com/starford/typegen/internal/abi"
	"github.com/starford/typegen/internal/artifact"
	"github.com/starford/typegen/internal/codegen"
	"github.com/starford/typegen/internal/models"
)

// TypingsPath is where the typed interface of name is written.
func TypingsPath(outDir, name string) string {
	return path.Join(outDir, name+".d.ts")
}

// FactoryPath is where the factory of name is written, full or abstract.
func FactoryPath(outDir, name string) string {
	return path.Join(outDir, "factories", name+codegen.FactorySuffix+".ts")
}

func (p *Pipeline) typingsFile(c *abi.Contract) (models.File, error) {
	contents, err := codegen.Typings(c, codegen.Options{AlwaysGenerateOverloads: p.cfg.AlwaysGenerateOverloads})
	if err != nil {
		return models.File{}, err
	}
	return models.File{Path: TypingsPath(p.cfg.OutDir, c.Name), Contents: contents}, nil
}

func (p *Pipeline) factoryFile(c *abi.Contract, rawABI []byte, bytecode *artifact.Bytecode) (models.File, error) {
	contents, err := codegen.Factory(c, rawABI, bytecode)
	if err != nil {
		return models.File{}, err
	}
	return models.File{Path: FactoryPath(p.cfg.OutDir, c.Name), Contents: contents}, nil
}

func (p *Pipeline) abstractFactoryFile(c *abi.Contract, rawABI []byte) (models.File, error) {
	contents, err := codegen.AbstractFactory(c, rawABI)
	if err != nil {
		return models.File{}, err
	}
	return models.File{Path: FactoryPath(p.cfg.OutDir, c.Name), Contents: contents}, nil
}

// Package codegen renders TypeScript bindings (ethers v5 flavour) from
// contract models.
package codegen

import (
	"bytes"
	_ "embed"
	"encoding/json"
	"fmt"
	"strings"
	"text/template"

	"github.com/starford/typegen/internal/abi"
	"github.com/starford/typegen/internal/artifact"
)

// FactorySuffix is appended to contract names to form factory class and file names.
const FactorySuffix = "__factory"

//go:embed static/common.d.ts
var commonTypes string

// Options tune typings rendering.
type Options struct {
	// AlwaysGenerateOverloads emits signature-keyed members even for
	// functions that are not overloaded.
	AlwaysGenerateOverloads bool
}

var templates = template.Must(template.New("codegen").Funcs(template.FuncMap{
	"quote": quote,
	"jsdoc": jsdoc,
}).Parse(""))

func init() {
	template.Must(templates.New("typings").Parse(typingsTmpl))
	template.Must(templates.New("factory").Parse(factoryTmpl))
	template.Must(templates.New("abstract").Parse(abstractFactoryTmpl))
	template.Must(templates.New("index").Parse(indexTmpl))
	template.Must(templates.New("hardhat").Parse(hardhatTmpl))
}

// Typings renders the typed-interface declaration file of c.
func Typings(c *abi.Contract, opts Options) (string, error) {
	return render("typings", newTypingsView(c, opts))
}

type linkView struct {
	Key       string
	Reference string
}

type factoryView struct {
	Name          string
	Suffix        string
	ABI           string
	Bytecode      string
	Links         []linkView
	CtorParams    string
	CtorArgs      string
	CtorOverrides string
}

// Factory renders the deployable factory of c. bytecode must not be nil.
func Factory(c *abi.Contract, rawABI []byte, bytecode *artifact.Bytecode) (string, error) {
	if bytecode == nil {
		return "", fmt.Errorf("codegen: factory for %s: bytecode is required", c.Name)
	}
	abiJSON, err := prettyABI(rawABI)
	if err != nil {
		return "", fmt.Errorf("codegen: factory for %s: %w", c.Name, err)
	}

	v := factoryView{
		Name:          c.Name,
		Suffix:        FactorySuffix,
		ABI:           abiJSON,
		Bytecode:      bytecode.Object,
		CtorOverrides: "Overrides",
	}
	for _, ref := range bytecode.LinkReferences {
		key := ref.Name
		if key == "" {
			key = ref.Reference
		}
		v.Links = append(v.Links, linkView{Key: key, Reference: ref.Reference})
	}
	if ctor := c.Constructor; ctor != nil {
		v.CtorParams = inputParams(ctor.Inputs)
		var args strings.Builder
		for i, p := range ctor.Inputs {
			args.WriteString(paramName(p, i) + ", ")
		}
		v.CtorArgs = args.String()
		if ctor.IsPayable() {
			v.CtorOverrides = "PayableOverrides"
		}
	}
	return render("factory", v)
}

// AbstractFactory renders a factory that can only attach to deployed
// instances of c.
func AbstractFactory(c *abi.Contract, rawABI []byte) (string, error) {
	abiJSON, err := prettyABI(rawABI)
	if err != nil {
		return "", fmt.Errorf("codegen: abstract factory for %s: %w", c.Name, err)
	}
	return render("abstract", factoryView{Name: c.Name, Suffix: FactorySuffix, ABI: abiJSON})
}

// Common returns the shared helper declarations imported by every typings file.
func Common() string {
	return commonTypes
}

type namesView struct {
	Names  []string
	Suffix string
}

// Index renders the re-export index for names. names must already be unique.
func Index(names []string) (string, error) {
	return render("index", namesView{Names: names, Suffix: FactorySuffix})
}

// HardhatHelper renders the hardhat runtime augmentation resolving factory
// types from contract name literals.
func HardhatHelper(names []string) (string, error) {
	return render("hardhat", namesView{Names: names, Suffix: FactorySuffix})
}

func render(name string, data any) (string, error) {
	var buf bytes.Buffer
	if err := templates.ExecuteTemplate(&buf, name, data); err != nil {
		return "", fmt.Errorf("codegen: render %s: %w", name, err)
	}
	return buf.String(), nil
}

func prettyABI(raw []byte) (string, error) {
	var buf bytes.Buffer
	if err := json.Indent(&buf, raw, "", "  "); err != nil {
		return "", fmt.Errorf("indent abi: %w", err)
	}
	return buf.String(), nil
}

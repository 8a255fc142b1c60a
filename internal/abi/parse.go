package abi

import (
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	orderedmap "github.com/wk8/go-ordered-map/v2"

	"github.com/starford/typegen/internal/apperr"
)

type rawEntry struct {
	Type            string     `json:"type"`
	Name            string     `json:"name"`
	Inputs          []rawParam `json:"inputs"`
	Outputs         []rawParam `json:"outputs"`
	StateMutability string     `json:"stateMutability"`
	Constant        bool       `json:"constant"`
	Payable         bool       `json:"payable"`
	Anonymous       bool       `json:"anonymous"`
}

type rawParam struct {
	Name         string     `json:"name"`
	Type         string     `json:"type"`
	InternalType string     `json:"internalType"`
	Indexed      bool       `json:"indexed"`
	Components   []rawParam `json:"components"`
}

// Parse builds the contract model for name from a raw JSON ABI array.
// doc may be nil.
func Parse(raw []byte, name string, doc *Documentation) (*Contract, error) {
	var entries []rawEntry
	if err := json.Unmarshal(raw, &entries); err != nil {
		return nil, fmt.Errorf("%w: abi: %v", apperr.ErrMalformedArtifact, err)
	}

	c := &Contract{Name: name, Documentation: doc}
	functions := orderedmap.New[string, []Function]()
	events := orderedmap.New[string, []Event]()

	for i, e := range entries {
		switch e.Type {
		case "function", "":
			fn, err := parseFunction(e)
			if err != nil {
				return nil, fmt.Errorf("abi: entry %d (%s): %w", i, e.Name, err)
			}
			fn.Doc = methodDoc(doc, fn.Signature())
			overloads, _ := functions.Get(fn.Name)
			functions.Set(fn.Name, append(overloads, fn))
		case "constructor":
			fn, err := parseFunction(e)
			if err != nil {
				return nil, fmt.Errorf("abi: constructor: %w", err)
			}
			fn.Doc = methodDoc(doc, "constructor")
			c.Constructor = &fn
		case "fallback", "receive":
			fn := Function{Name: e.Type, StateMutability: mutability(e)}
			c.Fallback = &fn
		case "event":
			inputs, err := parseParams(e.Inputs)
			if err != nil {
				return nil, fmt.Errorf("abi: event %s: %w", e.Name, err)
			}
			ev := Event{Name: e.Name, Inputs: inputs, Anonymous: e.Anonymous}
			if doc != nil {
				if d, ok := doc.Events[ev.Signature()]; ok {
					ev.Doc = &d
				}
			}
			overloads, _ := events.Get(ev.Name)
			events.Set(ev.Name, append(overloads, ev))
		case "error":
			// custom errors are not part of the generated surface
		default:
			return nil, fmt.Errorf("%w: abi: unknown entry type %q", apperr.ErrMalformedArtifact, e.Type)
		}
	}

	for pair := functions.Oldest(); pair != nil; pair = pair.Next() {
		c.Functions = append(c.Functions, FunctionGroup{Name: pair.Key, Overloads: pair.Value})
	}
	for pair := events.Oldest(); pair != nil; pair = pair.Next() {
		c.Events = append(c.Events, EventGroup{Name: pair.Key, Overloads: pair.Value})
	}
	return c, nil
}

func parseFunction(e rawEntry) (Function, error) {
	inputs, err := parseParams(e.Inputs)
	if err != nil {
		return Function{}, err
	}
	outputs, err := parseParams(e.Outputs)
	if err != nil {
		return Function{}, err
	}
	return Function{
		Name:            e.Name,
		Inputs:          inputs,
		Outputs:         outputs,
		StateMutability: mutability(e),
	}, nil
}

// mutability falls back to the pre-0.5 constant/payable flags.
func mutability(e rawEntry) string {
	if e.StateMutability != "" {
		return e.StateMutability
	}
	switch {
	case e.Constant:
		return View
	case e.Payable:
		return Payable
	}
	return NonPayable
}

func methodDoc(doc *Documentation, sig string) *MemberDoc {
	if doc == nil {
		return nil
	}
	if d, ok := doc.Methods[sig]; ok {
		return &d
	}
	return nil
}

func parseParams(raw []rawParam) ([]Param, error) {
	out := make([]Param, 0, len(raw))
	for _, p := range raw {
		t, err := parseType(p.Type, p.Components, p.InternalType)
		if err != nil {
			return nil, err
		}
		out = append(out, Param{Name: p.Name, Type: t, Indexed: p.Indexed})
	}
	return out, nil
}

// parseType parses a solidity ABI type string.
func parseType(sol string, components []rawParam, internalType string) (Type, error) {
	sol = strings.TrimSpace(sol)
	if strings.HasSuffix(sol, "]") {
		open := strings.LastIndex(sol, "[")
		if open < 0 {
			return Type{}, fmt.Errorf("%w: abi: bad array type %q", apperr.ErrMalformedArtifact, sol)
		}
		size := -1
		if n := sol[open+1 : len(sol)-1]; n != "" {
			v, err := strconv.Atoi(n)
			if err != nil {
				return Type{}, fmt.Errorf("%w: abi: bad array size in %q", apperr.ErrMalformedArtifact, sol)
			}
			size = v
		}
		elemInternal := internalType
		if i := strings.LastIndex(elemInternal, "["); i >= 0 {
			elemInternal = elemInternal[:i]
		}
		elem, err := parseType(sol[:open], components, elemInternal)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindArray, Solidity: sol, Elem: &elem, Size: size}, nil
	}

	switch {
	case sol == "tuple":
		comps, err := parseParams(components)
		if err != nil {
			return Type{}, err
		}
		return Type{Kind: KindTuple, Solidity: sol, Components: comps, StructName: structName(internalType)}, nil
	case sol == "address" || sol == "address payable":
		return Type{Kind: KindAddress, Solidity: "address"}, nil
	case sol == "bool":
		return Type{Kind: KindBool, Solidity: sol}, nil
	case sol == "string":
		return Type{Kind: KindString, Solidity: sol}, nil
	case sol == "bytes":
		return Type{Kind: KindDynamicBytes, Solidity: sol}, nil
	case sol == "function":
		return Type{Kind: KindFixedBytes, Solidity: sol, Bits: 24 * 8}, nil
	case strings.HasPrefix(sol, "bytes"):
		n, err := strconv.Atoi(sol[len("bytes"):])
		if err != nil || n < 1 || n > 32 {
			return Type{}, fmt.Errorf("%w: abi: unknown type %q", apperr.ErrMalformedArtifact, sol)
		}
		return Type{Kind: KindFixedBytes, Solidity: sol, Bits: n * 8}, nil
	case strings.HasPrefix(sol, "uint"):
		bits, err := intBits(sol[len("uint"):])
		if err != nil {
			return Type{}, fmt.Errorf("%w: abi: unknown type %q", apperr.ErrMalformedArtifact, sol)
		}
		return Type{Kind: KindUint, Solidity: "uint" + strconv.Itoa(bits), Bits: bits}, nil
	case strings.HasPrefix(sol, "int"):
		bits, err := intBits(sol[len("int"):])
		if err != nil {
			return Type{}, fmt.Errorf("%w: abi: unknown type %q", apperr.ErrMalformedArtifact, sol)
		}
		return Type{Kind: KindInt, Solidity: "int" + strconv.Itoa(bits), Bits: bits}, nil
	}
	return Type{}, fmt.Errorf("%w: abi: unknown type %q", apperr.ErrMalformedArtifact, sol)
}

func intBits(s string) (int, error) {
	if s == "" {
		return 256, nil
	}
	bits, err := strconv.Atoi(s)
	if err != nil || bits < 8 || bits > 256 || bits%8 != 0 {
		return 0, fmt.Errorf("bad width %q", s)
	}
	return bits, nil
}

// structName turns "struct Lib.Position" into "Position".
func structName(internalType string) string {
	s, ok := strings.CutPrefix(internalType, "struct ")
	if !ok {
		return ""
	}
	if i := strings.LastIndex(s, "."); i >= 0 {
		s = s[i+1:]
	}
	return s
}

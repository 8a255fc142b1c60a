// Package abi builds a structured contract model from a JSON ABI.
package abi

import "strings"

// Contract is the parsed callable surface of a contract.
type Contract struct {
	Name          string
	Constructor   *Function
	Fallback      *Function
	Functions     []FunctionGroup
	Events        []EventGroup
	Documentation *Documentation
}

// FunctionGroup holds all overloads sharing a name, in ABI order.
type FunctionGroup struct {
	Name      string
	Overloads []Function
}

// EventGroup holds all overloads of an event name, in ABI order.
type EventGroup struct {
	Name      string
	Overloads []Event
}

// StateMutability values.
const (
	Pure       = "pure"
	View       = "view"
	NonPayable = "nonpayable"
	Payable    = "payable"
)

// Function is a single callable entry point.
type Function struct {
	Name            string
	Inputs          []Param
	Outputs         []Param
	StateMutability string
	Doc             *MemberDoc
}

// Signature returns the canonical signature, e.g. "transfer(address,uint256)".
func (f Function) Signature() string {
	return signature(f.Name, f.Inputs)
}

// IsConstant reports whether calling f never sends a transaction.
func (f Function) IsConstant() bool {
	return f.StateMutability == Pure || f.StateMutability == View
}

// IsPayable reports whether f accepts value.
func (f Function) IsPayable() bool {
	return f.StateMutability == Payable
}

// Event is a single event declaration.
type Event struct {
	Name      string
	Inputs    []Param
	Anonymous bool
	Doc       *MemberDoc
}

// Signature returns the canonical event signature.
func (e Event) Signature() string {
	return signature(e.Name, e.Inputs)
}

// Param is a named function, event or tuple component parameter.
type Param struct {
	Name    string
	Type    Type
	Indexed bool
}

// TypeKind classifies solidity types by how they map to TypeScript.
type TypeKind int

const (
	KindUnknown TypeKind = iota
	KindUint
	KindInt
	KindAddress
	KindBool
	KindFixedBytes
	KindDynamicBytes
	KindString
	KindArray
	KindTuple
)

// Type is a parsed solidity type.
type Type struct {
	Kind     TypeKind
	Solidity string
	// Bits is the integer width of int/uint types.
	Bits int
	// Elem is the element type of arrays.
	Elem *Type
	// Size is the fixed length of arrays, or -1 for dynamic arrays.
	Size int
	// Components are the members of tuples.
	Components []Param
	// StructName is the struct name from internalType, when known.
	StructName string
}

// Canonical returns the type as used in signatures; tuples are expanded.
func (t Type) Canonical() string {
	switch t.Kind {
	case KindTuple:
		parts := make([]string, len(t.Components))
		for i, c := range t.Components {
			parts[i] = c.Type.Canonical()
		}
		return "(" + strings.Join(parts, ",") + ")"
	case KindArray:
		suffix := t.Solidity[strings.LastIndex(t.Solidity, "["):]
		return t.Elem.Canonical() + suffix
	}
	return t.Solidity
}

// Documentation is the NatSpec documentation of a contract.
type Documentation struct {
	Title   string
	Author  string
	Details string
	Notice  string
	Methods map[string]MemberDoc
	Events  map[string]MemberDoc
}

// MemberDoc documents one function or event.
type MemberDoc struct {
	Details string            `json:"details"`
	Notice  string            `json:"notice"`
	Params  map[string]string `json:"params"`
}

func signature(name string, params []Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = p.Type.Canonical()
	}
	return name + "(" + strings.Join(parts, ",") + ")"
}

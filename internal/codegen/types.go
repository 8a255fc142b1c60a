package codegen

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/starford/typegen/internal/abi"
)

// inputType is the TypeScript type accepted when passing t to a contract.
func inputType(t abi.Type) string {
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		return "BigNumberish"
	case abi.KindAddress, abi.KindString:
		return "string"
	case abi.KindBool:
		return "boolean"
	case abi.KindFixedBytes, abi.KindDynamicBytes:
		return "BytesLike"
	case abi.KindArray:
		return inputType(*t.Elem) + "[]"
	case abi.KindTuple:
		return "{ " + structFields(t.Components, inputType) + " }"
	}
	return "any"
}

// outputType is the TypeScript type returned when t is decoded.
func outputType(t abi.Type) string {
	switch t.Kind {
	case abi.KindUint, abi.KindInt:
		if t.Bits <= 48 {
			return "number"
		}
		return "BigNumber"
	case abi.KindAddress, abi.KindString, abi.KindFixedBytes, abi.KindDynamicBytes:
		return "string"
	case abi.KindBool:
		return "boolean"
	case abi.KindArray:
		return outputType(*t.Elem) + "[]"
	case abi.KindTuple:
		return outputTuple(t.Components)
	}
	return "any"
}

// outputTuple renders ethers' Result shape: positional and named access.
func outputTuple(params []abi.Param) string {
	types := make([]string, len(params))
	for i, p := range params {
		types[i] = outputType(p.Type)
	}
	tuple := "[" + strings.Join(types, ", ") + "]"
	if !allNamed(params) {
		return tuple
	}
	return tuple + " & { " + structFields(params, outputType) + " }"
}

func structFields(params []abi.Param, conv func(abi.Type) string) string {
	fields := make([]string, len(params))
	for i, p := range params {
		fields[i] = fmt.Sprintf("%s: %s", paramName(p, i), conv(p.Type))
	}
	return strings.Join(fields, "; ")
}

func allNamed(params []abi.Param) bool {
	for _, p := range params {
		if p.Name == "" {
			return false
		}
	}
	return len(params) > 0
}

var identUnsafeRe = regexp.MustCompile(`[^A-Za-z0-9_$]`)

// reserved words that cannot be used as parameter names.
var reserved = map[string]struct{}{
	"break": {}, "case": {}, "catch": {}, "class": {}, "const": {}, "continue": {},
	"default": {}, "delete": {}, "do": {}, "else": {}, "enum": {}, "export": {},
	"extends": {}, "false": {}, "finally": {}, "for": {}, "function": {}, "if": {},
	"import": {}, "in": {}, "instanceof": {}, "new": {}, "null": {}, "return": {},
	"super": {}, "switch": {}, "this": {}, "throw": {}, "true": {}, "try": {},
	"typeof": {}, "var": {}, "void": {}, "while": {}, "with": {}, "overrides": {},
}

func paramName(p abi.Param, i int) string {
	name := identUnsafeRe.ReplaceAllString(p.Name, "_")
	if name == "" {
		return fmt.Sprintf("arg%d", i)
	}
	if _, ok := reserved[name]; ok {
		return "_" + name
	}
	return name
}

// identSuffix turns a signature into a name fragment, e.g.
// "Transfer(address,uint256)" -> "address_uint256".
func identSuffix(params []abi.Param) string {
	parts := make([]string, len(params))
	for i, p := range params {
		parts[i] = identUnsafeRe.ReplaceAllString(p.Type.Canonical(), "_")
	}
	return strings.Join(parts, "_")
}

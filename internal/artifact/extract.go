package artifact

import (
	"bytes"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/buger/jsonparser"

	"github.com/starford/typegen/internal/abi"
	"github.com/starford/typegen/internal/apperr"
)

var (
	bytecodeRe    = regexp.MustCompile(`^(0x)?(([0-9a-fA-F][0-9a-fA-F])|(__[$0-9a-zA-Z_]{36}__))+$`)
	placeholderRe = regexp.MustCompile(`__[$0-9a-zA-Z_]{36}__`)
)

// placeholderLen is the length of a library placeholder in hex characters.
const placeholderLen = 40

// LinkReference is an unlinked library placeholder inside bytecode.
type LinkReference struct {
	// Reference is the literal placeholder to substitute with the library address.
	Reference string
	// Name is the library name when it can be recovered, otherwise empty.
	Name string
}

// Bytecode is deployable code with its unresolved library references.
type Bytecode struct {
	// Object is the hex code without the 0x prefix.
	Object         string
	LinkReferences []LinkReference
}

// ExtractABI returns the raw ABI array carried by contents. It returns nil
// when contents is valid JSON but carries no ABI or an empty one, and
// apperr.ErrMalformedArtifact when contents is not JSON.
func ExtractABI(contents []byte) ([]byte, error) {
	data := bytes.TrimSpace(contents)
	if len(data) == 0 || !json.Valid(data) {
		return nil, fmt.Errorf("%w: not a json", apperr.ErrMalformedArtifact)
	}

	var raw []byte
	switch {
	case data[0] == '[':
		raw = data
	default:
		for _, keys := range [][]string{{"abi"}, {"compilerOutput", "abi"}} {
			v, typ, _, err := jsonparser.Get(data, keys...)
			if err == nil && typ == jsonparser.Array {
				raw = v
				break
			}
		}
	}
	if raw == nil || arrayLen(raw) == 0 {
		return nil, nil
	}
	return raw, nil
}

// ExtractBytecode returns the deployable code carried by contents, or nil
// when there is none. Both raw hex files and the JSON shapes emitted by
// solc, hardhat and truffle are understood.
func ExtractBytecode(contents []byte) *Bytecode {
	text := strings.TrimSpace(string(contents))
	if bytecodeRe.MatchString(text) {
		return newBytecode(text, nil)
	}

	data := []byte(text)
	if !json.Valid(data) {
		return nil
	}

	if obj, err := jsonparser.GetString(data, "bytecode", "object"); err == nil && bytecodeRe.MatchString(obj) {
		refs, _, _, _ := jsonparser.Get(data, "bytecode", "linkReferences")
		return newBytecode(obj, refs)
	}
	if obj, err := jsonparser.GetString(data, "bytecode"); err == nil && bytecodeRe.MatchString(obj) {
		refs, _, _, _ := jsonparser.Get(data, "linkReferences")
		return newBytecode(obj, refs)
	}
	if obj, err := jsonparser.GetString(data, "evm", "bytecode", "object"); err == nil && bytecodeRe.MatchString(obj) {
		refs, _, _, _ := jsonparser.Get(data, "evm", "bytecode", "linkReferences")
		return newBytecode(obj, refs)
	}
	return nil
}

// ExtractDocumentation returns the NatSpec user and developer documentation
// found in a combined artifact, or nil when there is none.
func ExtractDocumentation(contents []byte) *abi.Documentation {
	data := bytes.TrimSpace(contents)
	if len(data) == 0 || data[0] != '{' {
		return nil
	}

	var doc abi.Documentation
	found := false

	if raw, typ, _, err := jsonparser.Get(data, "devdoc"); err == nil && typ == jsonparser.Object {
		var dev natspec
		if json.Unmarshal(raw, &dev) == nil {
			doc.Title = dev.Title
			doc.Author = dev.Author
			doc.Details = dev.Details
			doc.Methods = mergeDocs(doc.Methods, dev.Methods)
			doc.Events = mergeDocs(doc.Events, dev.Events)
			found = true
		}
	}
	if raw, typ, _, err := jsonparser.Get(data, "userdoc"); err == nil && typ == jsonparser.Object {
		var user natspec
		if json.Unmarshal(raw, &user) == nil {
			doc.Notice = user.Notice
			doc.Methods = mergeDocs(doc.Methods, user.Methods)
			doc.Events = mergeDocs(doc.Events, user.Events)
			found = true
		}
	}
	if !found {
		return nil
	}
	return &doc
}

type natspec struct {
	Title   string                   `json:"title"`
	Author  string                   `json:"author"`
	Details string                   `json:"details"`
	Notice  string                   `json:"notice"`
	Methods map[string]abi.MemberDoc `json:"methods"`
	Events  map[string]abi.MemberDoc `json:"events"`
}

func mergeDocs(dst, src map[string]abi.MemberDoc) map[string]abi.MemberDoc {
	if len(src) == 0 {
		return dst
	}
	if dst == nil {
		dst = make(map[string]abi.MemberDoc, len(src))
	}
	for sig, d := range src {
		cur := dst[sig]
		if d.Details != "" {
			cur.Details = d.Details
		}
		if d.Notice != "" {
			cur.Notice = d.Notice
		}
		if len(d.Params) > 0 {
			cur.Params = d.Params
		}
		dst[sig] = cur
	}
	return dst
}

// newBytecode strips the 0x prefix and collects library placeholders.
// linkRefs is the solc linkReferences object, mapping source file to library
// name to byte offsets, used to name hashed placeholders.
func newBytecode(code string, linkRefs []byte) *Bytecode {
	obj := strings.TrimPrefix(code, "0x")
	bc := &Bytecode{Object: obj}

	named := make(map[string]string)
	if len(linkRefs) > 0 {
		_ = jsonparser.ObjectEach(linkRefs, func(file []byte, libs []byte, _ jsonparser.ValueType, _ int) error {
			return jsonparser.ObjectEach(libs, func(lib []byte, offsets []byte, _ jsonparser.ValueType, _ int) error {
				_, _ = jsonparser.ArrayEach(offsets, func(off []byte, _ jsonparser.ValueType, _ int, _ error) {
					start, err := jsonparser.GetInt(off, "start")
					if err != nil {
						return
					}
					from := int(start) * 2
					if from < 0 || from+placeholderLen > len(obj) {
						return
					}
					named[obj[from:from+placeholderLen]] = string(file) + ":" + string(lib)
				})
				return nil
			})
		})
	}

	seen := make(map[string]struct{})
	for _, ref := range placeholderRe.FindAllString(obj, -1) {
		if _, ok := seen[ref]; ok {
			continue
		}
		seen[ref] = struct{}{}
		name := named[ref]
		if name == "" && !strings.HasPrefix(ref, "__$") {
			name = strings.Trim(ref, "_")
		}
		bc.LinkReferences = append(bc.LinkReferences, LinkReference{Reference: ref, Name: libraryName(name)})
	}
	return bc
}

// libraryName keeps the part after the last ':' of a fully qualified name.
func libraryName(qualified string) string {
	if i := strings.LastIndex(qualified, ":"); i >= 0 {
		return qualified[i+1:]
	}
	return qualified
}

func arrayLen(raw []byte) int {
	n := 0
	_, _ = jsonparser.ArrayEach(raw, func(_ []byte, _ jsonparser.ValueType, _ int, _ error) {
		n++
	})
	return n
}

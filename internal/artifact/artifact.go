// Package artifact classifies compiled-contract artifacts and extracts their
// ABI, bytecode and documentation.
package artifact

import (
	"fmt"
	"path"
	"regexp"
	"strings"
	"unicode"

	"github.com/starford/typegen/internal/apperr"
)

// Kind tells which halves of a contract an artifact carries.
type Kind int

const (
	KindUnknown Kind = iota
	// KindCombined carries the ABI and, usually, the bytecode (.json).
	KindCombined
	// KindInterface carries only the ABI (.abi).
	KindInterface
	// KindCode carries only the bytecode (.bin).
	KindCode
)

func (k Kind) String() string {
	switch k {
	case KindCombined:
		return "combined"
	case KindInterface:
		return "interface"
	case KindCode:
		return "code"
	default:
		return "unknown"
	}
}

// Artifact is a discovered file with its raw contents.
type Artifact struct {
	Path     string
	Contents []byte
}

// Kind classifies the artifact by its extension.
func (a Artifact) Kind() Kind {
	return KindOf(a.Path)
}

// KindOf classifies a path by extension. Hardhat debug files (*.dbg.json)
// are not artifacts.
func KindOf(p string) Kind {
	base := strings.ToLower(path.Base(filepathToSlash(p)))
	switch {
	case strings.HasSuffix(base, ".dbg.json"):
		return KindUnknown
	case strings.HasSuffix(base, ".json"):
		return KindCombined
	case strings.HasSuffix(base, ".abi"):
		return KindInterface
	case strings.HasSuffix(base, ".bin"):
		return KindCode
	}
	return KindUnknown
}

// IsArtifact reports whether p should be routed to the pipeline.
func IsArtifact(p string) bool {
	return KindOf(p) != KindUnknown
}

var (
	whitespaceRe    = regexp.MustCompile(`\s+`)
	dashLetterRe    = regexp.MustCompile(`-[a-z]`)
	leadingDigitsRe = regexp.MustCompile(`^\d+`)
)

// ContractName derives the contract name used as the pairing key from an
// artifact path: the extension-stripped base name, normalized into a valid
// TypeScript identifier.
func ContractName(p string) (string, error) {
	base := path.Base(filepathToSlash(p))
	raw := strings.TrimSuffix(base, path.Ext(base))
	name := NormalizeName(raw)
	if name == "" {
		return "", fmt.Errorf("%w: can't derive contract name from %q, please rename the file", apperr.ErrMalformedArtifact, p)
	}
	return name, nil
}

// NormalizeName turns a raw file stem into an identifier starting with an
// upper-case letter.
func NormalizeName(raw string) string {
	s := whitespaceRe.ReplaceAllString(raw, "-")
	s = strings.ReplaceAll(s, ".", "-")
	s = dashLetterRe.ReplaceAllStringFunc(s, func(m string) string {
		return strings.ToUpper(m[1:])
	})
	s = strings.ReplaceAll(s, "-", "")
	s = leadingDigitsRe.ReplaceAllString(s, "")
	if s == "" {
		return ""
	}
	r := []rune(s)
	r[0] = unicode.ToUpper(r[0])
	return string(r)
}

func filepathToSlash(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}

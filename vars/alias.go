// Package vars resolves free-text variable names into canonical
// identifiers and filters them against provider capabilities.
package vars

import (
	_ "embed"
	"fmt"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/mitraarka27/Meteo-Chat/core"
)

//go:embed aliases.yaml
var aliasYAML []byte

// aliasTable is the process-wide token -> canonical map, loaded once.
var aliasTable = mustLoadAliases(aliasYAML)

func mustLoadAliases(raw []byte) map[string]string {
	table := make(map[string]string)
	if err := yaml.Unmarshal(raw, &table); err != nil {
		panic(fmt.Sprintf("vars: embedded alias table is invalid: %v", err))
	}
	lowered := make(map[string]string, len(table))
	for k, v := range table {
		lowered[strings.ToLower(strings.TrimSpace(k))] = v
	}
	return lowered
}

// Resolve maps free-text variable tokens to canonical names. Lookup is
// case-insensitive and trimmed. Unknown tokens pass through verbatim so
// that capability filtering, not aliasing, is what rejects them. The
// result is deduplicated, order-preserving on first occurrence.
//
// The mode argument is accepted for mode-specific aliases later; the
// current table is mode-independent.
func Resolve(tokens []string, mode core.TimeMode) []string {
	_ = mode
	if len(tokens) == 0 {
		return nil
	}
	out := make([]string, 0, len(tokens))
	seen := make(map[string]struct{}, len(tokens))
	for _, tok := range tokens {
		key := strings.ToLower(strings.TrimSpace(tok))
		if key == "" {
			continue
		}
		canonical, ok := aliasTable[key]
		if !ok {
			canonical = key
		}
		if _, dup := seen[canonical]; dup {
			continue
		}
		seen[canonical] = struct{}{}
		out = append(out, canonical)
	}
	return out
}

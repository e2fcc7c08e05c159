package vars

import (
	"encoding/json"
	"strings"

	"github.com/mitraarka27/Meteo-Chat/core"
)

// Capabilities is the normalized provider capability set: lowercase
// variable names per time mode, plus the union across all modes. It is
// built once per query session at the boundary; lookups never touch the
// raw document again.
type Capabilities struct {
	byMode map[core.TimeMode]map[string]struct{}
	all    map[string]struct{}
}

// capabilityDoc matches the outer shape of /describe_capabilities.
type capabilityDoc struct {
	Variables json.RawMessage `json:"variables"`
}

// ParseCapabilities normalizes a raw capability document. Three shapes
// are accepted:
//
//	{"variables": {"forecast": [...], "historical": [...]}}
//	{"variables": ["temperature_2m", ...]}
//	{"variables": [{"id": "..."} | {"name": "..."} | {"variable": "..."}]}
//
// A malformed or empty document yields an empty set, which the filter
// treats as "keep everything" so the failure surfaces downstream as a
// provider error instead of a silent drop.
func ParseCapabilities(doc json.RawMessage) Capabilities {
	caps := Capabilities{
		byMode: make(map[core.TimeMode]map[string]struct{}),
		all:    make(map[string]struct{}),
	}
	if len(doc) == 0 {
		return caps
	}

	var outer capabilityDoc
	if err := json.Unmarshal(doc, &outer); err != nil || len(outer.Variables) == 0 {
		return caps
	}

	// Dict-of-lists: per-mode variable lists.
	var perMode map[string]json.RawMessage
	if err := json.Unmarshal(outer.Variables, &perMode); err == nil {
		for mode, raw := range perMode {
			set := collectNames(raw)
			caps.byMode[core.TimeMode(mode)] = set
			for name := range set {
				caps.all[name] = struct{}{}
			}
		}
		return caps
	}

	// Flat list of strings or descriptors, applying to all modes.
	caps.all = collectNames(outer.Variables)
	return caps
}

// collectNames extracts lowercase variable names from a JSON list of
// strings or descriptor objects (id, then name, then variable).
func collectNames(raw json.RawMessage) map[string]struct{} {
	set := make(map[string]struct{})
	var items []json.RawMessage
	if err := json.Unmarshal(raw, &items); err != nil {
		return set
	}
	for _, item := range items {
		var s string
		if err := json.Unmarshal(item, &s); err == nil {
			if s != "" {
				set[strings.ToLower(s)] = struct{}{}
			}
			continue
		}
		var desc struct {
			ID       string `json:"id"`
			Name     string `json:"name"`
			Variable string `json:"variable"`
		}
		if err := json.Unmarshal(item, &desc); err != nil {
			continue
		}
		name := desc.ID
		if name == "" {
			name = desc.Name
		}
		if name == "" {
			name = desc.Variable
		}
		if name != "" {
			set[strings.ToLower(name)] = struct{}{}
		}
	}
	return set
}

// Supported returns the lookup set for a mode: the explicit per-mode
// entry when the document declares one, otherwise the union of all
// declared modes.
func (c Capabilities) Supported(mode core.TimeMode) map[string]struct{} {
	if set, ok := c.byMode[mode]; ok {
		return set
	}
	return c.all
}

// Filter partitions variables into (kept, dropped) against the
// capability set for the given mode. Matching is case-insensitive and
// both sequences preserve input order.
//
// Two deliberate escape hatches: an empty supported set keeps the full
// input untouched, and when filtering would drop every variable the
// original list is restored so the provider can produce a diagnosable
// error instead of receiving an empty request.
func Filter(caps Capabilities, variables []string, mode core.TimeMode) (kept, dropped []string) {
	supported := caps.Supported(mode)
	if len(supported) == 0 {
		return variables, []string{}
	}

	kept = make([]string, 0, len(variables))
	dropped = make([]string, 0)
	for _, v := range variables {
		if _, ok := supported[strings.ToLower(v)]; ok {
			kept = append(kept, v)
		} else {
			dropped = append(dropped, v)
		}
	}
	if len(kept) == 0 {
		return variables, dropped
	}
	return kept, dropped
}

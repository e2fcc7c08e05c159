package writer

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/mitraarka27/Meteo-Chat/core"
)

// Extract parses raw text from a generative backend into a
// StructuredAnswer. It tries a direct JSON parse, then the first
// brace-balanced substring, and finally falls back to the minimal
// valid empty answer. The boolean reports whether any JSON was
// recovered.
func Extract(raw string) (core.StructuredAnswer, bool) {
	trimmed := strings.TrimSpace(raw)

	if ans, ok := parseAnswer(trimmed); ok {
		return ans, true
	}
	if obj, ok := firstJSONObject(trimmed); ok {
		if ans, ok := parseAnswer(obj); ok {
			return ans, true
		}
	}
	return core.EmptyAnswer(), false
}

func parseAnswer(s string) (core.StructuredAnswer, bool) {
	ans := core.EmptyAnswer()
	if err := json.Unmarshal([]byte(s), &ans); err != nil {
		return core.StructuredAnswer{}, false
	}
	// Missing keys stay at the empty defaults; present keys override.
	ans.Normalize()
	return ans, true
}

// firstJSONObject returns the first brace-balanced substring, tracking
// string literals so braces inside quoted text do not confuse the scan.
func firstJSONObject(s string) (string, bool) {
	start := strings.IndexByte(s, '{')
	if start < 0 {
		return "", false
	}
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(s); i++ {
		c := s[i]
		if inString {
			switch {
			case escaped:
				escaped = false
			case c == '\\':
				escaped = true
			case c == '"':
				inString = false
			}
			continue
		}
		switch c {
		case '"':
			inString = true
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return s[start : i+1], true
			}
		}
	}
	return "", false
}

// Text-cleanup patterns for model output shown to users: echoed role
// markers, internal commentary, disclaimer tails and hashtag runs.
var (
	answerMarkerRe  = regexp.MustCompile(`(?i)(assistant\s*\(answer only\)\s*:|answer only\s*:|\bassistant\s*:)`)
	userAskedRe     = regexp.MustCompile(`(?i)user asked.*`)
	assistantSaysRe = regexp.MustCompile(`(?i)assistant('?s)? response.*`)
	metaLineRe      = regexp.MustCompile(`(?i)\b(note|disclaimer|source|context|please note|knowledge cutoff)\b.*`)
	trailingTagsRe  = regexp.MustCompile(`(?:\s*#[\w-]+)+\s*$`)
	inlineTagRe     = regexp.MustCompile(`#\w+`)
)

// CleanText strips prompt echoes, commentary and hashtag noise from a
// narrative field. It is best-effort and never fails: if cleanup would
// erase a non-empty input entirely, the input is returned trimmed but
// otherwise unmodified.
func CleanText(raw string) string {
	if raw == "" {
		return ""
	}
	txt := strings.TrimSpace(raw)

	if locs := answerMarkerRe.FindAllStringIndex(txt, -1); len(locs) > 0 {
		txt = txt[locs[len(locs)-1][1]:]
	}
	txt = userAskedRe.ReplaceAllString(txt, "")
	txt = assistantSaysRe.ReplaceAllString(txt, "")
	txt = metaLineRe.ReplaceAllString(txt, "")
	txt = trailingTagsRe.ReplaceAllString(txt, "")
	txt = inlineTagRe.ReplaceAllString(txt, "")
	txt = strings.TrimSpace(txt)

	if txt == "" {
		return strings.TrimSpace(raw)
	}
	return txt
}

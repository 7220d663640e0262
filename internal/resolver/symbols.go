package resolver

import (
	"regexp"
	"strings"
)

// DefaultCorrections maps spreadsheet spellings (normalized: uppercased,
// decorations stripped) to the provider's spelling. These are the
// accumulated exceptions where the two never agree: local renames,
// composite share classes and series punctuation the provider writes
// differently.
var DefaultCorrections = map[string]string{
	"LIVEPOLC.1":   "LIVEPOLC-1.MX",
	"NAFTRACISHRS": "NAFTRAC.MX",
	"PE&OLES":      "PENOLES.MX",
	"MEXCHEM":      "ORBIA.MX", // renamed in 2019
	"GFNORTEO":     "GFNORTEO.MX",
}

// seriesMarker matches a trailing series segment like ".1" or ".B" that
// some sheets append to domestic symbols.
var seriesMarker = regexp.MustCompile(`\.[0-9A-Z]$`)

// Normalize canonicalizes a spreadsheet ticker: trims whitespace,
// uppercases, and strips the trailing '*' the local exchange uses to mark
// single-series issuers.
func Normalize(raw string) string {
	symbol := strings.ToUpper(strings.TrimSpace(raw))
	symbol = strings.TrimRight(symbol, "*")
	return strings.TrimSpace(symbol)
}

// stripDecorations removes the characters that never appear in provider
// symbols: ampersands, spaces and a trailing series marker. "PE&OLES"
// becomes "PEOLES", "LIVEPOLC.1" becomes "LIVEPOLC".
func stripDecorations(symbol string) string {
	stripped := strings.NewReplacer("&", "", " ", "").Replace(symbol)
	stripped = seriesMarker.ReplaceAllString(stripped, "")
	return stripped
}

// candidates builds the ordered symbol list tried against the provider:
//
//  1. the corrected/normalized symbol verbatim
//  2. the same symbol with the domestic exchange suffix
//  3. the decoration-stripped symbol with the suffix
//
// The order is a contract: the provider happily returns stale or wrong
// instruments for malformed symbols, so first-match-wins is the
// deliberate tie-break. Candidates that already carry the suffix are not
// suffixed again, and duplicates collapse.
func (r *Resolver) candidates(raw string) []string {
	normalized := Normalize(raw)
	if normalized == "" {
		return nil
	}

	corrected := normalized
	if fixed, ok := r.corrections[normalized]; ok {
		corrected = fixed
	}

	list := []string{corrected}
	if !strings.HasSuffix(corrected, r.suffix) {
		list = append(list, corrected+r.suffix)
	}
	if stripped := stripDecorations(corrected); stripped != "" && stripped != corrected {
		if !strings.HasSuffix(stripped, r.suffix) {
			stripped += r.suffix
		}
		list = append(list, stripped)
	}

	seen := make(map[string]bool, len(list))
	unique := list[:0]
	for _, symbol := range list {
		if !seen[symbol] {
			seen[symbol] = true
			unique = append(unique, symbol)
		}
	}
	return unique
}

package util

import "regexp"

// moduleCodePattern recognises code-like tokens such as CSCM69 or EGA205_A.
// This is a best-effort heuristic for text pasted from a module-selection
// table; it may pick up unrelated uppercase tokens.
var moduleCodePattern = regexp.MustCompile(`\b[A-Z]{2,8}[0-9]{2,4}(?:_[A-Z0-9]{1,4})?\b`)

// ExtractModuleCodes pulls module codes out of freeform multi-line text,
// deduplicated in order of first appearance.
func ExtractModuleCodes(text string) []string {
	seen := make(map[string]bool)
	var codes []string
	for _, code := range moduleCodePattern.FindAllString(text, -1) {
		if !seen[code] {
			seen[code] = true
			codes = append(codes, code)
		}
	}
	return codes
}

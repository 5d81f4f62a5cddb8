package opentimetables

import (
	"log"
	"strings"
)

// Match finds catalogue entries whose title contains one of the supplied
// codes, case-insensitively. A code matching several titles includes them
// all; narrowing is done by appending the occurrence suffix to the code
// (eg. "CSCM69_A"), which also matches entries whose occurrence is recorded
// in the catalogue rather than spelled out in the title. This matching is
// deliberately very basic.
func Match(codes []string, catalogue map[string]Module) map[string]Module {
	matched := make(map[string]Module)

	for _, code := range codes {
		needle := strings.ToLower(strings.TrimSpace(code))
		if needle == "" {
			continue
		}
		base, occurrence, hasOccurrence := strings.Cut(needle, "_")

		found := false
		for identity, module := range catalogue {
			title := strings.ToLower(module.Title)
			ok := strings.Contains(title, needle)
			if !ok && hasOccurrence {
				ok = strings.Contains(title, base) && strings.EqualFold(module.Occurrence, occurrence)
			}
			if ok {
				matched[identity] = module
				found = true
			}
		}
		if !found {
			log.Printf("Warning: module %q not found in the catalogue; skipping", code)
		}
	}

	return matched
}

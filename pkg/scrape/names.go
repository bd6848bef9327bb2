package scrape

import (
	"regexp"
	"strings"
)

// The source prints rider names as "First [Middle] LAST" with the last
// name segment in upper case. The last name is matched as the trailing
// run of:
//   - upper-case Latin letters, including the accented set seen in the
//     data (Á É Í Ó Ú Ñ Ø Ü Ä Ö)
//   - the infixes "Mc" and "Jr"
//   - apostrophes, hyphens and inner spaces
//
// optionally terminated by a period.
var lastNamePattern = regexp.MustCompile(
	` (?:Mc|Jr|[A-ZÁÉÍÓÚÑØÜÄÖ])(?:Mc|Jr|[A-ZÁÉÍÓÚÑØÜÄÖ'\- ])*\.?$`)

// SplitName splits a display name into its lower-cased first and last
// name segments. ok is false when no upper-case suffix matches or either
// segment is empty after trimming; such rows are skipped by ingestion.
func SplitName(displayName string) (first, last string, ok bool) {
	loc := lastNamePattern.FindStringIndex(displayName)
	if loc == nil {
		return "", "", false
	}
	last = strings.ToLower(strings.TrimSpace(displayName[loc[0]:loc[1]]))
	first = strings.ToLower(strings.TrimSpace(displayName[:loc[0]]))
	if first == "" || last == "" {
		return "", "", false
	}
	return first, last, true
}

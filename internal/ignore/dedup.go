package ignore

import "strings"

// IsCovered reports whether candidate is already implied by existing rules.
//
// Only two checks are made: a trimmed line equal to candidate, or a trimmed
// line equal to one of candidate's ancestor directories ("a/", "a/b/", ...).
// Glob patterns and negations are not evaluated.
func IsCovered(existing []string, candidate string) bool {
	rules := make(map[string]struct{}, len(existing))
	for _, line := range existing {
		rules[strings.TrimSpace(line)] = struct{}{}
	}

	if _, ok := rules[candidate]; ok {
		return true
	}
	if !strings.Contains(candidate, "/") {
		return false
	}

	segments := strings.Split(candidate, "/")
	var prefix strings.Builder
	for _, segment := range segments[:len(segments)-1] {
		prefix.WriteString(segment)
		prefix.WriteString("/")
		if _, ok := rules[prefix.String()]; ok {
			return true
		}
	}
	return false
}

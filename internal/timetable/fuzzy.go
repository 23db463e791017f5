package timetable

import "strings"

var honorifics = []string{"dr.", "prof.", "mr.", "mrs.", "ms."}

// NormalizeName lowercases a professor name, strips the fixed honorific set
// and removes all whitespace, producing the canonical form used for matching.
func NormalizeName(name string) string {
	n := strings.ToLower(name)
	for _, h := range honorifics {
		n = strings.ReplaceAll(n, h, "")
	}
	return strings.Join(strings.Fields(n), "")
}

// NameMatches reports whether a query matches a professor name. The match is
// a substring check in either direction over the normalized forms: "Sharma"
// finds "Dr. A Sharma" and "Dr. A Sharma BCA" finds "A Sharma". This is an
// intentional fuzzy-search feature, not equality. Only the fixed honorific
// set is stripped, and only with the trailing period.
func NameMatches(query, name string) bool {
	q := NormalizeName(query)
	n := NormalizeName(name)
	if q == "" || n == "" {
		return false
	}
	return strings.Contains(n, q) || strings.Contains(q, n)
}

// FilterByProfessor keeps sessions whose professor name fuzzily matches query.
func FilterByProfessor(sessions []Session, query string) []Session {
	if query == "" {
		return sessions
	}
	var out []Session
	for _, s := range sessions {
		if NameMatches(query, s.ProfessorName) {
			out = append(out, s)
		}
	}
	return out
}

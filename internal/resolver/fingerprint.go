package resolver

import (
	"strconv"
	"strings"
)

// normalize case-folds s and collapses runs of whitespace.
func normalize(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// fingerprint joins the query kind and its normalized arguments.
func fingerprint(kind Kind, args ...string) string {
	return string(kind) + "|" + strings.Join(args, "|")
}

// sortedPair orders two normalized names so that (a, b) and (b, a) share a key.
func sortedPair(a, b string) (string, string, bool) {
	if b < a {
		return b, a, true
	}
	return a, b, false
}

func itoa(n int) string {
	return strconv.Itoa(n)
}

// majors lists the four majors in calendar order with the names they appear under.
var majors = []struct {
	name    string
	aliases []string
}{
	{"Australian Open", []string{"australian open"}},
	{"Roland Garros", []string{"roland garros", "french open"}},
	{"Wimbledon", []string{"wimbledon"}},
	{"US Open", []string{"us open", "u.s. open"}},
}

// majorIndex returns the calendar position of the major a tournament name belongs to.
func majorIndex(tournament string) (int, bool) {
	name := normalize(tournament)
	for i, m := range majors {
		for _, alias := range m.aliases {
			if strings.Contains(name, alias) {
				return i, true
			}
		}
	}
	return 0, false
}

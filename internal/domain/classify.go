package domain

import (
	"strings"
	"unicode"

	"golang.org/x/text/unicode/norm"
)

// Keywords holds the ordered candidate substrings for each role. Earlier
// entries have higher priority.
type Keywords map[Role][]string

// DefaultKeywords pairs the Korean agency headers with their English
// equivalents.
func DefaultKeywords() Keywords {
	return Keywords{
		RoleTime:      {"발생시각", "occurrence time", "시각", "time", "일시", "날짜", "date"},
		RoleMagnitude: {"규모", "magnitude", "M", "mag", "intensity"},
		RoleRegion:    {"위치", "location", "지역", "region", "발생지역", "occurrence area", "발생장소", "occurrence place"},
		RoleLatitude:  {"위도", "latitude", "lat"},
		RoleLongitude: {"경도", "longitude", "lon"},
	}
}

// Classifier guesses which column plays each role.
type Classifier struct {
	Keywords Keywords
}

// NewClassifier returns a Classifier using kw, or the defaults when kw is nil.
func NewClassifier(kw Keywords) Classifier {
	if kw == nil {
		kw = DefaultKeywords()
	}
	return Classifier{Keywords: kw}
}

// Classify returns a best-guess column per role. Roles with no match are
// absent from the result. For each role the keyword list is walked in order
// and, per keyword, columns are scanned left to right; the first column whose
// folded name contains the folded keyword wins.
func (c Classifier) Classify(columns []string) RoleMapping {
	folded := make([]string, len(columns))
	for i, col := range columns {
		folded[i] = foldForMatch(col)
	}

	out := make(RoleMapping, len(Roles))
	for _, role := range Roles {
		if col, ok := c.match(role, columns, folded); ok {
			out[role] = col
		}
	}
	return out
}

func (c Classifier) match(role Role, columns, folded []string) (string, bool) {
	for _, kw := range c.Keywords[role] {
		k := foldForMatch(kw)
		if k == "" {
			continue
		}
		for i, name := range folded {
			if strings.Contains(name, k) {
				return columns[i], true
			}
		}
	}
	return "", false
}

// foldForMatch applies NFKC, lower-cases, and removes all whitespace.
func foldForMatch(s string) string {
	s = strings.ToLower(norm.NFKC.String(s))
	return strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s)
}

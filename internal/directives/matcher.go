package directives

import "strings"

// VariableMatcher decides whether a source line mentions a variable in a way
// that should receive a variable-scoped pragma (array partition, resource).
type VariableMatcher interface {
	Matches(line, variable string) bool
}

// SubstringMatcher is the textual matcher used by existing directive corpora.
// It ignores pointer stars and looks for the variable used as a parameter,
// assignment target, declaration or array access. Names that are suffixes of
// other identifiers can produce false positives.
type SubstringMatcher struct{}

var variableSuffixes = []string{")", ",", "=", " =", ";", "["}

// Matches implements VariableMatcher
func (SubstringMatcher) Matches(line, variable string) bool {
	search := strings.ReplaceAll(line, "*", "")
	for _, suffix := range variableSuffixes {
		if strings.Contains(search, variable+suffix) {
			return true
		}
	}
	return false
}

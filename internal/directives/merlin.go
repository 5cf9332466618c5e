package directives

import (
	"context"
	"regexp"
	"sort"
	"strings"
)

const accelPragma = "#pragma ACCEL"

// placeholder substitutes one auto{key} placeholder of a Merlin design point
type placeholder struct {
	key     string
	value   string
	pattern *regexp.Regexp
}

func newPlaceholders(point map[string]string) []placeholder {
	keys := make([]string, 0, len(point))
	for key := range point {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	list := make([]placeholder, 0, len(keys))
	for _, key := range keys {
		list = append(list, placeholder{
			key:     key,
			value:   point[key],
			pattern: regexp.MustCompile(`auto\{` + regexp.QuoteMeta(key) + `\}`),
		})
	}
	return list
}

// SubstitutePoint rewrites the #pragma ACCEL lines of a Merlin source with the
// values of a design point. Placeholders auto{key} are replaced by point[key].
// A pragma line that references no key of the point is dropped; every other
// line is copied verbatim.
func SubstitutePoint(lines []string, point map[string]string) []string {
	placeholders := newPlaceholders(point)
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if !strings.Contains(line, accelPragma) {
			out = append(out, line)
			continue
		}

		matched := false
		for _, p := range placeholders {
			if strings.Contains(line, p.key+"}") {
				line = p.pattern.ReplaceAllLiteralString(line, p.value)
				matched = true
			}
		}
		if matched {
			out = append(out, line)
		}
	}
	return out
}

// SubstituteFile applies SubstitutePoint to the source at src, writing dst
func SubstituteFile(ctx context.Context, point map[string]string, src, dst string) error {
	return rewriteFile(ctx, src, dst, func(lines []string) []string {
		return SubstitutePoint(lines, point)
	})
}

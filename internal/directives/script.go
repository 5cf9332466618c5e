package directives

import (
	"bufio"
	"io"
	"strings"

	"github.com/pkg/errors"
)

var scriptKeywords = []string{
	"set_directive_resource",
	"set_directive_array_partition",
	"set_directive_interface",
	"set_directive_pipeline",
	"set_directive_unroll",
}

const synthesisCommand = "csynth_design"

// ExtractScript pulls the directive block of one solution out of a multi
// solution TCL script. Collection starts at the first line mentioning target
// and ends at the following csynth_design, which is kept.
func ExtractScript(target string, r io.Reader) (string, error) {
	var (
		found bool
		lines []string
	)

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if strings.Contains(line, target) {
			found = true
		}
		if !found {
			continue
		}

		if strings.HasPrefix(line, synthesisCommand) {
			lines = append(lines, line)
			break
		}
		for _, keyword := range scriptKeywords {
			if strings.HasPrefix(line, keyword) {
				lines = append(lines, line)
				break
			}
		}
	}
	if err := scanner.Err(); err != nil {
		return "", errors.Wrap(err, "failed to read script")
	}
	if !found {
		return "", errors.Errorf("solution %q not found in script", target)
	}
	return strings.Join(lines, "\n"), nil
}

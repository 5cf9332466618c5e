package directives

import (
	"bufio"
	"context"
	"io"
	"os"
	"regexp"
	"strings"

	"github.com/pkg/errors"
	"k8s.io/klog/v2"
)

// Loop labels are removed from loop headers once their pragmas are placed
var labelPattern = regexp.MustCompile(`\w+:`)

type phase int

const (
	// preKernel: only inline directives apply, at call sites
	preKernel phase = iota
	// kernelBody: every directive applies; entered on the line naming the kernel
	kernelBody
)

type directiveState int

const (
	pending directiveState = iota
	applied
)

// Injector rewrites one kernel source using one directive list. An Injector is
// single use: its per-directive state records which pragmas were placed.
type Injector struct {
	Kernel  string
	Matcher VariableMatcher

	directives []Directive
	states     []directiveState
	phase      phase
}

// NewInjector creates an injector for the given kernel using the substring matcher
func NewInjector(kernel string, directives []Directive) *Injector {
	return &Injector{
		Kernel:     kernel,
		Matcher:    SubstringMatcher{},
		directives: directives,
		states:     make([]directiveState, len(directives)),
	}
}

// Inject rewrites lines and returns the annotated lines. Each input line is
// expected to keep its trailing newline; inserted pragma lines carry their own.
func (inj *Injector) Inject(lines []string) []string {
	out := make([]string, 0, len(lines))
	for _, line := range lines {
		if inj.phase == preKernel && strings.Contains(line, inj.Kernel) {
			inj.phase = kernelBody
		}

		var rewritten string
		if inj.phase == preKernel {
			rewritten = inj.preApply(line)
		} else {
			rewritten = inj.apply(line)
			if strings.Contains(rewritten, "for") || strings.Contains(rewritten, "while") {
				rewritten = labelPattern.ReplaceAllString(rewritten, "")
			}
		}
		out = append(out, rewritten)
	}
	return out
}

// Applied reports whether the i-th directive has been placed
func (inj *Injector) Applied(i int) bool {
	return inj.states[i] == applied
}

func (inj *Injector) preApply(line string) string {
	for i, d := range inj.directives {
		if d.Kind != Inline || inj.states[i] == applied {
			continue
		}
		if strings.Contains(line, d.Function+"(") {
			line = appendPragma(line, d.Pragma())
			inj.states[i] = applied
		}
	}
	return line
}

func (inj *Injector) apply(line string) string {
	for i, d := range inj.directives {
		switch d.Kind {
		case Unroll:
			if d.Factor > 1 && inj.states[i] == pending && strings.Contains(line, d.Label+":") {
				line = appendPragma(line, d.Pragma())
				inj.states[i] = applied
			}
		case ArrayPartition, Resource:
			if inj.states[i] == pending && inj.Matcher.Matches(line, d.Variable) {
				line = appendPragma(line, d.Pragma())
				inj.states[i] = applied
			}
		case Pipeline:
			// every line carrying the label gets the pragma
			if strings.Contains(line, d.Label+":") {
				line = appendPragma(line, d.Pragma())
				inj.states[i] = applied
			}
		}
	}
	return line
}

// appendPragma places pragma on its own line after line, indented like line
func appendPragma(line, pragma string) string {
	if !strings.HasSuffix(line, "\n") {
		line += "\n"
	}
	return line + indentation(line) + pragma + "\n"
}

func indentation(line string) string {
	return line[:len(line)-len(strings.TrimLeft(line, " \t"))]
}

// SplitLines splits text into lines, keeping each line's trailing newline
func SplitLines(text string) []string {
	lines := strings.SplitAfter(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	return lines
}

// readLines reads all lines of r keeping their newlines
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	br := bufio.NewReader(r)
	for {
		line, err := br.ReadString('\n')
		if line != "" {
			lines = append(lines, line)
		}
		if err == io.EOF {
			return lines, nil
		}
		if err != nil {
			return nil, err
		}
	}
}

func writeLines(w io.Writer, lines []string) error {
	bw := bufio.NewWriter(w)
	for _, line := range lines {
		if _, err := bw.WriteString(line); err != nil {
			return err
		}
	}
	return bw.Flush()
}

// InjectFile reads the kernel source at src, injects directives and writes the
// annotated source to dst. dst is truncated; src and dst may not be the same file.
func InjectFile(ctx context.Context, kernel string, directives []Directive, src, dst string) error {
	return rewriteFile(ctx, src, dst, func(lines []string) []string {
		inj := NewInjector(kernel, directives)
		out := inj.Inject(lines)
		for i := range directives {
			if !inj.Applied(i) {
				klog.V(2).Infof("directive %s for kernel %s was not placed in %s", directives[i].Kind, kernel, src)
			}
		}
		return out
	})
}

func rewriteFile(ctx context.Context, src, dst string, rewrite func([]string) []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	in, err := os.Open(src)
	if err != nil {
		return errors.Wrapf(err, "failed to open kernel source")
	}
	lines, err := readLines(in)
	in.Close()
	if err != nil {
		return errors.Wrapf(err, "failed to read kernel source %s", src)
	}

	out, err := os.Create(dst)
	if err != nil {
		return errors.Wrapf(err, "failed to create annotated source")
	}
	if err := writeLines(out, rewrite(lines)); err != nil {
		out.Close()
		return errors.Wrapf(err, "failed to write annotated source %s", dst)
	}
	return out.Close()
}

package scm

import (
	"bufio"
	"fmt"
	"io"
	"os"

	units "github.com/docker/go-units"
)

type config struct {
	gcGrowthFactor float64
	gcThreshold    int
	stdout         Writer
	stdin          Reader
}

func defaultConfig() *config {
	return &config{
		gcGrowthFactor: 2.0,
		gcThreshold:    1024,
		stdout:         stdWriter{os.Stdout},
		stdin:          &stdReader{bufio.NewReader(os.Stdin)},
	}
}

// Option configures an Evaluator at construction time, following the
// teacher's habit of bare CLI flags/literals rather than a config struct
// or file format.
type Option func(*config)

// WithGCGrowthFactor sets how much the live object count must grow since
// the last collection before MaybeCollect triggers another one. Default 2.0
// (collect when the live set doubles, per spec.md §4.3's policy).
func WithGCGrowthFactor(factor float64) Option {
	return func(c *config) { c.gcGrowthFactor = factor }
}

// WithGCThreshold sets the minimum live object count before growth-factor
// collection kicks in at all, accepting a human-readable size string (e.g.
// "64MiB") the way an operator would write it; the string is interpreted
// as an approximate object-count budget (bytes / average object size)
// rather than a literal byte cap, since the heap here tracks object counts,
// not bytes.
func WithGCThreshold(humanSize string) Option {
	return func(c *config) {
		bytes, err := units.RAMInBytes(humanSize)
		if err != nil || bytes <= 0 {
			return
		}
		const avgObjectBytes = 64
		c.gcThreshold = int(bytes / avgObjectBytes)
	}
}

// WithStdout overrides the host writer `display`/`print`/`println` target.
func WithStdout(w Writer) Option {
	return func(c *config) { c.stdout = w }
}

// WithStdin overrides the host reader `read` pulls lines from.
func WithStdin(r Reader) Option {
	return func(c *config) { c.stdin = r }
}

type stdWriter struct{ w io.Writer }

func (s stdWriter) WriteString(str string) (int, error) { return fmt.Fprint(s.w, str) }

type stdReader struct{ r *bufio.Reader }

func (s *stdReader) ReadLine() (string, error) {
	line, err := s.r.ReadString('\n')
	return line, err
}

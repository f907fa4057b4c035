// Package generator coordinates the CSV to .htaccess conversion.
package generator

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"csv2htaccess/internal/config"
	"csv2htaccess/internal/emitter"
	"csv2htaccess/internal/loader"
	"csv2htaccess/internal/normalizer"
	"csv2htaccess/internal/output"
	"csv2htaccess/internal/sniffer"
	"csv2htaccess/internal/splitter"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Version is written into the generated file's banner.
const Version = "1.0.0"

// RunErrorType represents the kind of fatal error that stopped a run.
type RunErrorType string

const (
	InputUnreadable  RunErrorType = "INPUT_UNREADABLE"
	AffixUnreadable  RunErrorType = "AFFIX_UNREADABLE"
	NoDelimiter      RunErrorType = "NO_DELIMITER"
	OutputUnwritable RunErrorType = "OUTPUT_UNWRITABLE"
)

// RunError is a fatal error. No output is guaranteed to be consistent after one.
type RunError struct {
	Type RunErrorType
	Path string
	Err  error
}

func (e *RunError) Error() string {
	switch e.Type {
	case InputUnreadable, AffixUnreadable:
		return fmt.Sprintf("could not open file: %s: %v", e.Path, e.Err)
	case NoDelimiter:
		return fmt.Sprintf("%v in %s", e.Err, e.Path)
	case OutputUnwritable:
		return fmt.Sprintf("could not write %s (is the folder write-protected?): %v", e.Path, e.Err)
	default:
		return fmt.Sprintf("generation failed: %v", e.Err)
	}
}

func (e *RunError) Unwrap() error {
	return e.Err
}

// Options describes one generation run.
type Options struct {
	InputPath  string
	PrefixPath string // optional
	SuffixPath string // optional
	Config     *config.Configuration
	Now        func() time.Time
	Logger     *zap.Logger
	Out        *output.Output
}

// Affix is literal content copied before or after the generated rules.
type Affix struct {
	Enabled bool
	Content string
}

// Context is the state shared by every row of a single run.
type Context struct {
	Emitter       *emitter.Emitter
	Delimiter     rune
	DefaultStatus string
	Prefix        Affix
	Suffix        Affix
	Version       string
	StartedAt     time.Time
	Logger        *zap.Logger
	Out           *output.Output
}

// Summary represents the overall results of a run.
type Summary struct {
	Rows      int
	Emitted   int
	Skipped   int
	Delimiter rune
	Output    string
	Duration  time.Duration
}

// HasSkipped returns true if any row was skipped.
func (s *Summary) HasSkipped() bool {
	return s.Skipped > 0
}

// PrintSummary returns a formatted summary string.
func (s *Summary) PrintSummary() string {
	return fmt.Sprintf("Wrote %d rules to %s: %d rows read, %d skipped",
		s.Emitted, s.Output, s.Rows, s.Skipped)
}

// Run reads the table at opts.InputPath and writes the rewrite rules to the
// configured output file. Every file it opens is closed before it returns.
func Run(opts Options) (summary *Summary, err error) {
	start := time.Now()
	cfg := opts.Config
	if cfg == nil {
		cfg = config.DefaultConfig()
	}
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	out := opts.Out
	if out == nil {
		out = output.Discard()
	}
	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("run_id", uuid.NewString()), zap.String("input", opts.InputPath))

	input, err := os.Open(opts.InputPath)
	if err != nil {
		return nil, &RunError{Type: InputUnreadable, Path: opts.InputPath, Err: err}
	}
	defer input.Close()

	prefix, err := loadAffix(opts.PrefixPath)
	if err != nil {
		return nil, err
	}
	suffix, err := loadAffix(opts.SuffixPath)
	if err != nil {
		return nil, err
	}

	delim, err := sniffFirstLine(input, cfg.Delimiters)
	if err != nil {
		return nil, withPath(err, opts.InputPath, cfg.Output)
	}
	logger.Debug("delimiter sniffed", zap.String("delimiter", string(delim)))

	file, err := os.Create(cfg.Output)
	if err != nil {
		return nil, &RunError{Type: OutputUnwritable, Path: cfg.Output, Err: err}
	}
	defer func() {
		if cerr := file.Close(); cerr != nil && err == nil {
			summary = nil
			err = &RunError{Type: OutputUnwritable, Path: cfg.Output, Err: cerr}
		}
	}()

	gc := &Context{
		Emitter:       emitter.New(file),
		Delimiter:     delim,
		DefaultStatus: cfg.DefaultStatus,
		Prefix:        prefix,
		Suffix:        suffix,
		Version:       Version,
		StartedAt:     now(),
		Logger:        logger,
		Out:           out,
	}

	summary, err = Generate(input, gc)
	if err != nil {
		return nil, withPath(err, opts.InputPath, cfg.Output)
	}
	summary.Output = cfg.Output
	summary.Duration = time.Since(start)

	logger.Debug("generation finished",
		zap.Int("rows", summary.Rows),
		zap.Int("emitted", summary.Emitted),
		zap.Int("skipped", summary.Skipped),
		zap.Duration("duration", summary.Duration))

	return summary, nil
}

// withPath fills in the file a RunError refers to when the producer did not
// know it.
func withPath(err error, inputPath, outputPath string) error {
	var runErr *RunError
	if errors.As(err, &runErr) && runErr.Path == "" {
		runErr.Path = inputPath
		if runErr.Type == OutputUnwritable {
			runErr.Path = outputPath
		}
	}
	return err
}

// loadAffix verifies an optional prefix or suffix file can be opened and
// reads it. An empty path disables the block.
func loadAffix(path string) (Affix, error) {
	if path == "" {
		return Affix{}, nil
	}
	if err := loader.Check(path); err != nil {
		return Affix{}, &RunError{Type: AffixUnreadable, Path: path, Err: err}
	}
	return Affix{Enabled: true, Content: loader.Contents(path)}, nil
}

// sniffFirstLine picks the delimiter from the first line of rs and rewinds it
// so the first line is processed again as a data row.
func sniffFirstLine(rs io.ReadSeeker, candidates string) (rune, error) {
	first, err := bufio.NewReader(rs).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return 0, &RunError{Type: InputUnreadable, Err: err}
	}
	first = strings.TrimRight(first, "\r\n")

	delim, err := sniffer.Sniff(first, candidates)
	if err != nil {
		return 0, &RunError{Type: NoDelimiter, Err: err}
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return 0, &RunError{Type: InputUnreadable, Err: err}
	}
	return delim, nil
}

// Generate writes the banner, the optional prefix, one rule per valid row of
// r and the optional suffix. Rows with fewer than two fields are reported and
// skipped. Row numbers start at 1 and count every row, skipped or not.
func Generate(r io.Reader, gc *Context) (*Summary, error) {
	logger := gc.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	out := gc.Out
	if out == nil {
		out = output.Discard()
	}
	status := gc.DefaultStatus
	if status == "" {
		status = normalizer.DefaultStatusCode
	}

	summary := &Summary{Delimiter: gc.Delimiter}

	if err := gc.Emitter.WriteBanner(gc.Version, gc.StartedAt); err != nil {
		return nil, &RunError{Type: OutputUnwritable, Err: err}
	}
	if gc.Prefix.Enabled {
		if err := gc.Emitter.WritePrefix(gc.Prefix.Content); err != nil {
			return nil, &RunError{Type: OutputUnwritable, Err: err}
		}
	}

	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)

	lineNumber := 0
	for scanner.Scan() {
		lineNumber++
		summary.Rows++

		rule, ok := normalizer.FromFields(splitter.Split(scanner.Text(), gc.Delimiter), status)
		if !ok {
			out.Error("Line %d has less than two columns.", lineNumber)
			logger.Debug("row skipped", zap.Int("line", lineNumber))
			summary.Skipped++
			continue
		}

		if err := gc.Emitter.WriteRule(rule); err != nil {
			return nil, &RunError{Type: OutputUnwritable, Err: err}
		}
		summary.Emitted++
		out.UpdateProgress(summary.Emitted)
	}
	out.EndProgress()

	if err := scanner.Err(); err != nil {
		return nil, &RunError{Type: InputUnreadable, Err: err}
	}

	if gc.Suffix.Enabled {
		if err := gc.Emitter.WriteSuffix(gc.Suffix.Content); err != nil {
			return nil, &RunError{Type: OutputUnwritable, Err: err}
		}
	}

	return summary, nil
}

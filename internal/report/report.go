// Package report collects coverage inputs, aggregates them and writes the
// console and summary.csv reports.
package report

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"path/filepath"

	"github.com/fatih/color"
	"github.com/hashicorp/go-hclog"
	"github.com/ja7ad/covsum/internal/config"
	"github.com/ja7ad/covsum/internal/coverage"
	"github.com/ja7ad/covsum/internal/goprofile"
	"github.com/ja7ad/covsum/internal/record"
	"github.com/spf13/afero"
)

var errorColor = color.New(color.FgRed, color.Bold)

// Row is the aggregated coverage of one input file.
type Row struct {
	Path   string
	Counts coverage.Counts
}

// Summary is the outcome of one run.
type Summary struct {
	Rows   []Row
	Totals coverage.Totals

	// Discovered lists every matched input, Skipped the ones rejected as
	// malformed. Totals.Files == len(Discovered)-len(Skipped).
	Discovered []string
	Skipped    []string
}

// Builder runs the collection pipeline.
type Builder struct {
	fs  afero.Fs
	out io.Writer
	log hclog.Logger
	cfg config.Config
}

func New(fs afero.Fs, out io.Writer, log hclog.Logger, cfg config.Config) *Builder {
	if log == nil {
		log = hclog.NewNullLogger()
	}
	return &Builder{fs: fs, out: out, log: log, cfg: cfg}
}

// Run recreates outputDir, processes every input found under inputDir and
// writes the summary. Malformed inputs are reported and skipped; filesystem
// failures abort the run.
func (b *Builder) Run(inputDir, outputDir string) (_ *Summary, err error) {
	if err := ResetDir(b.fs, outputDir); err != nil {
		return nil, err
	}
	copyDir := filepath.Join(outputDir, b.cfg.CopyDir)
	if err := EnsureDir(b.fs, copyDir); err != nil {
		return nil, err
	}

	summaryPath := filepath.Join(outputDir, b.cfg.SummaryFile)
	f, err := b.fs.Create(summaryPath)
	if err != nil {
		return nil, &FilesystemError{Op: "create", Path: summaryPath, Err: err}
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = &FilesystemError{Op: "close", Path: summaryPath, Err: cerr}
		}
	}()
	w := bufio.NewWriter(f)
	fmt.Fprintln(w, CSVHeader)

	patterns := append([]string(nil), b.cfg.Patterns...)
	if b.cfg.GoProfilePattern != "" {
		patterns = append(patterns, b.cfg.GoProfilePattern)
	}
	inputs, err := Discover(b.fs, inputDir, patterns...)
	if err != nil {
		return nil, err
	}
	b.log.Debug("discovered inputs", "dir", inputDir, "count", len(inputs))

	s := &Summary{Discovered: inputs}
	copied := make(map[string]string, len(inputs))
	for _, path := range inputs {
		base := filepath.Base(path)
		if prev, ok := copied[base]; ok {
			b.log.Debug("overwriting copy", "name", base, "previous", prev, "path", path)
		}
		copied[base] = path
		if err := CopyFile(b.fs, path, copyDir); err != nil {
			return nil, err
		}

		m, err := b.load(path)
		if errors.Is(err, record.ErrMalformedRecord) {
			errorColor.Fprintf(b.out, "Error in %s\n", path)
			b.log.Warn("skipping malformed input", "path", path, "error", err)
			s.Skipped = append(s.Skipped, path)
			continue
		}
		if err != nil {
			return nil, &FilesystemError{Op: "read", Path: path, Err: err}
		}

		row := Row{Path: path, Counts: coverage.Count(m)}
		s.Rows = append(s.Rows, row)
		s.Totals = s.Totals.Add(row.Counts)
		fmt.Fprintln(b.out, ConsoleLine(row.Path, row.Counts))
		fmt.Fprintln(w, CSVLine(row.Path, row.Counts))
	}

	fmt.Fprintln(b.out, TotalLine(len(s.Discovered), s.Totals.Counts))
	fmt.Fprintln(w, CSVLine(TotalLabel, s.Totals.Counts))
	if err := w.Flush(); err != nil {
		return nil, &FilesystemError{Op: "write", Path: summaryPath, Err: err}
	}
	return s, nil
}

func (b *Builder) load(path string) (coverage.Map, error) {
	if b.cfg.GoProfilePattern != "" && matchAny([]string{b.cfg.GoProfilePattern}, filepath.Base(path)) {
		return goprofile.Load(b.fs, path)
	}
	rec, err := record.ParseFile(b.fs, path)
	if err != nil {
		return nil, err
	}
	if len(rec.Orphans) > 0 {
		b.log.Warn("basic blocks before any function, counted under an unnamed function",
			"path", path, "blocks", len(rec.Orphans), "first", rec.Orphans[0].Name)
	}
	return rec.Coverage, nil
}

// Totals folds rows into an accumulator.
func Totals(rows []Row) coverage.Totals {
	var t coverage.Totals
	for _, r := range rows {
		t = t.Add(r.Counts)
	}
	return t
}

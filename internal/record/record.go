// Package record parses the per-file coverage records written by the basic
// block coverage runtime.
//
// A record is a sequence of lines of the form
//
//	F <function> <0|1>
//	B <block> <0|1>
//
// where the delimiter is a single space or '|'. Block lines belong to the
// closest preceding F line. Newer runtimes also emit "File <source>" header
// lines; those only group the following functions and carry no coverage.
package record

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"regexp"
	"strings"

	"github.com/ja7ad/covsum/internal/coverage"
	"github.com/spf13/afero"
)

// KindFunc marks a function declaration line.
const KindFunc = 'F'

// ErrMalformedRecord is matched by every error that rejects a whole record.
var ErrMalformedRecord = errors.New("malformed coverage record")

var (
	lineRE   = regexp.MustCompile(`^(\S)[ |](.+)[ |]([01])$`)
	headerRE = regexp.MustCompile(`^File[ |](.+)$`)
)

// Line is one parsed record line.
type Line struct {
	Kind    byte
	Name    string
	Covered bool
}

// IsFunc reports whether l declares a function.
func (l Line) IsFunc() bool { return l.Kind == KindFunc }

// LineError describes why a single line does not match the record grammar.
type LineError struct {
	Text   string
	Reason string
}

func (e *LineError) Error() string {
	return fmt.Sprintf("%s: %q", e.Reason, e.Text)
}

// MalformedRecordError rejects a record at the first bad line.
type MalformedRecordError struct {
	Line int
	Err  error
}

func (e *MalformedRecordError) Error() string {
	return fmt.Sprintf("line %d: %v", e.Line, e.Err)
}

func (e *MalformedRecordError) Unwrap() error { return e.Err }

func (e *MalformedRecordError) Is(target error) bool { return target == ErrMalformedRecord }

// ParseLine parses a single trimmed, non-empty record line.
func ParseLine(s string) (Line, error) {
	if len(s) < 5 {
		return Line{}, &LineError{Text: s, Reason: "line too short"}
	}
	m := lineRE.FindStringSubmatch(s)
	if m == nil {
		return Line{}, &LineError{Text: s, Reason: "line does not match <kind> <name> <0|1>"}
	}
	return Line{Kind: m[1][0], Name: m[2], Covered: m[3] == "1"}, nil
}

// Record is the result of parsing one coverage record.
type Record struct {
	Coverage coverage.Map
	// Orphans are block lines that appeared before any function line. They
	// are kept in Coverage under the empty function name.
	Orphans []Line
}

// Parse reads a whole record from r. Any line that fails to parse aborts the
// record; no partial result is returned.
func Parse(r io.Reader) (*Record, error) {
	rec := &Record{Coverage: coverage.Map{}}
	var (
		cur     string
		seenFn  bool
		lineNum int
	)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lineNum++
		text := strings.TrimSpace(sc.Text())
		if text == "" || headerRE.MatchString(text) {
			continue
		}
		l, err := ParseLine(text)
		if err != nil {
			return nil, &MalformedRecordError{Line: lineNum, Err: err}
		}
		if l.IsFunc() {
			cur = l.Name
			seenFn = true
			rec.Coverage[cur] = map[string]bool{}
			continue
		}
		if !seenFn {
			rec.Orphans = append(rec.Orphans, l)
		}
		blocks, ok := rec.Coverage[cur]
		if !ok {
			blocks = map[string]bool{}
			rec.Coverage[cur] = blocks
		}
		blocks[l.Name] = l.Covered
	}
	if err := sc.Err(); err != nil {
		if errors.Is(err, bufio.ErrTooLong) {
			return nil, &MalformedRecordError{Line: lineNum + 1, Err: err}
		}
		return nil, fmt.Errorf("read record: %w", err)
	}
	return rec, nil
}

// ParseFile opens path on fs and parses it. Open and read failures that are
// not grammar errors are returned wrapped but do not match ErrMalformedRecord.
func ParseFile(fs afero.Fs, path string) (*Record, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	rec, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return rec, nil
}

// Package goprofile reads Go coverprofiles (go test -coverprofile) as a
// second kind of coverage input.
//
// Go profiles carry no function symbols, so every profiled source file is
// reported as one function-level unit and every profile block as one basic
// block.
package goprofile

import (
	"fmt"
	"io"

	"github.com/ja7ad/covsum/internal/coverage"
	"github.com/ja7ad/covsum/internal/record"
	"github.com/spf13/afero"
	"golang.org/x/tools/cover"
)

// BlockID names a profile block by its source span.
func BlockID(b cover.ProfileBlock) string {
	return fmt.Sprintf("%d.%d,%d.%d", b.StartLine, b.StartCol, b.EndLine, b.EndCol)
}

// FromProfiles converts parsed profiles into a coverage map.
func FromProfiles(profiles []*cover.Profile) coverage.Map {
	m := coverage.Map{}
	for _, p := range profiles {
		blocks, ok := m[p.FileName]
		if !ok {
			blocks = map[string]bool{}
			m[p.FileName] = blocks
		}
		for _, b := range p.Blocks {
			id := BlockID(b)
			blocks[id] = blocks[id] || b.Count > 0
		}
	}
	return m
}

// Parse reads one coverprofile from r. Syntax errors match
// record.ErrMalformedRecord.
func Parse(r io.Reader) (coverage.Map, error) {
	profiles, err := cover.ParseProfilesFromReader(r)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", record.ErrMalformedRecord, err)
	}
	return FromProfiles(profiles), nil
}

// Load opens path on fs and parses it as a coverprofile.
func Load(fs afero.Fs, path string) (coverage.Map, error) {
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", path, err)
	}
	defer f.Close()

	m, err := Parse(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return m, nil
}

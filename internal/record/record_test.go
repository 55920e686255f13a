package record

import (
	"errors"
	"strings"
	"testing"

	"github.com/ja7ad/covsum/internal/coverage"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseLine(t *testing.T) {
	tests := []struct {
		in   string
		want Line
	}{
		{"F foo 1", Line{Kind: 'F', Name: "foo", Covered: true}},
		{"F foo 0", Line{Kind: 'F', Name: "foo"}},
		{"B bb1 1", Line{Kind: 'B', Name: "bb1", Covered: true}},
		{"B|bb1|0", Line{Kind: 'B', Name: "bb1"}},
		{"B main.c:12:3 1", Line{Kind: 'B', Name: "main.c:12:3", Covered: true}},
		{"F a b 0", Line{Kind: 'F', Name: "a b"}},
	}
	for _, tt := range tests {
		got, err := ParseLine(tt.in)
		require.NoError(t, err, tt.in)
		assert.Equal(t, tt.want, got, tt.in)
	}
}

func TestParseLineErrors(t *testing.T) {
	for _, in := range []string{"F", "F 1", "F foo", "F foo 2", "Fx foo 1", "B bb1 10"} {
		_, err := ParseLine(in)
		var le *LineError
		assert.True(t, errors.As(err, &le), "%q should be rejected", in)
	}
}

func TestParse(t *testing.T) {
	in := strings.Join([]string{
		"File src/foo.c",
		"F foo 1",
		"B bb1 1",
		"B bb2 0",
		"",
		"F bar 0",
		"B bb1 0",
		"F empty 0",
	}, "\n")
	rec, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Empty(t, rec.Orphans)
	assert.Equal(t, coverage.Map{
		"foo":   {"bb1": true, "bb2": false},
		"bar":   {"bb1": false},
		"empty": {},
	}, rec.Coverage)
}

func TestParseRedeclaredFunctionStartsOver(t *testing.T) {
	in := "F foo 1\nB bb1 1\nF foo 0\nB bb2 0\n"
	rec, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	assert.Equal(t, coverage.Map{"foo": {"bb2": false}}, rec.Coverage)
}

func TestParseOrphanBlocks(t *testing.T) {
	in := "B bb0 1\nB bb1 0\nF foo 1\nB bb2 1\n"
	rec, err := Parse(strings.NewReader(in))
	require.NoError(t, err)
	require.Len(t, rec.Orphans, 2)
	assert.Equal(t, "bb0", rec.Orphans[0].Name)
	assert.Equal(t, map[string]bool{"bb0": true, "bb1": false}, rec.Coverage[""])
	assert.Equal(t, map[string]bool{"bb2": true}, rec.Coverage["foo"])
}

func TestParseMalformed(t *testing.T) {
	in := "F foo 1\nB bb1 1\nB b\nB bb2 1\n"
	rec, err := Parse(strings.NewReader(in))
	assert.Nil(t, rec)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrMalformedRecord))

	var me *MalformedRecordError
	require.True(t, errors.As(err, &me))
	assert.Equal(t, 3, me.Line)
}

func TestParseEmpty(t *testing.T) {
	rec, err := Parse(strings.NewReader(""))
	require.NoError(t, err)
	assert.Empty(t, rec.Coverage)
}

func TestParseFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/in/a.cov", []byte("F foo 1\nB bb1 1\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "/in/bad.cov", []byte("F foo 1\nB\n"), 0o644))

	rec, err := ParseFile(fs, "/in/a.cov")
	require.NoError(t, err)
	assert.Equal(t, coverage.Map{"foo": {"bb1": true}}, rec.Coverage)

	_, err = ParseFile(fs, "/in/bad.cov")
	assert.True(t, errors.Is(err, ErrMalformedRecord))
	assert.Contains(t, err.Error(), "/in/bad.cov")

	_, err = ParseFile(fs, "/in/missing.cov")
	require.Error(t, err)
	assert.False(t, errors.Is(err, ErrMalformedRecord))
}

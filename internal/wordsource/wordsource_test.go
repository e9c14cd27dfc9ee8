package wordsource

import (
	"errors"
	"io"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
)

func TestSource_All_YieldsLinesInOrder(t *testing.T) {
	// Given: a reader with LF and CRLF terminated lines
	src := New(strings.NewReader("arrows\n18th\r\ncarrots\ngive"), "test")

	// When: collecting the stream
	got := slices.Collect(src.All())

	// Then: lines come back in order without terminators
	assert.Equal(t, []string{"arrows", "18th", "carrots", "give"}, got)
	assert.Equal(t, 4, src.Lines())
	assert.NoError(t, src.Err())
}

func TestSource_All_KeepsEmptyLines(t *testing.T) {
	src := New(strings.NewReader("a\n\nb\n"), "test")

	assert.Equal(t, []string{"a", "", "b"}, slices.Collect(src.All()))
}

func TestSource_All_StopsEarly(t *testing.T) {
	src := New(strings.NewReader("one\ntwo\nthree\n"), "test")

	var got []string
	for w := range src.All() {
		got = append(got, w)
		if len(got) == 2 {
			break
		}
	}

	assert.Equal(t, []string{"one", "two"}, got)
	assert.Equal(t, 2, src.Lines())
}

func TestSource_All_VeryLongLine(t *testing.T) {
	// Given: a line far larger than the read buffer between two short words
	long := strings.Repeat("a", 2*1024*1024)
	src := New(strings.NewReader("give\n"+long+"\r\ntime\n"), "huge.txt")

	// When: iterating
	got := slices.Collect(src.All())

	// Then: every line is yielded whole and no error is reported
	require.NoError(t, src.Err())
	require.Len(t, got, 3)
	assert.Equal(t, "give", got[0])
	assert.Equal(t, long, got[1])
	assert.Equal(t, "time", got[2])
	assert.Equal(t, 3, src.Lines())
}

func TestSource_All_ReadFailure(t *testing.T) {
	// Given: a reader that fails after the first line
	src := New(io.MultiReader(strings.NewReader("give\n"), iotest.ErrReader(errors.New("device gone"))), "broken.txt")

	// When: iterating
	got := slices.Collect(src.All())

	// Then: lines before the failure are yielded and the error is coded
	assert.Equal(t, []string{"give"}, got)
	require.Error(t, src.Err())
	assert.Equal(t, wserrors.ErrCodeInputRead, wserrors.GetCode(src.Err()))
	assert.Contains(t, src.Err().Error(), "after line 1")
}

func TestOpen_ReadsFile(t *testing.T) {
	// Given: a word list on disk
	path := filepath.Join(t.TempDir(), "dictionary.txt")
	require.NoError(t, os.WriteFile(path, []byte("give\nme\n"), 0o644))

	// When: opening and reading it
	src, err := Open(path)
	require.NoError(t, err)
	defer src.Close()

	// Then: the words stream back
	assert.Equal(t, []string{"give", "me"}, slices.Collect(src.All()))
	assert.Equal(t, path, src.Name())
	assert.NoError(t, src.Close())
}

func TestOpen_MissingFile(t *testing.T) {
	// Given: a path that does not exist
	path := filepath.Join(t.TempDir(), "dictionary.txt")

	// When: opening it
	src, err := Open(path)

	// Then: a fatal missing-input error is returned
	assert.Nil(t, src)
	require.Error(t, err)
	assert.True(t, errors.Is(err, wserrors.New(wserrors.ErrCodeInputNotFound, "", nil)))
	assert.True(t, wserrors.IsFatal(err))
	assert.Contains(t, err.Error(), path)
}

func TestOpen_Directory(t *testing.T) {
	_, err := Open(t.TempDir())

	require.Error(t, err)
	assert.Equal(t, wserrors.ErrCodeInvalidInput, wserrors.GetCode(err))
}

func TestOpen_Stdin(t *testing.T) {
	src, err := Open(StdinPath)

	require.NoError(t, err)
	assert.Equal(t, "stdin", src.Name())
	assert.NoError(t, src.Close())
}

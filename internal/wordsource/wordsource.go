// Package wordsource reads word lists as a lazy stream of lines.
package wordsource

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"iter"
	"os"
	"strings"

	wserrors "github.com/Aman-CERP/wordseq/internal/errors"
)

// StdinPath selects standard input as the word source.
const StdinPath = "-"

// readBufferSize is the initial read buffer. Longer lines grow past it.
const readBufferSize = 64 * 1024

// Source is a line-oriented word stream.
type Source struct {
	name   string
	r      io.Reader
	closer io.Closer
	lines  int
	err    error
}

// New wraps r. name is used in error messages.
func New(r io.Reader, name string) *Source {
	return &Source{name: name, r: r}
}

// Open opens path as a word source. StdinPath reads os.Stdin.
// A missing file yields an ERR_201_INPUT_NOT_FOUND error.
func Open(path string) (*Source, error) {
	if path == StdinPath {
		return New(os.Stdin, "stdin"), nil
	}

	info, err := os.Stat(path)
	switch {
	case errors.Is(err, fs.ErrNotExist):
		return nil, wserrors.MissingInput(path, err)
	case errors.Is(err, fs.ErrPermission):
		return nil, wserrors.New(wserrors.ErrCodeFilePermission,
			fmt.Sprintf("permission denied reading %s", path), err).WithDetail("path", path)
	case err != nil:
		return nil, wserrors.New(wserrors.ErrCodeInputRead,
			fmt.Sprintf("cannot stat %s", path), err).WithDetail("path", path)
	case info.IsDir():
		return nil, wserrors.ValidationError(fmt.Sprintf("input %s is a directory", path), nil).
			WithDetail("path", path)
	}

	f, err := os.Open(path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, wserrors.MissingInput(path, err)
		}
		return nil, wserrors.New(wserrors.ErrCodeInputRead,
			fmt.Sprintf("cannot open %s", path), err).WithDetail("path", path)
	}

	s := New(f, path)
	s.closer = f
	return s, nil
}

// All yields each line in order, without its LF or CRLF terminator.
// Lines may be any length. A final line without a terminator is yielded;
// an empty tail after the last newline is not.
// Iteration stops at EOF or on the first read error, which Err reports.
// The stream can be ranged over once.
func (s *Source) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		br := bufio.NewReaderSize(s.r, readBufferSize)
		for {
			line, err := br.ReadString('\n')
			if line != "" {
				s.lines++
				if !yield(trimTerminator(line)) {
					return
				}
			}
			if errors.Is(err, io.EOF) {
				return
			}
			if err != nil {
				s.err = wserrors.New(wserrors.ErrCodeInputRead,
					fmt.Sprintf("failed reading %s after line %d", s.name, s.lines), err).
					WithDetail("path", s.name)
				return
			}
		}
	}
}

func trimTerminator(line string) string {
	line = strings.TrimSuffix(line, "\n")
	return strings.TrimSuffix(line, "\r")
}

// Err returns the read error that ended iteration, if any.
func (s *Source) Err() error {
	return s.err
}

// Lines returns the number of lines yielded so far.
func (s *Source) Lines() int {
	return s.lines
}

// Name returns the path or label of the source.
func (s *Source) Name() string {
	return s.name
}

// Close closes the underlying file, if Open created one.
func (s *Source) Close() error {
	if s.closer == nil {
		return nil
	}
	err := s.closer.Close()
	s.closer = nil
	return err
}

// Package seed reads the initial state of a universe from a text file.
//
// The format is:
//
//	<rows>
//	<columns>
//	<row 0>
//	...
//	<row rows-1>
//
// Every grid line holds at least <columns> characters, '1' marks a live cell
// and any other character a dead one. Characters past <columns> are ignored.
package seed

import (
	"bufio"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"termlife/src/universe"
)

// ErrFormat is returned for malformed seed data.
var ErrFormat = errors.New("malformed seed")

// Load reads the seed file at path.
func Load(path string) (*universe.Universe, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrapf(err, "[seed.Load] failed to open file: %s", path)
	}
	defer f.Close()

	u, err := Read(f)
	if err != nil {
		return nil, errors.Wrapf(err, "[seed.Load] %s", path)
	}
	return u, nil
}

// Read parses seed data from r.
// Columns are counted in characters, not bytes.
func Read(r io.Reader) (*universe.Universe, error) {
	lr := &lineReader{r: bufio.NewReader(r)}

	rows, err := readDimension(lr, "rows")
	if err != nil {
		return nil, err
	}
	columns, err := readDimension(lr, "columns")
	if err != nil {
		return nil, err
	}
	//the header alone must not decide how much memory is allocated
	if err := universe.CheckSize(columns, rows); err != nil {
		return nil, errors.Wrap(ErrFormat, err.Error())
	}

	var alive []universe.Coord
	for row := uint(0); row < rows; row++ {
		text, ok := lr.next()
		if !ok {
			if err := lr.failure(); err != nil {
				return nil, errors.Wrap(err, "failed to read seed")
			}
			return nil, errors.Wrapf(ErrFormat, "expected %d rows, got %d", rows, row)
		}
		chars := []rune(text)
		if uint(len(chars)) < columns {
			return nil, errors.Wrapf(ErrFormat, "line %d: expected %d columns, got %d", lr.line, columns, len(chars))
		}
		for column := uint(0); column < columns; column++ {
			if chars[column] == '1' {
				alive = append(alive, universe.Coord{Row: row, Column: column})
			}
		}
	}

	for {
		text, ok := lr.next()
		if !ok {
			break
		}
		if strings.TrimSpace(text) != "" {
			return nil, errors.Wrapf(ErrFormat, "line %d: unexpected data after %d rows", lr.line, rows)
		}
	}
	if err := lr.failure(); err != nil {
		return nil, errors.Wrap(err, "failed to read seed")
	}

	u, err := universe.New(columns, rows)
	if err != nil {
		return nil, errors.Wrap(ErrFormat, err.Error())
	}
	if err := u.SetCells(alive...); err != nil {
		return nil, err
	}
	return u, nil
}

func readDimension(lr *lineReader, name string) (uint, error) {
	text, ok := lr.next()
	if !ok {
		if err := lr.failure(); err != nil {
			return 0, errors.Wrap(err, "failed to read seed")
		}
		return 0, errors.Wrapf(ErrFormat, "%s number not found", name)
	}
	n, err := strconv.ParseUint(strings.TrimSpace(text), 10, 32)
	if err != nil {
		return 0, errors.Wrapf(ErrFormat, "%s number %q is not a number", name, text)
	}
	if n == 0 {
		return 0, errors.Wrapf(ErrFormat, "%s number must be positive", name)
	}
	return uint(n), nil
}

//lineReader hands out the lines without their line endings
//lines have no length limit, a grid row is as long as the column count
type lineReader struct {
	r    *bufio.Reader
	line int
	err  error
}

func (lr *lineReader) next() (string, bool) {
	if lr.err != nil {
		return "", false
	}
	text, err := lr.r.ReadString('\n')
	if err != nil {
		lr.err = err
		if text == "" {
			return "", false
		}
	}
	lr.line++
	text = strings.TrimSuffix(text, "\n")
	return strings.TrimSuffix(text, "\r"), true
}

//failure is the read error that stopped next, nil at the end of the input
func (lr *lineReader) failure() error {
	if lr.err == io.EOF {
		return nil
	}
	return lr.err
}

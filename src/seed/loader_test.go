package seed

import (
	"io"
	"strings"
	"testing"

	"github.com/pkg/errors"

	"termlife/src/universe"
)

func TestRead(t *testing.T) {
	tests := []struct {
		name          string
		input         string
		width, height uint
		expected      string
	}{
		{
			name:  "blinker",
			input: "5\n5\n00000\n00000\n01110\n00000\n00000\n",
			width: 5, height: 5,
			expected: "00000\n00000\n01110\n00000\n00000\n",
		},
		{
			name:  "wide rows are cut to the column count",
			input: "2\n3\n1111\n010xyz\n",
			width: 3, height: 2,
			expected: "111\n010\n",
		},
		{
			name:  "any character but 1 is dead",
			input: "1\n4\n1.#1\n",
			width: 4, height: 1,
			expected: "1001\n",
		},
		{
			name:  "windows line endings",
			input: "2\r\n2\r\n10\r\n01\r\n",
			width: 2, height: 2,
			expected: "10\n01\n",
		},
		{
			name:  "trailing blank lines",
			input: "1\n2\n11\n\n\n",
			width: 2, height: 1,
			expected: "11\n",
		},
		{
			name:  "columns are characters",
			input: "2\n3\né1.\n1█1\n",
			width: 3, height: 2,
			expected: "010\n101\n",
		},
		{
			name:  "no final newline",
			input: "1\n2\n01",
			width: 2, height: 1,
			expected: "01\n",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			u, err := Read(strings.NewReader(tc.input))
			if err != nil {
				t.Fatalf("Read failed: %v", err)
			}
			if u.Width() != tc.width || u.Height() != tc.height {
				t.Errorf("got %dx%d universe, expected %dx%d", u.Width(), u.Height(), tc.width, tc.height)
			}
			var b strings.Builder
			for row := uint(0); ; row++ {
				line, ok := u.RowWith(row, "1", "0")
				if !ok {
					break
				}
				b.WriteString(line + "\n")
			}
			if b.String() != tc.expected {
				t.Errorf("got grid\n%s\nexpected\n%s", b.String(), tc.expected)
			}
		})
	}
}

func TestReadErrors(t *testing.T) {
	tests := []struct {
		name  string
		input string
	}{
		{"empty", ""},
		{"no columns line", "3\n"},
		{"rows not a number", "x\n3\n"},
		{"columns not a number", "3\n-1\n"},
		{"zero rows", "0\n3\n"},
		{"zero columns", "3\n0\n"},
		{"missing rows", "3\n2\n10\n01\n"},
		{"short row", "2\n3\n101\n10\n"},
		{"extra rows", "1\n2\n10\n01\n"},
		{"huge header", "4294967295\n4294967295\n"},
		{"too many cells", "8193\n8192\n"},
		{"row short in characters", "1\n3\néé\n"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Read(strings.NewReader(tc.input))
			if !errors.Is(err, ErrFormat) {
				t.Errorf("expected ErrFormat, got %v", err)
			}
		})
	}
}

func TestReadWideRow(t *testing.T) {
	const columns = 100000
	row := strings.Repeat("0", columns-1) + "1"
	u, err := Read(strings.NewReader("1\n100000\n" + row + "\n"))
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if u.Width() != columns {
		t.Errorf("width = %d, expected %d", u.Width(), columns)
	}
	if c, _ := u.Cell(0, columns-1); c != universe.Alive {
		t.Error("last cell of the wide row is not alive")
	}
}

type failingReader struct {
	data string
}

func (r *failingReader) Read(p []byte) (int, error) {
	if r.data == "" {
		return 0, io.ErrUnexpectedEOF
	}
	n := copy(p, r.data)
	r.data = r.data[n:]
	return n, nil
}

func TestReadFailure(t *testing.T) {
	_, err := Read(&failingReader{data: "2\n2\n10\n"})
	if !errors.Is(err, io.ErrUnexpectedEOF) {
		t.Errorf("expected the read error, got %v", err)
	}
	if errors.Is(err, ErrFormat) {
		t.Errorf("read error reported as a format error: %v", err)
	}
}

func TestLoad(t *testing.T) {
	u, err := Load("testdata/glider.txt")
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if u.Width() != 4 || u.Height() != 3 {
		t.Errorf("got %dx%d universe, expected 4x3", u.Width(), u.Height())
	}
	if n := u.LiveCells(); n != 5 {
		t.Errorf("expected 5 live cells, got %d", n)
	}
}

func TestLoadErrors(t *testing.T) {
	if _, err := Load("testdata/missing.txt"); err == nil {
		t.Error("loading a missing file succeeded")
	}
	if _, err := Load("testdata/short.txt"); !errors.Is(err, ErrFormat) {
		t.Errorf("loading a truncated file: expected ErrFormat, got %v", err)
	}
}

package universe

import (
	"math/bits"

	"github.com/pkg/errors"
)

//Cell is the state of a single position of the universe
type Cell uint8

const (
	Dead  Cell = 0
	Alive Cell = 1
)

//Coord addresses a cell by its row and column
type Coord struct {
	Row    uint
	Column uint
}

var (
	//ErrOutOfBounds is returned for coordinates outside the universe
	ErrOutOfBounds = errors.New("coordinates out of bounds")
	//ErrInvalidSize is returned when the universe is created with a zero dimension or too many cells
	ErrInvalidSize = errors.New("invalid universe dimensions")
)

//MaxCells is the largest number of cells a universe can hold
const MaxCells = 1 << 26

//Universe is the toroidal Game of Life field
//cells are stored row by row in a flat slice, next is the buffer for the following generation
type Universe struct {
	width  uint
	height uint
	cells  []Cell
	next   []Cell
}

//New creates the universe with all cells dead
func New(width uint, height uint) (*Universe, error) {
	if err := CheckSize(width, height); err != nil {
		return nil, err
	}
	return &Universe{
		width:  width,
		height: height,
		cells:  make([]Cell, width*height),
		next:   make([]Cell, width*height),
	}, nil
}

//CheckSize reports whether New accepts the dimensions
func CheckSize(width uint, height uint) error {
	if width == 0 || height == 0 {
		return errors.Wrapf(ErrInvalidSize, "got %dx%d, both must be positive", width, height)
	}
	if hi, lo := bits.Mul(width, height); hi != 0 || lo > MaxCells {
		return errors.Wrapf(ErrInvalidSize, "got %dx%d, at most %d cells are allowed", width, height, MaxCells)
	}
	return nil
}

//MustNew is like New but panics on invalid dimensions
func MustNew(width uint, height uint) *Universe {
	u, err := New(width, height)
	if err != nil {
		panic(err)
	}
	return u
}

func (u *Universe) Width() uint {
	return u.width
}

func (u *Universe) Height() uint {
	return u.height
}

//SetCells marks every listed cell alive
//all coordinates are checked first, so an out of range one leaves the universe untouched
func (u *Universe) SetCells(coords ...Coord) error {
	for _, c := range coords {
		if err := u.checkBounds(c.Row, c.Column); err != nil {
			return err
		}
	}
	for _, c := range coords {
		u.cells[u.index(c.Row, c.Column)] = Alive
	}
	return nil
}

//Cell returns the state of the cell at row, column
func (u *Universe) Cell(row uint, column uint) (Cell, error) {
	if err := u.checkBounds(row, column); err != nil {
		return Dead, err
	}
	return u.cells[u.index(row, column)], nil
}

//LiveCells calculates the count of live cells
func (u *Universe) LiveCells() int {
	n := 0
	for _, c := range u.cells {
		if c == Alive {
			n++
		}
	}
	return n
}

func (u *Universe) checkBounds(row uint, column uint) error {
	if row >= u.height || column >= u.width {
		return errors.Wrapf(ErrOutOfBounds, "cell (%d, %d) in %dx%d universe", row, column, u.width, u.height)
	}
	return nil
}

func (u *Universe) index(row uint, column uint) uint {
	return row*u.width + column
}

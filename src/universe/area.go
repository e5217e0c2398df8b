package universe

import "strings"

//default symbols used for the text form of the universe
const (
	AliveSymbol = "█"
	DeadSymbol  = "░"
)

//Area is a read-only copy of one generation, the rows share one backing slice
type Area struct {
	Width    uint
	Height   uint
	Entities [][]Cell
}

//Area returns the copy of the current generation
//the copy is safe to pass to another goroutine while the universe keeps ticking
func (u *Universe) Area() Area {
	a := createArea(u.width, u.height)
	for row := range a.Entities {
		start := uint(row) * u.width
		copy(a.Entities[row], u.cells[start:start+u.width])
	}
	return a
}

//Row renders the row with the default symbols
//returns false when there is no such row
func (u *Universe) Row(row uint) (string, bool) {
	return u.RowWith(row, AliveSymbol, DeadSymbol)
}

//RowWith renders the row using alive and dead symbols, one symbol per column
func (u *Universe) RowWith(row uint, alive string, dead string) (string, bool) {
	if row >= u.height {
		return "", false
	}
	start := row * u.width
	return renderRow(u.cells[start:start+u.width], alive, dead), true
}

//String is the canonical text form: every row on its own line, top to bottom
func (u *Universe) String() string {
	var b strings.Builder
	for row := uint(0); ; row++ {
		line, ok := u.Row(row)
		if !ok {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	return b.String()
}

//Row renders the row of the area with alive and dead symbols
func (a Area) Row(row uint, alive string, dead string) (string, bool) {
	if row >= a.Height {
		return "", false
	}
	return renderRow(a.Entities[row], alive, dead), true
}

func renderRow(cells []Cell, alive string, dead string) string {
	var b strings.Builder
	b.Grow(len(cells) * len(alive))
	for _, c := range cells {
		if c == Alive {
			b.WriteString(alive)
		} else {
			b.WriteString(dead)
		}
	}
	return b.String()
}

//createArea allocates the new area with all cells dead
func createArea(width uint, height uint) Area {
	area := Area{Width: width, Height: height, Entities: make([][]Cell, height)}
	b := make([]Cell, width*height)
	for i := range area.Entities {
		start := width * uint(i)
		area.Entities[i] = b[start : start+width : start+width]
	}
	return area
}

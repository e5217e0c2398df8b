package universe

//Tick advances the universe by one generation
//every cell of the next generation is calculated to the spare buffer from the current one,
//then the buffers are swapped, so no cell sees a partially updated neighbourhood
func (u *Universe) Tick() {
	for row := uint(0); row < u.height; row++ {
		for column := uint(0); column < u.width; column++ {
			u.next[u.index(row, column)] = u.cellNextState(row, column)
		}
	}
	u.cells, u.next = u.next, u.cells
}

//cellNextState applies the life rule to the cell at row, column
func (u *Universe) cellNextState(row uint, column uint) Cell {
	n := u.liveNeighbours(row, column)
	switch {
	case n == 3:
		return Alive
	case n == 2:
		return u.cells[u.index(row, column)]
	default:
		return Dead
	}
}

//liveNeighbours counts live cells around row, column
//the edges wrap, so the row above the first one is the last one and the same for columns
func (u *Universe) liveNeighbours(row uint, column uint) int {
	count := 0
	rows := [...]uint{row + u.height - 1, row, row + 1}
	columns := [...]uint{column + u.width - 1, column, column + 1}
	for i, r := range rows {
		for j, c := range columns {
			//skip my position
			if i == 1 && j == 1 {
				continue
			}
			count += int(u.cells[u.index(r%u.height, c%u.width)])
		}
	}
	return count
}

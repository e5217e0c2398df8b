package view

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/logrusorgru/aurora"
	"golang.org/x/term"

	"termlife/src/sim"
)

//ConsoleOut prints every generation to a writer, one frame after another
type ConsoleOut struct {
	w          io.Writer
	au         aurora.Aurora
	liveFiller string
	deadFiller string
}

//NewConsoleOut creates the plain viewer, colors are used only when w is a terminal
func NewConsoleOut(w io.Writer, s Settings) *ConsoleOut {
	colors := isTerminal(w)
	return &ConsoleOut{
		w:          w,
		au:         aurora.NewAurora(colors),
		liveFiller: colorize(s.LiveSymbol, s.LiveColor, colors),
		deadFiller: s.DeadSymbol,
	}
}

//Refresh implements sim.Viewer
func (c *ConsoleOut) Refresh(f sim.Frame) {
	st := f.Status
	var b strings.Builder
	if st.Mode == sim.ModeFinished {
		fmt.Fprintf(&b, "%s generation %d, live cells %d\n", c.au.Red("Finished:"), st.Generation, st.LiveCells)
	} else {
		fmt.Fprintf(&b, "%s %d (live %d)\n", c.au.Green("Generation"), st.Generation, st.LiveCells)
	}
	for row := uint(0); ; row++ {
		line, ok := f.Area.Row(row, c.liveFiller, c.deadFiller)
		if !ok {
			break
		}
		b.WriteString(line)
		b.WriteByte('\n')
	}
	b.WriteByte('\n')
	_, _ = io.WriteString(c.w, b.String())
}

//colorize paints symbol with color, 0 or disabled leaves it as is
func colorize(symbol string, color aurora.Color, enabled bool) string {
	if !enabled || color == 0 {
		return symbol
	}
	return aurora.Colorize(symbol, color).String()
}

func isTerminal(w io.Writer) bool {
	f, ok := w.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

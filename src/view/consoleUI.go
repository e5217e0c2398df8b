package view

import (
	"bytes"
	"context"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/jroimartin/gocui"
	"github.com/logrusorgru/aurora"
	"github.com/pkg/errors"

	"termlife/src/sim"
	"termlife/src/universe"
)

type keyBindings struct {
	key      interface{}
	name     string
	descr    string
	handler  func(v *gocui.View) error
	viewName string
}

//Settings describe how the cells and the configuration panel are displayed
type Settings struct {
	LiveSymbol string
	DeadSymbol string
	LiveColor  aurora.Color //0 disables coloring
	Source     string       //seed file or template name
	Interval   time.Duration
	MaxSteps   int
}

//ConsoleUI is the interactive full screen viewer
//the terminal is switched to the alternate screen by NewConsoleUI and restored by Close
type ConsoleUI struct {
	c         sim.Controller
	g         *gocui.Gui
	k         []keyBindings
	settings  Settings
	closeOnce sync.Once

	liveFiller string
	deadFiller string

	mu    sync.Mutex
	frame sim.Frame
}

var (
	runningStateDescr = map[sim.RunningState]string{
		sim.ModePaused:   aurora.Colorize("paused", aurora.BlueFg).String(),
		sim.ModeRunning:  aurora.Colorize("running", aurora.CyanFg).String(),
		sim.ModeFinished: aurora.Colorize("finished", aurora.RedFg).String(),
	}
)

//NewConsoleUI takes over the terminal, the caller must Close the ConsoleUI on every exit path
func NewConsoleUI(c sim.Controller, s Settings) (*ConsoleUI, error) {
	t := ConsoleUI{
		c:          c,
		settings:   s,
		liveFiller: colorize(s.LiveSymbol, s.LiveColor, true),
		deadFiller: s.DeadSymbol,
	}

	g, err := gocui.NewGui(gocui.OutputNormal)
	if err != nil {
		return nil, errors.Wrap(err, "failed to initialize the terminal")
	}
	t.g = g
	t.g.InputEsc = true

	t.k = []keyBindings{
		{gocui.KeyEsc,
			"ESC",
			"Exit",
			t.cmdQuit,
			""},
		{gocui.KeyCtrlC,
			"^C",
			"Exit",
			t.cmdQuit,
			""},
		{gocui.KeySpace,
			"SPACE",
			"Pause/Resume",
			t.cmdToggle,
			""},
		{'n',
			"N",
			"Next step",
			t.cmdNextRound,
			""},
	}
	t.g.SetManagerFunc(t.layout)

	if err := t.initKeyBindings(t.k); err != nil {
		t.Close()
		return nil, err
	}

	return &t, nil
}

func (t *ConsoleUI) initKeyBindings(k []keyBindings) error {
	for _, kb := range k {
		h := kb.handler
		if err := t.g.SetKeybinding(kb.viewName, kb.key, gocui.ModNone, func(gui *gocui.Gui, view *gocui.View) error { return h(view) }); err != nil {
			return errors.Wrapf(err, "failed to bind key %s", kb.name)
		}
	}
	return nil
}

//MainLoop handles the terminal events until the user quits or ctx is cancelled
func (t *ConsoleUI) MainLoop(ctx context.Context) error {
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			t.g.Update(func(*gocui.Gui) error { return gocui.ErrQuit })
		case <-done:
		}
	}()

	if err := t.g.MainLoop(); err != nil && err != gocui.ErrQuit {
		return errors.Wrap(err, "terminal main loop failed")
	}
	return nil
}

//Close restores the terminal, it is safe to call Close more than once
func (t *ConsoleUI) Close() {
	t.closeOnce.Do(t.g.Close)
}

//Refresh implements sim.Viewer, it can be called from any goroutine
func (t *ConsoleUI) Refresh(f sim.Frame) {
	t.mu.Lock()
	t.frame = f
	t.mu.Unlock()

	//it needs to call Update when calls from goroutine
	t.g.Update(func(g *gocui.Gui) error {
		t.renderField(g, f)
		t.renderStatus(g, f.Status)
		return nil
	})
}

func (t *ConsoleUI) lastFrame() sim.Frame {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.frame
}

func (t *ConsoleUI) renderField(g *gocui.Gui, f sim.Frame) {
	v, e := g.View("battlefield")
	if e != nil {
		return
	}
	v.Clear()
	maxW, maxH := v.Size()
	_, _ = fmt.Fprint(v, renderArea(f.Area, t.liveFiller, t.deadFiller, maxW, maxH))
}

//renderArea draws the field, cropping it to maxW x maxH
//the last visible line is replaced by a warning when the field does not fit
func renderArea(a universe.Area, live string, dead string, maxW int, maxH int) string {
	crop := int(a.Width) > maxW || int(a.Height) > maxH

	var b bytes.Buffer
	for i, l := range a.Entities {
		//discard the data outside the view area
		if i >= maxH {
			break
		}
		//line feed char
		if i != 0 {
			b.WriteByte(10)
		}
		if crop && i == (maxH-1) {
			b.WriteString(aurora.Red("The field size is larger than the viewing area").BgBlack().String())
			break
		}
		for j, e := range l {
			if j >= maxW {
				break
			}
			if e == universe.Alive {
				b.WriteString(live)
			} else {
				b.WriteString(dead)
			}
		}
	}
	return b.String()
}

func (t *ConsoleUI) renderStatus(g *gocui.Gui, s sim.Status) {
	if v, e := g.View("status"); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Generation", "%v", s.Generation))
		_, _ = fmt.Fprintln(v, t.renderProp("Live Cells", "%v", s.LiveCells))
		_, _ = fmt.Fprintln(v, t.renderProp("Tick time", "%v", s.TickTime.Round(time.Microsecond)))
		_, _ = fmt.Fprintln(v, t.renderProp("Mode", "%v", runningStateDescr[s.Mode]))
	}
}

func (t *ConsoleUI) renderConfiguration(g *gocui.Gui) {
	a := t.lastFrame().Area
	if v, e := g.View("configuration"); e == nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, t.renderProp("Dimension", "%v x %v", a.Width, a.Height))
		_, _ = fmt.Fprintln(v, t.renderProp("Seed", "%v", t.settings.Source))
		_, _ = fmt.Fprintln(v, t.renderProp("Interval", "%v", t.settings.Interval))
		if t.settings.MaxSteps > 0 {
			_, _ = fmt.Fprintln(v, t.renderProp("Generations", "%v", t.settings.MaxSteps))
		} else {
			_, _ = fmt.Fprintln(v, t.renderProp("Generations", "unlimited"))
		}
	}
}

func (t *ConsoleUI) renderProp(name string, valueformat string, values ...interface{}) string {
	return fmt.Sprintf(" "+aurora.Colorize(name, aurora.GreenFg).String()+": "+valueformat, values...)
}

func (t *ConsoleUI) layout(g *gocui.Gui) error {

	maxX, maxY := g.Size()
	leftColumnWidth := 28
	minWindowHeight := 12

	if maxY < minWindowHeight {
		if _, err := t.headerLayout(g, maxY, "Terminal height too small"); err != nil {
			if err != gocui.ErrUnknownView {
				return err
			}
		}
		_ = g.DeleteView("configuration")
		_ = g.DeleteView("status")
		_ = g.DeleteView("battlefield")
		_ = g.DeleteView("help")
		return nil
	}

	if _, err := t.headerLayout(g, 2, "Conway's Game of Life"); err != nil {
		if err != gocui.ErrUnknownView {
			return err
		}
	}

	if v, err := g.SetView("configuration", 0, 3, leftColumnWidth, 3+(maxY-5-3)/2); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Configuration"
		v.Frame = true
	}
	t.renderConfiguration(g)

	if v, err := g.SetView("status", 0, 3+(maxY-5-3)/2+1, leftColumnWidth, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Status"
		v.Frame = true
	}

	if v, err := g.SetView("battlefield", leftColumnWidth+1, 3, maxX-1, maxY-5); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Title = "Universe"
		v.Frame = true
	}
	f := t.lastFrame()
	t.renderField(g, f)
	t.renderStatus(g, f.Status)

	if v, err := g.SetView("help", -1, maxY-5, maxX, maxY-3); err != nil {
		if err != gocui.ErrUnknownView || v == nil {
			return err
		}
		v.Frame = false
		b := bytes.Buffer{}
		b.WriteString("KEYBINDINGS: ")
		for i, k := range t.k {
			if i != 0 {
				b.WriteString(", ")
			}
			b.WriteString(aurora.Green(k.name).String())
			b.WriteString(": ")
			b.WriteString(k.descr)
		}
		_, _ = fmt.Fprintln(v, b.String())
	}

	return nil
}

func (t *ConsoleUI) headerLayout(g *gocui.Gui, height int, text string) (v *gocui.View, err error) {
	maxX, _ := g.Size()
	if v, err = g.SetView("header", -1, -1, maxX+1, height); err != nil {
		if err == gocui.ErrUnknownView && v != nil {
			v.Frame = false
			v.BgColor = gocui.ColorCyan
			v.FgColor = gocui.ColorBlack
		}
	}
	if v != nil {
		v.Clear()
		_, _ = fmt.Fprintln(v, centered(text, maxX, height))
	}
	return
}

//centered places text in the middle of a width x height box
func centered(text string, width int, height int) string {
	if width < len(text) {
		text = text[:max(width, 0)]
	}
	return strings.Repeat("\n", max(height/2, 0)) + strings.Repeat(" ", (width-len(text))/2) + text
}

func (t *ConsoleUI) cmdQuit(_ *gocui.View) error {
	return gocui.ErrQuit
}

func (t *ConsoleUI) cmdNextRound(_ *gocui.View) error {
	t.c.Step()
	return nil
}

func (t *ConsoleUI) cmdToggle(_ *gocui.View) error {
	t.c.Toggle()
	return nil
}

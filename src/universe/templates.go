package universe

import (
	"sort"

	"github.com/pkg/errors"
)

//Template represents the seeding template which can be used to settle the universe with predefined data
type Template struct {
	Name        string  //template name
	Descr       string  //template descr
	Coordinates []Coord //cells to settle, as row, column pairs
}

var templates = map[string]Template{}

func init() {
	for _, t := range []Template{
		{"blinker", "period 2 oscillator, the default seed", []Coord{{2, 1}, {2, 2}, {2, 3}}},
		{"glider", "the smallest spaceship, travels diagonally", []Coord{{1, 2}, {2, 3}, {3, 1}, {3, 2}, {3, 3}}},
		{"block", "2x2 still life", []Coord{{1, 1}, {1, 2}, {2, 1}, {2, 2}}},
		{"toad", "period 2 oscillator", []Coord{{2, 2}, {2, 3}, {2, 4}, {3, 1}, {3, 2}, {3, 3}}},
		{"beacon", "period 2 oscillator made of two blocks", []Coord{{1, 1}, {1, 2}, {2, 1}, {3, 4}, {4, 3}, {4, 4}}},
		{"sample", "the test sample with 3 stable patterns", []Coord{
			{1, 1}, {2, 1},
			{1, 2}, {2, 2},
			{3, 3},
			{2, 4},
			{3, 4},
			{3, 5},
		}},
	} {
		RegisterTemplate(t)
	}
}

//RegisterTemplate adds the template to the registry, replacing any template with the same name
func RegisterTemplate(t Template) {
	templates[t.Name] = t
}

//LookupTemplate returns the registered template by name
func LookupTemplate(name string) (Template, bool) {
	t, ok := templates[name]
	return t, ok
}

//Templates lists the registered templates sorted by name
func Templates() []Template {
	list := make([]Template, 0, len(templates))
	for _, t := range templates {
		list = append(list, t)
	}
	sort.Slice(list, func(i, j int) bool { return list[i].Name < list[j].Name })
	return list
}

//Bounds returns the smallest universe size holding every template cell
func (t Template) Bounds() (width uint, height uint) {
	for _, c := range t.Coordinates {
		if c.Column+1 > width {
			width = c.Column + 1
		}
		if c.Row+1 > height {
			height = c.Row + 1
		}
	}
	return
}

//Apply settles the universe with the template cells
func (t Template) Apply(u *Universe) error {
	if err := u.SetCells(t.Coordinates...); err != nil {
		return errors.Wrapf(err, "template %q", t.Name)
	}
	return nil
}

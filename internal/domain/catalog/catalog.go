// Package catalog holds the read-only challenge and action tables.
//
// Tables are decoded from TOML once and never mutated; accessors hand out
// copies so callers cannot change them.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/okian/outgoing/internal/domain/model"
)

// ChallengeLength is the number of days in the challenge.
const ChallengeLength = 7

//go:embed catalog.toml
var defaultTOML []byte

type document struct {
	Days       []dayDoc      `toml:"days"`
	Categories []categoryDoc `toml:"categories"`
}

type dayDoc struct {
	Day    int    `toml:"day"`
	Task   string `toml:"task"`
	Points int    `toml:"points"`
}

type categoryDoc struct {
	Name    string      `toml:"name"`
	Actions []actionDoc `toml:"actions"`
}

type actionDoc struct {
	ID     string `toml:"id"`
	Name   string `toml:"name"`
	Points int    `toml:"points"`
}

// Catalog is the immutable set of challenge days and actions.
type Catalog struct {
	days       []model.ChallengeDay
	categories []model.Category
	byID       map[string]model.Action
}

// Default returns the built-in catalog. It panics if the embedded table is malformed.
func Default() *Catalog {
	c, err := Parse(defaultTOML)
	if err != nil {
		panic(fmt.Sprintf("embedded catalog: %v", err))
	}
	return c
}

// Load reads and validates a catalog file.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog %s: %w", path, err)
	}
	return Parse(data)
}

// Parse decodes and validates a TOML catalog.
func Parse(data []byte) (*Catalog, error) {
	var doc document
	md, err := toml.Decode(string(data), &doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidCatalog, err)
	}
	if undecoded := md.Undecoded(); len(undecoded) > 0 {
		return nil, fmt.Errorf("%w: unknown key %s", ErrInvalidCatalog, undecoded[0])
	}
	return build(doc)
}

func build(doc document) (*Catalog, error) {
	if len(doc.Days) != ChallengeLength {
		return nil, fmt.Errorf("%w: want %d days, got %d", ErrInvalidCatalog, ChallengeLength, len(doc.Days))
	}

	c := &Catalog{
		days: make([]model.ChallengeDay, 0, len(doc.Days)),
		byID: make(map[string]model.Action),
	}
	for i, d := range doc.Days {
		switch {
		case d.Day != i+1:
			return nil, fmt.Errorf("%w: day %d listed at position %d", ErrInvalidCatalog, d.Day, i+1)
		case strings.TrimSpace(d.Task) == "":
			return nil, fmt.Errorf("%w: day %d has no task", ErrInvalidCatalog, d.Day)
		case d.Points <= 0:
			return nil, fmt.Errorf("%w: day %d points must be positive", ErrInvalidCatalog, d.Day)
		}
		c.days = append(c.days, model.ChallengeDay{Day: d.Day, Task: d.Task, Points: d.Points})
	}

	if len(doc.Categories) == 0 {
		return nil, fmt.Errorf("%w: no action categories", ErrInvalidCatalog)
	}
	for _, cd := range doc.Categories {
		if strings.TrimSpace(cd.Name) == "" {
			return nil, fmt.Errorf("%w: category without a name", ErrInvalidCatalog)
		}
		cat := model.Category{Name: cd.Name, Actions: make([]model.Action, 0, len(cd.Actions))}
		for _, ad := range cd.Actions {
			switch {
			case strings.TrimSpace(ad.ID) == "":
				return nil, fmt.Errorf("%w: action %q in %q has no id", ErrInvalidCatalog, ad.Name, cd.Name)
			case strings.TrimSpace(ad.Name) == "":
				return nil, fmt.Errorf("%w: action %q has no name", ErrInvalidCatalog, ad.ID)
			case ad.Points <= 0:
				return nil, fmt.Errorf("%w: action %q points must be positive", ErrInvalidCatalog, ad.ID)
			}
			if _, dup := c.byID[ad.ID]; dup {
				return nil, fmt.Errorf("%w: duplicate action id %q", ErrInvalidCatalog, ad.ID)
			}
			a := model.Action{ID: ad.ID, Category: cd.Name, Name: ad.Name, Points: ad.Points}
			c.byID[a.ID] = a
			cat.Actions = append(cat.Actions, a)
		}
		c.categories = append(c.categories, cat)
	}
	return c, nil
}

// Len returns the number of challenge days.
func (c *Catalog) Len() int { return len(c.days) }

// Day returns challenge day n (1-based).
func (c *Catalog) Day(n int) (model.ChallengeDay, error) {
	if n < 1 || n > len(c.days) {
		return model.ChallengeDay{}, fmt.Errorf("%w: %d not in [1,%d]", ErrDayOutOfRange, n, len(c.days))
	}
	return c.days[n-1], nil
}

// Days returns all challenge days in order.
func (c *Catalog) Days() []model.ChallengeDay {
	out := make([]model.ChallengeDay, len(c.days))
	copy(out, c.days)
	return out
}

// Action looks up an action by id.
func (c *Catalog) Action(id string) (model.Action, error) {
	a, ok := c.byID[id]
	if !ok {
		return model.Action{}, fmt.Errorf("%w: %q", ErrInvalidAction, id)
	}
	return a, nil
}

// Categories returns the actions grouped by category, in catalog order.
func (c *Catalog) Categories() []model.Category {
	out := make([]model.Category, len(c.categories))
	for i, cat := range c.categories {
		actions := make([]model.Action, len(cat.Actions))
		copy(actions, cat.Actions)
		out[i] = model.Category{Name: cat.Name, Actions: actions}
	}
	return out
}

// Actions returns every action in catalog order.
func (c *Catalog) Actions() []model.Action {
	var out []model.Action
	for _, cat := range c.categories {
		out = append(out, cat.Actions...)
	}
	return out
}

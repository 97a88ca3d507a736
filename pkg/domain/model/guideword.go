package model

import (
	"github.com/m-mizutani/goerr/v2"
	"github.com/secmon-lab/riskscope/pkg/domain/types"
)

// Guideword is a checklist prompt used to systematically enumerate risks
type Guideword struct {
	Category    types.GuidewordCategory `json:"category"`
	Name        string                  `json:"name"`
	Description string                  `json:"description"`
	Example     string                  `json:"example,omitempty"`
}

// Validate checks if the guideword is well-formed
func (g Guideword) Validate() error {
	if !g.Category.IsValid() {
		return goerr.Wrap(ErrInvalidGuideword, "unknown category",
			goerr.V("name", g.Name), goerr.V("category", g.Category))
	}
	if g.Name == "" {
		return goerr.Wrap(ErrInvalidGuideword, "name is required")
	}
	if g.Description == "" {
		return goerr.Wrap(ErrInvalidGuideword, "description is required", goerr.V("name", g.Name))
	}
	return nil
}

// GuidewordCatalog is the immutable set of guidewords loaded at startup
type GuidewordCatalog struct {
	entries []Guideword
	byName  map[string]int
}

// NewGuidewordCatalog validates entries and builds a catalog preserving their order
func NewGuidewordCatalog(entries []Guideword) (*GuidewordCatalog, error) {
	c := &GuidewordCatalog{
		entries: make([]Guideword, 0, len(entries)),
		byName:  make(map[string]int, len(entries)),
	}

	for _, gw := range entries {
		if err := gw.Validate(); err != nil {
			return nil, err
		}
		if _, ok := c.byName[gw.Name]; ok {
			return nil, goerr.Wrap(ErrDuplicateGuideword, "guideword already registered", goerr.V("name", gw.Name))
		}
		c.byName[gw.Name] = len(c.entries)
		c.entries = append(c.entries, gw)
	}

	return c, nil
}

// All returns a copy of every guideword in catalog order
func (c *GuidewordCatalog) All() []Guideword {
	out := make([]Guideword, len(c.entries))
	copy(out, c.entries)
	return out
}

// Len returns the number of guidewords
func (c *GuidewordCatalog) Len() int {
	return len(c.entries)
}

// Get looks up a guideword by name
func (c *GuidewordCatalog) Get(name string) (Guideword, bool) {
	idx, ok := c.byName[name]
	if !ok {
		return Guideword{}, false
	}
	return c.entries[idx], true
}

// Filter returns the guidewords whose names are in names, in catalog order.
// An empty or nil set selects the whole catalog; unknown names are ignored.
func (c *GuidewordCatalog) Filter(names []string) []Guideword {
	if len(names) == 0 {
		return c.All()
	}

	selected := make(map[string]struct{}, len(names))
	for _, n := range names {
		selected[n] = struct{}{}
	}

	out := make([]Guideword, 0, len(names))
	for _, gw := range c.entries {
		if _, ok := selected[gw.Name]; ok {
			out = append(out, gw)
		}
	}
	return out
}

// GuidewordGroup is a run of guidewords sharing a category
type GuidewordGroup struct {
	Category   types.GuidewordCategory
	Guidewords []Guideword
}

// GroupGuidewords groups guidewords by category, ordering groups by first appearance
func GroupGuidewords(list []Guideword) []GuidewordGroup {
	var groups []GuidewordGroup
	index := make(map[types.GuidewordCategory]int)

	for _, gw := range list {
		i, ok := index[gw.Category]
		if !ok {
			i = len(groups)
			index[gw.Category] = i
			groups = append(groups, GuidewordGroup{Category: gw.Category})
		}
		groups[i].Guidewords = append(groups[i].Guidewords, gw)
	}
	return groups
}

// Package model contains domain models passed between layers.
package model

import "time"

// Teen represents a named participant in a group's scoreboard.
type Teen struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// Category is a named, point-valued scoring criterion. The effective point
// value is looked up in Bundle.CategoryPoints with DefaultPoints as the
// fallback, so values can be edited without touching category identity.
type Category struct {
	Key           string `json:"key"`
	Label         string `json:"label"`
	DefaultPoints int    `json:"defaultPoints"`
}

// Scores maps teen id -> category key -> accumulated points.
// Missing entries read as zero.
type Scores map[string]map[string]int

// Bundle is the full per-group state synchronized with the remote
// document: the four collections plus sync metadata.
type Bundle struct {
	Teens          []Teen         `json:"teens"`
	Categories     []Category     `json:"categoriesConfig"`
	CategoryPoints map[string]int `json:"categoryPoints"`
	Scores         Scores         `json:"scores"`

	// UpdatedAt is assigned by the remote store on save.
	UpdatedAt time.Time `json:"updatedAt"`
	// Origin is the write token of the client that produced this
	// snapshot. Subscribers use it to recognize their own echoes.
	Origin string `json:"origin,omitempty"`
}

// Clone returns a deep copy so a snapshot handed to the sync engine is
// immune to later local mutation. Emptiness is preserved: an empty
// collection stays empty rather than collapsing to nil, because nil
// marshals as JSON null and reads back as "field not reported", which
// would keep an emptied roster alive on other clients forever.
func (b Bundle) Clone() Bundle {
	out := b
	out.Teens = cloneSlice(b.Teens)
	out.Categories = cloneSlice(b.Categories)
	out.CategoryPoints = clonePoints(b.CategoryPoints)
	out.Scores = b.Scores.Clone()
	return out
}

func cloneSlice[T any](in []T) []T {
	if in == nil {
		return nil
	}
	out := make([]T, len(in))
	copy(out, in)
	return out
}

// Clone returns a deep copy of the score records.
func (s Scores) Clone() Scores {
	if s == nil {
		return nil
	}
	out := make(Scores, len(s))
	for id, rec := range s {
		c := make(map[string]int, len(rec))
		for k, v := range rec {
			c[k] = v
		}
		out[id] = c
	}
	return out
}

func clonePoints(p map[string]int) map[string]int {
	if p == nil {
		return nil
	}
	out := make(map[string]int, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// DefaultCategories is the factory category registry for a fresh group.
func DefaultCategories() []Category {
	return []Category{
		{Key: "presenca", Label: "Presença", DefaultPoints: 2},
		{Key: "biblia", Label: "Bíblia", DefaultPoints: 2},
		{Key: "licao", Label: "Estudo da Lição", DefaultPoints: 3},
		{Key: "kahoot", Label: "Kahoot", DefaultPoints: 1},
		{Key: "participacao", Label: "Participação", DefaultPoints: 1},
		{Key: "amigo", Label: "Trouxe um amigo", DefaultPoints: 4},
	}
}

// DefaultTeens is the factory roster for a fresh group.
func DefaultTeens() []Teen {
	return []Teen{
		{ID: "t1", Name: "Ana"},
		{ID: "t2", Name: "Bruno"},
		{ID: "t3", Name: "Carla"},
		{ID: "t4", Name: "Diego"},
	}
}

// DefaultCategoryPoints derives the initial points mapping from a registry.
func DefaultCategoryPoints(categories []Category) map[string]int {
	out := make(map[string]int, len(categories))
	for _, c := range categories {
		out[c.Key] = c.DefaultPoints
	}
	return out
}

// DefaultBundle assembles a complete fresh group state.
func DefaultBundle() Bundle {
	cats := DefaultCategories()
	return Bundle{
		Teens:          DefaultTeens(),
		Categories:     cats,
		CategoryPoints: DefaultCategoryPoints(cats),
		Scores:         Scores{},
	}
}

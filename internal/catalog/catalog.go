// Package catalog holds the fixed taxonomy of music categories.
package catalog

import (
	"fmt"
	"strings"
)

// MusicCategory describes one music-mood category and its properties.
type MusicCategory struct {
	Name        string `json:"name"`
	BPMRange    string `json:"bpm_range"`
	Description string `json:"description"`
}

// Catalog is the fixed, ordered set of music categories. It is loaded once at
// process start and never mutated.
type Catalog struct {
	ordered []MusicCategory
	byName  map[string]MusicCategory
}

// Default returns the six-category catalog used by the assistant.
// Order matters: Format() renders entries in this order and the rendering is
// embedded verbatim into the analysis prompt.
func Default() *Catalog {
	return New([]MusicCategory{
		{Name: "Running", BPMRange: "120-140", Description: "Musica motivazionale per attività sportiva"},
		{Name: "Kitchen", BPMRange: "80-100", Description: "Ritmi allegri per cucinare e socializzare"},
		{Name: "Ambient", BPMRange: "60-80", Description: "Soundscape atmosferici e texture elettroniche"},
		{Name: "Relaxing", BPMRange: "50-70", Description: "Melodie calmanti per meditazione e rilassamento"},
		{Name: "Working", BPMRange: "90-110", Description: "Musica strumentale per concentrazione"},
		{Name: "Walking", BPMRange: "100-120", Description: "Ritmi naturali e brani cantautorali"},
	})
}

// New builds a catalog from the given categories, preserving their order.
func New(categories []MusicCategory) *Catalog {
	c := &Catalog{
		ordered: make([]MusicCategory, len(categories)),
		byName:  make(map[string]MusicCategory, len(categories)),
	}
	copy(c.ordered, categories)
	for _, cat := range categories {
		c.byName[cat.Name] = cat
	}
	return c
}

// Categories returns the categories in declaration order.
func (c *Catalog) Categories() []MusicCategory {
	out := make([]MusicCategory, len(c.ordered))
	copy(out, c.ordered)
	return out
}

// Get returns the category with the given name.
func (c *Catalog) Get(name string) (MusicCategory, bool) {
	cat, ok := c.byName[name]
	return cat, ok
}

// Contains reports whether name is one of the catalog categories.
func (c *Catalog) Contains(name string) bool {
	_, ok := c.byName[name]
	return ok
}

// Len returns the number of categories.
func (c *Catalog) Len() int {
	return len(c.ordered)
}

// Format renders all entries as "<name>: (<bpmRange> BPM) <description>" lines,
// one per category, in declaration order. This exact rendering is part of the
// model-facing contract and must not silently change.
func (c *Catalog) Format() string {
	lines := make([]string, 0, len(c.ordered))
	for _, cat := range c.ordered {
		lines = append(lines, fmt.Sprintf("%s: (%s BPM) %s", cat.Name, cat.BPMRange, cat.Description))
	}
	return strings.Join(lines, "\n")
}

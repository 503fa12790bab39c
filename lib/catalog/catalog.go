// Package catalog holds the relation catalog a translation runs against:
// the mapping from relation name to base relation. The translator never
// mutates entries; every hit is copied before it is embedded in a plan.
package catalog

import (
	"fmt"
	"sort"
	"strings"

	"github.com/RomeoSajina/relax/lib/plan"
)

// Catalog maps relation names to base relations. Names are case-sensitive.
type Catalog struct {
	relations map[string]*plan.Relation
}

// New returns an empty catalog.
func New() *Catalog {
	return &Catalog{relations: make(map[string]*plan.Relation)}
}

// Register adds a base relation under its own name.
func (c *Catalog) Register(r *plan.Relation) error {
	name := strings.TrimSpace(r.Name)
	if name == "" {
		return fmt.Errorf("catalog: relation name cannot be empty")
	}
	if _, exists := c.relations[name]; exists {
		return fmt.Errorf("catalog: duplicate relation name %q", name)
	}
	c.relations[name] = r
	return nil
}

// Get looks up a base relation by name. The returned relation is the catalog
// entry itself; callers that embed it must copy it first.
func (c *Catalog) Get(name string) (*plan.Relation, bool) {
	r, ok := c.relations[name]
	return r, ok
}

// List returns all registered relation names, sorted.
func (c *Catalog) List() []string {
	names := make([]string, 0, len(c.relations))
	for name := range c.relations {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

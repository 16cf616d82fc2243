// Package catalog loads the shop's item list.
package catalog

import (
	_ "embed"
	"fmt"
	"os"
	"sort"

	"gopkg.in/yaml.v3"

	"cozyminds/internal/engagement"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

type Item struct {
	ID          string `yaml:"id"`
	Name        string `yaml:"name"`
	Category    string `yaml:"category"`
	Price       int    `yaml:"price"`
	Description string `yaml:"description"`
}

func (i Item) Engagement() engagement.Item {
	return engagement.Item{ID: i.ID, Name: i.Name, Category: i.Category, Price: i.Price}
}

// Catalog is immutable after Parse.
type Catalog struct {
	items []Item
	byID  map[string]Item
}

type file struct {
	Items []Item `yaml:"items"`
}

var knownCategories = map[string]bool{
	engagement.CategoryTheme:       true,
	engagement.CategoryBadge:       true,
	engagement.CategorySticker:     true,
	engagement.CategoryConceptPack: true,
	engagement.CategoryMailTheme:   true,
}

// Load reads path, or the embedded default catalog when path is empty.
func Load(path string) (*Catalog, error) {
	if path == "" {
		return Parse(defaultCatalog)
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}
	return Parse(raw)
}

func Default() *Catalog {
	c, err := Parse(defaultCatalog)
	if err != nil {
		panic(err)
	}
	return c
}

func Parse(raw []byte) (*Catalog, error) {
	var f file
	if err := yaml.Unmarshal(raw, &f); err != nil {
		return nil, fmt.Errorf("parse catalog: %w", err)
	}
	if len(f.Items) == 0 {
		return nil, fmt.Errorf("parse catalog: no items")
	}

	c := &Catalog{byID: make(map[string]Item, len(f.Items))}
	for _, it := range f.Items {
		switch {
		case it.ID == "":
			return nil, fmt.Errorf("parse catalog: item without id")
		case !knownCategories[it.Category]:
			return nil, fmt.Errorf("parse catalog: item %q has unknown category %q", it.ID, it.Category)
		case it.Price < 0:
			return nil, fmt.Errorf("parse catalog: item %q has negative price", it.ID)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("parse catalog: duplicate item %q", it.ID)
		}
		if it.Name == "" {
			it.Name = it.ID
		}
		c.byID[it.ID] = it
		c.items = append(c.items, it)
	}

	sort.SliceStable(c.items, func(i, j int) bool {
		if c.items[i].Category != c.items[j].Category {
			return c.items[i].Category < c.items[j].Category
		}
		return c.items[i].Price < c.items[j].Price
	})
	return c, nil
}

func (c *Catalog) Find(id string) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Items returns a copy sorted by category then price.
func (c *Catalog) Items() []Item {
	return append([]Item(nil), c.items...)
}

package catalog

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

var (
	ErrDuplicateID = errors.New("duplicate item id")
	ErrEmpty       = errors.New("catalog has no items")
)

var validate = validator.New()

// Item is one study card. Only ID matters to the study engine; the rest is
// display payload.
type Item struct {
	ID        string `json:"id" yaml:"id" validate:"required"`
	Character string `json:"character" yaml:"character" validate:"required"`
	Sound     string `json:"sound" yaml:"sound"`
	Meaning   string `json:"meaning" yaml:"meaning"`
	Base      string `json:"base" yaml:"base"`                    // radical
	Total     int    `json:"total" yaml:"total" validate:"gte=0"` // stroke count
}

// Catalog is the read-only, ordered list of items.
type Catalog struct {
	items []Item
	byID  map[string]int
}

// New validates items and builds a catalog preserving their order.
func New(items []Item) (*Catalog, error) {
	if len(items) == 0 {
		return nil, ErrEmpty
	}

	c := &Catalog{
		items: make([]Item, len(items)),
		byID:  make(map[string]int, len(items)),
	}
	copy(c.items, items)

	for i, it := range c.items {
		if err := validate.Struct(it); err != nil {
			return nil, fmt.Errorf("item %d: %w", i, err)
		}
		if _, dup := c.byID[it.ID]; dup {
			return nil, fmt.Errorf("%w: %q", ErrDuplicateID, it.ID)
		}
		c.byID[it.ID] = i
	}
	return c, nil
}

// Load reads a catalog file. Files ending in .yaml or .yml are decoded as
// YAML, everything else as JSON.
func Load(path string) (*Catalog, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read catalog: %w", err)
	}

	var items []Item
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &items)
	default:
		err = json.Unmarshal(data, &items)
	}
	if err != nil {
		return nil, fmt.Errorf("decode catalog %s: %w", path, err)
	}
	return New(items)
}

func (c *Catalog) Len() int {
	return len(c.items)
}

// Items returns a copy of all items in catalog order.
func (c *Catalog) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// IDs returns every item id in catalog order.
func (c *Catalog) IDs() []string {
	ids := make([]string, len(c.items))
	for i, it := range c.items {
		ids[i] = it.ID
	}
	return ids
}

func (c *Catalog) Get(id string) (Item, bool) {
	i, ok := c.byID[id]
	if !ok {
		return Item{}, false
	}
	return c.items[i], true
}

// Lookup resolves ids to items, skipping ids the catalog does not know.
func (c *Catalog) Lookup(ids []string) []Item {
	out := make([]Item, 0, len(ids))
	for _, id := range ids {
		if it, ok := c.Get(id); ok {
			out = append(out, it)
		}
	}
	return out
}

// Line renders an item the way list views show it.
func (it Item) Line() string {
	return fmt.Sprintf("%s (%s) - %s · radical %s · %d strokes", it.Character, it.Sound, it.Meaning, it.Base, it.Total)
}

package demo

import (
	"cmp"
	"fmt"
	"reflect"
	"strconv"

	"github.com/specialistvlad/viewparams/internal/convert"
)

// Item is a selectable row in views two and three.
type Item struct {
	ID    int
	Value string
}

// DefaultItems returns n items with ids 1..n.
func DefaultItems(n int) []Item {
	items := make([]Item, n)
	for i := range items {
		items[i] = Item{ID: i + 1, Value: fmt.Sprintf("item-%03d", i+1)}
	}
	return items
}

// ItemConverter maps an Item to its id and back, looking ids up in a fixed
// list of items.
type ItemConverter struct {
	items []Item
	byID  map[int]Item
}

// NewItemConverter indexes items by id.
func NewItemConverter(items []Item) *ItemConverter {
	c := &ItemConverter{items: items, byID: make(map[int]Item, len(items))}
	for _, it := range items {
		c.byID[it.ID] = it
	}
	return c
}

func (c *ItemConverter) Type() convert.Type   { return convert.Simple("Item") }
func (c *ItemConverter) GoType() reflect.Type { return reflect.TypeFor[Item]() }
func (c *ItemConverter) String() string       { return fmt.Sprintf("items(%d)", len(c.items)) }

// Items returns the known items in their original order.
func (c *ItemConverter) Items() []Item { return append([]Item(nil), c.items...) }

// Lookup returns the item with the given id.
func (c *ItemConverter) Lookup(id int) (Item, bool) {
	it, ok := c.byID[id]
	return it, ok
}

// Decode resolves an id. Ids that name no item do not decode.
func (c *ItemConverter) Decode(s string) (any, error) {
	if s == "" {
		return nil, nil
	}
	id, err := strconv.Atoi(s)
	if err != nil {
		return nil, fmt.Errorf("%w %q as Item: %w", convert.ErrDecode, s, err)
	}
	it, ok := c.byID[id]
	if !ok {
		return nil, fmt.Errorf("%w %q as Item: no such item", convert.ErrDecode, s)
	}
	return it, nil
}

// Encode renders the id of v. nil and the zero Item encode as "".
func (c *ItemConverter) Encode(v any) (string, error) {
	if v == nil {
		return "", nil
	}
	it, ok := v.(Item)
	if !ok {
		return "", fmt.Errorf("%w %v (%T) as Item", convert.ErrEncode, v, v)
	}
	if it == (Item{}) {
		return "", nil
	}
	return strconv.Itoa(it.ID), nil
}

// Compare orders items by id.
func (c *ItemConverter) Compare(a, b any) int {
	return cmp.Compare(a.(Item).ID, b.(Item).ID)
}

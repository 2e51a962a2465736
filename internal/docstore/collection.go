package docstore

import (
	"errors"
	"slices"
)

// ErrNoItem is returned by Collection when no item has the requested ID.
var ErrNoItem = errors.New("no such item")

// Collection is a JSON array document of items addressed by ID.
type Collection[T any] struct {
	store     *Store
	name      string
	id        func(*T) string
	normalize func(*T)
}

// NewCollection binds a collection to the named document. normalize, when not nil,
// fixes up every item read from disk.
func NewCollection[T any](s *Store, name string, id func(*T) string, normalize func(*T)) *Collection[T] {
	return &Collection[T]{store: s, name: name, id: id, normalize: normalize}
}

// Name returns the document name.
func (c *Collection[T]) Name() string { return c.name }

func (c *Collection[T]) List() []*T {
	return c.clean(Read(c.store, c.name, []*T{}))
}

func (c *Collection[T]) Get(id string) (*T, error) {
	items := c.List()

	idx := c.index(items, id)
	if idx == -1 {
		return nil, ErrNoItem
	}

	return items[idx], nil
}

func (c *Collection[T]) Add(item *T) error {
	_, err := Update(c.store, c.name, []*T{}, func(items []*T) ([]*T, error) {
		return append(c.clean(items), item), nil
	})

	return err
}

// Update applies fn to a copy of the item with the given ID and stores the copy.
// When fn fails nothing is written.
func (c *Collection[T]) Update(id string, fn func(*T) error) (*T, error) {
	var updated *T

	_, err := Update(c.store, c.name, []*T{}, func(items []*T) ([]*T, error) {
		items = c.clean(items)

		idx := c.index(items, id)
		if idx == -1 {
			return nil, ErrNoItem
		}

		cp := *items[idx]
		if err := fn(&cp); err != nil {
			return nil, err
		}

		items[idx] = &cp
		updated = &cp

		return items, nil
	})
	if err != nil {
		return nil, err
	}

	return updated, nil
}

// Delete removes the item with the given ID and reports whether it existed.
// Nothing is written when it did not.
func (c *Collection[T]) Delete(id string) (bool, error) {
	found := false

	_, err := Update(c.store, c.name, []*T{}, func(items []*T) ([]*T, error) {
		items = c.clean(items)

		idx := c.index(items, id)
		if idx == -1 {
			return nil, ErrNoItem
		}

		found = true

		return slices.Delete(items, idx, idx+1), nil
	})
	if errors.Is(err, ErrNoItem) {
		return false, nil
	}

	return found, err
}

func (c *Collection[T]) index(items []*T, id string) int {
	return slices.IndexFunc(items, func(item *T) bool { return c.id(item) == id })
}

func (c *Collection[T]) clean(items []*T) []*T {
	items = slices.DeleteFunc(items, func(item *T) bool { return item == nil })

	if c.normalize != nil {
		for _, item := range items {
			c.normalize(item)
		}
	}

	return items
}

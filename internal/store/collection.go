// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"
	"fmt"

	"github.com/goccy/go-json"
)

// Keys are the index entries derived from a record.
type Keys struct {
	ID     string
	Unique []string
	Refs   []string
}

// IndexFunc derives the keys of a record. It is called on every write so
// index entries always follow the record's current state.
type IndexFunc[T any] func(v *T) Keys

// Collection is typed access to one backend collection.
type Collection[T any] struct {
	backend Backend
	name    string
	index   IndexFunc[T]
}

// NewCollection binds a record type to a backend collection.
func NewCollection[T any](backend Backend, name string, index IndexFunc[T]) *Collection[T] {
	return &Collection[T]{backend: backend, name: name, index: index}
}

// Name returns the collection name.
func (c *Collection[T]) Name() string {
	return c.name
}

func (c *Collection[T]) document(v *T) (Document, error) {
	body, err := json.Marshal(v)
	if err != nil {
		return Document{}, fmt.Errorf("marshal %s record: %w", c.name, err)
	}
	k := c.index(v)
	return Document{ID: k.ID, Body: body, Unique: k.Unique, Refs: k.Refs}, nil
}

func (c *Collection[T]) decode(body []byte) (*T, error) {
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		return nil, fmt.Errorf("decode %s record: %w", c.name, err)
	}
	return &v, nil
}

// Insert stores a new record. ErrDuplicate when a unique key is taken.
func (c *Collection[T]) Insert(ctx context.Context, v *T) error {
	doc, err := c.document(v)
	if err != nil {
		return err
	}
	if doc.ID == "" {
		return fmt.Errorf("insert %s: empty id", c.name)
	}
	return c.backend.Insert(ctx, c.name, doc)
}

// Get loads a record by id.
func (c *Collection[T]) Get(ctx context.Context, id string) (*T, error) {
	body, err := c.backend.Get(ctx, c.name, id)
	if err != nil {
		return nil, err
	}
	return c.decode(body)
}

// GetByUnique loads the record owning a unique key.
func (c *Collection[T]) GetByUnique(ctx context.Context, key string) (*T, error) {
	body, err := c.backend.GetByUnique(ctx, c.name, key)
	if err != nil {
		return nil, err
	}
	return c.decode(body)
}

// Find returns the records carrying ref. An empty ref returns the whole
// collection.
func (c *Collection[T]) Find(ctx context.Context, ref string) ([]T, error) {
	return c.FindWhere(ctx, ref, nil)
}

// FindWhere is Find with an additional in-process filter. A nil keep
// accepts every record.
func (c *Collection[T]) FindWhere(ctx context.Context, ref string, keep func(*T) bool) ([]T, error) {
	bodies, err := c.backend.Find(ctx, c.name, ref)
	if err != nil {
		return nil, err
	}
	out := make([]T, 0, len(bodies))
	for _, body := range bodies {
		v, err := c.decode(body)
		if err != nil {
			return nil, err
		}
		if keep == nil || keep(v) {
			out = append(out, *v)
		}
	}
	return out, nil
}

// Update applies fn to the stored record inside one transaction and
// returns the persisted result. fn may be called more than once.
func (c *Collection[T]) Update(ctx context.Context, id string, fn func(v *T) error) (*T, error) {
	var result *T
	err := c.backend.Mutate(ctx, c.name, id, func(current []byte) (Document, error) {
		v, err := c.decode(current)
		if err != nil {
			return Document{}, err
		}
		if err := fn(v); err != nil {
			return Document{}, err
		}
		doc, err := c.document(v)
		if err != nil {
			return Document{}, err
		}
		result = v
		return doc, nil
	})
	if err != nil {
		return nil, err
	}
	return result, nil
}

// Delete removes a record.
func (c *Collection[T]) Delete(ctx context.Context, id string) error {
	return c.backend.Delete(ctx, c.name, id)
}

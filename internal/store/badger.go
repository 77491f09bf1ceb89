// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/tomtom215/cinescope/internal/logging"
)

// Key layout:
//
//	d/<coll>/<id>          envelope (unique keys, refs, body)
//	u/<coll>/<key>         id owning the unique key
//	r/<coll>/<ref>/<id>    empty marker for Find
const (
	docPrefix    = "d/"
	uniquePrefix = "u/"
	refPrefix    = "r/"
)

type envelope struct {
	Unique []string        `json:"u,omitempty"`
	Refs   []string        `json:"r,omitempty"`
	Body   json.RawMessage `json:"b"`
}

// BadgerConfig configures the embedded backend.
type BadgerConfig struct {
	Path       string
	InMemory   bool
	SyncWrites bool
}

// BadgerBackend stores documents in an embedded BadgerDB.
type BadgerBackend struct {
	db *badger.DB
}

var _ Backend = (*BadgerBackend)(nil)

// OpenBadger opens (or creates) the database described by cfg.
func OpenBadger(cfg BadgerConfig) (*BadgerBackend, error) {
	opts := badger.DefaultOptions(cfg.Path)
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	}
	opts.SyncWrites = cfg.SyncWrites

	// Reduce logging verbosity
	opts.Logger = nil

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open BadgerDB: %w", err)
	}

	logging.Info().
		Str("path", cfg.Path).
		Bool("in_memory", cfg.InMemory).
		Bool("sync_writes", cfg.SyncWrites).
		Msg("Document store opened")
	return &BadgerBackend{db: db}, nil
}

// NewBadgerBackend wraps an already opened database.
func NewBadgerBackend(db *badger.DB) *BadgerBackend {
	return &BadgerBackend{db: db}
}

// DB exposes the underlying database for maintenance tasks.
func (b *BadgerBackend) DB() *badger.DB {
	return b.db
}

func docKey(coll, id string) []byte      { return []byte(docPrefix + coll + "/" + id) }
func uniqueKey(coll, key string) []byte  { return []byte(uniquePrefix + coll + "/" + key) }
func refKey(coll, ref, id string) []byte { return []byte(refPrefix + coll + "/" + ref + "/" + id) }

// Insert implements Backend.
func (b *BadgerBackend) Insert(ctx context.Context, coll string, doc Document) error {
	env, err := json.Marshal(envelope{Unique: doc.Unique, Refs: doc.Refs, Body: doc.Body})
	if err != nil {
		return fmt.Errorf("marshal envelope: %w", err)
	}

	return b.update(ctx, func(txn *badger.Txn) error {
		key := docKey(coll, doc.ID)
		if _, err := txn.Get(key); err == nil {
			return fmt.Errorf("%w: id %s", ErrDuplicate, doc.ID)
		} else if !errors.Is(err, badger.ErrKeyNotFound) {
			return fmt.Errorf("get document: %w", err)
		}

		for _, u := range doc.Unique {
			if err := claimUnique(txn, coll, u, doc.ID); err != nil {
				return err
			}
		}
		for _, r := range doc.Refs {
			if err := txn.Set(refKey(coll, r, doc.ID), nil); err != nil {
				return fmt.Errorf("set ref: %w", err)
			}
		}
		if err := txn.Set(key, env); err != nil {
			return fmt.Errorf("set document: %w", err)
		}
		return nil
	})
}

// Get implements Backend.
func (b *BadgerBackend) Get(ctx context.Context, coll, id string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var body []byte
	err := b.db.View(func(txn *badger.Txn) error {
		env, err := readEnvelope(txn, coll, id)
		if err != nil {
			return err
		}
		body = env.Body
		return nil
	})
	return body, err
}

// GetByUnique implements Backend.
func (b *BadgerBackend) GetByUnique(ctx context.Context, coll, key string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var body []byte
	err := b.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(uniqueKey(coll, key))
		if errors.Is(err, badger.ErrKeyNotFound) {
			return ErrNotFound
		}
		if err != nil {
			return fmt.Errorf("get unique key: %w", err)
		}
		id, err := item.ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read unique key: %w", err)
		}
		env, err := readEnvelope(txn, coll, string(id))
		if err != nil {
			return err
		}
		body = env.Body
		return nil
	})
	return body, err
}

// Find implements Backend.
func (b *BadgerBackend) Find(ctx context.Context, coll, ref string) ([][]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var bodies [][]byte
	err := b.db.View(func(txn *badger.Txn) error {
		if ref == "" {
			return scanDocuments(ctx, txn, coll, func(env *envelope) {
				bodies = append(bodies, env.Body)
			})
		}

		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(refPrefix + coll + "/" + ref + "/")
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			if err := ctx.Err(); err != nil {
				return err
			}
			id := string(it.Item().Key()[len(prefix):])
			env, err := readEnvelope(txn, coll, id)
			if errors.Is(err, ErrNotFound) {
				continue
			}
			if err != nil {
				return err
			}
			bodies = append(bodies, env.Body)
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("find %s: %w", coll, err)
	}
	return bodies, nil
}

// Mutate implements Backend. The whole read-modify-write runs inside one
// Badger transaction; ErrConflict from a concurrent writer is retried.
func (b *BadgerBackend) Mutate(ctx context.Context, coll, id string, fn MutateFunc) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		current, err := readEnvelope(txn, coll, id)
		if err != nil {
			return err
		}

		next, err := fn(current.Body)
		if err != nil {
			return err
		}
		if next.ID != "" && next.ID != id {
			return fmt.Errorf("mutate %s/%s: document id cannot change", coll, id)
		}

		removed, added := diff(current.Unique, next.Unique)
		for _, u := range removed {
			if err := txn.Delete(uniqueKey(coll, u)); err != nil {
				return fmt.Errorf("delete unique key: %w", err)
			}
		}
		for _, u := range added {
			if err := claimUnique(txn, coll, u, id); err != nil {
				return err
			}
		}

		removed, added = diff(current.Refs, next.Refs)
		for _, r := range removed {
			if err := txn.Delete(refKey(coll, r, id)); err != nil {
				return fmt.Errorf("delete ref: %w", err)
			}
		}
		for _, r := range added {
			if err := txn.Set(refKey(coll, r, id), nil); err != nil {
				return fmt.Errorf("set ref: %w", err)
			}
		}

		env, err := json.Marshal(envelope{Unique: next.Unique, Refs: next.Refs, Body: next.Body})
		if err != nil {
			return fmt.Errorf("marshal envelope: %w", err)
		}
		return txn.Set(docKey(coll, id), env)
	})
}

// Delete implements Backend.
func (b *BadgerBackend) Delete(ctx context.Context, coll, id string) error {
	return b.update(ctx, func(txn *badger.Txn) error {
		env, err := readEnvelope(txn, coll, id)
		if err != nil {
			return err
		}
		for _, u := range env.Unique {
			if err := txn.Delete(uniqueKey(coll, u)); err != nil {
				return fmt.Errorf("delete unique key: %w", err)
			}
		}
		for _, r := range env.Refs {
			if err := txn.Delete(refKey(coll, r, id)); err != nil {
				return fmt.Errorf("delete ref: %w", err)
			}
		}
		return txn.Delete(docKey(coll, id))
	})
}

// Ping implements Backend.
func (b *BadgerBackend) Ping(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	if b.db.IsClosed() {
		return errors.New("badger database is closed")
	}
	return nil
}

// Close implements Backend.
func (b *BadgerBackend) Close() error {
	return b.db.Close()
}

// RunGC reclaims value log space. It returns nil when nothing was
// rewritten.
func (b *BadgerBackend) RunGC(discardRatio float64) error {
	if b.db.Opts().InMemory {
		return nil
	}
	err := b.db.RunValueLogGC(discardRatio)
	if errors.Is(err, badger.ErrNoRewrite) || errors.Is(err, badger.ErrRejected) {
		return nil
	}
	return err
}

// update runs fn in a read-write transaction, retrying on conflict.
func (b *BadgerBackend) update(ctx context.Context, fn func(txn *badger.Txn) error) error {
	for attempt := 0; attempt < maxMutateAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		err := b.db.Update(fn)
		if !errors.Is(err, badger.ErrConflict) {
			return err
		}
	}
	return ErrConflict
}

func claimUnique(txn *badger.Txn, coll, key, id string) error {
	k := uniqueKey(coll, key)
	item, err := txn.Get(k)
	switch {
	case err == nil:
		owner, verr := item.ValueCopy(nil)
		if verr != nil {
			return fmt.Errorf("read unique key: %w", verr)
		}
		if string(owner) != id {
			return fmt.Errorf("%w: %s", ErrDuplicate, key)
		}
		return nil
	case errors.Is(err, badger.ErrKeyNotFound):
		if err := txn.Set(k, []byte(id)); err != nil {
			return fmt.Errorf("set unique key: %w", err)
		}
		return nil
	default:
		return fmt.Errorf("get unique key: %w", err)
	}
}

func readEnvelope(txn *badger.Txn, coll, id string) (*envelope, error) {
	item, err := txn.Get(docKey(coll, id))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("get document: %w", err)
	}
	raw, err := item.ValueCopy(nil)
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, fmt.Errorf("decode document %s/%s: %w", coll, id, err)
	}
	return &env, nil
}

func scanDocuments(ctx context.Context, txn *badger.Txn, coll string, visit func(*envelope)) error {
	it := txn.NewIterator(badger.DefaultIteratorOptions)
	defer it.Close()

	prefix := []byte(docPrefix + coll + "/")
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		if err := ctx.Err(); err != nil {
			return err
		}
		raw, err := it.Item().ValueCopy(nil)
		if err != nil {
			return fmt.Errorf("read document: %w", err)
		}
		var env envelope
		if err := json.Unmarshal(raw, &env); err != nil {
			return fmt.Errorf("decode document: %w", err)
		}
		visit(&env)
	}
	return nil
}

// CineScope - Movie Cataloging and Social Watchlists
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/cinescope

package store

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"testing"
)

// runBackendContract exercises behavior every Backend must share. Each
// subtest uses its own collection name so they can run against one backend.
func runBackendContract(t *testing.T, b Backend) {
	t.Helper()
	ctx := context.Background()

	t.Run("insert and get", func(t *testing.T) {
		coll := "contract_get"
		if err := b.Insert(ctx, coll, Document{ID: "1", Body: []byte(`{"n":1}`)}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		body, err := b.Get(ctx, coll, "1")
		if err != nil {
			t.Fatalf("Get() error = %v", err)
		}
		if string(body) != `{"n":1}` {
			t.Errorf("Get() = %s", body)
		}
		if _, err := b.Get(ctx, coll, "missing"); !errors.Is(err, ErrNotFound) {
			t.Errorf("Get(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("duplicate id", func(t *testing.T) {
		coll := "contract_dup_id"
		doc := Document{ID: "1", Body: []byte(`{}`)}
		if err := b.Insert(ctx, coll, doc); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := b.Insert(ctx, coll, doc); !errors.Is(err, ErrDuplicate) {
			t.Errorf("second Insert() error = %v, want ErrDuplicate", err)
		}
	})

	t.Run("unique keys", func(t *testing.T) {
		coll := "contract_unique"
		if err := b.Insert(ctx, coll, Document{ID: "a", Body: []byte(`{"id":"a"}`), Unique: []string{"email:x@y.z"}}); err != nil {
			t.Fatalf("Insert(a) error = %v", err)
		}
		err := b.Insert(ctx, coll, Document{ID: "b", Body: []byte(`{"id":"b"}`), Unique: []string{"email:x@y.z"}})
		if !errors.Is(err, ErrDuplicate) {
			t.Fatalf("Insert(b) error = %v, want ErrDuplicate", err)
		}
		if _, err := b.Get(ctx, coll, "b"); !errors.Is(err, ErrNotFound) {
			t.Errorf("rejected document was stored: %v", err)
		}
		body, err := b.GetByUnique(ctx, coll, "email:x@y.z")
		if err != nil || string(body) != `{"id":"a"}` {
			t.Errorf("GetByUnique() = %s, %v", body, err)
		}
		if _, err := b.GetByUnique(ctx, coll, "email:none"); !errors.Is(err, ErrNotFound) {
			t.Errorf("GetByUnique(none) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("find by ref", func(t *testing.T) {
		coll := "contract_find"
		for i, refs := range [][]string{{"user:1"}, {"user:1", "public"}, {"user:2"}} {
			id := strconv.Itoa(i)
			if err := b.Insert(ctx, coll, Document{ID: id, Body: []byte(id), Refs: refs}); err != nil {
				t.Fatalf("Insert(%s) error = %v", id, err)
			}
		}
		assertBodies(t, b, coll, "user:1", "0", "1")
		assertBodies(t, b, coll, "public", "1")
		assertBodies(t, b, coll, "", "0", "1", "2")
		assertBodies(t, b, coll, "user:9")
	})

	t.Run("mutate moves index entries", func(t *testing.T) {
		coll := "contract_mutate"
		if err := b.Insert(ctx, coll, Document{ID: "1", Body: []byte(`"v1"`), Unique: []string{"slug:old"}, Refs: []string{"public"}}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		err := b.Mutate(ctx, coll, "1", func(current []byte) (Document, error) {
			if string(current) != `"v1"` {
				return Document{}, fmt.Errorf("unexpected current %s", current)
			}
			return Document{ID: "1", Body: []byte(`"v2"`), Unique: []string{"slug:new"}}, nil
		})
		if err != nil {
			t.Fatalf("Mutate() error = %v", err)
		}
		if _, err := b.GetByUnique(ctx, coll, "slug:old"); !errors.Is(err, ErrNotFound) {
			t.Errorf("old unique key still resolves: %v", err)
		}
		if body, err := b.GetByUnique(ctx, coll, "slug:new"); err != nil || string(body) != `"v2"` {
			t.Errorf("GetByUnique(new) = %s, %v", body, err)
		}
		assertBodies(t, b, coll, "public")
	})

	t.Run("mutate error aborts", func(t *testing.T) {
		coll := "contract_abort"
		if err := b.Insert(ctx, coll, Document{ID: "1", Body: []byte(`"v1"`)}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		sentinel := errors.New("stop")
		err := b.Mutate(ctx, coll, "1", func([]byte) (Document, error) { return Document{}, sentinel })
		if !errors.Is(err, sentinel) {
			t.Errorf("Mutate() error = %v, want sentinel", err)
		}
		if body, _ := b.Get(ctx, coll, "1"); string(body) != `"v1"` {
			t.Errorf("body changed to %s", body)
		}
		if err := b.Mutate(ctx, coll, "missing", func(c []byte) (Document, error) { return Document{Body: c}, nil }); !errors.Is(err, ErrNotFound) {
			t.Errorf("Mutate(missing) error = %v, want ErrNotFound", err)
		}
	})

	t.Run("concurrent mutations are not lost", func(t *testing.T) {
		coll := "contract_counter"
		if err := b.Insert(ctx, coll, Document{ID: "c", Body: []byte("0")}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		const writers = 8
		var wg sync.WaitGroup
		errs := make(chan error, writers)
		for i := 0; i < writers; i++ {
			wg.Add(1)
			go func() {
				defer wg.Done()
				errs <- b.Mutate(ctx, coll, "c", func(current []byte) (Document, error) {
					n, err := strconv.Atoi(string(current))
					if err != nil {
						return Document{}, err
					}
					return Document{ID: "c", Body: []byte(strconv.Itoa(n + 1))}, nil
				})
			}()
		}
		wg.Wait()
		close(errs)
		for err := range errs {
			if err != nil {
				t.Fatalf("Mutate() error = %v", err)
			}
		}
		body, _ := b.Get(ctx, coll, "c")
		if string(body) != strconv.Itoa(writers) {
			t.Errorf("counter = %s, want %d", body, writers)
		}
	})

	t.Run("delete removes indexes", func(t *testing.T) {
		coll := "contract_delete"
		if err := b.Insert(ctx, coll, Document{ID: "1", Body: []byte(`1`), Unique: []string{"k"}, Refs: []string{"r"}}); err != nil {
			t.Fatalf("Insert() error = %v", err)
		}
		if err := b.Delete(ctx, coll, "1"); err != nil {
			t.Fatalf("Delete() error = %v", err)
		}
		if err := b.Delete(ctx, coll, "1"); !errors.Is(err, ErrNotFound) {
			t.Errorf("second Delete() error = %v, want ErrNotFound", err)
		}
		assertBodies(t, b, coll, "r")
		if err := b.Insert(ctx, coll, Document{ID: "2", Body: []byte(`2`), Unique: []string{"k"}}); err != nil {
			t.Errorf("unique key not released: %v", err)
		}
	})
}

func assertBodies(t *testing.T, b Backend, coll, ref string, want ...string) {
	t.Helper()
	bodies, err := b.Find(context.Background(), coll, ref)
	if err != nil {
		t.Fatalf("Find(%q) error = %v", ref, err)
	}
	got := make([]string, 0, len(bodies))
	for _, body := range bodies {
		got = append(got, string(body))
	}
	sort.Strings(got)
	if fmt.Sprint(got) != fmt.Sprint(append([]string{}, want...)) {
		t.Errorf("Find(%q) = %v, want %v", ref, got, want)
	}
}

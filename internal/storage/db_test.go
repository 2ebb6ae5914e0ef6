package storage

import (
	"bytes"
	"errors"
	"fmt"
	"testing"
)

// testDB runs the shared test suite against a DB implementation.
func testDB(t *testing.T, db DB) {
	t.Helper()

	t.Run("PutAndGet", func(t *testing.T) {
		err := db.Put([]byte("key1"), []byte("value1"))
		if err != nil {
			t.Fatalf("Put() error: %v", err)
		}

		val, err := db.Get([]byte("key1"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("value1")) {
			t.Errorf("Get() = %q, want %q", val, "value1")
		}
	})

	t.Run("GetNonexistent", func(t *testing.T) {
		_, err := db.Get([]byte("nonexistent"))
		if !errors.Is(err, ErrKeyNotFound) {
			t.Errorf("Get() for missing key error = %v, want ErrKeyNotFound", err)
		}
	})

	t.Run("Has", func(t *testing.T) {
		db.Put([]byte("exists"), []byte("yes"))

		ok, err := db.Has([]byte("exists"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if !ok {
			t.Error("Has() = false for existing key")
		}

		ok, err = db.Has([]byte("missing"))
		if err != nil {
			t.Fatalf("Has() error: %v", err)
		}
		if ok {
			t.Error("Has() = true for missing key")
		}
	})

	t.Run("Overwrite", func(t *testing.T) {
		db.Put([]byte("ow"), []byte("first"))
		db.Put([]byte("ow"), []byte("second"))

		val, err := db.Get([]byte("ow"))
		if err != nil {
			t.Fatalf("Get() error: %v", err)
		}
		if !bytes.Equal(val, []byte("second")) {
			t.Errorf("Get() after overwrite = %q, want %q", val, "second")
		}
	})

	t.Run("Delete", func(t *testing.T) {
		db.Put([]byte("del"), []byte("value"))

		err := db.Delete([]byte("del"))
		if err != nil {
			t.Fatalf("Delete() error: %v", err)
		}

		ok, _ := db.Has([]byte("del"))
		if ok {
			t.Error("key should be gone after Delete()")
		}

		_, err = db.Get([]byte("del"))
		if err == nil {
			t.Error("Get() after Delete() should return error")
		}
	})

	t.Run("DeleteNonexistent", func(t *testing.T) {
		// Deleting a nonexistent key should not error.
		err := db.Delete([]byte("never-existed"))
		if err != nil {
			t.Errorf("Delete() nonexistent key error: %v", err)
		}
	})

	t.Run("EmptyValue", func(t *testing.T) {
		err := db.Put([]byte("empty"), []byte{})
		if err != nil {
			t.Fatalf("Put() empty value error: %v", err)
		}

		val, err := db.Get([]byte("empty"))
		if err != nil {
			t.Fatalf("Get() empty value error: %v", err)
		}
		if len(val) != 0 {
			t.Errorf("expected empty value, got %d bytes", len(val))
		}
	})

	t.Run("BinaryData", func(t *testing.T) {
		key := []byte{0x00, 0x01, 0xFF}
		value := make([]byte, 256)
		for i := range value {
			value[i] = byte(i)
		}

		err := db.Put(key, value)
		if err != nil {
			t.Fatalf("Put() binary error: %v", err)
		}

		got, err := db.Get(key)
		if err != nil {
			t.Fatalf("Get() binary error: %v", err)
		}
		if !bytes.Equal(got, value) {
			t.Error("binary roundtrip failed")
		}
	})

	t.Run("ForEach", func(t *testing.T) {
		db.Put([]byte("prefix/a"), []byte("1"))
		db.Put([]byte("prefix/b"), []byte("2"))
		db.Put([]byte("prefix/c"), []byte("3"))
		db.Put([]byte("other/x"), []byte("4"))

		var count int
		err := db.ForEach([]byte("prefix/"), func(key, value []byte) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if count != 3 {
			t.Errorf("ForEach(prefix/) count = %d, want 3", count)
		}
	})

	t.Run("ForEachEmpty", func(t *testing.T) {
		var count int
		err := db.ForEach([]byte("nonexistent/"), func(key, value []byte) error {
			count++
			return nil
		})
		if err != nil {
			t.Fatalf("ForEach() error: %v", err)
		}
		if count != 0 {
			t.Errorf("ForEach(nonexistent/) count = %d, want 0", count)
		}
	})

	t.Run("ForEachSorted", func(t *testing.T) {
		db.Put([]byte("sorted/c"), []byte("3"))
		db.Put([]byte("sorted/a"), []byte("1"))
		db.Put([]byte("sorted/b"), []byte("2"))

		var got []string
		db.ForEach([]byte("sorted/"), func(key, _ []byte) error {
			got = append(got, string(key))
			return nil
		})
		want := []string{"sorted/a", "sorted/b", "sorted/c"}
		if len(got) != len(want) {
			t.Fatalf("ForEach(sorted/) = %v, want %v", got, want)
		}
		for i := range want {
			if got[i] != want[i] {
				t.Errorf("ForEach order[%d] = %s, want %s", i, got[i], want[i])
			}
		}
	})

	t.Run("View", func(t *testing.T) {
		db.Put([]byte("view/a"), []byte("1"))
		db.Put([]byte("view/b"), []byte("2"))

		err := db.View(func(r Reader) error {
			val, err := r.Get([]byte("view/a"))
			if err != nil {
				return err
			}
			if string(val) != "1" {
				t.Errorf("View Get = %q, want %q", val, "1")
			}
			if _, err := r.Get([]byte("view/missing")); !errors.Is(err, ErrKeyNotFound) {
				t.Errorf("View Get missing error = %v, want ErrKeyNotFound", err)
			}
			var n int
			if err := r.ForEach([]byte("view/"), func(_, _ []byte) error {
				n++
				return nil
			}); err != nil {
				return err
			}
			if n != 2 {
				t.Errorf("View ForEach count = %d, want 2", n)
			}
			return nil
		})
		if err != nil {
			t.Fatalf("View() error: %v", err)
		}
	})

	t.Run("ViewPropagatesError", func(t *testing.T) {
		sentinel := errors.New("stop")
		if err := db.View(func(Reader) error { return sentinel }); !errors.Is(err, sentinel) {
			t.Errorf("View() error = %v, want sentinel", err)
		}
	})

	t.Run("Batch", func(t *testing.T) {
		db.Put([]byte("batch/old"), []byte("x"))

		b := NewBatch(db)
		b.Put([]byte("batch/new1"), []byte("1"))
		b.Put([]byte("batch/new2"), []byte("2"))
		b.Delete([]byte("batch/old"))

		// Nothing is visible before Commit.
		if ok, _ := db.Has([]byte("batch/new1")); ok {
			t.Error("batch write visible before Commit()")
		}
		if err := b.Commit(); err != nil {
			t.Fatalf("Commit() error: %v", err)
		}
		if ok, _ := db.Has([]byte("batch/new2")); !ok {
			t.Error("batch write missing after Commit()")
		}
		if ok, _ := db.Has([]byte("batch/old")); ok {
			t.Error("batch delete not applied")
		}
	})
}

func TestMemoryDB(t *testing.T) {
	db := NewMemory()
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB(t *testing.T) {
	dir := t.TempDir()
	db, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB_InMemory(t *testing.T) {
	db, err := NewBadgerInMemory()
	if err != nil {
		t.Fatalf("NewBadgerInMemory() error: %v", err)
	}
	defer db.Close()
	testDB(t, db)
}

func TestBadgerDB_ViewIsSnapshot(t *testing.T) {
	db, err := NewBadgerInMemory()
	if err != nil {
		t.Fatalf("NewBadgerInMemory() error: %v", err)
	}
	defer db.Close()

	db.Put([]byte("cursor"), []byte("10"))

	err = db.View(func(r Reader) error {
		// A writer commits while the snapshot is open.
		if err := db.Put([]byte("cursor"), []byte("11")); err != nil {
			t.Fatalf("Put() during View error: %v", err)
		}
		if err := db.Put([]byte("late"), []byte("x")); err != nil {
			t.Fatalf("Put() during View error: %v", err)
		}

		val, err := r.Get([]byte("cursor"))
		if err != nil {
			return err
		}
		if string(val) != "10" {
			t.Errorf("snapshot read = %q, want %q", val, "10")
		}
		if ok, _ := r.Has([]byte("late")); ok {
			t.Error("snapshot should not observe keys written after it opened")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("View() error: %v", err)
	}

	val, _ := db.Get([]byte("cursor"))
	if string(val) != "11" {
		t.Errorf("read after View = %q, want %q", val, "11")
	}
}

func TestBadgerDB_Persistence(t *testing.T) {
	dir := t.TempDir()

	// Write data.
	db1, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() error: %v", err)
	}
	db1.Put([]byte("persist"), []byte("data"))
	db1.Close()

	// Reopen and read.
	db2, err := NewBadger(dir)
	if err != nil {
		t.Fatalf("NewBadger() reopen error: %v", err)
	}
	defer db2.Close()

	val, err := db2.Get([]byte("persist"))
	if err != nil {
		t.Fatalf("Get() after reopen error: %v", err)
	}
	if !bytes.Equal(val, []byte("data")) {
		t.Errorf("persisted value = %q, want %q", val, "data")
	}
}

func TestBadgerDB_BatchLargerThanOneTxn(t *testing.T) {
	if testing.Short() {
		t.Skip("writes 200k keys")
	}
	db, err := NewBadgerInMemory()
	if err != nil {
		t.Fatalf("NewBadgerInMemory() error: %v", err)
	}
	defer db.Close()

	const n = 200_000
	key := func(i int) []byte { return []byte(fmt.Sprintf("txo/%08d", i)) }
	value := bytes.Repeat([]byte{0xab}, 64)

	puts := db.NewBatch()
	for i := 0; i < n; i++ {
		puts.Put(key(i), value)
	}
	if err := puts.Commit(); err != nil {
		t.Fatalf("Commit() puts error: %v", err)
	}

	count := 0
	db.ForEach([]byte("txo/"), func(_, _ []byte) error {
		count++
		return nil
	})
	if count != n {
		t.Fatalf("stored %d keys, want %d", count, n)
	}

	deletes := db.NewBatch()
	for i := 0; i < n; i++ {
		deletes.Delete(key(i))
	}
	if err := deletes.Commit(); err != nil {
		t.Fatalf("Commit() deletes error: %v", err)
	}

	count = 0
	db.ForEach([]byte("txo/"), func(_, _ []byte) error {
		count++
		return nil
	})
	if count != 0 {
		t.Errorf("%d keys left after delete batch", count)
	}
}

package task_test

import (
	"errors"
	"strings"
	"testing"

	"github.com/google/uuid"

	"github.com/calvinalkan/taskcal/internal/kv"
	"github.com/calvinalkan/taskcal/internal/task"
)

func TestShortID(t *testing.T) {
	t.Parallel()

	id := task.ID(uuid.Must(uuid.NewV7()).String())

	short := task.ShortID(id)
	if got, want := len(short), 12; got != want {
		t.Fatalf("len(%q)=%d, want=%d", short, got, want)
	}

	if strings.ContainsAny(short, "ILOU") {
		t.Fatalf("short id %q uses letters outside Crockford base32", short)
	}

	if got := task.ShortID(id); got != short {
		t.Fatalf("short id not stable: %q vs %q", got, short)
	}

	if got, want := task.ShortID("1714550400000"), "1714550400000"; got != want {
		t.Fatalf("legacy short id=%q, want=%q", got, want)
	}

	v4 := task.ID(uuid.New().String())
	if got := task.ShortID(v4); got != string(v4) {
		t.Fatalf("non-v7 uuid should pass through, got %q", got)
	}
}

func TestStore_Resolve(t *testing.T) {
	t.Parallel()

	s, err := task.Open(kv.NewMemory())
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	id := mustAdd(t, s, "a", "2024-05-01")
	short := task.ShortID(id)

	for _, ref := range []string{string(id), short, strings.ToLower(short), short[:task.MinRefLength]} {
		got, err := s.Resolve(ref)
		if err != nil {
			t.Fatalf("resolve %q: %v", ref, err)
		}

		if got != id {
			t.Fatalf("resolve %q = %s, want %s", ref, got, id)
		}
	}

	for _, ref := range []string{"", "ab", "ZZZZZZZZZZZZ"} {
		_, err := s.Resolve(ref)
		if !errors.Is(err, task.ErrNotFound) {
			t.Fatalf("resolve %q: err=%v, want %v", ref, err, task.ErrNotFound)
		}
	}
}

func TestStore_Resolve_Ambiguous(t *testing.T) {
	t.Parallel()

	mem := kv.NewMemory()
	raw := `[{"id":"ABCD1","text":"x","date":"2024-05-01","completed":false,"createdAt":"2024-05-01T00:00:00Z"},` +
		`{"id":"ABCD2","text":"y","date":"2024-05-01","completed":false,"createdAt":"2024-05-01T00:00:00Z"}]`
	_ = mem.Set(task.StorageKey, raw)

	s, err := task.Open(mem)
	if err != nil {
		t.Fatalf("open: %v", err)
	}

	_, err = s.Resolve("abcd")
	if !errors.Is(err, task.ErrAmbiguousRef) {
		t.Fatalf("err=%v, want %v", err, task.ErrAmbiguousRef)
	}

	got, err := s.Resolve("ABCD2")
	if err != nil || got != "ABCD2" {
		t.Fatalf("exact id resolve = %q, %v", got, err)
	}
}

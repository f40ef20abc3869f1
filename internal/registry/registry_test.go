package registry

import (
	"errors"
	"fmt"
	"slices"
	"sync"
	"testing"
)

func TestDefineIsWriteOnce(t *testing.T) {
	t.Parallel()

	reg := New()
	if !reg.Define("WP_DEBUG", true) {
		t.Fatalf("expected first definition to be stored")
	}
	if reg.Define("WP_DEBUG", false) {
		t.Fatalf("expected second definition to be ignored")
	}

	got, err := reg.Bool("WP_DEBUG")
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if !got {
		t.Fatalf("expected first value to survive, got %v", got)
	}
}

func TestDefineRejectsUnsupportedValues(t *testing.T) {
	t.Parallel()

	testCases := []any{nil, 1.5, []string{"a"}, int64(3)}

	for idx, tc := range testCases {
		t.Run(fmt.Sprintf("case_%d", idx), func(t *testing.T) {
			reg := New()
			if _, err := reg.DefineChecked("X", tc); !errors.Is(err, ErrUnsupportedValue) {
				t.Fatalf("expected ErrUnsupportedValue for %T, got %v", tc, err)
			}
			if reg.Define("X", tc) {
				t.Fatalf("expected Define to refuse %T", tc)
			}
			if reg.Defined("X") {
				t.Fatalf("expected X to stay undefined")
			}
		})
	}
}

func TestTypedGetters(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Define("DB_HOST", "127.0.0.1:3306")
	reg.Define("WP_POST_REVISIONS", 2)

	host, err := reg.String("DB_HOST")
	if err != nil || host != "127.0.0.1:3306" {
		t.Fatalf("unexpected DB_HOST: %q, %v", host, err)
	}
	revisions, err := reg.Int("WP_POST_REVISIONS")
	if err != nil || revisions != 2 {
		t.Fatalf("unexpected WP_POST_REVISIONS: %d, %v", revisions, err)
	}

	if _, err := reg.Bool("DB_HOST"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("expected ErrTypeMismatch, got %v", err)
	}
	if _, err := reg.String("MISSING"); !errors.Is(err, ErrUndefined) {
		t.Fatalf("expected ErrUndefined, got %v", err)
	}
}

func TestNamesAndSnapshot(t *testing.T) {
	t.Parallel()

	reg := New()
	reg.Define("b", "2")
	reg.Define("a", "1")

	if want := []string{"a", "b"}; !slices.Equal(reg.Names(), want) {
		t.Fatalf("expected %v, got %v", want, reg.Names())
	}

	snap := reg.Snapshot()
	snap["c"] = "3"
	if reg.Defined("c") || reg.Len() != 2 {
		t.Fatalf("expected snapshot to be a copy")
	}
}

func TestRegistryConcurrentAccess(t *testing.T) {
	reg := New()
	var wg sync.WaitGroup
	var stored sync.Map

	for i := 0; i < 32; i++ {
		wg.Add(2)

		go func(v int) {
			defer wg.Done()
			if reg.Define("RACE", v) {
				stored.Store(v, true)
			}
		}(i)

		go func() {
			defer wg.Done()
			_ = reg.Names()
		}()
	}

	wg.Wait()

	winners := 0
	stored.Range(func(_, _ any) bool {
		winners++
		return true
	})
	if winners != 1 {
		t.Fatalf("expected exactly one winning definition, got %d", winners)
	}
}

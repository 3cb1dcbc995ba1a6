package blob

import (
	"context"
	"errors"
	"testing"
)

func TestMemory_SeedAndFetchRoundTrip(t *testing.T) {
	store := NewMemory()
	store.Seed("bucket", "tour/esports-data/leagues.json.gz", []byte(`[{"league_id":"L1"}]`))

	got, err := store.FetchGzipped(context.Background(), "bucket", "tour/esports-data/leagues.json.gz")
	if err != nil {
		t.Fatalf("fetch: %v", err)
	}
	if string(got) != `[{"league_id":"L1"}]` {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestMemory_FetchMissingKeyIsNotFound(t *testing.T) {
	store := NewMemory()
	_, err := store.FetchGzipped(context.Background(), "bucket", "no/such/key")
	if !errors.Is(err, ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}

func TestMemory_Exists(t *testing.T) {
	store := NewMemory()
	store.Seed("bucket", "tour/games/2023/val:game-1.json.gz", []byte(`[]`))

	for _, tc := range []struct {
		key  string
		want bool
	}{
		{"tour/games/2023/val:game-1.json.gz", true},
		{"tour/games/2022/val:game-1.json.gz", false},
	} {
		got, err := store.Exists(context.Background(), "bucket", tc.key)
		if err != nil {
			t.Fatalf("exists %s: %v", tc.key, err)
		}
		if got != tc.want {
			t.Errorf("exists %s: got %v, want %v", tc.key, got, tc.want)
		}
	}
}

func TestMemory_ListFiltersByPrefixSorted(t *testing.T) {
	store := NewMemory()
	store.Seed("bucket", "fandom/b.json.gz", []byte("b"))
	store.Seed("bucket", "fandom/a.json.gz", []byte("a"))
	store.Seed("bucket", "other/c.json.gz", []byte("c"))

	keys, err := store.List(context.Background(), "bucket", "fandom/")
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(keys) != 2 || keys[0] != "fandom/a.json.gz" || keys[1] != "fandom/b.json.gz" {
		t.Errorf("unexpected listing: %v", keys)
	}
}

func TestMemory_FailFetchKnob(t *testing.T) {
	store := NewMemory()
	store.Seed("bucket", "tour/games/2023/val:game-1.json.gz", []byte(`[]`))
	store.FailFetch = "/games/"

	_, err := store.FetchGzipped(context.Background(), "bucket", "tour/games/2023/val:game-1.json.gz")
	if !errors.Is(err, ErrNoCredentials) {
		t.Fatalf("expected injected failure, got %v", err)
	}

	// Keys outside the failing substring still fetch.
	store.Seed("bucket", "tour/esports-data/leagues.json.gz", []byte(`[]`))
	if _, err := store.FetchGzipped(context.Background(), "bucket", "tour/esports-data/leagues.json.gz"); err != nil {
		t.Fatalf("unrelated key must not fail: %v", err)
	}
}

func TestGzipRoundTrip(t *testing.T) {
	plain := []byte(`{"handle":"xeno"}`)
	got, err := gunzip(Gzip(plain))
	if err != nil {
		t.Fatalf("gunzip: %v", err)
	}
	if string(got) != string(plain) {
		t.Errorf("round trip mismatch: %q", got)
	}
}

func TestGunzipRejectsPlainBytes(t *testing.T) {
	if _, err := gunzip([]byte("not gzip")); err == nil {
		t.Fatal("expected an error for non-gzip input")
	}
}

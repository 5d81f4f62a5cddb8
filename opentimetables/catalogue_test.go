package opentimetables

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"
)

// countingFetcher stands in for the broker client and counts network calls.
type countingFetcher struct {
	calls     int
	catalogue map[string]Module
	err       error
}

func (f *countingFetcher) FetchCatalogue() (map[string]Module, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.catalogue, nil
}

func TestLoadCatalogue(t *testing.T) {
	remote := map[string]Module{
		"id-69a": {Identity: "id-69a", Title: "CSCM69_A Mobile Interaction Design", Occurrence: "A"},
		"id-45":  {Identity: "id-45", Title: "CSCM45 Big Data and Machine Learning"},
	}

	t.Run("refresh fetches and persists", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "modules.json")
		fetcher := &countingFetcher{catalogue: remote}

		got, err := LoadCatalogue(fetcher, cachePath, true)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if diff := cmp.Diff(remote, got); diff != "" {
			t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
		}
		if fetcher.calls != 1 {
			t.Errorf("fetch calls = %d, want 1", fetcher.calls)
		}
		if _, err := os.Stat(cachePath); err != nil {
			t.Errorf("expected cache file to exist: %v", err)
		}
	})

	t.Run("existing cache is read without any network call", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "modules.json")
		if err := saveCache(cachePath, remote); err != nil {
			t.Fatalf("could not seed cache: %v", err)
		}
		fetcher := &countingFetcher{catalogue: map[string]Module{}}

		got, err := LoadCatalogue(fetcher, cachePath, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.calls != 0 {
			t.Errorf("fetch calls = %d, want 0", fetcher.calls)
		}
		if diff := cmp.Diff(remote, got); diff != "" {
			t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("no cache file fetches without persisting", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "modules.json")
		fetcher := &countingFetcher{catalogue: remote}

		got, err := LoadCatalogue(fetcher, cachePath, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("fetch calls = %d, want 1", fetcher.calls)
		}
		if len(got) != len(remote) {
			t.Errorf("catalogue size = %d, want %d", len(got), len(remote))
		}
		if _, err := os.Stat(cachePath); !os.IsNotExist(err) {
			t.Errorf("cache file should not have been written, stat err = %v", err)
		}
	})

	t.Run("corrupt cache falls back to fetching", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "modules.json")
		if err := os.WriteFile(cachePath, []byte("{not json"), 0644); err != nil {
			t.Fatalf("could not write corrupt cache: %v", err)
		}
		fetcher := &countingFetcher{catalogue: remote}

		got, err := LoadCatalogue(fetcher, cachePath, false)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if fetcher.calls != 1 {
			t.Errorf("fetch calls = %d, want 1", fetcher.calls)
		}
		if diff := cmp.Diff(remote, got); diff != "" {
			t.Errorf("catalogue mismatch (-want +got):\n%s", diff)
		}
	})

	t.Run("cache round-trips through disk", func(t *testing.T) {
		cachePath := filepath.Join(t.TempDir(), "modules.json")
		if err := saveCache(cachePath, remote); err != nil {
			t.Fatalf("save failed: %v", err)
		}
		got, err := readCache(cachePath)
		if err != nil {
			t.Fatalf("read failed: %v", err)
		}
		if diff := cmp.Diff(remote, got); diff != "" {
			t.Errorf("round-trip mismatch (-want +got):\n%s", diff)
		}
	})
}

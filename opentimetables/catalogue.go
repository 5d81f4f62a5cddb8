package opentimetables

import (
	"encoding/json"
	"errors"
	"io/fs"
	"log"
	"os"
)

// CatalogueFetcher downloads the full module catalogue from the timetable
// service.
type CatalogueFetcher interface {
	FetchCatalogue() (map[string]Module, error)
}

// LoadCatalogue returns the module catalogue, preferring the local cache.
//
// With refresh set, the catalogue is fetched and persisted to cachePath.
// Otherwise an existing cache file is read directly and no request is made;
// a corrupt cache logs a warning and falls back to a fetch. Without a cache
// file the catalogue is fetched but not persisted.
func LoadCatalogue(fetcher CatalogueFetcher, cachePath string, refresh bool) (map[string]Module, error) {
	if refresh {
		catalogue, err := fetcher.FetchCatalogue()
		if err != nil {
			return nil, err
		}
		if err := saveCache(cachePath, catalogue); err != nil {
			return nil, err
		}
		log.Printf("Cached %d modules to %s", len(catalogue), cachePath)
		return catalogue, nil
	}

	if _, err := os.Stat(cachePath); err == nil {
		catalogue, err := readCache(cachePath)
		if err == nil {
			return catalogue, nil
		}
		log.Printf("Warning: %v; fetching the catalogue instead", err)
	} else if !errors.Is(err, fs.ErrNotExist) {
		log.Printf("Warning: could not stat %s: %v; fetching the catalogue instead", cachePath, err)
	}

	return fetcher.FetchCatalogue()
}

func readCache(path string) (map[string]Module, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	var catalogue map[string]Module
	if err := json.Unmarshal(data, &catalogue); err != nil {
		return nil, &CacheError{Path: path, Err: err}
	}
	return catalogue, nil
}

func saveCache(path string, catalogue map[string]Module) error {
	data, err := json.MarshalIndent(catalogue, "", "\t")
	if err != nil {
		return &CacheError{Path: path, Err: err}
	}
	if err := os.WriteFile(path, data, 0644); err != nil {
		return &CacheError{Path: path, Err: err}
	}
	return nil
}

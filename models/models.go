// Package models manages the local model cache directory and searches
// the remote model directory.
package models

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"io/fs"
	"net/http"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"time"
)

// ErrDirectory indicates the model directory could not be queried.
var ErrDirectory = errors.New("models: directory unavailable")

type LocalModel struct {
	Name       string
	Size       int64
	ModifiedAt time.Time
}

// EnsureDir creates the cache directory if it does not already exist.
func EnsureDir(dir string) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create models directory: %w", err)
	}

	return nil
}

// List returns the models stored in dir sorted by name. A model is any
// regular file; its name is the file name without extension.
func List(dir string) ([]LocalModel, error) {
	entries, err := os.ReadDir(dir)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	} else if err != nil {
		return nil, err
	}

	var models []LocalModel
	for _, entry := range entries {
		if !entry.Type().IsRegular() || strings.HasPrefix(entry.Name(), ".") {
			continue
		}

		info, err := entry.Info()
		if err != nil {
			return nil, err
		}

		models = append(models, LocalModel{
			Name:       strings.TrimSuffix(entry.Name(), filepath.Ext(entry.Name())),
			Size:       info.Size(),
			ModifiedAt: info.ModTime(),
		})
	}

	slices.SortFunc(models, func(a, b LocalModel) int {
		return strings.Compare(a.Name, b.Name)
	})

	return models, nil
}

type directoryEntry struct {
	Name string `json:"name"`
}

// Search fetches the model directory at directoryURL and returns the
// names containing query, ignoring case. An empty query matches all.
func Search(ctx context.Context, client *http.Client, directoryURL, query string) ([]string, error) {
	request, err := http.NewRequestWithContext(ctx, http.MethodGet, directoryURL, nil)
	if err != nil {
		return nil, err
	}

	request.Header.Set("Accept", "application/json")

	response, err := client.Do(request)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}
	defer response.Body.Close()

	if response.StatusCode != http.StatusOK {
		io.Copy(io.Discard, response.Body)
		return nil, fmt.Errorf("%w: %s", ErrDirectory, response.Status)
	}

	var entries []directoryEntry
	if err := json.NewDecoder(response.Body).Decode(&entries); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrDirectory, err)
	}

	query = strings.ToLower(query)

	var names []string
	for _, entry := range entries {
		if strings.Contains(strings.ToLower(entry.Name), query) {
			names = append(names, entry.Name)
		}
	}

	return names, nil
}

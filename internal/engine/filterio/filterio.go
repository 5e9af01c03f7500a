// Package filterio imports and exports a Compositor's filter list as an
// opaque on-disk record, the filter-set analogue of the teacher's own
// config.LoadConfig/SaveConfig JSON round-trip.
package filterio

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/google/renameio/v2"

	"github.com/kimaguri/simplx-toolkit/internal/engine/compositor"
	"github.com/kimaguri/simplx-toolkit/internal/engine/matchset"
)

// FilterRecord is one Search filter entry as persisted to disk: its
// pattern, color, and enabled flag. All and Bookmarks are reconstructed
// as the Compositor's own singletons and never round-tripped here.
type FilterRecord struct {
	Pattern string `json:"pattern"`
	Color   string `json:"color"`
	Enabled bool   `json:"enabled"`
}

// Document is the top-level persisted shape: a named set of filters.
type Document struct {
	Name    string         `json:"name"`
	Filters []FilterRecord `json:"filters"`
}

// Export serializes every Search filter in c (All/Bookmarks are
// singletons and are not part of this export) under name.
func Export(name string, c *compositor.Compositor) Document {
	doc := Document{Name: name}
	for _, f := range c.Filters() {
		search, ok := f.Set.(*matchset.Search)
		if !ok {
			continue
		}
		doc.Filters = append(doc.Filters, FilterRecord{
			Color:   f.Color,
			Enabled: f.Enabled,
			Pattern: search.Pattern(),
		})
	}
	return doc
}

// WriteFile atomically writes doc to path as indented JSON, via
// renameio's write-to-temp-then-rename, matching the durability the
// teacher already relies on for its own config writes.
func WriteFile(path string, doc Document) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return fmt.Errorf("filterio: marshal %s: %w", path, err)
	}
	if err := renameio.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("filterio: write %s: %w", path, err)
	}
	return nil
}

// ReadFile loads a Document previously written by WriteFile.
func ReadFile(path string) (Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Document{}, fmt.Errorf("filterio: read %s: %w", path, err)
	}
	var doc Document
	if err := json.Unmarshal(data, &doc); err != nil {
		return Document{}, fmt.Errorf("filterio: unmarshal %s: %w", path, err)
	}
	return doc, nil
}

// Import recreates every filter in doc as a new search filter on c
// against src, restoring each entry's enabled flag. Patterns that no
// longer compile are skipped and returned as errors; the rest import
// successfully.
func Import(doc Document, c *compositor.Compositor, src matchset.SegmentSource) []error {
	var errs []error
	for _, f := range doc.Filters {
		idx, err := c.AddSearch(f.Pattern, f.Pattern, f.Color, src)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		if !f.Enabled {
			_ = c.Toggle(idx)
		}
	}
	return errs
}

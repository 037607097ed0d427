package catalog

import (
	"encoding/json"
	"fmt"
	"os"
	"sort"
	"sync"

	"velore/models"
)

// Snapshot is the static catalog file the storefront renders from. The
// core never mutates it; admin edits go to the record API and show up on
// the next reload.
type Snapshot struct {
	mu       sync.RWMutex
	path     string
	products []models.Product
}

type snapshotFile struct {
	Products []models.Product `json:"products"`
}

// LoadSnapshot reads and parses the catalog file once.
func LoadSnapshot(path string) (*Snapshot, error) {
	s := &Snapshot{path: path}
	if err := s.Reload(); err != nil {
		return nil, err
	}
	return s, nil
}

// Reload re-reads the file, replacing the in-memory product list.
func (s *Snapshot) Reload() error {
	data, err := os.ReadFile(s.path)
	if err != nil {
		return fmt.Errorf("catalog: read %s: %w", s.path, err)
	}
	var f snapshotFile
	if err := json.Unmarshal(data, &f); err != nil {
		return fmt.Errorf("catalog: parse %s: %w", s.path, err)
	}
	s.mu.Lock()
	s.products = f.Products
	s.mu.Unlock()
	return nil
}

// Products returns the catalog, optionally filtered by category.
func (s *Snapshot) Products(category string) []models.Product {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.Product, 0, len(s.products))
	for _, p := range s.products {
		if category != "" && p.Category != category {
			continue
		}
		out = append(out, p)
	}
	return out
}

// Product looks one product up by id.
func (s *Snapshot) Product(id int) (models.Product, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, p := range s.products {
		if p.ID == id {
			return p, true
		}
	}
	return models.Product{}, false
}

// Categories returns the distinct category names, sorted.
func (s *Snapshot) Categories() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	seen := map[string]bool{}
	var out []string
	for _, p := range s.products {
		if p.Category == "" || seen[p.Category] {
			continue
		}
		seen[p.Category] = true
		out = append(out, p.Category)
	}
	sort.Strings(out)
	return out
}

package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"

	domain "stockwatch/pkg/types"
)

// fileRecord is the on-disk shape of one custom product. The in-memory
// availability set is stored as an ordered list; ordering carries no
// meaning and the decoder accepts any permutation.
type fileRecord struct {
	Name        string          `json:"name"`
	URL         string          `json:"url"`
	Site        domain.SiteKind `json:"site"`
	LastStock   []string        `json:"last_stock"`
	Initialized bool            `json:"initialized"`
}

// FileStore persists custom products as a JSON file keyed by product id.
type FileStore struct {
	path string
	log  *slog.Logger
}

// NewFileStore creates a FileStore writing to path.
func NewFileStore(path string, log *slog.Logger) *FileStore {
	if log == nil {
		log = slog.Default()
	}
	return &FileStore{path: path, log: log}
}

// Save writes all custom products to the file, replacing its contents.
// The write goes through a temp file and rename so a crash mid-write
// cannot corrupt the previous snapshot.
func (f *FileStore) Save(_ context.Context, products []domain.Product) error {
	records := make(map[string]fileRecord, len(products))
	for i := range products {
		p := &products[i]
		records[p.ID] = fileRecord{
			Name:        p.Name,
			URL:         p.URL,
			Site:        p.Site,
			LastStock:   p.Available.Sorted(),
			Initialized: p.Initialized,
		}
	}

	data, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return fmt.Errorf("encoding product file: %w", err)
	}

	tmp := f.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return fmt.Errorf("writing product file: %w", err)
	}
	if err := os.Rename(tmp, f.path); err != nil {
		return fmt.Errorf("replacing product file: %w", err)
	}
	return nil
}

// Load reads persisted custom products. A missing file means zero custom
// products; a malformed file is logged and degraded to zero rather than
// failing startup.
func (f *FileStore) Load(_ context.Context) ([]domain.Product, error) {
	data, err := os.ReadFile(f.path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil, nil
	}
	if err != nil {
		f.log.Warn("product file unreadable, starting empty", "path", f.path, "error", err)
		return nil, nil
	}

	var records map[string]fileRecord
	if err := json.Unmarshal(data, &records); err != nil {
		f.log.Warn("product file malformed, starting empty", "path", f.path, "error", err)
		return nil, nil
	}

	products := make([]domain.Product, 0, len(records))
	for id, rec := range records {
		products = append(products, domain.Product{
			ID:          id,
			Name:        rec.Name,
			URL:         rec.URL,
			Site:        rec.Site,
			Available:   domain.NewVariantSet(rec.LastStock...),
			Initialized: rec.Initialized,
			Custom:      true,
		})
	}
	return products, nil
}

// DefaultPath returns the product file location relative to a data
// directory, creating the directory if needed.
func DefaultPath(dataDir string) (string, error) {
	if err := os.MkdirAll(dataDir, 0o755); err != nil {
		return "", fmt.Errorf("creating data dir: %w", err)
	}
	return filepath.Join(dataDir, "custom_products.json"), nil
}

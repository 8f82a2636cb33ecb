package project

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/google/uuid"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

const collectionFileVersion = "1.0.0"

// maxRecentCollections bounds AppConfig.RecentCollections.
const maxRecentCollections = 10

// CollectionFile is the on-disk form of a brush collection. The registry of
// spawned instances is session state and is never stored.
type CollectionFile struct {
	Version     string              `json:"version" yaml:"version"`
	ID          string              `json:"id" yaml:"id"`
	Name        string              `json:"name" yaml:"name"`
	Brushes     []model.BrushConfig `json:"brushes" yaml:"brushes"`
	PrimaryID   string              `json:"primary_id,omitempty" yaml:"primary_id,omitempty"`
	SelectedIDs []string            `json:"selected_ids,omitempty" yaml:"selected_ids,omitempty"`
}

// CollectionInfo summarizes a stored collection.
type CollectionInfo struct {
	ID      string
	Name    string
	Path    string
	Brushes int
}

// ToFile converts a collection to its stored form.
func ToFile(c *model.BrushCollection) CollectionFile {
	f := CollectionFile{
		Version: collectionFileVersion,
		ID:      c.ID,
		Name:    c.Name,
		Brushes: make([]model.BrushConfig, 0, len(c.Brushes)),
	}
	for _, b := range c.Brushes {
		f.Brushes = append(f.Brushes, *b)
	}
	f.PrimaryID, f.SelectedIDs = c.SelectionIDs()
	return f
}

// FromFile rebuilds a collection from its stored form. Brushes are
// normalized, and missing ids and names are filled in.
func FromFile(f CollectionFile) *model.BrushCollection {
	c := model.NewBrushCollection(f.Name)
	if f.ID != "" {
		c.ID = f.ID
	}
	for i := range f.Brushes {
		b := f.Brushes[i]
		if b.ID == "" {
			b.ID = uuid.New().String()[:8]
		}
		b.Normalize()
		c.Add(&b)
	}
	c.RestoreSelection(f.PrimaryID, f.SelectedIDs)
	return c
}

// SaveCollection writes c to path. The format follows the file extension.
func SaveCollection(path string, c *model.BrushCollection) error {
	return WriteFile(path, ToFile(c))
}

// storedLayerMasks mirrors the brush layer masks of a collection file so
// brushes written without one can be told apart from an explicit 0.
type storedLayerMasks struct {
	Brushes []struct {
		Filters struct {
			LayerMask *model.LayerMask `json:"layer_mask" yaml:"layer_mask"`
		} `json:"filters" yaml:"filters"`
	} `json:"brushes" yaml:"brushes"`
}

// LoadCollection reads a collection from path. A brush stored without a
// layer mask accepts every layer.
func LoadCollection(path string) (*model.BrushCollection, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", filepath.Base(path), err)
	}
	format := FormatFor(path)
	var f CollectionFile
	if err := Unmarshal(format, data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse %s: %w", filepath.Base(path), err)
	}
	var masks storedLayerMasks
	if err := Unmarshal(format, data, &masks); err == nil {
		for i := range f.Brushes {
			if i < len(masks.Brushes) && masks.Brushes[i].Filters.LayerMask == nil {
				f.Brushes[i].Filters.LayerMask = model.AllLayers
			}
		}
	}
	return FromFile(f), nil
}

// DefaultConfigDir returns the default directory for application data.
// On all platforms this is ~/.scatterbrush/
func DefaultConfigDir() string {
	home, err := os.UserHomeDir()
	if err != nil {
		home = "."
	}
	return filepath.Join(home, ".scatterbrush")
}

// DefaultCollectionDir returns the default directory for stored collections.
func DefaultCollectionDir() string {
	return filepath.Join(DefaultConfigDir(), "collections")
}

// CollectionDir returns the collection directory configured in cfg.
func CollectionDir(cfg model.AppConfig) string {
	if cfg.CollectionDir != "" {
		return cfg.CollectionDir
	}
	return DefaultCollectionDir()
}

// CollectionPath returns the JSON path for the collection with id in dir.
func CollectionPath(dir, id string) string {
	return filepath.Join(dir, id+".json")
}

func isCollectionFile(name string) bool {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json", ".yaml", ".yml", ".toml":
		return true
	}
	return false
}

// ListCollections returns the collections stored in dir sorted by name.
// A missing directory yields an empty list. Unreadable files are skipped.
func ListCollections(dir string) ([]CollectionInfo, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return []CollectionInfo{}, nil
		}
		return nil, fmt.Errorf("failed to list collections: %w", err)
	}
	infos := []CollectionInfo{}
	for _, e := range entries {
		if e.IsDir() || !isCollectionFile(e.Name()) {
			continue
		}
		path := filepath.Join(dir, e.Name())
		var f CollectionFile
		if err := ReadFile(path, &f); err != nil || f.ID == "" {
			continue
		}
		infos = append(infos, CollectionInfo{ID: f.ID, Name: f.Name, Path: path, Brushes: len(f.Brushes)})
	}
	sort.Slice(infos, func(i, j int) bool {
		if infos[i].Name != infos[j].Name {
			return infos[i].Name < infos[j].Name
		}
		return infos[i].ID < infos[j].ID
	})
	return infos, nil
}

// FindCollection returns the path of the collection with the given id in
// dir. The error wraps os.ErrNotExist when there is none.
func FindCollection(dir, id string) (string, error) {
	infos, err := ListCollections(dir)
	if err != nil {
		return "", err
	}
	for _, info := range infos {
		if info.ID == id {
			return info.Path, nil
		}
	}
	return "", fmt.Errorf("collection %s: %w", id, os.ErrNotExist)
}

// CreateCollection creates and saves an empty collection in dir.
func CreateCollection(dir, name string) (*model.BrushCollection, string, error) {
	c := model.NewBrushCollection(name)
	path := CollectionPath(dir, c.ID)
	if err := SaveCollection(path, c); err != nil {
		return nil, "", fmt.Errorf("failed to create collection: %w", err)
	}
	return c, path, nil
}

// LastUsedCollection opens the collection recorded in cfg. When it is gone,
// the first stored collection is used, and when there is none a default
// collection is created. cfg is updated to point at the result.
func LastUsedCollection(cfg *model.AppConfig) (*model.BrushCollection, string, error) {
	dir := CollectionDir(*cfg)
	var path string
	if cfg.LastCollectionID != "" {
		if p, err := FindCollection(dir, cfg.LastCollectionID); err == nil {
			path = p
		}
	}
	if path == "" {
		infos, err := ListCollections(dir)
		if err != nil {
			return nil, "", err
		}
		if len(infos) > 0 {
			path = infos[0].Path
		}
	}

	var (
		c   *model.BrushCollection
		err error
	)
	if path == "" {
		c, path, err = CreateCollection(dir, model.DefaultCollectionName)
	} else {
		c, err = LoadCollection(path)
	}
	if err != nil {
		return nil, "", err
	}
	cfg.TouchRecent(c.ID, maxRecentCollections)
	return c, path, nil
}

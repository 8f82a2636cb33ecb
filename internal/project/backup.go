package project

import (
	"fmt"
	"time"

	"github.com/piwi3910/ScatterBrush/internal/model"
)

// BackupData is the top-level structure for import/export of all application data.
type BackupData struct {
	Version     string           `json:"version" yaml:"version"`
	CreatedAt   string           `json:"created_at" yaml:"created_at"`
	Config      model.AppConfig  `json:"config" yaml:"config"`
	Collections []CollectionFile `json:"collections" yaml:"collections"`
}

// ExportAllData exports the config and every given collection to a single
// file at the specified path.
func ExportAllData(exportPath string, config model.AppConfig, collections []*model.BrushCollection) error {
	backup := BackupData{
		Version:     "1.0.0",
		CreatedAt:   time.Now().UTC().Format(time.RFC3339),
		Config:      config,
		Collections: make([]CollectionFile, 0, len(collections)),
	}
	for _, c := range collections {
		backup.Collections = append(backup.Collections, ToFile(c))
	}
	if err := WriteFile(exportPath, backup); err != nil {
		return fmt.Errorf("failed to write backup: %w", err)
	}
	return nil
}

// ImportAllData reads a backup file and returns the contained data.
// The caller is responsible for applying the imported config.
func ImportAllData(importPath string) (BackupData, error) {
	var backup BackupData
	if err := ReadFile(importPath, &backup); err != nil {
		return BackupData{}, fmt.Errorf("failed to load backup: %w", err)
	}
	if backup.Version == "" {
		return BackupData{}, fmt.Errorf("invalid backup file: missing version field")
	}
	// Ensure slices are never nil
	if backup.Config.RecentCollections == nil {
		backup.Config.RecentCollections = []string{}
	}
	if backup.Collections == nil {
		backup.Collections = []CollectionFile{}
	}
	return backup, nil
}

// RestoreCollections writes every collection of the backup into dir and
// returns the written paths.
func RestoreCollections(dir string, backup BackupData) ([]string, error) {
	paths := make([]string, 0, len(backup.Collections))
	for _, f := range backup.Collections {
		c := FromFile(f)
		path := CollectionPath(dir, c.ID)
		if err := SaveCollection(path, c); err != nil {
			return paths, fmt.Errorf("failed to restore collection %s: %w", c.Name, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

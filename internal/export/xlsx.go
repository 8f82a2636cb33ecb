package export

import (
	"fmt"

	"github.com/xuri/excelize/v2"
)

const (
	placementsSheet = "Placements"
	templatesSheet  = "Templates"
)

var placementHeaders = []any{"ID", "Template", "Name", "X", "Y", "Z", "Scale", "Yaw", "Parent"}

// ExportXLSX writes one row per placement on a "Placements" sheet and the
// per-template counts on a "Templates" sheet.
func ExportXLSX(path string, placements []PlacementInfo) error {
	if len(placements) == 0 {
		return fmt.Errorf("no placements to export")
	}

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), placementsSheet); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}
	if err := f.SetSheetRow(placementsSheet, "A1", &placementHeaders); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, p := range placements {
		row := []any{
			string(p.ID), p.Template, p.Name,
			p.Position.X, p.Position.Y, p.Position.Z,
			p.Scale, p.Yaw, p.Parent,
		}
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(placementsSheet, cell, &row); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if _, err := f.NewSheet(templatesSheet); err != nil {
		return fmt.Errorf("failed to add sheet: %w", err)
	}
	if err := f.SetSheetRow(templatesSheet, "A1", &[]any{"Template", "Name", "Count"}); err != nil {
		return fmt.Errorf("failed to write header: %w", err)
	}
	for i, c := range CountByTemplate(placements) {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetSheetRow(templatesSheet, cell, &[]any{c.Template, c.Name, c.Count}); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+2, err)
		}
	}

	if err := f.SaveAs(path); err != nil {
		return fmt.Errorf("failed to save workbook: %w", err)
	}
	return nil
}

// Package importer reads brush sheets from CSV and Excel files. It supports
// automatic delimiter detection, flexible column mapping, and
// case-insensitive header recognition.
package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/piwi3910/ScatterBrush/internal/model"
	"github.com/xuri/excelize/v2"
)

// ImportResult holds the results of an import operation.
type ImportResult struct {
	Brushes  []*model.BrushConfig
	Errors   []string
	Warnings []string
}

// ColumnMapping maps semantic column roles to their indices in the data.
// A negative index means the column is absent.
type ColumnMapping struct {
	Template       int
	Name           int
	Density        int
	Radius         int
	MinScale       int
	MaxScale       int
	MinSlope       int
	MaxSlope       int
	Layers         int
	Tag            int
	Align          int
	Intercollision int
	Parent         int
}

// positionalMapping is used when the first row is not a header.
var positionalMapping = ColumnMapping{
	Template: 0, Name: -1, Density: 1, Radius: 2, MinScale: 3, MaxScale: 4,
	MinSlope: 5, MaxSlope: 6, Layers: 7, Tag: 8, Align: 9, Intercollision: 10,
	Parent: -1,
}

// headerAliases maps canonical column names to their accepted aliases (all lowercase).
var headerAliases = map[string][]string{
	"template":       {"template", "prefab", "asset", "object", "model"},
	"name":           {"name", "label", "display name", "title"},
	"density":        {"density", "dens", "count per unit"},
	"radius":         {"radius", "brush radius", "size", "brush size"},
	"min_scale":      {"min scale", "min_scale", "minscale", "scale min"},
	"max_scale":      {"max scale", "max_scale", "maxscale", "scale max"},
	"min_slope":      {"min slope", "min_slope", "minslope", "slope min"},
	"max_slope":      {"max slope", "max_slope", "maxslope", "slope max"},
	"layers":         {"layers", "layer", "layer mask", "layer_mask", "mask"},
	"tag":            {"tag", "tag filter", "tag_filter"},
	"align":          {"align", "align to surface", "align_to_surface", "align normal"},
	"intercollision": {"intercollision", "allow intercollision", "allow_intercollision", "overlap"},
	"parent":         {"parent", "container", "group"},
}

// DetectCSVDelimiter reads the file content and determines the most likely CSV delimiter.
// It tries comma, semicolon, tab, and pipe. The delimiter that produces the most
// consistent (non-one) column count across lines wins.
func DetectCSVDelimiter(data []byte) rune {
	candidates := []rune{',', ';', '\t', '|'}
	bestDelimiter := ','
	bestScore := 0

	for _, delim := range candidates {
		reader := csv.NewReader(bytes.NewReader(data))
		reader.Comma = delim
		reader.LazyQuotes = true
		reader.FieldsPerRecord = -1

		records, err := reader.ReadAll()
		if err != nil || len(records) < 1 {
			continue
		}

		firstCols := len(records[0])
		if firstCols < 2 {
			continue
		}

		score := 0
		for _, row := range records {
			if len(row) == firstCols {
				score++
			}
		}

		weighted := score*10 + firstCols
		if weighted > bestScore {
			bestScore = weighted
			bestDelimiter = delim
		}
	}

	return bestDelimiter
}

// DetectColumns examines a header row and returns a ColumnMapping.
// Matching is case-insensitive against the known aliases of each role; the
// first matching column wins. Returns the positional mapping and false when
// no cell looks like a header.
func DetectColumns(row []string) (ColumnMapping, bool) {
	roles := map[string]int{}
	for i, cell := range row {
		normalized := strings.ToLower(strings.TrimSpace(cell))
		for role, aliases := range headerAliases {
			if _, taken := roles[role]; taken {
				continue
			}
			for _, alias := range aliases {
				if normalized == alias {
					roles[role] = i
					break
				}
			}
		}
	}

	if len(roles) == 0 {
		return positionalMapping, false
	}

	col := func(role string) int {
		if i, ok := roles[role]; ok {
			return i
		}
		return -1
	}
	return ColumnMapping{
		Template:       col("template"),
		Name:           col("name"),
		Density:        col("density"),
		Radius:         col("radius"),
		MinScale:       col("min_scale"),
		MaxScale:       col("max_scale"),
		MinSlope:       col("min_slope"),
		MaxSlope:       col("max_slope"),
		Layers:         col("layers"),
		Tag:            col("tag"),
		Align:          col("align"),
		Intercollision: col("intercollision"),
		Parent:         col("parent"),
	}, true
}

// parseBool accepts the usual spreadsheet spellings of a flag.
func parseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "yes", "y", "true", "t", "1", "x", "on":
		return true, true
	case "no", "n", "false", "f", "0", "-", "off":
		return false, true
	default:
		return false, false
	}
}

// ParseLayers converts "all", "*" or a list of layer numbers separated by
// spaces, commas, '+' or '/' into a mask.
func ParseLayers(s string) (model.LayerMask, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "all" || s == "*" || s == "everything" {
		return model.AllLayers, nil
	}
	if s == "none" {
		return 0, nil
	}
	fields := strings.FieldsFunc(s, func(r rune) bool {
		return r == ' ' || r == ',' || r == '+' || r == '/'
	})
	if len(fields) == 0 {
		return 0, fmt.Errorf("empty layer list")
	}
	var layers []int
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil || n < 0 || n > 31 {
			return 0, fmt.Errorf("invalid layer %q", f)
		}
		layers = append(layers, n)
	}
	return model.LayerMaskOf(layers...), nil
}

// getCell safely retrieves a cell value from a row by column index.
// Returns empty string if the index is out of range or negative.
func getCell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// rowParser accumulates the warnings of a single row.
type rowParser struct {
	row      []string
	label    string
	warnings []string
}

func (p *rowParser) warnf(format string, args ...any) {
	p.warnings = append(p.warnings, p.label+": "+fmt.Sprintf(format, args...))
}

// number reads an optional numeric column. ok is false when the cell is
// empty; err is set when it is present but not a number.
func (p *rowParser) number(idx int, what string) (v float32, ok bool, err error) {
	s := getCell(p.row, idx)
	if s == "" {
		return 0, false, nil
	}
	f, perr := strconv.ParseFloat(s, 32)
	if perr != nil {
		return 0, false, fmt.Errorf("%s: Invalid %s '%s'", p.label, what, s)
	}
	return float32(f), true, nil
}

// flag reads an optional boolean column, warning on unknown spellings.
func (p *rowParser) flag(idx int, what string, dst *bool) {
	s := getCell(p.row, idx)
	if s == "" {
		return
	}
	v, ok := parseBool(s)
	if !ok {
		p.warnf("Unknown %s value '%s', keeping default", what, s)
		return
	}
	*dst = v
}

// parseRow extracts a brush from a row using the given column mapping.
// Returns the brush, any error message, and the row's warnings.
func parseRow(row []string, mapping ColumnMapping, rowLabel string) (*model.BrushConfig, string, []string) {
	p := &rowParser{row: row, label: rowLabel}

	tmplID := getCell(row, mapping.Template)
	if tmplID == "" {
		return nil, fmt.Sprintf("%s: Missing template", rowLabel), nil
	}
	name := getCell(row, mapping.Name)
	if name == "" {
		name = tmplID
	}
	b := model.NewBrush(model.TemplateRef{ID: tmplID, Name: name})

	type numeric struct {
		idx  int
		what string
		set  func(float32)
		get  func() float32
	}
	numerics := []numeric{
		{mapping.Density, "density", b.SetDensity, func() float32 { return b.Details.Density }},
		{mapping.Radius, "radius", b.SetBrushRadius, func() float32 { return b.Details.BrushRadius }},
		{mapping.MinScale, "min scale", b.SetMinScale, func() float32 { return b.Details.MinScale }},
		{mapping.MaxScale, "max scale", b.SetMaxScale, func() float32 { return b.Details.MaxScale }},
		{mapping.MinSlope, "min slope", b.SetMinSlope, func() float32 { return b.Filters.MinSlope }},
		{mapping.MaxSlope, "max slope", b.SetMaxSlope, func() float32 { return b.Filters.MaxSlope }},
	}
	for _, n := range numerics {
		v, ok, err := p.number(n.idx, n.what)
		if err != nil {
			return nil, err.Error(), p.warnings
		}
		if !ok {
			continue
		}
		n.set(v)
		if got := n.get(); got != v {
			p.warnf("%s %g out of range, clamped to %g", n.what, v, got)
		}
	}

	if s := getCell(row, mapping.Layers); s != "" {
		mask, err := ParseLayers(s)
		if err != nil {
			return nil, fmt.Sprintf("%s: %v", rowLabel, err), p.warnings
		}
		b.Filters.LayerMask = mask
	}

	if tag := getCell(row, mapping.Tag); tag != "" {
		b.Filters.TagFilterEnabled = true
		b.Filters.TagFilter = tag
	}

	p.flag(mapping.Align, "align", &b.Details.AlignToSurface)
	p.flag(mapping.Intercollision, "intercollision", &b.Details.AllowIntercollision)
	b.Parent = getCell(row, mapping.Parent)

	b.Normalize()
	return b, "", p.warnings
}

// isEmptyRow returns true if the row has no meaningful content.
func isEmptyRow(row []string) bool {
	for _, cell := range row {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}

// ImportCSV imports brushes from a CSV file.
// It automatically detects the delimiter and maps columns by header names.
func ImportCSV(path string) ImportResult {
	result := ImportResult{}

	data, err := os.ReadFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open file: %v", err))
		return result
	}

	if len(bytes.TrimSpace(data)) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	delimiter := DetectCSVDelimiter(data)
	if delimiter != ',' {
		delimName := map[rune]string{';': "semicolon", '\t': "tab", '|': "pipe"}[delimiter]
		result.Warnings = append(result.Warnings, fmt.Sprintf("Detected %s delimiter", delimName))
	}

	reader := csv.NewReader(bytes.NewReader(data))
	reader.Comma = delimiter
	reader.LazyQuotes = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", result.Warnings)
}

// ImportCSVFromReader imports brushes from a CSV reader with a known delimiter.
func ImportCSVFromReader(reader io.Reader, delimiter rune) ImportResult {
	result := ImportResult{}

	csvReader := csv.NewReader(reader)
	csvReader.Comma = delimiter
	csvReader.LazyQuotes = true
	csvReader.FieldsPerRecord = -1

	records, err := csvReader.ReadAll()
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read CSV: %v", err))
		return result
	}

	return importFromRows(records, "Line", nil)
}

// ImportExcel imports brushes from the first sheet of an Excel workbook.
func ImportExcel(path string) ImportResult {
	result := ImportResult{}

	f, err := excelize.OpenFile(path)
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot open Excel file: %v", err))
		return result
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		result.Errors = append(result.Errors, "Excel file has no sheets")
		return result
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		result.Errors = append(result.Errors, fmt.Sprintf("Cannot read Excel data: %v", err))
		return result
	}

	return importFromRows(rows, "Row", nil)
}

// ImportFile dispatches on the file extension.
func ImportFile(path string) ImportResult {
	lower := strings.ToLower(path)
	if strings.HasSuffix(lower, ".xlsx") || strings.HasSuffix(lower, ".xlsm") {
		return ImportExcel(path)
	}
	return ImportCSV(path)
}

// importFromRows is the shared import logic for both CSV and Excel data.
// It detects headers, maps columns, and parses each row into a brush.
func importFromRows(rows [][]string, rowPrefix string, initialWarnings []string) ImportResult {
	result := ImportResult{
		Warnings: initialWarnings,
	}

	if len(rows) == 0 {
		result.Errors = append(result.Errors, "File is empty")
		return result
	}

	mapping, hasHeader := DetectColumns(rows[0])
	startRow := 0
	if hasHeader {
		startRow = 1
		result.Warnings = append(result.Warnings, "Detected header row, skipping")
		if mapping.Template == -1 {
			result.Errors = append(result.Errors, "Required columns not found in header: Template")
			return result
		}
	}

	for i := startRow; i < len(rows); i++ {
		row := rows[i]
		if isEmptyRow(row) {
			continue
		}

		rowLabel := fmt.Sprintf("%s %d", rowPrefix, i+1)
		brush, errMsg, warnings := parseRow(row, mapping, rowLabel)
		result.Warnings = append(result.Warnings, warnings...)
		if errMsg != "" {
			result.Errors = append(result.Errors, errMsg)
			continue
		}
		result.Brushes = append(result.Brushes, brush)
	}

	if len(result.Brushes) == 0 && len(result.Errors) == 0 {
		result.Errors = append(result.Errors, "No data rows found")
	}
	return result
}

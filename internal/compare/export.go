package compare

import (
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"hmvfinder/internal"
)

// ExportComparisonToXLSX writes one row per discovered field with one
// column per compared item.
func ExportComparisonToXLSX(fields []internal.ComparisonField, items []internal.ProductRecord, specs []internal.ExtractedSpec, outputPath string) error {
	f := excelize.NewFile()
	sheet := f.GetSheetName(0)

	set := func(col, row int, value any) {
		cell, _ := excelize.CoordinatesToCellName(col, row)
		_ = f.SetCellValue(sheet, cell, value)
	}

	set(1, 1, "merkmal")
	for i, item := range items {
		set(i+2, 1, item.Name)
	}

	for r, field := range fields {
		set(1, r+2, field.Label)
		for i := range items {
			value := internal.FieldUnspecified
			if i < len(specs) {
				if v, ok := specs[i][field.Key]; ok {
					value = v
				}
			}
			set(i+2, r+2, value)
		}
	}

	if err := os.MkdirAll(filepath.Dir(outputPath), 0o755); err != nil {
		return err
	}
	return f.SaveAs(outputPath)
}

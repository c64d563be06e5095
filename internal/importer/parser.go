package importer

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"strings"

	"github.com/MrJamesThe3rd/condobill/internal/encoding"
)

// Parse decodes a charge sheet into rows. CSV input is normalized to UTF-8 first; workbooks are
// read from their first sheet.
func Parse(data []byte, format Format) ([]Row, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}

	var (
		grid [][]string
		err  error
	)

	switch format {
	case FormatCSV:
		grid, err = readCSV(data)
	case FormatXLSX, FormatXLS:
		grid, err = readWorkbook(data)
	default:
		return nil, ErrInvalidFileType.With("file_ext", string(format))
	}

	if err != nil {
		return nil, err
	}

	return toRows(grid)
}

func readCSV(data []byte) ([][]string, error) {
	utf8Data, err := encoding.ToUTF8(data)
	if err != nil {
		return nil, fmt.Errorf("detect encoding: %w", err)
	}

	reader := csv.NewReader(bytes.NewReader(utf8Data))
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	grid, err := reader.ReadAll()
	if err != nil {
		return nil, ErrInvalidShape.Wrap(fmt.Errorf("read csv: %w", err))
	}

	return grid, nil
}

// colIndex maps header names to their column position.
type colIndex map[string]int

func toRows(grid [][]string) ([]Row, error) {
	headerAt := -1

	for i, line := range grid {
		if !blank(line) {
			headerAt = i
			break
		}
	}

	if headerAt < 0 {
		return nil, ErrMissingColumns.With("missing_columns", requiredCols)
	}

	cols := make(colIndex)

	for i, cell := range grid[headerAt] {
		name := strings.TrimSpace(cell)
		if _, dup := cols[name]; name != "" && !dup {
			cols[name] = i
		}
	}

	var missing []string

	for _, name := range requiredCols {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}

	if len(missing) > 0 {
		return nil, ErrMissingColumns.With("missing_columns", missing)
	}

	remarkIdx, hasRemark := cols[ColRemark]
	if !hasRemark {
		remarkIdx = -1
	}

	var rows []Row

	for _, line := range grid[headerAt+1:] {
		if blank(line) {
			continue
		}

		rows = append(rows, Row{
			Number: len(rows) + 1,
			Unit:   CanonicalUnit(cellValue(line, cols[ColUnit])),
			Member: cellValue(line, cols[ColMember]),
			Amount: cellValue(line, cols[ColAmount]),
			Remark: cellValue(line, remarkIdx),
		})
	}

	return rows, nil
}

// cellValue safely gets a trimmed cell value from a row.
func cellValue(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}

	return strings.TrimSpace(row[idx])
}

func blank(row []string) bool {
	for _, c := range row {
		if strings.TrimSpace(c) != "" {
			return false
		}
	}

	return true
}

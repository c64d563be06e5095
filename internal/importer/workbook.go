package importer

import (
	"bytes"
	"errors"
	"fmt"

	"github.com/extrame/xls"
	"github.com/xuri/excelize/v2"
)

// readWorkbook reads the first sheet. Legacy BIFF files that excelize cannot open are
// retried with the xls reader; anything neither can open is rejected as an unreadable sheet.
func readWorkbook(data []byte) ([][]string, error) {
	grid, err := readExcelize(data)
	if err == nil {
		return checkShape(grid)
	}

	grid, xlsErr := readBIFF(data)
	if xlsErr != nil {
		return nil, ErrInvalidShape.Wrap(errors.Join(err, xlsErr))
	}

	return checkShape(grid)
}

func readExcelize(data []byte) ([][]string, error) {
	f, err := excelize.OpenReader(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	if sheet == "" {
		return nil, errors.New("workbook has no sheets")
	}

	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}

	return rows, nil
}

func readBIFF(data []byte) (grid [][]string, err error) {
	// the BIFF reader panics on some malformed streams
	defer func() {
		if p := recover(); p != nil {
			err = fmt.Errorf("read xls: %v", p)
		}
	}()

	wb, err := xls.OpenReader(bytes.NewReader(data), "utf-8")
	if err != nil {
		return nil, fmt.Errorf("open xls: %w", err)
	}

	sheet := wb.GetSheet(0)
	if sheet == nil {
		return nil, errors.New("xls has no sheets")
	}

	for i := 0; i <= int(sheet.MaxRow); i++ {
		row := sheet.Row(i)
		if row == nil {
			grid = append(grid, nil)
			continue
		}

		cells := make([]string, 0, row.LastCol())
		for c := 0; c < row.LastCol(); c++ {
			cells = append(cells, row.Col(c))
		}

		grid = append(grid, cells)
	}

	return grid, nil
}

// checkShape rejects a sheet whose A1, B1 and C1 are all empty. Files saved as HTML with an
// .xls extension open that way.
func checkShape(grid [][]string) ([][]string, error) {
	if len(grid) == 0 || blank(grid[0][:min(3, len(grid[0]))]) {
		return nil, ErrInvalidShape
	}

	return grid, nil
}

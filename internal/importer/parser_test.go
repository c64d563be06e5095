package importer_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
	"github.com/MrJamesThe3rd/condobill/internal/importer"
)

const header = "เลขห้อง,ชื่อลูกบ้าน,ยอดเงิน,หมายเหตุ\n"

func buildXLSX(t *testing.T, rows [][]any) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}

	buf, err := f.WriteToBuffer()
	require.NoError(t, err)

	return buf.Bytes()
}

func TestParse_CSV(t *testing.T) {
	data := []byte(header +
		"101,Alice,\"1,500\",\n" +
		",,,\n" +
		"11/1/01,Bob,200,late fee\n")

	rows, err := importer.Parse(data, importer.FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 2)

	assert.Equal(t, importer.Row{Number: 1, Unit: "101", Member: "Alice", Amount: "1,500"}, rows[0])
	assert.Equal(t, importer.Row{Number: 2, Unit: "11/01", Member: "Bob", Amount: "200", Remark: "late fee"}, rows[1])
}

func TestParse_CSVWindows874(t *testing.T) {
	encoded, err := charmap.Windows874.NewEncoder().String(header + "A-1,สมชาย,300,\n")
	require.NoError(t, err)

	rows, err := importer.Parse([]byte(encoded), importer.FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "สมชาย", rows[0].Member)
}

func TestParse_CSVWithoutRemarkColumn(t *testing.T) {
	rows, err := importer.Parse([]byte("ยอดเงิน,เลขห้อง,ชื่อลูกบ้าน\n50,A-2,Carol\n"), importer.FormatCSV)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, importer.Row{Number: 1, Unit: "A-2", Member: "Carol", Amount: "50"}, rows[0])
}

func TestParse_MissingColumns(t *testing.T) {
	_, err := importer.Parse([]byte("เลขห้อง,name,ยอดเงิน\n101,Alice,10\n"), importer.FormatCSV)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrMissingColumns)

	var appErr *apperr.Error
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, []string{importer.ColMember}, appErr.Details["missing_columns"])
}

func TestParse_Empty(t *testing.T) {
	_, err := importer.Parse(nil, importer.FormatCSV)
	assert.ErrorIs(t, err, importer.ErrEmptyFile)
}

func TestParse_XLSX(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{importer.ColUnit, importer.ColMember, importer.ColAmount, importer.ColRemark},
		{"101", "Alice", "1500", ""},
		{"102", "Bob", "abc", "note"},
	})

	rows, err := importer.Parse(data, importer.FormatXLSX)
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "Alice", rows[0].Member)
	assert.Equal(t, "abc", rows[1].Amount)
	assert.Equal(t, "note", rows[1].Remark)
}

func TestParse_XLSXBlankHeaderCells(t *testing.T) {
	data := buildXLSX(t, [][]any{
		{nil, nil, nil, importer.ColUnit},
		{nil, nil, nil, "101"},
	})

	_, err := importer.Parse(data, importer.FormatXLSX)
	require.Error(t, err)
	assert.ErrorIs(t, err, importer.ErrInvalidShape)
	assert.Equal(t, apperr.KindParse, apperr.KindOf(err))
}

func TestParse_HTMLSavedAsXLS(t *testing.T) {
	data := []byte("<html><body><table><tr><td>เลขห้อง</td></tr></table></body></html>")

	_, err := importer.Parse(data, importer.FormatXLS)
	assert.ErrorIs(t, err, importer.ErrInvalidShape)
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in      string
		want    importer.Format
		wantErr bool
	}{
		{in: "xlsx", want: importer.FormatXLSX},
		{in: ".XLS", want: importer.FormatXLS},
		{in: " csv ", want: importer.FormatCSV},
		{in: "pdf", wantErr: true},
		{in: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := importer.ParseFormat(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, importer.ErrInvalidFileType)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCanonicalUnit(t *testing.T) {
	tests := map[string]string{
		"11/1/01":  "11/01",
		"1/2/3":    "01/02",
		"11/01":    "11/01",
		"A-101":    "A-101",
		"111/1/01": "111/1/01",
		"":         "",
	}

	for in, want := range tests {
		assert.Equal(t, want, importer.CanonicalUnit(in), in)
	}
}

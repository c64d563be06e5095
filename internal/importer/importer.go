package importer

import (
	"strings"

	"github.com/MrJamesThe3rd/condobill/internal/apperr"
)

// Format is the extension hint of an uploaded charge sheet.
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatXLS  Format = "xls"
	FormatCSV  Format = "csv"
)

// Canonical column headers of a charge sheet. Matched exactly.
const (
	ColUnit   = "เลขห้อง"
	ColMember = "ชื่อลูกบ้าน"
	ColAmount = "ยอดเงิน"
	ColRemark = "หมายเหตุ"
)

var requiredCols = []string{ColUnit, ColMember, ColAmount}

var (
	ErrInvalidFileType = apperr.Validation("INVALID_FILE_TYPE", "file type must be one of xlsx, xls, csv")
	ErrEmptyFile       = apperr.Validation("EMPTY_UPLOAD", "uploaded file is empty")
	ErrMissingColumns  = apperr.Validation("MISSING_COLUMNS", "required columns are missing")
	ErrInvalidShape    = apperr.Parse("INVALID_SPREADSHEET",
		"the spreadsheet could not be read; open it in Excel, save it again as .xlsx or .csv and re-upload")
	ErrFetch = apperr.New(apperr.KindInternal, "FETCH_FAILED", "attachment could not be fetched")
)

// ParseFormat normalizes an extension hint such as ".XLSX" or "csv".
func ParseFormat(ext string) (Format, error) {
	f := Format(strings.ToLower(strings.TrimPrefix(strings.TrimSpace(ext), ".")))

	switch f {
	case FormatXLSX, FormatXLS, FormatCSV:
		return f, nil
	}

	return "", ErrInvalidFileType.With("file_ext", ext)
}

// Row is one data row of a charge sheet, keyed by the canonical columns.
// Number is the 1-based position among non-blank data rows.
type Row struct {
	Number int
	Unit   string
	Member string
	Amount string
	Remark string
}

package importer

import (
	"slices"
	"strings"

	"github.com/shopspring/decimal"
)

// Reason explains why a row was skipped.
type Reason string

const (
	ReasonMissing    Reason = "MISSING"
	ReasonNonNumeric Reason = "NON_NUMERIC"
)

// ValidRow is a row that will become a unit charge.
type ValidRow struct {
	Row    int             `json:"row"`
	Unit   string          `json:"room_address"`
	Member string          `json:"member_name"`
	Amount decimal.Decimal `json:"total_price"`
	Remark *string         `json:"remark"`
}

// SkippedRow is a row that failed validation, echoed back with its raw cells.
type SkippedRow struct {
	Row    int    `json:"row"`
	Reason Reason `json:"reason"`
	Unit   string `json:"room_address"`
	Member string `json:"member_name"`
	Amount string `json:"total_price"`
	Remark string `json:"remark"`
}

// Result partitions parsed rows into valid, invalid and excluded.
type Result struct {
	Valid        []ValidRow      `json:"valid_rows"`
	Skipped      []SkippedRow    `json:"skipped_rows"`
	Excluded     []int           `json:"excluded_rows"`
	ValidCount   int             `json:"valid_count"`
	InvalidCount int             `json:"invalid_count"`
	Total        decimal.Decimal `json:"total_amount"`
}

// Validate classifies each row. A row whose Number is listed in excluded is neither valid nor
// invalid. Otherwise the unit, member and amount cells must be present and the amount must parse
// as a finite number once thousands separators are stripped.
func Validate(rows []Row, excluded []int) Result {
	res := Result{
		Valid:    []ValidRow{},
		Skipped:  []SkippedRow{},
		Excluded: []int{},
		Total:    decimal.Zero,
	}

	for _, r := range rows {
		if slices.Contains(excluded, r.Number) {
			res.Excluded = append(res.Excluded, r.Number)
			continue
		}

		if r.Unit == "" || r.Member == "" || r.Amount == "" {
			res.Skipped = append(res.Skipped, skipped(r, ReasonMissing))
			continue
		}

		amount, ok := ParseAmount(r.Amount)
		if !ok {
			res.Skipped = append(res.Skipped, skipped(r, ReasonNonNumeric))
			continue
		}

		var remark *string
		if r.Remark != "" {
			remark = new(r.Remark)
		}

		res.Valid = append(res.Valid, ValidRow{
			Row:    r.Number,
			Unit:   r.Unit,
			Member: r.Member,
			Amount: amount,
			Remark: remark,
		})
		res.Total = res.Total.Add(amount)
	}

	res.ValidCount = len(res.Valid)
	res.InvalidCount = len(res.Skipped)

	return res
}

// ParseAmount reads a money cell such as "1,500.50". The decimal parser accepts neither NaN
// nor infinities.
func ParseAmount(raw string) (decimal.Decimal, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(raw), ",", "")
	if s == "" {
		return decimal.Zero, false
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}

	return d, true
}

func skipped(r Row, reason Reason) SkippedRow {
	return SkippedRow{
		Row:    r.Number,
		Reason: reason,
		Unit:   r.Unit,
		Member: r.Member,
		Amount: r.Amount,
		Remark: r.Remark,
	}
}

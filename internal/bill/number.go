package bill

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Prefix selects the identifier series.
type Prefix string

const (
	PrefixBill    Prefix = "BILL"
	PrefixInvoice Prefix = "INV"
)

// counterSpan is the number of distinct NNN values per tenant, prefix and day.
const counterSpan = 1000

// DayKey renders the YYYY-MMDD segment of an identifier for the calendar day of t in loc.
func DayKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-0102")
}

// FormatNumber renders PREFIX-YYYY-MMDD-NNN.
func FormatNumber(p Prefix, day string, n int) string {
	return fmt.Sprintf("%s-%s-%03d", p, day, n%counterSpan)
}

// ParseCounter extracts NNN from an identifier.
func ParseCounter(no string) (int, bool) {
	i := strings.LastIndexByte(no, '-')
	if i < 0 {
		return 0, false
	}

	n, err := strconv.Atoi(no[i+1:])
	if err != nil || n < 0 {
		return 0, false
	}

	return n, true
}

// Sequence allocates k consecutive identifiers following latest, the highest identifier already
// issued for the series ("" when none). Counters wrap modulo 1000; a batch wider than the
// counter span can never be collision-free and is rejected.
func Sequence(p Prefix, day, latest string, k int) ([]string, error) {
	if k > counterSpan {
		return nil, ErrIdentifierExhausted.With("requested", k)
	}

	start := 0

	if latest != "" {
		n, ok := ParseCounter(latest)
		if !ok {
			return nil, fmt.Errorf("malformed identifier %q", latest)
		}

		start = (n + 1) % counterSpan
	}

	out := make([]string, k)
	for i := range out {
		out[i] = FormatNumber(p, day, start+i)
	}

	return out, nil
}

// SeriesPattern is the LIKE pattern matching every identifier of one series.
func SeriesPattern(p Prefix, day string) string {
	return fmt.Sprintf("%s-%s-%%", p, day)
}

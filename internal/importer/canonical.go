package importer

import (
	"fmt"
	"regexp"
	"strconv"
)

// Spreadsheet tools turn a unit such as 11/01 into a date; the exported text then looks like 11/1/01.
var dateLikeUnit = regexp.MustCompile(`^(\d{1,2})/(\d{1,2})/(\d{1,2})$`)

// CanonicalUnit rewrites date-like unit numbers to a zero-padded part1/part2, dropping the third part.
// Any other value is returned unchanged.
func CanonicalUnit(raw string) string {
	m := dateLikeUnit.FindStringSubmatch(raw)
	if m == nil {
		return raw
	}

	a, _ := strconv.Atoi(m[1])
	b, _ := strconv.Atoi(m[2])

	return fmt.Sprintf("%02d/%02d", a, b)
}

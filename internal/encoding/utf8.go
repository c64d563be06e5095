package encoding

import (
	"bytes"
	"fmt"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xenc "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// ToUTF8 returns data as UTF-8 (code page 65001) with any byte order mark removed.
//
// Valid UTF-8 passes through. UTF-16 is recognised by its BOM. Single-byte input dense in
// high bytes is read as Windows-874 (Thai Excel exports); otherwise chardet decides, with
// Windows-874 as the fallback.
func ToUTF8(data []byte) ([]byte, error) {
	if bytes.HasPrefix(data, bomUTF8) {
		return data[len(bomUTF8):], nil
	}

	dec := legacyDecoder(data)
	if dec == nil {
		return data, nil
	}

	out, err := dec.NewDecoder().Bytes(data)
	if err != nil {
		return nil, fmt.Errorf("decoding to utf-8: %w", err)
	}

	return bytes.TrimPrefix(out, bomUTF8), nil
}

// legacyDecoder picks the source encoding, or nil when data is already UTF-8.
func legacyDecoder(data []byte) xenc.Encoding {
	switch {
	case bytes.HasPrefix(data, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
	case bytes.HasPrefix(data, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM)
	case utf8.Valid(data):
		return nil
	}

	sample := data
	if len(sample) > 4096 {
		sample = sample[:4096]
	}

	if thaiDense(sample) {
		return charmap.Windows874
	}

	if res, err := chardet.NewTextDetector().DetectBest(sample); err == nil {
		switch res.Charset {
		case "UTF-8":
			return nil
		case "ISO-8859-1", "windows-1252":
			return charmap.Windows1252
		}
	}

	return charmap.Windows874
}

// thaiDense reports whether more than a third of the non-space bytes fall in the Thai block
// of Windows-874. Latin-1 text rarely gets close to that.
func thaiDense(b []byte) bool {
	var high, total int

	for _, c := range b {
		switch {
		case c == ' ' || c == '\n' || c == '\r' || c == '\t':
			continue
		case c >= 0xA1 && c <= 0xFB:
			high++
		}

		total++
	}

	return total > 0 && high*3 > total
}

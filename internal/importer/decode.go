package importer

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding/simplifiedchinese"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Encoding names the decoding tier that produced the text
type Encoding string

const (
	EncodingUTF8  Encoding = "utf-8"
	EncodingGBK   Encoding = "gbk"
	EncodingLossy Encoding = "utf-8-lossy"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// DecodeText converts raw spreadsheet bytes to UTF-8 text.
// Valid UTF-8 is used as is; otherwise GBK is tried, and if that also
// yields invalid sequences the bytes are read as UTF-8 with U+FFFD replacements.
func DecodeText(raw []byte) (string, Encoding) {
	raw = bytes.TrimPrefix(raw, utf8BOM)

	if utf8.Valid(raw) {
		return string(raw), EncodingUTF8
	}

	if decoded, _, err := transform.Bytes(simplifiedchinese.GBK.NewDecoder(), raw); err == nil &&
		!bytes.ContainsRune(decoded, utf8.RuneError) {
		return string(decoded), EncodingGBK
	}

	lossy, _, err := transform.Bytes(unicode.UTF8.NewDecoder(), raw)
	if err != nil {
		return string(bytes.ToValidUTF8(raw, []byte("\uFFFD"))), EncodingLossy
	}
	return string(lossy), EncodingLossy
}

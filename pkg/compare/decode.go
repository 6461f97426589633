package compare

import (
	"bytes"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/japanese"
)

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// textDecoder attempts one encoding. ok is false when the bytes are
// not valid in that encoding.
type textDecoder struct {
	name   string
	decode func(data []byte) (text string, ok bool)
}

// textDecoders is the fixed fallback order tried per file. The list
// must end with a total decoder so decoding always terminates with a
// result. Shift-JIS and CP932 share one decoder: the x/text Shift-JIS
// tables implement Microsoft's CP932 superset; both entries are kept
// so the user-visible decoder order stays intact.
var textDecoders = []textDecoder{
	{"utf-8", decodeUTF8},
	{"utf-8-sig", decodeUTF8BOM},
	{"shift-jis", decodeJapanese},
	{"cp932", decodeJapanese},
	{"latin-1", decodeLatin1},
}

// decodeText tries each configured encoding in order and returns the
// first successful decode. ok is false only if every decoder fails,
// which cannot happen while the list ends with a total decoder.
func decodeText(data []byte) (string, bool) {
	for _, d := range textDecoders {
		if text, ok := d.decode(data); ok {
			return text, true
		}
	}
	return "", false
}

func decodeUTF8(data []byte) (string, bool) {
	if !utf8.Valid(data) {
		return "", false
	}
	return string(data), true
}

// decodeUTF8BOM accepts only BOM-prefixed UTF-8 and strips the BOM.
// Plain UTF-8 with a BOM already succeeds one step earlier (keeping
// the BOM rune), so this entry fires only if the order is changed.
func decodeUTF8BOM(data []byte) (string, bool) {
	if !bytes.HasPrefix(data, utf8BOM) {
		return "", false
	}
	body := data[len(utf8BOM):]
	if !utf8.Valid(body) {
		return "", false
	}
	return string(body), true
}

// decodeJapanese decodes strict Shift-JIS/CP932. The x/text decoder
// substitutes U+FFFD for invalid sequences instead of failing, and no
// valid CP932 sequence maps to U+FFFD, so its presence in the output
// marks the input as invalid.
func decodeJapanese(data []byte) (string, bool) {
	return decodeStrict(japanese.ShiftJIS, data)
}

// decodeLatin1 is the total fallback: every byte maps to a code point,
// so it never fails.
func decodeLatin1(data []byte) (string, bool) {
	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	return string(out), true
}

func decodeStrict(enc encoding.Encoding, data []byte) (string, bool) {
	out, err := enc.NewDecoder().Bytes(data)
	if err != nil {
		return "", false
	}
	if bytes.ContainsRune(out, utf8.RuneError) {
		return "", false
	}
	return string(out), true
}

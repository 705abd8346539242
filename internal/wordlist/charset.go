package wordlist

import (
	"bytes"
	"encoding/binary"
	"io"
	"strings"
	"unicode/utf16"
	"unicode/utf8"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// decodeText converts data to a UTF-8 string. A byte order mark wins over
// fallbackEncoding; valid UTF-8 is returned untouched.
func decodeText(data []byte, fallbackEncoding string) string {
	if len(data) == 0 {
		return ""
	}
	if len(data) >= 3 && data[0] == 0xEF && data[1] == 0xBB && data[2] == 0xBF {
		return string(data[3:])
	}
	if len(data) >= 2 && data[0] == 0xFE && data[1] == 0xFF {
		return decodeUTF16(data[2:], true)
	}
	if len(data) >= 2 && data[0] == 0xFF && data[1] == 0xFE {
		return decodeUTF16(data[2:], false)
	}
	upper := strings.ToUpper(fallbackEncoding)
	if strings.HasPrefix(upper, "UTF-16") {
		return decodeUTF16(data, strings.Contains(upper, "BE"))
	}
	if utf8.Valid(data) {
		return string(data)
	}
	if fallbackEncoding != "" {
		if decoded, ok := decodeWithEncoding(fallbackEncoding, data); ok {
			return decoded
		}
	}
	return string(data)
}

func decodeUTF16(data []byte, bigEndian bool) string {
	if len(data) < 2 {
		return ""
	}
	if len(data)%2 == 1 {
		data = data[:len(data)-1]
	}
	u16 := make([]uint16, len(data)/2)
	for i := 0; i < len(u16); i++ {
		if bigEndian {
			u16[i] = binary.BigEndian.Uint16(data[i*2 : i*2+2])
		} else {
			u16[i] = binary.LittleEndian.Uint16(data[i*2 : i*2+2])
		}
	}
	return string(utf16.Decode(u16))
}

// decodeWithEncoding decodes data with a charset label as written in .aff
// SET lines ("ISO8859-1", "KOI8-R", "microsoft-cp1251").
func decodeWithEncoding(label string, data []byte) (string, bool) {
	enc, err := htmlindex.Get(affLabel(label))
	if err != nil {
		return "", false
	}
	reader := transform.NewReader(bytes.NewReader(data), enc.NewDecoder())
	decoded, err := io.ReadAll(reader)
	if err != nil {
		return "", false
	}
	return string(decoded), true
}

// affLabel maps Hunspell charset names onto WHATWG labels.
func affLabel(label string) string {
	l := strings.ToLower(strings.TrimSpace(label))
	switch {
	case strings.HasPrefix(l, "iso8859-"):
		return "iso-8859-" + strings.TrimPrefix(l, "iso8859-")
	case strings.HasPrefix(l, "microsoft-cp"):
		return "windows-" + strings.TrimPrefix(l, "microsoft-cp")
	case l == "tis620-2533":
		return "tis-620"
	default:
		return l
	}
}

package parser

import (
	"bytes"
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

var encodingDeclPattern = regexp.MustCompile(`encoding=["']([^"']+)["']`)

// decodeToUTF8 converts sitemap content to UTF-8 when the BOM or the
// XML declaration names another charset. Clean UTF-8 passes through.
func decodeToUTF8(raw []byte) ([]byte, error) {
	raw = bytes.TrimPrefix(raw, []byte{0xEF, 0xBB, 0xBF})

	enc := detectEncoding(raw)
	if enc == nil {
		return raw, nil
	}

	converted, _, err := transform.Bytes(enc.NewDecoder(), raw)
	if err != nil {
		return nil, fmt.Errorf("charset conversion failed: %w", err)
	}
	return converted, nil
}

// detectEncoding returns the source encoding, or nil when the content
// is already usable UTF-8.
func detectEncoding(raw []byte) encoding.Encoding {
	if len(raw) >= 2 {
		if bytes.Equal(raw[:2], []byte{0xFF, 0xFE}) || bytes.Equal(raw[:2], []byte{0xFE, 0xFF}) {
			return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
		}
	}

	head := raw
	if len(head) > 512 {
		head = head[:512]
	}
	if match := encodingDeclPattern.FindSubmatch(head); len(match) > 1 {
		switch strings.ToLower(string(match[1])) {
		case "utf-8", "us-ascii":
			return nil
		case "iso-8859-1", "latin1":
			return charmap.ISO8859_1
		case "iso-8859-15", "latin9":
			return charmap.ISO8859_15
		case "windows-1252", "cp1252":
			return charmap.Windows1252
		case "windows-1251", "cp1251":
			return charmap.Windows1251
		case "utf-16", "utf-16le", "utf-16be":
			return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM)
		}
	}

	if utf8.Valid(raw) {
		return nil
	}

	// Undeclared non-UTF-8 content is almost always Latin-1 in practice
	return charmap.ISO8859_1
}

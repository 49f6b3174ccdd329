package table

import (
	"bufio"
	"bytes"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/rs/zerolog/log"
	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/transform"
)

const sniffSize = 2048

var utf8BOM = []byte{0xEF, 0xBB, 0xBF}

// charsets maps lower-cased chardet names to decoders.
// Anything not valid UTF-8 and not listed is read as Windows-1252.
var charsets = map[string]encoding.Encoding{
	"iso-8859-1":   charmap.ISO8859_1,
	"iso-8859-15":  charmap.ISO8859_15,
	"windows-1252": charmap.Windows1252,
	"windows-1251": charmap.Windows1251,
	"cp1251":       charmap.Windows1251,
	"koi8-r":       charmap.KOI8R,
}

// decode returns a UTF-8 reader over r with any BOM removed.
// UTF-8 input passes through untouched; other input is sniffed with chardet.
func decode(r io.Reader) io.Reader {
	br := bufio.NewReaderSize(r, sniffSize)

	peek, _ := br.Peek(sniffSize)
	if bytes.HasPrefix(peek, utf8BOM) {
		_, _ = br.Discard(len(utf8BOM))
		return br
	}

	if len(peek) == 0 || validUTF8Prefix(peek) {
		return br
	}

	name := "windows-1252"
	if det, err := chardet.NewTextDetector().DetectBest(peek); err == nil && det != nil {
		if _, ok := charsets[strings.ToLower(det.Charset)]; ok {
			name = strings.ToLower(det.Charset)
		}
	}

	log.Debug().Str("charset", name).Msg("Input is not UTF-8, transcoding")

	return transform.NewReader(br, charsets[name].NewDecoder())
}

// validUTF8Prefix is utf8.Valid that tolerates a rune cut at the end of b.
func validUTF8Prefix(b []byte) bool {
	for len(b) > 0 {
		r, size := utf8.DecodeRune(b)
		if r == utf8.RuneError && size <= 1 {
			return !utf8.FullRune(b)
		}
		b = b[size:]
	}
	return true
}

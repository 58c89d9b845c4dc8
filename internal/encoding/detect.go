// Package encoding normalises exported payload files to UTF-8.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	xencoding "golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// Charset names reported by Decode.
const (
	UTF8        = "UTF-8"
	UTF16LE     = "UTF-16LE"
	UTF16BE     = "UTF-16BE"
	Windows1252 = "windows-1252"
	ISO8859_9   = "ISO-8859-9"
)

const peekSize = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoders maps chardet results to the x/text decoder used for them.
// Latin-1 is read as windows-1252, its superset.
var decoders = map[string]struct {
	name string
	enc  xencoding.Encoding
}{
	"ISO-8859-1":   {Windows1252, charmap.Windows1252},
	"windows-1252": {Windows1252, charmap.Windows1252},
	"ISO-8859-9":   {ISO8859_9, charmap.ISO8859_9},
	"windows-1254": {ISO8859_9, charmap.Windows1254},
}

// Decode returns a reader yielding r as UTF-8 and the charset it was read as.
//
// A BOM wins, then plain UTF-8 validation of the first block, then chardet.
// Anything undetected is read as windows-1252, which is what spreadsheet
// tools on the accounts' machines emit.
func Decode(r io.Reader) (io.Reader, string, error) {
	br := bufio.NewReaderSize(r, peekSize)

	buf, err := br.Peek(peekSize)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, "", fmt.Errorf("peeking input: %w", err)
	}

	switch {
	case bytes.HasPrefix(buf, bomUTF8):
		_, _ = br.Discard(len(bomUTF8))
		return br, UTF8, nil
	case bytes.HasPrefix(buf, bomUTF16LE):
		return utf16(br, unicode.LittleEndian), UTF16LE, nil
	case bytes.HasPrefix(buf, bomUTF16BE):
		return utf16(br, unicode.BigEndian), UTF16BE, nil
	}

	if validPrefix(buf) {
		return br, UTF8, nil
	}

	if res, err := chardet.NewTextDetector().DetectBest(buf); err == nil {
		if res.Charset == UTF8 {
			return br, UTF8, nil
		}

		if d, ok := decoders[res.Charset]; ok {
			return transform.NewReader(br, d.enc.NewDecoder()), d.name, nil
		}
	}

	return transform.NewReader(br, charmap.Windows1252.NewDecoder()), Windows1252, nil
}

// ReadAll decodes the whole of r to UTF-8.
func ReadAll(r io.Reader) ([]byte, string, error) {
	dr, charset, err := Decode(r)
	if err != nil {
		return nil, "", err
	}

	data, err := io.ReadAll(dr)
	if err != nil {
		return nil, "", fmt.Errorf("decoding %s: %w", charset, err)
	}

	return data, charset, nil
}

func utf16(r io.Reader, order unicode.Endianness) io.Reader {
	return transform.NewReader(r, unicode.UTF16(order, unicode.UseBOM).NewDecoder())
}

// validPrefix is utf8.Valid that tolerates a rune cut by the peek boundary.
func validPrefix(buf []byte) bool {
	if utf8.Valid(buf) {
		return true
	}

	if len(buf) < peekSize {
		return false
	}

	for cut := 1; cut < utf8.UTFMax && cut < len(buf); cut++ {
		if utf8.Valid(buf[:len(buf)-cut]) {
			return true
		}
	}

	return false
}

// Package encoding normalises documents and CSV exports to UTF-8.
//
// Data files are usually written by this program and are already UTF-8, but
// legacy documents and bank exports are often edited or produced on Windows
// machines and arrive as Windows-1252 or UTF-16.
package encoding

import (
	"bufio"
	"bytes"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

const sniffLen = 4096

var (
	bomUTF8    = []byte{0xEF, 0xBB, 0xBF}
	bomUTF16LE = []byte{0xFF, 0xFE}
	bomUTF16BE = []byte{0xFE, 0xFF}
)

// decoderFor picks a decoder for content starting with sample.
// A nil decoder means the content is UTF-8 and only needs skip bytes dropped.
//
// Order: BOM, UTF-8 validity, chardet heuristics, Windows-1252 fallback.
func decoderFor(sample []byte) (dec *encoding.Decoder, skip int) {
	switch {
	case bytes.HasPrefix(sample, bomUTF8):
		return nil, len(bomUTF8)
	case bytes.HasPrefix(sample, bomUTF16LE):
		return unicode.UTF16(unicode.LittleEndian, unicode.UseBOM).NewDecoder(), 0
	case bytes.HasPrefix(sample, bomUTF16BE):
		return unicode.UTF16(unicode.BigEndian, unicode.UseBOM).NewDecoder(), 0
	case utf8.Valid(sample):
		return nil, 0
	}

	result, err := chardet.NewTextDetector().DetectBest(sample)
	if err == nil {
		switch result.Charset {
		case "UTF-8":
			return nil, 0
		case "ISO-8859-9":
			return charmap.ISO8859_9.NewDecoder(), 0
		}
	}

	return charmap.Windows1252.NewDecoder(), 0
}

// ToUTF8 returns raw decoded to UTF-8 with any byte order mark removed.
// Valid UTF-8 input is returned unchanged.
func ToUTF8(raw []byte) ([]byte, error) {
	sample := raw
	if len(sample) > sniffLen {
		sample = sample[:sniffLen]
	}

	dec, skip := decoderFor(sample)
	if dec == nil {
		return raw[skip:], nil
	}

	out, _, err := transform.Bytes(dec, raw)
	if err != nil {
		return nil, fmt.Errorf("decode to utf-8: %w", err)
	}

	return out, nil
}

// NewUTF8Reader wraps r so that reads yield UTF-8, using the same detection as ToUTF8
// on the first few kilobytes of the stream.
func NewUTF8Reader(r io.Reader) (io.Reader, error) {
	br := bufio.NewReaderSize(r, sniffLen)

	sample, err := br.Peek(sniffLen)
	if err != nil && err != io.EOF && err != bufio.ErrBufferFull {
		return nil, fmt.Errorf("peek: %w", err)
	}

	dec, skip := decoderFor(sample)
	if dec == nil {
		_, _ = br.Discard(skip)
		return br, nil
	}

	return transform.NewReader(br, dec), nil
}

// Package petscii translates the C64 character set into displayable
// Unicode. Graphic glyphs travel either as raw PETSCII bytes (PRG
// images) or as in-band [NAME] placeholders in source text.
package petscii

import (
	"unicode/utf8"

	"golang.org/x/text/transform"
)

// placeholder names that produce a glyph when printed
var placeholders = map[string]rune{
	"SIDE":    '│',
	"BORDERS": '─',
	"BALL":    '●',
	"FIELD":   '▒',
	"BLOCK":   '█',
	"SHADE":   '░',
}

// Placeholder resolves an in-band [NAME] marker to its glyph.
// [CLR] and [REVERSE] are control markers and not listed here.
func Placeholder(name string) (rune, bool) {
	r, ok := placeholders[name]
	return r, ok
}

// graphic PETSCII codes outside the ASCII overlap
var graphics = map[byte]rune{
	0xA0: '▒', // shifted space, drawn solid on the C64
	0xA3: '─',
	0xC0: '─',
	0xDD: '│',
	0xD1: '●',
}

// DecodeByte maps one PETSCII byte to a displayable rune. The printable
// ASCII overlap passes through; unknown control codes become '?'.
func DecodeByte(b byte) rune {
	if b >= 32 && b <= 95 {
		return rune(b)
	}
	if b >= 97 && b <= 122 {
		return rune(b)
	}
	if r, ok := graphics[b]; ok {
		return r
	}
	return '?'
}

// Decoder converts a PETSCII byte stream to UTF-8. It satisfies
// transform.Transformer so callers can wrap any io.Reader or run
// one-shot conversions through transform.String.
type Decoder struct {
	transform.NopResetter
}

// Transform implements transform.Transformer
func (Decoder) Transform(dst, src []byte, atEOF bool) (nDst, nSrc int, err error) {
	for nSrc < len(src) {
		r := DecodeByte(src[nSrc])
		if nDst+utf8.RuneLen(r) > len(dst) {
			return nDst, nSrc, transform.ErrShortDst
		}
		nDst += utf8.EncodeRune(dst[nDst:], r)
		nSrc++
	}
	return nDst, nSrc, nil
}

// Decode is the one-shot form
func Decode(b []byte) string {
	out, _, _ := transform.Bytes(Decoder{}, b)
	return string(out)
}

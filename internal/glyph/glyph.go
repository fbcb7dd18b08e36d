// Package glyph classifies runes by the number of terminal columns they occupy.
//
// Every rune occupies either one or two cells. The default Heuristic
// classifier is deliberately coarse: it treats the CJK ideograph block and
// everything at or above U+3400 as wide. The Unicode classifier consults the
// East Asian Width tables instead and is opt-in through configuration.
package glyph

import (
	"errors"
	"fmt"

	"github.com/mattn/go-runewidth"
	"github.com/rivo/uniseg"
)

// ErrUnknownClassifier is returned by Parse for unrecognized classifier names.
var ErrUnknownClassifier = errors.New("unknown glyph width classifier")

// Classifier names accepted by Parse.
const (
	NameHeuristic = "heuristic"
	NameUnicode   = "unicode"
)

const (
	cjkStart  = 0x4E00
	cjkEnd    = 0x9FFF
	wideFloor = 0x3400
)

// Classifier reports the display width of a rune. Implementations return
// only 1 or 2.
type Classifier interface {
	Width(r rune) int
}

// Width classifies r with the default heuristic.
func Width(r rune) int {
	if (r >= cjkStart && r <= cjkEnd) || r >= wideFloor {
		return 2
	}
	return 1
}

// Heuristic is the default classifier. See Width.
type Heuristic struct{}

// Width implements Classifier.
func (Heuristic) Width(r rune) int { return Width(r) }

// Unicode classifies runes using East Asian Width data.
// Zero-width and control runes still take one cell.
type Unicode struct {
	cond *runewidth.Condition
}

// NewUnicode returns a Unicode classifier with ambiguous-width runes treated
// as narrow.
func NewUnicode() Unicode {
	cond := runewidth.NewCondition()
	cond.EastAsianWidth = false
	return Unicode{cond: cond}
}

// Width implements Classifier.
func (u Unicode) Width(r rune) int {
	var w int
	if u.cond == nil {
		w = runewidth.RuneWidth(r)
	} else {
		w = u.cond.RuneWidth(r)
	}
	if w >= 2 {
		return 2
	}
	return 1
}

// Parse returns the classifier registered under name. The empty name
// selects the heuristic.
func Parse(name string) (Classifier, error) {
	switch name {
	case "", NameHeuristic:
		return Heuristic{}, nil
	case NameUnicode:
		return NewUnicode(), nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownClassifier, name)
	}
}

// StringWidth sums the widths of runes under c.
func StringWidth(c Classifier, runes []rune) int {
	total := 0
	for _, r := range runes {
		total += c.Width(r)
	}
	return total
}

// PrefixWidth sums the widths of the first n runes. n is clamped to
// [0, len(runes)].
func PrefixWidth(c Classifier, runes []rune, n int) int {
	n = max(0, min(n, len(runes)))
	return StringWidth(c, runes[:n])
}

// GraphemeCount returns the number of user-perceived characters in s.
// Used for log and status diagnostics where rune counts mislead.
func GraphemeCount(s string) int {
	return uniseg.GraphemeClusterCount(s)
}

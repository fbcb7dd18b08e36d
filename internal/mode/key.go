package mode

import "unicode"

// KeyKind classifies an input event.
type KeyKind int

const (
	KeyUnknown KeyKind = iota
	KeyRune
	KeyEscape
	KeyEnter
	KeyTab
	KeyBackspace
	KeyLeft
	KeyRight
	KeyUp
	KeyDown
)

var keyKindNames = map[KeyKind]string{
	KeyUnknown:   "<unknown>",
	KeyEscape:    "<escape>",
	KeyEnter:     "<enter>",
	KeyTab:       "<tab>",
	KeyBackspace: "<backspace>",
	KeyLeft:      "<left>",
	KeyRight:     "<right>",
	KeyUp:        "<up>",
	KeyDown:      "<down>",
}

// Key is a single input event. Rune is only set for KeyRune.
type Key struct {
	Kind KeyKind
	Rune rune
}

// RuneKey returns a character key.
func RuneKey(r rune) Key { return Key{Kind: KeyRune, Rune: r} }

// Keys returns one KeyRune per rune of s. Handy for typing text in tests.
func Keys(s string) []Key {
	keys := make([]Key, 0, len(s))
	for _, r := range s {
		keys = append(keys, RuneKey(r))
	}
	return keys
}

// Printable reports whether the key carries a printable character.
func (k Key) Printable() bool {
	return k.Kind == KeyRune && unicode.IsPrint(k.Rune)
}

// String returns the registry-style name of the key.
func (k Key) String() string {
	if k.Kind == KeyRune {
		return string(k.Rune)
	}
	if name, ok := keyKindNames[k.Kind]; ok {
		return name
	}
	return keyKindNames[KeyUnknown]
}

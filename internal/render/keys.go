package render

import (
	"fmt"
	"strings"
)

// Key represents a keyboard key.
type Key int

// Key constants for the keys the game can bind.
const (
	KeyW Key = iota
	KeyA
	KeyS
	KeyD
	KeyE
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeySpace
	KeyEscape
	keyCount
)

var keyNames = [keyCount]string{
	KeyW:      "W",
	KeyA:      "A",
	KeyS:      "S",
	KeyD:      "D",
	KeyE:      "E",
	KeyUp:     "Up",
	KeyDown:   "Down",
	KeyLeft:   "Left",
	KeyRight:  "Right",
	KeySpace:  "Space",
	KeyEscape: "Escape",
}

// String returns the key name as used in config files.
func (k Key) String() string {
	if k < 0 || k >= keyCount {
		return fmt.Sprintf("Key(%d)", int(k))
	}
	return keyNames[k]
}

// ParseKey looks up a key by name, ignoring case. "Esc" is accepted for Escape.
func ParseKey(name string) (Key, error) {
	name = strings.TrimSpace(name)
	if strings.EqualFold(name, "esc") {
		return KeyEscape, nil
	}
	for k, n := range keyNames {
		if strings.EqualFold(n, name) {
			return Key(k), nil
		}
	}
	return 0, fmt.Errorf("unknown key %q", name)
}

// AllKeys returns every key the backends know how to poll.
func AllKeys() []Key {
	keys := make([]Key, keyCount)
	for i := range keys {
		keys[i] = Key(i)
	}
	return keys
}

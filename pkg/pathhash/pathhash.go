package pathhash

import (
	"hash/crc32"
	"strings"
	"sync"
)

// ID is a widget identifier produced by Hash or HashString.
type ID = uint32

var (
	tableOnce sync.Once
	table     *crc32.Table
)

func crcTable() *crc32.Table {
	tableOnce.Do(func() {
		table = crc32.MakeTable(crc32.IEEE)
	})
	return table
}

func update(crc uint32, t *crc32.Table, c byte) uint32 {
	return (crc >> 8) ^ t[byte(crc)^c]
}

func isReset(s string, i int) bool {
	return i+2 < len(s) && s[i] == '#' && s[i+1] == '#' && s[i+2] == '#'
}

// Hash returns the identifier for a decorated path relative to seed.
//
// A leading "/" ignores seed. Unescaped "/" is skipped, "\" escapes the next
// byte and an unescaped "###" discards everything hashed before it.
func Hash(path string, seed uint32) ID {
	if strings.HasPrefix(path, "/") {
		seed = 0
	}
	t := crcTable()
	crc := ^seed
	escaped := false
	for i := 0; i < len(path); i++ {
		c := path[i]
		if escaped {
			escaped = false
			crc = update(crc, t, c)
			continue
		}
		switch {
		case c == '\\':
			escaped = true
		case c == '/':
		case isReset(path, i):
			crc = ^seed
			i += 2
		default:
			crc = update(crc, t, c)
		}
	}
	return ^crc
}

// HashString returns the identifier a host derives for a single label pushed
// on top of seed. Separators and escapes are hashed literally; "###" still
// resets to seed.
func HashString(label string, seed uint32) ID {
	t := crcTable()
	crc := ^seed
	for i := 0; i < len(label); i++ {
		if isReset(label, i) {
			crc = ^seed
			i += 2
			continue
		}
		crc = update(crc, t, label[i])
	}
	return ^crc
}

// Join builds a path from raw labels, escaping separators inside them.
func Join(labels ...string) string {
	escaped := make([]string, len(labels))
	for i, l := range labels {
		l = strings.ReplaceAll(l, `\`, `\\`)
		escaped[i] = strings.ReplaceAll(l, "/", `\/`)
	}
	return strings.Join(escaped, "/")
}

package host

import (
	"strings"

	"imtest/pkg/pathhash"
)

// ID identifies an item, scope or surface. Hosts derive it with
// pathhash.HashString over their scope stack.
type ID = pathhash.ID

// ItemStatusFlags describes the interaction state of an item in the frame it
// was reported.
type ItemStatusFlags uint32

const (
	StatusHovered ItemStatusFlags = 1 << iota
	StatusActive
	StatusFocused
	StatusClicked
	StatusDoubleClicked
	StatusEdited
	StatusDeactivated
	StatusCheckable
	StatusChecked
	StatusOpenable
	StatusOpened
	StatusInputable
)

var statusNames = []struct {
	flag ItemStatusFlags
	name string
}{
	{StatusHovered, "Hovered"},
	{StatusActive, "Active"},
	{StatusFocused, "Focused"},
	{StatusClicked, "Clicked"},
	{StatusDoubleClicked, "DoubleClicked"},
	{StatusEdited, "Edited"},
	{StatusDeactivated, "Deactivated"},
	{StatusCheckable, "Checkable"},
	{StatusChecked, "Checked"},
	{StatusOpenable, "Openable"},
	{StatusOpened, "Opened"},
	{StatusInputable, "Inputable"},
}

// Has reports whether all bits of f are set.
func (s ItemStatusFlags) Has(f ItemStatusFlags) bool { return s&f == f }

func (s ItemStatusFlags) String() string {
	if s == 0 {
		return "None"
	}
	var parts []string
	for _, n := range statusNames {
		if s&n.flag != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "|")
}

// MouseButton is a pointer button index.
type MouseButton int

const (
	MouseLeft MouseButton = iota
	MouseRight
	MouseMiddle
	MouseButtonCount
)

func (b MouseButton) String() string {
	switch b {
	case MouseLeft:
		return "Left"
	case MouseRight:
		return "Right"
	case MouseMiddle:
		return "Middle"
	default:
		return "Unknown"
	}
}

// Key is a named keyboard key.
type Key int

const (
	KeyNone Key = iota
	KeyTab
	KeyLeftArrow
	KeyRightArrow
	KeyUpArrow
	KeyDownArrow
	KeyPageUp
	KeyPageDown
	KeyHome
	KeyEnd
	KeyDelete
	KeyBackspace
	KeySpace
	KeyEnter
	KeyEscape
	KeyA
	KeyC
	KeyV
	KeyX
	KeyZ
	KeyCount
)

var keyNames = map[Key]string{
	KeyNone: "None", KeyTab: "Tab", KeyLeftArrow: "LeftArrow", KeyRightArrow: "RightArrow",
	KeyUpArrow: "UpArrow", KeyDownArrow: "DownArrow", KeyPageUp: "PageUp", KeyPageDown: "PageDown",
	KeyHome: "Home", KeyEnd: "End", KeyDelete: "Delete", KeyBackspace: "Backspace",
	KeySpace: "Space", KeyEnter: "Enter", KeyEscape: "Escape",
	KeyA: "A", KeyC: "C", KeyV: "V", KeyX: "X", KeyZ: "Z",
}

func (k Key) String() string {
	if n, ok := keyNames[k]; ok {
		return n
	}
	return "Unknown"
}

// KeyMods is a set of modifier keys.
type KeyMods uint8

const (
	ModCtrl KeyMods = 1 << iota
	ModShift
	ModAlt
	ModSuper
	ModNone KeyMods = 0
)

func (m KeyMods) String() string {
	if m == ModNone {
		return "None"
	}
	var parts []string
	for _, n := range []struct {
		mod  KeyMods
		name string
	}{{ModCtrl, "Ctrl"}, {ModShift, "Shift"}, {ModAlt, "Alt"}, {ModSuper, "Super"}} {
		if m&n.mod != 0 {
			parts = append(parts, n.name)
		}
	}
	return strings.Join(parts, "+")
}

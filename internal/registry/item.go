package registry

import (
	"fmt"

	"imtest/internal/host"
)

// ItemInfo is what the registry knows about one item.
type ItemInfo struct {
	ID       host.ID
	Parent   host.ID
	Surface  host.ID
	Rect     host.Rect
	ClipRect host.Rect
	NavLayer int
	Depth    int

	StatusFlags host.ItemStatusFlags
	Label       string

	// TimestampMain is the frame of the last presence write, -1 if none.
	TimestampMain int
	// TimestampStatus is the frame of the last status write, -1 if none.
	TimestampStatus int

	RefCount int
}

func newItemInfo(id host.ID) *ItemInfo {
	return &ItemInfo{ID: id, TimestampMain: -1, TimestampStatus: -1}
}

// StatusFresh reports whether the status write belongs to the same frame as
// the geometry, or trails it by at most one frame.
func (i ItemInfo) StatusFresh() bool {
	if i.TimestampStatus < 0 || i.TimestampMain < 0 {
		return false
	}
	return i.TimestampMain-i.TimestampStatus <= 1
}

// LastSeen is the most recent frame either write path touched the item.
func (i ItemInfo) LastSeen() int {
	return max(i.TimestampMain, i.TimestampStatus)
}

// Visible reports whether some part of the item was inside its clip rectangle.
func (i ItemInfo) Visible() bool {
	return !i.ClipRect.Empty()
}

func (i ItemInfo) String() string {
	return fmt.Sprintf("0x%08X %q %s flags=%s frame=%d", i.ID, i.Label, i.Rect, i.StatusFlags, i.TimestampMain)
}

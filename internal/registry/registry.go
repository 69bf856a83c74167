package registry

import (
	"sort"

	"imtest/internal/host"
	"imtest/pkg/logging"
	"imtest/pkg/pathhash"
	"imtest/pkg/strings"
)

// DefaultEvictionWindow is used when New is given a window below 1.
const DefaultEvictionWindow = 4

// Registry is a frame-indexed cache of ItemInfo keyed by identifier.
type Registry struct {
	items  map[host.ID]*ItemInfo
	window int
}

// New creates an empty registry evicting items after window frames without
// a refresh.
func New(window int) *Registry {
	if window < 1 {
		window = DefaultEvictionWindow
	}
	return &Registry{
		items:  make(map[host.ID]*ItemInfo),
		window: window,
	}
}

// EvictionWindow returns the number of idle frames after which an unpinned
// item is dropped.
func (r *Registry) EvictionWindow() int { return r.window }

// Len returns the number of cached items.
func (r *Registry) Len() int { return len(r.items) }

func (r *Registry) entry(id host.ID) *ItemInfo {
	info, ok := r.items[id]
	if !ok {
		info = newItemInfo(id)
		r.items[id] = info
	}
	return info
}

// RecordPresence stores the geometry of an item. Writes older than the stored
// geometry are ignored and reported as false.
func (r *Registry) RecordPresence(item host.ItemAdd, frame int) bool {
	info := r.entry(item.ID)
	if frame < info.TimestampMain {
		return false
	}
	info.Surface = item.Surface
	info.Parent = item.Parent
	info.Rect = item.Rect
	info.ClipRect = item.ClipRect
	if info.ClipRect == (host.Rect{}) {
		info.ClipRect = item.Rect
	}
	info.NavLayer = item.NavLayer
	info.Depth = item.Depth
	info.TimestampMain = frame
	return true
}

// RecordStatus stores flags and label of an item. Labels are truncated to
// strings.MaxLabelLen runes.
func (r *Registry) RecordStatus(surface, id host.ID, label string, flags host.ItemStatusFlags, frame int) bool {
	info := r.entry(id)
	if frame < info.TimestampStatus {
		return false
	}
	if info.Surface == 0 {
		info.Surface = surface
	}
	info.StatusFlags = flags
	info.Label = strings.TruncateLabel(label)
	info.TimestampStatus = frame
	return true
}

// Record writes both paths for an item at once.
func (r *Registry) Record(id host.ID, rect host.Rect, flags host.ItemStatusFlags, label string, frame int) {
	r.RecordPresence(host.ItemAdd{ID: id, Rect: rect}, frame)
	r.RecordStatus(0, id, label, flags, frame)
}

// Query returns a copy of the item's info. ok is false if the item is unknown,
// which callers should treat as "not yet" rather than as an error.
func (r *Registry) Query(id host.ID) (ItemInfo, bool) {
	info, ok := r.items[id]
	if !ok {
		return ItemInfo{}, false
	}
	return *info, true
}

// QueryByPath hashes path from the root namespace and queries the result.
func (r *Registry) QueryByPath(path string) (ItemInfo, bool) {
	return r.Query(pathhash.Hash(path, 0))
}

// FindByLabel returns the most recently seen item whose label equals label.
func (r *Registry) FindByLabel(label string) (ItemInfo, bool) {
	var best *ItemInfo
	for _, info := range r.items {
		if info.Label != label {
			continue
		}
		if best == nil || info.LastSeen() > best.LastSeen() || (info.LastSeen() == best.LastSeen() && info.ID < best.ID) {
			best = info
		}
	}
	if best == nil {
		return ItemInfo{}, false
	}
	return *best, true
}

// Children returns the items whose parent is parent, ordered by position.
func (r *Registry) Children(parent host.ID) []ItemInfo {
	var out []ItemInfo
	for _, info := range r.items {
		if info.Parent == parent {
			out = append(out, *info)
		}
	}
	sortByPosition(out)
	return out
}

// Items returns a snapshot of all cached items ordered by surface then
// position.
func (r *Registry) Items() []ItemInfo {
	out := make([]ItemInfo, 0, len(r.items))
	for _, info := range r.items {
		out = append(out, *info)
	}
	sortByPosition(out)
	return out
}

func sortByPosition(items []ItemInfo) {
	sort.Slice(items, func(i, j int) bool {
		a, b := items[i], items[j]
		if a.Surface != b.Surface {
			return a.Surface < b.Surface
		}
		if a.Rect.Min.Y != b.Rect.Min.Y {
			return a.Rect.Min.Y < b.Rect.Min.Y
		}
		if a.Rect.Min.X != b.Rect.Min.X {
			return a.Rect.Min.X < b.Rect.Min.X
		}
		return a.ID < b.ID
	})
}

// Pin increments the reference count of a known item so Collect keeps it.
func (r *Registry) Pin(id host.ID) bool {
	info, ok := r.items[id]
	if !ok {
		return false
	}
	info.RefCount++
	return true
}

// Release undoes one Pin.
func (r *Registry) Release(id host.ID) {
	if info, ok := r.items[id]; ok && info.RefCount > 0 {
		info.RefCount--
	}
}

// Collect drops unpinned items not refreshed for EvictionWindow frames as of
// frame, returning how many were removed.
func (r *Registry) Collect(frame int) int {
	removed := 0
	for id, info := range r.items {
		if info.RefCount > 0 {
			continue
		}
		if frame-info.LastSeen() >= r.window {
			delete(r.items, id)
			removed++
		}
	}
	if removed > 0 {
		logging.Debug("Registry", "Evicted %d stale items at frame %d (%d remain)", removed, frame, len(r.items))
	}
	return removed
}

// Clear removes every item, pinned or not.
func (r *Registry) Clear() {
	r.items = make(map[host.ID]*ItemInfo, len(r.items))
}

// Reserve grows the registry so n items fit without rehashing.
func (r *Registry) Reserve(n int) {
	if n <= len(r.items) {
		return
	}
	grown := make(map[host.ID]*ItemInfo, n)
	for id, info := range r.items {
		grown[id] = info
	}
	r.items = grown
}

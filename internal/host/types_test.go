package host

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestRect(t *testing.T) {
	r := RectFromSize(Vec2{10, 20}, Vec2{100, 30})

	assert.Equal(t, 100.0, r.Width())
	assert.Equal(t, 30.0, r.Height())
	assert.Equal(t, Vec2{60, 35}, r.Center())
	assert.True(t, r.Contains(Vec2{10, 20}))
	assert.True(t, r.Contains(r.Center()))
	assert.False(t, r.Contains(Vec2{110, 35}))
	assert.False(t, r.Empty())

	clipped := r.Intersect(Rect{Min: Vec2{50, 0}, Max: Vec2{200, 25}})
	assert.Equal(t, Rect{Min: Vec2{50, 20}, Max: Vec2{110, 25}}, clipped)

	assert.True(t, r.Intersect(Rect{Min: Vec2{500, 500}, Max: Vec2{600, 600}}).Empty())
}

func TestVec2(t *testing.T) {
	a, b := Vec2{0, 0}, Vec2{3, 4}
	assert.Equal(t, 5.0, b.Sub(a).Len())
	assert.Equal(t, Vec2{1.5, 2}, a.Lerp(b, 0.5))
	assert.Equal(t, Vec2{6, 8}, b.Scale(2))
}

func TestItemStatusFlags_String(t *testing.T) {
	assert.Equal(t, "None", ItemStatusFlags(0).String())
	assert.Equal(t, "Hovered|Active", (StatusHovered | StatusActive).String())

	f := StatusCheckable | StatusChecked
	assert.True(t, f.Has(StatusChecked))
	assert.False(t, f.Has(StatusChecked|StatusHovered))
}

func TestKeyAndMods_String(t *testing.T) {
	assert.Equal(t, "Enter", KeyEnter.String())
	assert.Equal(t, "Unknown", Key(999).String())
	assert.Equal(t, "Ctrl+Shift", (ModCtrl | ModShift).String())
	assert.Equal(t, "None", ModNone.String())
	assert.Equal(t, "Left", MouseLeft.String())
}

func TestEvent_String(t *testing.T) {
	assert.Equal(t, "MouseButton Left down=true", Event{Kind: EventMouseButton, Button: MouseLeft, Down: true}.String())
	assert.Equal(t, `Char 'x'`, Event{Kind: EventChar, Char: 'x'}.String())
}

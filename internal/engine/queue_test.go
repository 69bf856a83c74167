package engine

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func queuedNames(e *Engine) []string {
	e.mu.Lock()
	defer e.mu.Unlock()
	var out []string
	for _, t := range e.queue {
		out = append(out, t.FullName())
	}
	return out
}

func TestQueueTests_Filters(t *testing.T) {
	tests := []struct {
		name   string
		group  Group
		filter string
		want   []string
	}{
		{"empty filter selects the group", GroupTests, "", []string{"widgets/button", "widgets/checkbox", "nav/tab"}},
		{"all ignores nothing", GroupUnknown, "all", []string{"widgets/button", "widgets/checkbox", "nav/tab", "perf/draw"}},
		{"perfs keyword", GroupUnknown, "perfs", []string{"perf/draw"}},
		{"tests keyword", GroupUnknown, "tests", []string{"widgets/button", "widgets/checkbox", "nav/tab"}},
		{"substring is case-insensitive", GroupUnknown, "BUTTON", []string{"widgets/button"}},
		{"exclusion", GroupUnknown, "widgets,-check", []string{"widgets/button"}},
		{"only exclusions", GroupTests, "-widgets", []string{"nav/tab"}},
		{"anchored name", GroupUnknown, "^tab", []string{"nav/tab"}},
		{"anchored category", GroupUnknown, "^nav", []string{"nav/tab"}},
		{"several terms", GroupUnknown, "tab, draw", []string{"nav/tab", "perf/draw"}},
		{"expression", GroupUnknown, `expr: Category == "widgets" && Name startsWith "c"`, []string{"widgets/checkbox"}},
		{"expression on group", GroupUnknown, `expr:Group == "Perfs"`, []string{"perf/draw"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			e, _ := newTestEngine(t, nil)
			for _, n := range [][2]string{{"widgets", "button"}, {"widgets", "checkbox"}, {"nav", "tab"}, {"perf", "draw"}} {
				e.RegisterTest(n[0], n[1])
			}

			n, err := e.QueueTests(tt.group, tt.filter, RunFlagNone)
			require.NoError(t, err)
			assert.Equal(t, len(tt.want), n)
			assert.Equal(t, tt.want, queuedNames(e))
		})
	}
}

func TestQueueTests_Errors(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.RegisterTest("widgets", "button")

	_, err := e.QueueTests(GroupUnknown, "^utton", RunFlagNone)
	assert.ErrorIs(t, err, ErrNoTestsMatched)

	_, err = e.QueueTests(GroupUnknown, "expr: Name +", RunFlagNone)
	assert.ErrorContains(t, err, "invalid filter expression")

	_, err = e.QueueTests(GroupUnknown, "expr: Name", RunFlagNone)
	assert.Error(t, err, "non-boolean expression")
}

func TestQueueTests_SkipsQueuedTests(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	e.RegisterTest("widgets", "button")

	n, err := e.QueueTests(GroupTests, "", RunFlagNone)
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	_, err = e.QueueTests(GroupTests, "", RunFlagNone)
	assert.ErrorIs(t, err, ErrNoTestsMatched)
	assert.Len(t, queuedNames(e), 1)
}

func TestRegisterTest(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	test := e.RegisterTest("perf", "frame_time")

	assert.Equal(t, GroupPerfs, test.Group)
	assert.Equal(t, StatusUnknown, test.Status)
	assert.Contains(t, test.SourceLocation(), "queue_test.go:")
	assert.Same(t, test, e.FindTest("perf", "frame_time"))
	assert.Nil(t, e.FindTest("perf", "missing"))
	assert.Len(t, e.Tests(), 1)
	assert.Equal(t, "perf/frame_time", test.FullName())
}

func TestMatchTests(t *testing.T) {
	e, _ := newTestEngine(t, nil)
	for _, n := range [][2]string{{"widgets", "button"}, {"widgets", "checkbox"}, {"perf", "draw"}} {
		e.RegisterTest(n[0], n[1])
	}

	got, err := e.MatchTests(GroupUnknown, "widgets")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "button", got[0].Name)
	assert.Equal(t, StatusUnknown, got[0].Status)
	assert.Empty(t, queuedNames(e))

	got, err = e.MatchTests(GroupUnknown, "perfs")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "draw", got[0].Name)

	got, err = e.MatchTests(GroupUnknown, "nothing")
	require.NoError(t, err)
	assert.Empty(t, got)

	_, err = e.MatchTests(GroupUnknown, "expr: Name +")
	assert.Error(t, err)
}

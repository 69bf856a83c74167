package app

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"imtest/internal/engine"
	"imtest/internal/input"
)

func TestSession_RunTests(t *testing.T) {
	s, out := newTestSession(t)

	suite, err := s.RunTests(context.Background(), "^button_click")
	require.NoError(t, err)
	assert.Equal(t, 1, suite.Tested)
	assert.Equal(t, 1, suite.Succeeded)
	assert.Contains(t, out.String(), "Tests Result: OK")

	// A second run only reports its own tests.
	suite, err = s.RunTests(context.Background(), "^checkbox_toggle")
	require.NoError(t, err)
	require.Len(t, suite.Results, 1)
	assert.Equal(t, "checkbox_toggle", suite.Results[0].Name)
}

func TestSession_RunTestsNoMatch(t *testing.T) {
	s, _ := newTestSession(t)
	_, err := s.RunTests(context.Background(), "^nope")
	assert.ErrorIs(t, err, engine.ErrNoTestsMatched)
}

func TestSession_List(t *testing.T) {
	s, out := newTestSession(t)
	require.NoError(t, s.List("tree"))
	assert.Contains(t, out.String(), "open_and_click")
	assert.NotContains(t, out.String(), "button_click")
}

func TestSession_SetSpeed(t *testing.T) {
	s, _ := newTestSession(t)
	speed, err := s.SetSpeed("normal")
	require.NoError(t, err)
	assert.Equal(t, input.SpeedNormal, speed)
	assert.Equal(t, input.SpeedNormal, s.Speed())

	_, err = s.SetSpeed("warp")
	assert.Error(t, err)
	assert.Equal(t, input.SpeedNormal, s.Speed())
}

func TestSession_AbortWhenIdle(t *testing.T) {
	s, _ := newTestSession(t)
	assert.True(t, s.Abort())
}

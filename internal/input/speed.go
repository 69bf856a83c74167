package input

import (
	"fmt"
	"strings"
)

// Speed selects the timing model.
type Speed int

const (
	SpeedFast Speed = iota
	SpeedNormal
	SpeedCinematic
)

func (s Speed) String() string {
	switch s {
	case SpeedFast:
		return "fast"
	case SpeedNormal:
		return "normal"
	case SpeedCinematic:
		return "cinematic"
	default:
		return "unknown"
	}
}

// Human reports whether the speed plays actions back at human pace.
func (s Speed) Human() bool { return s != SpeedFast }

// ParseSpeed converts "fast", "normal" or "cinematic" to a Speed.
func ParseSpeed(s string) (Speed, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "fast", "":
		return SpeedFast, nil
	case "normal":
		return SpeedNormal, nil
	case "cinematic":
		return SpeedCinematic, nil
	default:
		return SpeedFast, fmt.Errorf("unknown run speed %q", s)
	}
}

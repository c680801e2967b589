package model

import (
	"strings"

	"github.com/okian/ninebox/internal/domain/fault"
)

// Mode selects which ledger a session routes moves to.
type Mode string

// Session modes.
const (
	ModeNormal Mode = "normal"
	ModeDonut  Mode = "donut"
)

// ParseMode accepts "normal" or "donut" in any case.
func ParseMode(s string) (Mode, error) {
	switch Mode(strings.ToLower(strings.TrimSpace(s))) {
	case ModeNormal:
		return ModeNormal, nil
	case ModeDonut:
		return ModeDonut, nil
	default:
		return "", fault.Newf("model.parse_mode", fault.ErrValidation, "unknown mode %q", s)
	}
}

func (m Mode) String() string { return string(m) }

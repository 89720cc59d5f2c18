package models

import "fmt"

// CardLevel is one of five self-assessed recall-confidence tiers.
// The ordering is display/confidence order, lowest first.
type CardLevel int

const (
	LevelNew CardLevel = iota
	LevelUnknown
	LevelFair
	LevelKnown
	LevelMastered
)

// Levels returns all levels in display order.
func Levels() []CardLevel {
	return []CardLevel{LevelNew, LevelUnknown, LevelFair, LevelKnown, LevelMastered}
}

func (l CardLevel) String() string {
	switch l {
	case LevelNew:
		return "new"
	case LevelUnknown:
		return "unknown"
	case LevelFair:
		return "fair"
	case LevelKnown:
		return "known"
	case LevelMastered:
		return "mastered"
	default:
		return "new"
	}
}

// Label returns the user-facing label for a level.
func (l CardLevel) Label() string {
	switch l {
	case LevelNew:
		return "Nowe"
	case LevelUnknown:
		return "Nie umiem"
	case LevelFair:
		return "W miarę"
	case LevelKnown:
		return "Umiem"
	case LevelMastered:
		return "Opanowane 100%"
	default:
		return "Nowe"
	}
}

// ParseLevel parses either the wire name or the display label.
func ParseLevel(s string) (CardLevel, error) {
	for _, l := range Levels() {
		if s == l.String() || s == l.Label() {
			return l, nil
		}
	}
	return LevelNew, fmt.Errorf("unknown card level %q", s)
}

func (l CardLevel) Valid() bool {
	return l >= LevelNew && l <= LevelMastered
}

// MarshalText renders the wire name. Text marshaling covers both JSON
// values and map keys, so level-keyed tallies serialize readably.
func (l CardLevel) MarshalText() ([]byte, error) {
	return []byte(l.String()), nil
}

func (l *CardLevel) UnmarshalText(data []byte) error {
	parsed, err := ParseLevel(string(data))
	if err != nil {
		return err
	}
	*l = parsed
	return nil
}

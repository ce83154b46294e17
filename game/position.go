package game

import (
	"fmt"
	"strconv"
	"strings"
)

// Position is a zero-based board coordinate. X is the column, Y the row.
type Position struct {
	X int
	Y int
}

// ParsePosition parses board notation such as "d4" or "C10": a column letter
// followed by a one-based row number.
func ParsePosition(s string) (Position, error) {
	s = strings.TrimSpace(strings.ToLower(s))
	if len(s) < 2 {
		return Position{}, fmt.Errorf("position %q: too short", s)
	}
	col := s[0]
	if col < 'a' || col > 'z' {
		return Position{}, fmt.Errorf("position %q: column must be a letter", s)
	}
	row, err := strconv.Atoi(s[1:])
	if err != nil || row < 1 {
		return Position{}, fmt.Errorf("position %q: row must be a positive number", s)
	}
	return Position{X: int(col - 'a'), Y: row - 1}, nil
}

// MustParsePosition is ParsePosition for literals known to be valid.
func MustParsePosition(s string) Position {
	p, err := ParsePosition(s)
	if err != nil {
		panic(err)
	}
	return p
}

func (p Position) String() string {
	return fmt.Sprintf("%c%d", 'a'+rune(p.X), p.Y+1)
}

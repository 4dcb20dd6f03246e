package gitgraph

import (
	"errors"
	"fmt"
	"strings"
)

// ErrInvalidDirection is returned by [ParseDirection] for unknown values.
var ErrInvalidDirection = errors.New("invalid direction")

// Direction selects how history is laid out on the canvas.
type Direction int

const (
	// LeftToRight places older commits on the left. This is the default.
	LeftToRight Direction = iota
	// BottomToTop places older commits at the bottom.
	BottomToTop
)

// String returns the short form used in graph files ("LR" or "BT").
func (d Direction) String() string {
	switch d {
	case BottomToTop:
		return "BT"
	default:
		return "LR"
	}
}

// ParseDirection parses "LR" or "BT" (case-insensitive). An empty string
// yields [LeftToRight].
func ParseDirection(s string) (Direction, error) {
	switch strings.ToUpper(strings.TrimSpace(s)) {
	case "", "LR":
		return LeftToRight, nil
	case "BT":
		return BottomToTop, nil
	}
	return LeftToRight, fmt.Errorf("%w: %q (must be LR or BT)", ErrInvalidDirection, s)
}

// MarshalText implements encoding.TextMarshaler.
func (d Direction) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// UnmarshalText implements encoding.TextUnmarshaler.
func (d *Direction) UnmarshalText(b []byte) error {
	v, err := ParseDirection(string(b))
	if err != nil {
		return err
	}
	*d = v
	return nil
}

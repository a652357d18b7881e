package board

import (
	"fmt"
	"strings"
)

// MarshalText encodes the square in algebraic form.
func (sq Square) MarshalText() ([]byte, error) {
	return []byte(sq.String()), nil
}

// UnmarshalText decodes an algebraic square; "-" is NoSquare.
func (sq *Square) UnmarshalText(text []byte) error {
	if string(text) == "-" {
		*sq = NoSquare
		return nil
	}
	s, err := ParseSquare(string(text))
	if err != nil {
		return err
	}
	*sq = s
	return nil
}

// MarshalText encodes the side as "light" or "dark".
func (s Side) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(s.String())), nil
}

// UnmarshalText decodes "light" or "dark", ignoring case.
func (s *Side) UnmarshalText(text []byte) error {
	switch strings.ToLower(string(text)) {
	case "light", "l":
		*s = Light
	case "dark", "d":
		*s = Dark
	default:
		return fmt.Errorf("unknown side %q", text)
	}
	return nil
}

// MarshalText encodes the kind by its lowercase name.
func (k Kind) MarshalText() ([]byte, error) {
	return []byte(strings.ToLower(k.String())), nil
}

// UnmarshalText accepts a kind name or its letter, ignoring case.
func (k *Kind) UnmarshalText(text []byte) error {
	kind, ok := ParseKind(string(text))
	if !ok {
		return fmt.Errorf("unknown piece kind %q", text)
	}
	*k = kind
	return nil
}

// ParseKind resolves a kind name ("queen") or letter ("q"), ignoring case.
func ParseKind(s string) (Kind, bool) {
	s = strings.ToLower(s)
	if len(s) == 1 {
		p, ok := PieceFromSymbol(s[0])
		return p.Kind, ok
	}
	for k := Pawn; k <= King; k++ {
		if strings.ToLower(k.String()) == s {
			return k, true
		}
	}
	if s == "none" {
		return NoKind, true
	}
	return NoKind, false
}

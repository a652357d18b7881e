package board

// Move records one applied move in the game history.
type Move struct {
	Piece         Piece  `json:"piece"`
	From          Square `json:"from"`
	To            Square `json:"to"`
	DoubleAdvance bool   `json:"double_advance,omitempty"`
	Capture       bool   `json:"capture,omitempty"`
	Castle        bool   `json:"castle,omitempty"`
	EnPassant     bool   `json:"en_passant,omitempty"`
	Promotion     Kind   `json:"promotion,omitempty"`

	// Notation is the SAN text of the move, e.g. "Nxe5+".
	Notation string `json:"notation"`
}

// String returns the coordinate form of the move (e.g., "e2e4", "e7e8q").
func (m Move) String() string {
	s := m.From.String() + m.To.String()
	if m.Promotion != NoKind {
		s += string(NewPiece(m.Promotion, Dark).Symbol())
	}
	return s
}

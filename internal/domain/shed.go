package domain

// ShedPosition says where a shed card lands on an existing meld.
type ShedPosition int

const (
	// ShedTrio adds another matching card to a laid-down trio.
	ShedTrio ShedPosition = iota + 1
	// ShedLeft prepends to an escala.
	ShedLeft
	// ShedRight appends to an escala.
	ShedRight
)

// CanShed reports whether card can legally extend a meld already on the
// table, and where it lands. A second joker is never accepted because the
// extended meld must itself stay valid.
func CanShed(card Card, meld []Card) (ShedPosition, bool) {
	if IsValidTrio(meld) {
		extended := append(append([]Card{}, meld...), card)
		if IsValidTrio(extended) {
			return ShedTrio, true
		}
		return 0, false
	}

	if IsValidEscala(meld) {
		right := append(append([]Card{}, meld...), card)
		if IsValidEscala(right) {
			return ShedRight, true
		}
		left := append([]Card{card}, meld...)
		if IsValidEscala(left) {
			return ShedLeft, true
		}
	}

	return 0, false
}

// ApplyShed returns the meld with card inserted at the given position.
func ApplyShed(card Card, meld []Card, pos ShedPosition) []Card {
	switch pos {
	case ShedLeft:
		return append([]Card{card}, meld...)
	default:
		return append(append([]Card{}, meld...), card)
	}
}

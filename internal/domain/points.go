package domain

// CardPoints returns the penalty value of a card left in hand at round end.
func CardPoints(c Card) int {
	if c.Joker {
		return 50
	}
	switch {
	case c.Value == Ace:
		return 20
	case c.Value >= Jack:
		return 10
	default:
		return int(c.Value)
	}
}

// HandPoints totals the penalty points of every card in a hand.
func HandPoints(hand []Card) int {
	total := 0
	for _, c := range hand {
		total += CardPoints(c)
	}
	return total
}

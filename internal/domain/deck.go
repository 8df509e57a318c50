package domain

// Suits lists the four suits in a stable order.
func Suits() []Suit {
	return []Suit{SuitHearts, SuitDiamonds, SuitClubs, SuitSpades}
}

// Values lists the thirteen face values in ascending rank order.
func Values() []Value {
	return []Value{Two, Three, Four, Five, Six, Seven, Eight, Nine, Ten, Jack, Queen, King, Ace}
}

// NewDeck returns an ordered Carioca deck: two standard 52-card decks plus
// four jokers, 108 cards total. Shuffling is owned by the caller.
func NewDeck() []Card {
	deck := make([]Card, 0, 108)
	for d := 0; d < 2; d++ {
		for _, s := range Suits() {
			for _, v := range Values() {
				deck = append(deck, Standard(s, v))
			}
		}
		deck = append(deck, NewJoker(), NewJoker())
	}
	return deck
}

package domain

// Suit identifies one of the four card suits.
type Suit string

const (
	SuitHearts   Suit = "H"
	SuitDiamonds Suit = "D"
	SuitClubs    Suit = "C"
	SuitSpades   Suit = "S"
)

// Value is the face value of a standard card. Ace is high (14) but rank
// order is circular: the successor of Ace is Two.
type Value int

const (
	Two Value = iota + 2
	Three
	Four
	Five
	Six
	Seven
	Eight
	Nine
	Ten
	Jack
	Queen
	King
	Ace
)

// numRanks is the size of the circular rank ring (Two..Ace).
const numRanks = 13

// Card is a single playing card. A joker carries no suit or value.
type Card struct {
	Suit  Suit  `json:"suit,omitempty"`
	Value Value `json:"value,omitempty"`
	Joker bool  `json:"joker,omitempty"`
}

// Standard builds a suited card.
func Standard(suit Suit, value Value) Card {
	return Card{Suit: suit, Value: value}
}

// NewJoker builds a wildcard card.
func NewJoker() Card {
	return Card{Joker: true}
}

// IsJoker reports whether the card is a wildcard.
func (c Card) IsJoker() bool {
	return c.Joker
}

// RankOf returns the circular rank of a card. Jokers and malformed cards
// have no rank; callers treat the false case as a non-match.
func RankOf(c Card) (int, bool) {
	if c.Joker || c.Value < Two || c.Value > Ace {
		return 0, false
	}
	return int(c.Value), true
}

func (c Card) suitKnown() bool {
	switch c.Suit {
	case SuitHearts, SuitDiamonds, SuitClubs, SuitSpades:
		return true
	}
	return false
}

// SuitOf returns the suit of a card. Jokers and malformed cards have none.
func SuitOf(c Card) (Suit, bool) {
	if c.Joker || !c.suitKnown() {
		return "", false
	}
	return c.Suit, true
}

// WrappedRank walks offset steps around the rank ring starting at start.
// Ranks 2..14 map onto a ring of 13, so WrappedRank(14, 1) == 2 and
// WrappedRank(2, -1) == 14. All circular rank reasoning goes through here.
func WrappedRank(start, offset int) int {
	idx := (start - 2 + offset) % numRanks
	if idx < 0 {
		idx += numRanks
	}
	return idx + 2
}

var valueNames = map[Value]string{
	Two: "2", Three: "3", Four: "4", Five: "5", Six: "6", Seven: "7",
	Eight: "8", Nine: "9", Ten: "10", Jack: "J", Queen: "Q", King: "K", Ace: "A",
}

// String renders a card as e.g. "10H" or "JOKER".
func (c Card) String() string {
	if c.Joker {
		return "JOKER"
	}
	name, ok := valueNames[c.Value]
	if !ok {
		return "?" + string(c.Suit)
	}
	return name + string(c.Suit)
}

package app

// MinPlayersToStartGame defines the minimum number of occupied seats required to start a game.
// Keep this centralized so tests or local runs can adjust the rule without touching multiple call sites.
const MinPlayersToStartGame = 2

// CardsPerDeal is the hand size dealt to each player at the start of every round.
const CardsPerDeal = 12

// DrawSource says which pile a drawn card came from.
type DrawSource string

const (
	DrawSourceStock   DrawSource = "stock"
	DrawSourceDiscard DrawSource = "discard"
)

package domain

// Phase represents the lifecycle stage of a Carioca game.
type Phase string

const (
	// PhaseLobby is the pre-game state where players can join.
	PhaseLobby Phase = "lobby"
	// PhasePlaying is the active game state.
	PhasePlaying Phase = "playing"
	// PhaseEnded is the state after the last round concludes.
	PhaseEnded Phase = "ended"
)

// Player holds the state of a participant across rounds.
type Player struct {
	UserID      string
	Seat        int // 1-based seat number
	Hand        []Card
	Points      int
	HasDropped  bool     // whether the player has laid down this round
	Melds       [][]Card // laid-down combinations, in submission order
	TurnsPlayed int
}

// Game is the authoritative state of a Carioca game instance.
type Game struct {
	Phase       Phase
	Players     []*Player // in seat order
	Round       Round
	RoundIndex  int
	CurrentTurn int // index into Players
	// TurnHasDrawn is set once the current player draws and cleared when
	// the turn passes. A turn is always draw first, then play.
	TurnHasDrawn bool
	Stock        []Card
	Discard      []Card
}

// CurrentPlayer returns the player whose turn it is, or nil.
func (g *Game) CurrentPlayer() *Player {
	if g.CurrentTurn < 0 || g.CurrentTurn >= len(g.Players) {
		return nil
	}
	return g.Players[g.CurrentTurn]
}

// PlayerByID returns the player with the given user ID, or nil.
func (g *Game) PlayerByID(userID string) *Player {
	for _, p := range g.Players {
		if p.UserID == userID {
			return p
		}
	}
	return nil
}

// RemoveCards removes the specified cards from a hand using multiset
// semantics and returns the updated hand.
func RemoveCards(hand []Card, toRemove []Card) []Card {
	if len(toRemove) == 0 || len(hand) == 0 {
		return hand
	}

	removeCounts := make(map[Card]int, len(toRemove))
	for _, c := range toRemove {
		removeCounts[c]++
	}

	updated := make([]Card, 0, len(hand))
	for _, c := range hand {
		if count, ok := removeCounts[c]; ok && count > 0 {
			removeCounts[c] = count - 1
			continue
		}
		updated = append(updated, c)
	}
	return updated
}

// ContainsCards reports whether hand holds every card in subset, counting
// duplicates (multiple decks make duplicate cards legal and expected).
func ContainsCards(hand []Card, subset []Card) bool {
	counts := make(map[Card]int, len(hand))
	for _, c := range hand {
		counts[c]++
	}
	for _, c := range subset {
		if counts[c] == 0 {
			return false
		}
		counts[c]--
	}
	return true
}

// SameCards reports whether two hands hold exactly the same multiset of
// cards, ignoring order.
func SameCards(a, b []Card) bool {
	if len(a) != len(b) {
		return false
	}
	counts := make(map[Card]int, len(a))
	for _, c := range a {
		counts[c]++
	}
	for _, c := range b {
		counts[c]--
		if counts[c] < 0 {
			return false
		}
	}
	return true
}

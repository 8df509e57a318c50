package bot

import (
	"carioca/internal/domain"
)

// MoveKind identifies the action a bot wants to take.
type MoveKind int

const (
	MoveDrawStock MoveKind = iota + 1
	MoveDrawDiscard
	MoveDiscard
	MoveDropHand
	MoveShed
)

// Move represents the decision made by the AI. A turn is a sequence of
// moves: one draw, optionally a drop and any number of sheds, then a
// discard.
type Move struct {
	Kind MoveKind

	// CardIndex is the hand position for MoveDiscard and MoveShed.
	CardIndex int

	// Combos is the bajada for MoveDropHand.
	Combos [][]domain.Card

	// TargetUserID and MeldIndex locate the meld for MoveShed.
	TargetUserID string
	MeldIndex    int
}

// Brain is the interface that all bot strategies must implement.
type Brain interface {
	CalculateMove(game *domain.Game, player *domain.Player) (Move, error)
	OnEvent(event interface{})
}

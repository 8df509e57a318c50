package bot

import (
	"carioca/internal/domain"
)

// SmartBot draws with purpose, drops as soon as the contract is met, sheds
// onto any open meld, and discards its least useful card.
type SmartBot struct{}

func (b *SmartBot) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if !game.TurnHasDrawn {
		return drawMove(game, player), nil
	}

	if !player.HasDropped {
		if move, ok := dropMove(game, player, false); ok {
			return move, nil
		}
	} else if move, ok := findShed(game, player); ok {
		return move, nil
	}

	if len(player.Hand) == 0 {
		return Move{}, nil
	}
	return Move{Kind: MoveDiscard, CardIndex: leastUsefulIndex(player.Hand)}, nil
}

func (b *SmartBot) OnEvent(event interface{}) {}

// drawMove prefers the discard top when it synergizes with the hand.
func drawMove(game *domain.Game, player *domain.Player) Move {
	if !player.HasDropped && len(game.Discard) > 0 {
		top := game.Discard[len(game.Discard)-1]
		if evaluateCardUsefulness(player.Hand, top) >= DefaultTuning.DiscardDrawThreshold {
			return Move{Kind: MoveDrawDiscard}
		}
	}
	return Move{Kind: MoveDrawStock}
}

// dropMove solves for a bajada meeting the round contract. It refuses
// solutions that consume the whole hand because a discard must follow.
func dropMove(game *domain.Game, player *domain.Player, minimizePoints bool) (Move, bool) {
	reqTrios, reqEscalas := game.Round.Requirements()
	candidates, ok := domain.FindBestBajada(player.Hand, reqTrios, reqEscalas, minimizePoints)
	if !ok {
		return Move{}, false
	}

	used := 0
	for _, cand := range candidates {
		used += len(cand.Indices)
	}
	if used >= len(player.Hand) {
		return Move{}, false
	}

	return Move{
		Kind:   MoveDropHand,
		Combos: meldsFromCandidates(player.Hand, candidates),
	}, true
}

// leastUsefulIndex picks the discard that hurts hand synergy the least.
func leastUsefulIndex(hand []domain.Card) int {
	best, bestScore := 0, int(^uint(0)>>1)
	for i, card := range hand {
		score := evaluateCardUsefulness(handWithout(hand, i), card)
		if score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

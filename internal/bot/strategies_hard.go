package bot

import (
	"carioca/internal/domain"
)

// HardBot extends SmartBot: its bajada solver minimizes leftover points
// and its discard choice prefers dumping expensive cards when usefulness
// ties.
type HardBot struct{}

func (b *HardBot) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if !game.TurnHasDrawn {
		return drawMove(game, player), nil
	}

	if !player.HasDropped {
		if move, ok := dropMove(game, player, true); ok {
			return move, nil
		}
	} else if move, ok := findShed(game, player); ok {
		return move, nil
	}

	if len(player.Hand) == 0 {
		return Move{}, nil
	}
	return Move{Kind: MoveDiscard, CardIndex: costliestUselessIndex(player.Hand)}, nil
}

func (b *HardBot) OnEvent(event interface{}) {}

// costliestUselessIndex ranks discards by usefulness with a small discount
// for card points, so dead aces and kings leave the hand first.
func costliestUselessIndex(hand []domain.Card) int {
	best := 0
	bestScore := 0.0
	for i, card := range hand {
		synergy := float64(evaluateCardUsefulness(handWithout(hand, i), card))
		score := synergy - float64(domain.CardPoints(card))*DefaultTuning.PointDiscount
		if i == 0 || score < bestScore {
			bestScore = score
			best = i
		}
	}
	return best
}

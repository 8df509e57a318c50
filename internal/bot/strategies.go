package bot

import (
	"math/rand"
	"time"

	"carioca/internal/domain"
)

// EasyBot plays almost randomly: it occasionally picks up the discard and
// discards an arbitrary card. It never drops or sheds.
type EasyBot struct {
	rng *rand.Rand
}

func NewEasyBot(rng *rand.Rand) *EasyBot {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &EasyBot{rng: rng}
}

func (b *EasyBot) CalculateMove(game *domain.Game, player *domain.Player) (Move, error) {
	if !game.TurnHasDrawn {
		if !player.HasDropped && len(game.Discard) > 0 &&
			b.rng.Float64() < DefaultTuning.EasyDiscardDrawChance {
			return Move{Kind: MoveDrawDiscard}, nil
		}
		return Move{Kind: MoveDrawStock}, nil
	}

	if len(player.Hand) == 0 {
		return Move{}, nil
	}
	return Move{
		Kind:      MoveDiscard,
		CardIndex: b.rng.Intn(len(player.Hand)),
	}, nil
}

func (b *EasyBot) OnEvent(event interface{}) {}

// evaluateCardUsefulness scores how well target synergizes with the rest
// of the hand: value matches suggest trios, same-suit neighbors suggest
// escalas. Jokers always score high enough to keep.
func evaluateCardUsefulness(hand []domain.Card, target domain.Card) int {
	if target.IsJoker() {
		return DefaultTuning.JokerKeepScore
	}

	score := 0
	for _, c := range hand {
		if c.IsJoker() {
			continue
		}
		if c.Value == target.Value {
			score += DefaultTuning.TrioMatchScore
		}
		if c.Suit == target.Suit {
			diff := int(c.Value) - int(target.Value)
			if diff < 0 {
				diff = -diff
			}
			switch diff {
			case 1:
				score += DefaultTuning.RunNeighborScore
			case 2:
				score += DefaultTuning.RunNearScore
			}
		}
	}
	return score
}

// handWithout returns hand minus the card at index i.
func handWithout(hand []domain.Card, i int) []domain.Card {
	rest := make([]domain.Card, 0, len(hand)-1)
	rest = append(rest, hand[:i]...)
	return append(rest, hand[i+1:]...)
}

// meldsFromCandidates materializes solver candidates into card slices.
func meldsFromCandidates(hand []domain.Card, candidates []domain.MeldCandidate) [][]domain.Card {
	combos := make([][]domain.Card, 0, len(candidates))
	for _, cand := range candidates {
		combo := make([]domain.Card, 0, len(cand.Indices))
		for _, idx := range cand.Indices {
			combo = append(combo, hand[idx])
		}
		combos = append(combos, combo)
	}
	return combos
}

// findShed looks for the first card that can extend any laid-down meld.
func findShed(game *domain.Game, player *domain.Player) (Move, bool) {
	for handIdx, card := range player.Hand {
		for _, target := range game.Players {
			for meldIdx, meld := range target.Melds {
				if _, ok := domain.CanShed(card, meld); ok {
					return Move{
						Kind:         MoveShed,
						CardIndex:    handIdx,
						TargetUserID: target.UserID,
						MeldIndex:    meldIdx,
					}, true
				}
			}
		}
	}
	return Move{}, false
}

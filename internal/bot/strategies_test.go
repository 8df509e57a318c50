package bot

import (
	"math/rand"
	"testing"

	"carioca/internal/domain"
)

func testGame(players ...*domain.Player) *domain.Game {
	return &domain.Game{
		Phase:   domain.PhasePlaying,
		Players: players,
		Round:   domain.RoundTwoTrios,
	}
}

func TestEvaluateCardUsefulness(t *testing.T) {
	hand := []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitHearts, domain.Seven),
		domain.Standard(domain.SuitClubs, domain.Nine),
	}

	tests := []struct {
		name   string
		target domain.Card
		want   int
	}{
		{"joker always kept", domain.NewJoker(), DefaultTuning.JokerKeepScore},
		// Neighbors both the hearts five and the hearts seven.
		{"run synergy", domain.Standard(domain.SuitHearts, domain.Six),
			DefaultTuning.RunNeighborScore * 2},
		{"value match", domain.Standard(domain.SuitDiamonds, domain.Nine), DefaultTuning.TrioMatchScore},
		{"dead card", domain.Standard(domain.SuitDiamonds, domain.King), 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := evaluateCardUsefulness(hand, tt.target); got != tt.want {
				t.Errorf("usefulness = %d, want %d", got, tt.want)
			}
		})
	}
}

func TestEasyBotTurnShape(t *testing.T) {
	b := NewEasyBot(rand.New(rand.NewSource(7)))
	pl := &domain.Player{UserID: "bot", Hand: []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitClubs, domain.Nine),
	}}
	game := testGame(pl)

	move, err := b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDrawStock && move.Kind != MoveDrawDiscard {
		t.Fatalf("before drawing the bot must draw, got %v", move.Kind)
	}

	game.TurnHasDrawn = true
	move, err = b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDiscard {
		t.Fatalf("after drawing the bot must discard, got %v", move.Kind)
	}
	if move.CardIndex < 0 || move.CardIndex >= len(pl.Hand) {
		t.Fatalf("discard index %d out of range", move.CardIndex)
	}
}

func TestSmartBotDrawsUsefulDiscard(t *testing.T) {
	b := &SmartBot{}
	pl := &domain.Player{UserID: "bot", Hand: []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitClubs, domain.Five),
		domain.Standard(domain.SuitDiamonds, domain.King),
	}}
	game := testGame(pl)
	game.Discard = []domain.Card{domain.Standard(domain.SuitSpades, domain.Five)}

	move, err := b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDrawDiscard {
		t.Fatalf("move = %v, want draw from discard", move.Kind)
	}

	// A useless top card means a blind stock draw instead.
	game.Discard = []domain.Card{domain.Standard(domain.SuitSpades, domain.Nine)}
	move, _ = b.CalculateMove(game, pl)
	if move.Kind != MoveDrawStock {
		t.Fatalf("move = %v, want draw from stock", move.Kind)
	}
}

func TestSmartBotDropsWhenContractMet(t *testing.T) {
	b := &SmartBot{}
	pl := &domain.Player{UserID: "bot", Hand: []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitClubs, domain.Five),
		domain.Standard(domain.SuitSpades, domain.Five),
		domain.Standard(domain.SuitHearts, domain.Nine),
		domain.Standard(domain.SuitClubs, domain.Nine),
		domain.Standard(domain.SuitDiamonds, domain.Nine),
		domain.Standard(domain.SuitDiamonds, domain.King),
	}}
	game := testGame(pl)
	game.TurnHasDrawn = true

	move, err := b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDropHand {
		t.Fatalf("move = %v, want drop", move.Kind)
	}
	if len(move.Combos) != 2 {
		t.Fatalf("combos = %d, want 2", len(move.Combos))
	}
	for _, combo := range move.Combos {
		if !domain.IsValidTrio(combo) {
			t.Fatalf("dropped combo is not a trio: %v", combo)
		}
	}
}

func TestSmartBotNeverDropsWholeHand(t *testing.T) {
	b := &SmartBot{}
	// The contract would consume all six cards, leaving nothing to discard.
	pl := &domain.Player{UserID: "bot", Hand: []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitClubs, domain.Five),
		domain.Standard(domain.SuitSpades, domain.Five),
		domain.Standard(domain.SuitHearts, domain.Nine),
		domain.Standard(domain.SuitClubs, domain.Nine),
		domain.Standard(domain.SuitDiamonds, domain.Nine),
	}}
	game := testGame(pl)
	game.TurnHasDrawn = true

	move, err := b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDiscard {
		t.Fatalf("move = %v, want discard", move.Kind)
	}
}

func TestSmartBotShedsAfterDropping(t *testing.T) {
	b := &SmartBot{}
	bot := &domain.Player{UserID: "bot", HasDropped: true, Hand: []domain.Card{
		domain.Standard(domain.SuitDiamonds, domain.Five),
		domain.Standard(domain.SuitDiamonds, domain.King),
	}}
	other := &domain.Player{UserID: "human", Melds: [][]domain.Card{{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitClubs, domain.Five),
		domain.Standard(domain.SuitSpades, domain.Five),
	}}}
	game := testGame(bot, other)
	game.TurnHasDrawn = true

	move, err := b.CalculateMove(game, bot)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveShed {
		t.Fatalf("move = %v, want shed", move.Kind)
	}
	if move.CardIndex != 0 || move.TargetUserID != "human" || move.MeldIndex != 0 {
		t.Fatalf("shed move = %+v", move)
	}
}

func TestHardBotDiscardsExpensiveDeadCard(t *testing.T) {
	b := &HardBot{}
	pl := &domain.Player{UserID: "bot", Hand: []domain.Card{
		domain.Standard(domain.SuitHearts, domain.Five),
		domain.Standard(domain.SuitHearts, domain.Six),
		domain.Standard(domain.SuitHearts, domain.Seven),
		// Both dead, but the ace costs 20 against the two's 2.
		domain.Standard(domain.SuitClubs, domain.Two),
		domain.Standard(domain.SuitDiamonds, domain.Ace),
	}}
	game := testGame(pl)
	game.Round = domain.RoundEscalaReal
	game.TurnHasDrawn = true

	move, err := b.CalculateMove(game, pl)
	if err != nil {
		t.Fatalf("move error: %v", err)
	}
	if move.Kind != MoveDiscard {
		t.Fatalf("move = %v, want discard", move.Kind)
	}
	if move.CardIndex != 4 {
		t.Fatalf("discard index = %d, want 4 (the ace)", move.CardIndex)
	}
}

func TestAgentOnlyActsOnItsTurn(t *testing.T) {
	bot := &domain.Player{UserID: "bot", Hand: []domain.Card{domain.Standard(domain.SuitHearts, domain.Five)}}
	human := &domain.Player{UserID: "human"}
	game := testGame(human, bot) // human is current turn

	agent := &Agent{ID: "bot", Strategy: NewEasyBot(rand.New(rand.NewSource(1)))}
	if _, ok, err := agent.Play(game); err != nil || ok {
		t.Fatalf("agent acted out of turn: ok=%v err=%v", ok, err)
	}

	game.CurrentTurn = 1
	move, ok, err := agent.Play(game)
	if err != nil || !ok {
		t.Fatalf("agent should act on its turn: ok=%v err=%v", ok, err)
	}
	if move.Kind != MoveDrawStock && move.Kind != MoveDrawDiscard {
		t.Fatalf("move = %v, want a draw", move.Kind)
	}
}

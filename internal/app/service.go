package app

import (
	"errors"
	"math/rand"
	"time"

	"carioca/internal/domain"
)

// Service contains Carioca use-cases operating on domain state.
type Service struct {
	rng *rand.Rand
}

// NewService constructs a Service with provided rng or a time-seeded default.
func NewService(rng *rand.Rand) *Service {
	if rng == nil {
		rng = rand.New(rand.NewSource(time.Now().UnixNano()))
	}
	return &Service{rng: rng}
}

var (
	ErrNotPlaying     = errors.New("match not in playing phase")
	ErrTooFewPlayers  = errors.New("not enough players to start")
	ErrUnknownPlayer  = errors.New("player not found")
	ErrNotYourTurn    = errors.New("not your turn")
	ErrStockEmpty     = errors.New("stock is empty")
	ErrDiscardEmpty   = errors.New("discard pile is empty")
	ErrDrawAfterDrop  = errors.New("cannot draw from discard after dropping hand")
	ErrAlreadyDrawn   = errors.New("already drew this turn")
	ErrMustDrawFirst  = errors.New("must draw a card before playing")
	ErrAlreadyDropped = errors.New("hand already dropped")
	ErrNotDropped     = errors.New("must drop hand before shedding")
	ErrCardNotInHand  = errors.New("card not in hand")
	ErrInvalidMeld    = errors.New("invalid combination submitted")
	ErrWrongContract  = errors.New("combinations do not match the round contract")
	ErrCannotShed     = errors.New("card cannot extend that meld")
	ErrBadMeldTarget  = errors.New("target meld not found")
	ErrHandMismatch   = errors.New("reordered hand does not match current hand")
)

// StartGame initializes a new Game with the provided players in seat order
// (empty strings for empty seats) and deals the first round.
func (s *Service) StartGame(playerIDs []string) (*domain.Game, []Event, error) {
	var players []*domain.Player
	for i, userID := range playerIDs {
		if userID == "" {
			continue
		}
		players = append(players, &domain.Player{
			UserID: userID,
			Seat:   i + 1, // 1-based seat index for domain
		})
	}

	if len(players) < MinPlayersToStartGame {
		return nil, nil, ErrTooFewPlayers
	}

	rounds := domain.AllRounds()
	game := &domain.Game{
		Phase:       domain.PhasePlaying,
		Players:     players,
		Round:       rounds[0],
		RoundIndex:  0,
		CurrentTurn: 0,
	}

	events := s.startRound(game)
	events = append(events, Event{
		Kind: EventGameStarted,
		Payload: GameStartedPayload{
			Phase:           game.Phase,
			RoundIndex:      game.RoundIndex,
			RoundName:       game.Round.Description(),
			FirstTurnUserID: game.CurrentPlayer().UserID,
		},
	})

	return game, events, nil
}

// startRound deals a fresh shuffled double deck, resets per-round player
// state, and flips the top stock card to seed the discard pile.
func (s *Service) startRound(game *domain.Game) []Event {
	deck := domain.NewDeck()
	s.shuffle(deck)
	game.TurnHasDrawn = false

	events := make([]Event, 0, len(game.Players))
	cardIdx := 0
	for _, pl := range game.Players {
		pl.Hand = append([]domain.Card{}, deck[cardIdx:cardIdx+CardsPerDeal]...)
		pl.HasDropped = false
		pl.Melds = nil
		pl.TurnsPlayed = 0
		cardIdx += CardsPerDeal

		events = append(events, Event{
			Kind: EventHandDealt,
			Payload: HandDealtPayload{
				UserID:     pl.UserID,
				Hand:       pl.Hand,
				RoundIndex: game.RoundIndex,
			},
			Recipients: []string{pl.UserID},
		})
	}

	game.Discard = []domain.Card{deck[cardIdx]}
	game.Stock = append([]domain.Card{}, deck[cardIdx+1:]...)

	return events
}

// DrawFromStock moves the top stock card into the current player's hand.
func (s *Service) DrawFromStock(game *domain.Game, actorUserID string) ([]Event, error) {
	pl, err := s.turnPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if game.TurnHasDrawn {
		return nil, ErrAlreadyDrawn
	}
	if len(game.Stock) == 0 {
		return nil, ErrStockEmpty
	}

	card := game.Stock[len(game.Stock)-1]
	game.Stock = game.Stock[:len(game.Stock)-1]
	pl.Hand = append(pl.Hand, card)
	game.TurnHasDrawn = true

	return s.drawEvents(game, pl.UserID, card, DrawSourceStock), nil
}

// DrawFromDiscard moves the top discard card into the current player's hand.
// Players who have already dropped may only draw from the stock.
func (s *Service) DrawFromDiscard(game *domain.Game, actorUserID string) ([]Event, error) {
	pl, err := s.turnPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if game.TurnHasDrawn {
		return nil, ErrAlreadyDrawn
	}
	if pl.HasDropped {
		return nil, ErrDrawAfterDrop
	}
	if len(game.Discard) == 0 {
		return nil, ErrDiscardEmpty
	}

	card := game.Discard[len(game.Discard)-1]
	game.Discard = game.Discard[:len(game.Discard)-1]
	pl.Hand = append(pl.Hand, card)
	game.TurnHasDrawn = true

	return s.drawEvents(game, pl.UserID, card, DrawSourceDiscard), nil
}

func (s *Service) drawEvents(game *domain.Game, userID string, card domain.Card, source DrawSource) []Event {
	announced := DrawAnnouncedPayload{
		UserID:     userID,
		Source:     source,
		StockCount: len(game.Stock),
	}
	if len(game.Discard) > 0 {
		top := game.Discard[len(game.Discard)-1]
		announced.DiscardTop = &top
	}
	return []Event{
		{
			Kind:       EventCardDrawn,
			Payload:    CardDrawnPayload{UserID: userID, Card: card, Source: source},
			Recipients: []string{userID},
		},
		{Kind: EventDrawAnnounced, Payload: announced},
	}
}

// Discard moves the card at cardIndex from the current player's hand onto
// the discard pile and advances the turn. Emptying the hand ends the round.
func (s *Service) Discard(game *domain.Game, actorUserID string, cardIndex int) ([]Event, error) {
	pl, err := s.turnPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if !game.TurnHasDrawn {
		return nil, ErrMustDrawFirst
	}
	if cardIndex < 0 || cardIndex >= len(pl.Hand) {
		return nil, ErrCardNotInHand
	}

	card := pl.Hand[cardIndex]
	pl.Hand = append(pl.Hand[:cardIndex], pl.Hand[cardIndex+1:]...)
	game.Discard = append(game.Discard, card)
	pl.TurnsPlayed++
	game.TurnHasDrawn = false

	events := []Event{
		{
			Kind:    EventCardDiscarded,
			Payload: CardDiscardedPayload{UserID: pl.UserID, Card: card},
		},
	}

	if len(pl.Hand) == 0 {
		return append(events, s.endRound(game, pl.UserID)...), nil
	}

	game.CurrentTurn = (game.CurrentTurn + 1) % len(game.Players)
	events = append(events, Event{
		Kind:    EventTurnChanged,
		Payload: TurnChangedPayload{UserID: game.CurrentPlayer().UserID},
	})
	return events, nil
}

// DropHand validates the submitted combinations against the round contract
// and, on success, moves them from the player's hand onto the table.
func (s *Service) DropHand(game *domain.Game, actorUserID string, combos [][]domain.Card) ([]Event, error) {
	pl, err := s.turnPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if !game.TurnHasDrawn {
		return nil, ErrMustDrawFirst
	}
	if pl.HasDropped {
		return nil, ErrAlreadyDropped
	}

	var used []domain.Card
	for _, combo := range combos {
		used = append(used, combo...)
	}
	if !domain.ContainsCards(pl.Hand, used) {
		return nil, ErrCardNotInHand
	}

	trios, escalas := 0, 0
	for _, combo := range combos {
		switch {
		case domain.IsValidTrio(combo):
			trios++
		case domain.IsValidEscala(combo):
			escalas++
		default:
			return nil, ErrInvalidMeld
		}
	}

	reqTrios, reqEscalas := game.Round.Requirements()
	if trios != reqTrios || escalas != reqEscalas {
		return nil, ErrWrongContract
	}

	pl.Hand = domain.RemoveCards(pl.Hand, used)
	pl.HasDropped = true
	pl.Melds = combos

	return []Event{
		{
			Kind:    EventHandDropped,
			Payload: HandDroppedPayload{UserID: pl.UserID, Melds: combos},
		},
	}, nil
}

// ShedCard plays a single card from the current player's hand onto any
// player's laid-down meld. Only players who have dropped may shed.
// Emptying the hand ends the round.
func (s *Service) ShedCard(game *domain.Game, actorUserID string, handIndex int, targetUserID string, meldIndex int) ([]Event, error) {
	pl, err := s.turnPlayer(game, actorUserID)
	if err != nil {
		return nil, err
	}
	if !game.TurnHasDrawn {
		return nil, ErrMustDrawFirst
	}
	if !pl.HasDropped {
		return nil, ErrNotDropped
	}
	if handIndex < 0 || handIndex >= len(pl.Hand) {
		return nil, ErrCardNotInHand
	}

	target := game.PlayerByID(targetUserID)
	if target == nil {
		return nil, ErrUnknownPlayer
	}
	if meldIndex < 0 || meldIndex >= len(target.Melds) {
		return nil, ErrBadMeldTarget
	}

	card := pl.Hand[handIndex]
	pos, ok := domain.CanShed(card, target.Melds[meldIndex])
	if !ok {
		return nil, ErrCannotShed
	}

	target.Melds[meldIndex] = domain.ApplyShed(card, target.Melds[meldIndex], pos)
	pl.Hand = append(pl.Hand[:handIndex], pl.Hand[handIndex+1:]...)

	events := []Event{
		{
			Kind: EventCardShed,
			Payload: CardShedPayload{
				UserID:       pl.UserID,
				Card:         card,
				TargetUserID: targetUserID,
				MeldIndex:    meldIndex,
				Position:     pos,
			},
		},
	}

	if len(pl.Hand) == 0 {
		events = append(events, s.endRound(game, pl.UserID)...)
	}
	return events, nil
}

// ReorderHand replaces a player's hand with a client-supplied ordering of
// the same cards. Unlike turn actions this is allowed at any time.
func (s *Service) ReorderHand(game *domain.Game, actorUserID string, newHand []domain.Card) error {
	pl := game.PlayerByID(actorUserID)
	if pl == nil {
		return ErrUnknownPlayer
	}
	if !domain.SameCards(pl.Hand, newHand) {
		return ErrHandMismatch
	}
	pl.Hand = newHand
	return nil
}

// endRound settles points for cards left in hand, advances the round
// ladder, and either redeals or ends the game after the final round.
func (s *Service) endRound(game *domain.Game, winnerID string) []Event {
	finishedIndex := game.RoundIndex
	finishedName := game.Round.Description()

	scores := make([]PlayerScore, 0, len(game.Players))
	for _, pl := range game.Players {
		roundPoints := domain.HandPoints(pl.Hand)
		pl.Points += roundPoints
		scores = append(scores, PlayerScore{
			UserID:      pl.UserID,
			RoundPoints: roundPoints,
			TotalPoints: pl.Points,
		})
	}

	rounds := domain.AllRounds()
	game.RoundIndex++
	gameOver := game.RoundIndex >= len(rounds)

	payload := RoundEndedPayload{
		RoundIndex: finishedIndex,
		RoundName:  finishedName,
		WinnerID:   winnerID,
		Scores:     scores,
		GameOver:   gameOver,
	}

	if gameOver {
		game.Phase = domain.PhaseEnded
		return []Event{
			{Kind: EventRoundEnded, Payload: payload},
			{
				Kind: EventGameEnded,
				Payload: GameEndedPayload{
					WinnerID:  s.lowestPoints(game),
					Standings: scores,
				},
			},
		}
	}

	game.Round = rounds[game.RoundIndex]
	// The next round's opening turn rotates with the ladder.
	game.CurrentTurn = game.RoundIndex % len(game.Players)
	payload.NextRoundIndex = game.RoundIndex
	payload.NextRoundName = game.Round.Description()

	events := []Event{{Kind: EventRoundEnded, Payload: payload}}
	events = append(events, s.startRound(game)...)
	events = append(events, Event{
		Kind:    EventTurnChanged,
		Payload: TurnChangedPayload{UserID: game.CurrentPlayer().UserID},
	})
	return events
}

// lowestPoints returns the user ID with the fewest accumulated points,
// breaking ties by seat order.
func (s *Service) lowestPoints(game *domain.Game) string {
	var winner *domain.Player
	for _, pl := range game.Players {
		if winner == nil || pl.Points < winner.Points {
			winner = pl
		}
	}
	if winner == nil {
		return ""
	}
	return winner.UserID
}

// turnPlayer returns the acting player after enforcing phase and turn.
func (s *Service) turnPlayer(game *domain.Game, actorUserID string) (*domain.Player, error) {
	if game.Phase != domain.PhasePlaying {
		return nil, ErrNotPlaying
	}
	pl := game.PlayerByID(actorUserID)
	if pl == nil {
		return nil, ErrUnknownPlayer
	}
	if game.CurrentPlayer() != pl {
		return nil, ErrNotYourTurn
	}
	return pl, nil
}

func (s *Service) shuffle(deck []domain.Card) {
	s.rng.Shuffle(len(deck), func(i, j int) { deck[i], deck[j] = deck[j], deck[i] })
}

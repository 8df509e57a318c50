package nakama

import (
	"context"
	"encoding/json"
	"testing"

	"carioca/internal/app"
	"carioca/internal/bot"
	"carioca/internal/domain"
	"carioca/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// noopLogger implements runtime.Logger for tests that only need to satisfy the interface.
type noopLogger struct{}

func (noopLogger) Debug(string, ...interface{}) {}
func (noopLogger) Info(string, ...interface{})  {}
func (noopLogger) Warn(string, ...interface{})  {}
func (noopLogger) Error(string, ...interface{}) {}
func (noopLogger) WithField(string, interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) WithFields(map[string]interface{}) runtime.Logger {
	return noopLogger{}
}
func (noopLogger) Fields() map[string]interface{} {
	return nil
}

// mockDispatcher records match dispatcher calls for assertions.
type mockDispatcher struct {
	broadcastCount int
	labelUpdates   int
	lastOpCode     int64
	lastData       []byte
	lastLabel      string
}

func (md *mockDispatcher) BroadcastMessage(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	md.broadcastCount++
	md.lastOpCode = opCode
	md.lastData = append([]byte(nil), data...)
	return nil
}

func (md *mockDispatcher) BroadcastMessageDeferred(opCode int64, data []byte, presences []runtime.Presence, sender runtime.Presence, reliable bool) error {
	return nil
}

func (md *mockDispatcher) MatchKick(presences []runtime.Presence) error {
	return nil
}

func (md *mockDispatcher) MatchLabelUpdate(label string) error {
	md.labelUpdates++
	md.lastLabel = label
	return nil
}

// mockEconomy records wallet updates for assertions.
type mockEconomy struct {
	updates []ports.WalletUpdate
}

func (me *mockEconomy) GetBalance(ctx context.Context, userID string) (int64, error) {
	return 0, nil
}

func (me *mockEconomy) UpdateBalances(ctx context.Context, updates []ports.WalletUpdate) error {
	me.updates = append(me.updates, updates...)
	return nil
}

func init() {
	// Load bot identities for testing.
	if err := bot.LoadIdentities("test_bot_identities.json"); err != nil {
		panic("Failed to load bot identities for tests: " + err.Error())
	}
}

func TestFindFirstHumanSeat(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID

	tests := []struct {
		name  string
		seats []string
		want  int
	}{
		{
			name:  "FirstHumanAfterBot",
			seats: []string{bot1, "user-1", "", ""},
			want:  1,
		},
		{
			name:  "AllBots",
			seats: []string{bot1, bot2, "", ""},
			want:  -1,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  -1,
		},
		{
			name:  "FirstHumanIsSeatZero",
			seats: []string{"user-1", bot1, "user-2", ""},
			want:  0,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := findFirstHumanSeat(test.seats); got != test.want {
				t.Fatalf("findFirstHumanSeat() = %d, want %d", got, test.want)
			}
		})
	}
}

func TestShouldTerminateNoHumans(t *testing.T) {
	bot1 := bot.GetBotIdentity(0).UserID
	bot2 := bot.GetBotIdentity(1).UserID
	bot3 := bot.GetBotIdentity(2).UserID
	bot4 := bot.GetBotIdentity(3).UserID

	tests := []struct {
		name  string
		seats []string
		want  bool
	}{
		{
			name:  "BotsOnly",
			seats: []string{bot1, bot2, bot3, bot4},
			want:  true,
		},
		{
			name:  "BotsAndEmpty",
			seats: []string{bot1, "", bot3, ""},
			want:  true,
		},
		{
			name:  "HumansPresent",
			seats: []string{bot1, "user-1", "", ""},
			want:  false,
		},
		{
			name:  "AllEmpty",
			seats: []string{"", "", "", ""},
			want:  true,
		},
	}

	for _, test := range tests {
		test := test
		t.Run(test.name, func(t *testing.T) {
			if got := shouldTerminateNoHumans(test.seats); got != test.want {
				t.Fatalf("shouldTerminateNoHumans() = %t, want %t", got, test.want)
			}
		})
	}
}

func TestMatchLabelMarshal(t *testing.T) {
	tests := []struct {
		name     string
		label    MatchLabel
		expected string
	}{
		{
			name:     "LobbyPhase",
			label:    MatchLabel{Open: 3, Game: MatchLabelGame, Phase: "lobby"},
			expected: `{"open":3,"game":"carioca","phase":"lobby"}`,
		},
		{
			name:     "PlayingPhase",
			label:    MatchLabel{Open: 0, Game: MatchLabelGame, Phase: "playing"},
			expected: `{"open":0,"game":"carioca","phase":"playing"}`,
		},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			payload, err := json.Marshal(test.label)
			if err != nil {
				t.Fatalf("Failed to marshal label: %v", err)
			}
			if string(payload) != test.expected {
				t.Errorf("Got %s, want %s", payload, test.expected)
			}
		})
	}
}

func TestEventOpCodeCoversAllKinds(t *testing.T) {
	kinds := []app.EventKind{
		app.EventPlayerJoined,
		app.EventPlayerLeft,
		app.EventGameStarted,
		app.EventHandDealt,
		app.EventCardDrawn,
		app.EventDrawAnnounced,
		app.EventCardDiscarded,
		app.EventHandDropped,
		app.EventCardShed,
		app.EventTurnChanged,
		app.EventRoundEnded,
		app.EventGameEnded,
	}
	seen := make(map[int64]app.EventKind)
	for _, kind := range kinds {
		op, ok := eventOpCode(kind)
		if !ok {
			t.Fatalf("eventOpCode(%s) has no mapping", kind)
		}
		if prev, dup := seen[op]; dup {
			t.Fatalf("opcode %d assigned to both %s and %s", op, prev, kind)
		}
		seen[op] = kind
	}
}

func TestProcessBotsAddsBotsForSoloHuman(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:                [4]string{"user-1", "", "", ""},
		Presences:            make(map[string]runtime.Presence),
		App:                  app.NewService(nil),
		Bots:                 make(map[string]*bot.Agent),
		BotMinDelay:          1,
		BotMaxDelay:          3,
		BotAutoFillDelay:     2,
		LastSinglePlayerTick: 8,
		Tick:                 10,
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	botCount := 0
	for _, seat := range state.Seats {
		if isBotUserId(seat) {
			botCount++
		}
	}

	if botCount != 3 {
		t.Fatalf("Expected 3 bots, got %d", botCount)
	}
	if state.GetOpenSeatsCount() != 0 {
		t.Fatalf("Expected no open seats after auto-fill, got %d", state.GetOpenSeatsCount())
	}
	if state.LastSinglePlayerTick != 0 {
		t.Fatalf("Expected auto-fill timer reset, got %d", state.LastSinglePlayerTick)
	}
	if len(state.Bots) != 3 {
		t.Fatalf("Expected 3 bot agents, got %d", len(state.Bots))
	}
	if dispatcher.broadcastCount == 0 || dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected match state broadcast and label update after auto-fill")
	}
}

func TestProcessBotsWaitsForAutoFillDelay(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:            [4]string{"user-1", "", "", ""},
		Presences:        make(map[string]runtime.Presence),
		App:              app.NewService(nil),
		Bots:             make(map[string]*bot.Agent),
		BotAutoFillDelay: 5,
		Tick:             10,
	}

	handler.processBots(context.Background(), state, dispatcher, noopLogger{})

	if state.LastSinglePlayerTick != 10 {
		t.Fatalf("Expected auto-fill timer to start at tick 10, got %d", state.LastSinglePlayerTick)
	}
	for _, seat := range state.Seats[1:] {
		if seat != "" {
			t.Fatalf("Expected no bots before the delay elapses, seat %q filled", seat)
		}
	}
}

func TestBroadcastMatchState(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	botID := bot.GetBotIdentity(0).UserID
	state := &MatchState{
		Seats:     [4]string{"user-1", botID, "", ""},
		OwnerSeat: 0,
		Tick:      42,
		Presences: make(map[string]runtime.Presence),
	}

	handler.broadcastMatchState(state, dispatcher, noopLogger{})

	if dispatcher.lastOpCode != OpMatchSnapshot {
		t.Fatalf("Expected opcode %d, got %d", OpMatchSnapshot, dispatcher.lastOpCode)
	}
	if len(dispatcher.lastData) == 0 {
		t.Fatalf("Expected snapshot payload to be broadcast")
	}

	var snapshot MatchSnapshot
	if err := json.Unmarshal(dispatcher.lastData, &snapshot); err != nil {
		t.Fatalf("Failed to unmarshal snapshot: %v", err)
	}

	if snapshot.Phase != domain.PhaseLobby {
		t.Fatalf("Expected lobby phase, got %s", snapshot.Phase)
	}
	if len(snapshot.Players) != 2 {
		t.Fatalf("Expected 2 players in snapshot, got %d", len(snapshot.Players))
	}
	if !snapshot.Players[0].IsOwner {
		t.Fatalf("Expected seat 0 to be owner")
	}
	if !snapshot.Players[1].IsBot {
		t.Fatalf("Expected seat 1 to be flagged as bot")
	}
	if snapshot.Players[1].DisplayName != bot.GetBotDisplayName(botID) {
		t.Fatalf("Expected bot display name %q, got %q", bot.GetBotDisplayName(botID), snapshot.Players[1].DisplayName)
	}
}

func TestApplyBotMoveDrawsAndDiscards(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	botID := bot.GetBotIdentity(0).UserID

	state := &MatchState{
		Seats:     [4]string{botID, "user-1", "", ""},
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Bots:      make(map[string]*bot.Agent),
	}

	game, _, err := state.App.StartGame(state.Seats[:])
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	state.Game = game

	if err := handler.applyBotMove(context.Background(), state, dispatcher, noopLogger{}, botID, bot.Move{Kind: bot.MoveDrawStock}); err != nil {
		t.Fatalf("applyBotMove(draw) error = %v", err)
	}
	if got := len(game.PlayerByID(botID).Hand); got != 13 {
		t.Fatalf("Expected 13 cards after draw, got %d", got)
	}

	if err := handler.applyBotMove(context.Background(), state, dispatcher, noopLogger{}, botID, bot.Move{Kind: bot.MoveDiscard, CardIndex: 0}); err != nil {
		t.Fatalf("applyBotMove(discard) error = %v", err)
	}
	if got := len(game.PlayerByID(botID).Hand); got != 12 {
		t.Fatalf("Expected 12 cards after discard, got %d", got)
	}
	if game.CurrentPlayer().UserID != "user-1" {
		t.Fatalf("Expected turn to pass to user-1, got %s", game.CurrentPlayer().UserID)
	}

	// An illegal follow-up move surfaces the service error to the caller.
	if err := handler.applyBotMove(context.Background(), state, dispatcher, noopLogger{}, botID, bot.Move{Kind: bot.MoveDrawStock}); err == nil {
		t.Fatalf("Expected out-of-turn draw to fail")
	}
}

func TestSettleGameEndAwardsWinner(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	economy := &mockEconomy{}
	state := &MatchState{
		Seats:     [4]string{"user-1", "user-2", "", ""},
		Presences: make(map[string]runtime.Presence),
		Game:      &domain.Game{Phase: domain.PhaseEnded},
		Economy:   economy,
	}

	ev := app.Event{
		Kind: app.EventGameEnded,
		Payload: app.GameEndedPayload{
			WinnerID: "user-1",
			Standings: []app.PlayerScore{
				{UserID: "user-1", TotalPoints: 35},
				{UserID: "user-2", TotalPoints: 80},
			},
		},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if len(economy.updates) != 1 {
		t.Fatalf("Expected 1 wallet update, got %d", len(economy.updates))
	}
	if economy.updates[0].UserID != "user-1" || economy.updates[0].Amount != WinnerChipReward {
		t.Fatalf("Expected %d chips for user-1, got %d for %s", WinnerChipReward, economy.updates[0].Amount, economy.updates[0].UserID)
	}
	if state.Game != nil {
		t.Fatalf("Expected game state cleared after game end")
	}
	if dispatcher.labelUpdates == 0 {
		t.Fatalf("Expected label update back to lobby")
	}
	if dispatcher.lastOpCode != OpGameEnded {
		t.Fatalf("Expected opcode %d, got %d", OpGameEnded, dispatcher.lastOpCode)
	}
}

func TestSettleGameEndSkipsBotWinner(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	economy := &mockEconomy{}
	botID := bot.GetBotIdentity(0).UserID
	state := &MatchState{
		Seats:     [4]string{"user-1", botID, "", ""},
		Presences: make(map[string]runtime.Presence),
		Game:      &domain.Game{Phase: domain.PhaseEnded},
		Economy:   economy,
	}

	ev := app.Event{
		Kind:    app.EventGameEnded,
		Payload: app.GameEndedPayload{WinnerID: botID},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if len(economy.updates) != 0 {
		t.Fatalf("Expected no wallet updates for a bot winner, got %d", len(economy.updates))
	}
	if state.Game != nil {
		t.Fatalf("Expected game state cleared after game end")
	}
}

func TestProcessTurnClockForcesStalledTurn(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	state := &MatchState{
		Seats:     [4]string{"user-1", "user-2", "", ""},
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		Tick:      100,
	}

	game, _, err := state.App.StartGame(state.Seats[:])
	if err != nil {
		t.Fatalf("StartGame() error = %v", err)
	}
	state.Game = game

	// First observation of the turn only starts the clock.
	handler.processTurnClock(context.Background(), state, dispatcher, noopLogger{})
	if state.TurnPlayerID != "user-1" {
		t.Fatalf("Expected turn clock for user-1, got %q", state.TurnPlayerID)
	}
	if state.TurnDeadlineTick <= state.Tick {
		t.Fatalf("Expected deadline after tick %d, got %d", state.Tick, state.TurnDeadlineTick)
	}
	if game.CurrentPlayer().UserID != "user-1" {
		t.Fatalf("Expected user-1 to still hold the turn")
	}

	// Past the deadline the turn is played out for them.
	state.Tick = state.TurnDeadlineTick
	handler.processTurnClock(context.Background(), state, dispatcher, noopLogger{})

	if game.CurrentPlayer().UserID != "user-2" {
		t.Fatalf("Expected turn forced over to user-2, got %s", game.CurrentPlayer().UserID)
	}
	if got := len(game.PlayerByID("user-1").Hand); got != 12 {
		t.Fatalf("Expected 12 cards after forced draw and discard, got %d", got)
	}
	if dispatcher.broadcastCount == 0 {
		t.Fatalf("Expected forced moves to be broadcast")
	}
}

func TestBroadcastEventSuppressesTargetedWithNoPresence(t *testing.T) {
	handler := &matchHandler{}
	dispatcher := &mockDispatcher{}
	botID := bot.GetBotIdentity(0).UserID
	state := &MatchState{
		Presences: make(map[string]runtime.Presence),
	}

	// A private hand intended for a bot must not leak to other clients.
	ev := app.Event{
		Kind:       app.EventHandDealt,
		Payload:    app.HandDealtPayload{UserID: botID},
		Recipients: []string{botID},
	}
	handler.broadcastEvent(context.Background(), state, dispatcher, noopLogger{}, ev)

	if dispatcher.broadcastCount != 0 {
		t.Fatalf("Expected no broadcast for targeted event with no connected recipient, got %d", dispatcher.broadcastCount)
	}
}

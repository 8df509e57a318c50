package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"math/rand"
	"strconv"
	"time"

	"carioca/internal/app"
	"carioca/internal/bot"
	"carioca/internal/config"
	"carioca/internal/domain"
	"carioca/internal/ports"

	"github.com/heroiclabs/nakama-common/runtime"
)

// MatchState holds the authoritative runtime state for the Nakama match handler.
type MatchState struct {
	Seats     [4]string                   `json:"seats"`      // Array of user IDs, empty string means seat is empty
	OwnerSeat int                         `json:"owner_seat"` // Seat index of the match owner
	Tick      int64                       `json:"tick"`       // Current tick of the match for timer logic
	Presences map[string]runtime.Presence `json:"-"`          // Map UserId -> Presence for targeted messaging
	App       *app.Service                `json:"-"`          // Carioca app service with game logic
	Game      *domain.Game                `json:"-"`          // Current active game state (nil if in lobby)

	BotsEnabled          bool                  `json:"bots_enabled"`            // Whether AI players are allowed
	BotMinDelay          int                   `json:"bot_min_delay"`           // Min seconds a bot waits between moves
	BotMaxDelay          int                   `json:"bot_max_delay"`           // Max seconds a bot waits between moves
	BotAutoFillDelay     int                   `json:"bot_auto_fill_delay"`     // Seconds to wait before auto-filling with bots
	BotWaitUntil         int64                 `json:"bot_wait_until"`          // Tick when the bot should act
	LastSinglePlayerTick int64                 `json:"last_single_player_tick"` // Tick when a single player started waiting
	TurnPlayerID         string                `json:"turn_player_id"`          // Whose turn clock is running
	TurnDeadlineTick     int64                 `json:"turn_deadline_tick"`      // Tick when the current turn is forfeited
	Bots                 map[string]*bot.Agent `json:"-"`                       // Active bot agents
	Economy              ports.EconomyPort     `json:"-"`                       // Interface to Nakama wallet
}

func (ms *MatchState) GetOpenSeatsCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat == "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetOccupiedSeatCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" {
			count++
		}
	}
	return count
}

func (ms *MatchState) GetHumanPlayerCount() int {
	count := 0
	for _, seat := range ms.Seats {
		if seat != "" && !isBotUserId(seat) {
			count++
		}
	}
	return count
}

// isBotUserId reports whether the given user id represents a bot seat.
func isBotUserId(userId string) bool {
	return bot.IsBot(userId)
}

// isHumanSeat reports whether the seat index belongs to a human player.
func isHumanSeat(seats []string, seatIndex int) bool {
	if seatIndex < 0 || seatIndex >= len(seats) {
		return false
	}
	userId := seats[seatIndex]
	return userId != "" && !isBotUserId(userId)
}

// findFirstHumanSeat returns the first seat index with a human occupant or -1 if none exist.
func findFirstHumanSeat(seats []string) int {
	for i, userId := range seats {
		if userId != "" && !isBotUserId(userId) {
			return i
		}
	}
	return -1
}

// shouldTerminateNoHumans returns true when there are no humans in the match.
func shouldTerminateNoHumans(seats []string) bool {
	return findFirstHumanSeat(seats) == -1
}

func newMatchHandler() runtime.Match {
	return &matchHandler{}
}

type matchHandler struct{}

// MatchInit is called when the match is created.
func (mh *matchHandler) MatchInit(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, params map[string]interface{}) (interface{}, int, string) {
	logger.Debug("MatchInit: Initializing match handler.")

	// Load bot identities from data folder
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("MatchInit: Could not load bot identities: %v", err)
	}

	// Load tunable game settings
	if err := config.LoadGameConfig("data/game_config.json"); err != nil {
		logger.Warn("MatchInit: Could not load game config: %v", err)
	}

	state := &MatchState{
		Tick:      time.Now().Unix(),
		Presences: make(map[string]runtime.Presence),
		App:       app.NewService(nil),
		OwnerSeat: -1,
		Bots:      make(map[string]*bot.Agent),
		Economy:   NewNakamaEconomyAdapter(nk),
	}

	// Read environment variables for bot configuration
	env := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	if val, ok := env["carioca_bots_enabled"]; ok {
		state.BotsEnabled = val == "true"
	}
	if val, ok := env["carioca_bot_min_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMinDelay = i
		}
	}
	if val, ok := env["carioca_bot_max_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotMaxDelay = i
		}
	}
	if val, ok := env["carioca_bot_auto_fill_delay_sec"]; ok {
		if i, err := strconv.Atoi(val); err == nil {
			state.BotAutoFillDelay = i
		}
	}

	// Defaults come from the config file when the env leaves them unset
	if state.BotMinDelay == 0 {
		state.BotMinDelay = config.BotMinDelay()
	}
	if state.BotMaxDelay == 0 {
		state.BotMaxDelay = config.BotMaxDelay()
	}
	if state.BotAutoFillDelay == 0 {
		state.BotAutoFillDelay = config.BotAutoFillDelay()
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  MatchLabelGame,
		Phase: string(domain.PhaseLobby),
	})
	if err != nil {
		logger.Error("MatchInit: Failed to marshal label: %v", err)
		return nil, 0, ""
	}

	tickRate := 1 // 1 tick per second is enough for a turn-based card game
	return state, tickRate, string(labelBytes)
}

func (mh *matchHandler) MatchJoinAttempt(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presence runtime.Presence, metadata map[string]string) (interface{}, bool, string) {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state, false, "state not found"
	}

	// Allow join if there is an empty seat OR a bot to replace (if game hasn't started)
	if matchState.GetOpenSeatsCount() <= 0 {
		hasBot := false
		if matchState.Game == nil {
			for _, seat := range matchState.Seats {
				if isBotUserId(seat) {
					hasBot = true
					break
				}
			}
		}
		if !hasBot {
			return state, false, "Match full"
		}
	}

	return state, true, ""
}

func (mh *matchHandler) MatchJoin(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchJoin: state not found")
		return state
	}

	for _, p := range presences {
		matchState.Presences[p.GetUserId()] = p

		// Assign seat: Try empty seats first, then bots (if lobby)
		assigned := -1
		for i, seatUserId := range matchState.Seats {
			if seatUserId == "" {
				matchState.Seats[i] = p.GetUserId()
				assigned = i
				break
			}
		}

		if assigned < 0 && matchState.Game == nil {
			for i, seatUserId := range matchState.Seats {
				if isBotUserId(seatUserId) {
					logger.Info("MatchJoin: Replacing bot %s with human %s in seat %d", seatUserId, p.GetUserId(), i)
					delete(matchState.Bots, seatUserId)
					matchState.Seats[i] = p.GetUserId()
					assigned = i
					break
				}
			}
		}

		if assigned < 0 {
			logger.Warn("MatchJoin: User %s joined but no seat (empty or bot) was available.", p.GetUserId())
			continue
		}

		mh.broadcastJSON(dispatcher, logger, OpPlayerJoined, app.PlayerJoinedPayload{
			UserID: p.GetUserId(),
			Seat:   assigned,
			Owner:  assigned == matchState.OwnerSeat,
		}, nil)
	}

	// Ensure owner seat is assigned to a human player only.
	if !isHumanSeat(matchState.Seats[:], matchState.OwnerSeat) {
		matchState.OwnerSeat = findFirstHumanSeat(matchState.Seats[:])
		if matchState.OwnerSeat >= 0 {
			logger.Debug("MatchJoin: Owner set to human seat %d.", matchState.OwnerSeat)
		}
	}

	mh.updateLabel(matchState, dispatcher, logger)

	// Broadcast the current match state to all presences after join.
	mh.broadcastMatchState(matchState, dispatcher, logger)

	return matchState
}

// MatchLeave is called when one or more players leave the match.
func (mh *matchHandler) MatchLeave(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, presences []runtime.Presence) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		logger.Error("MatchLeave: state not found")
		return state
	}

	ownerLeft := false
	for _, p := range presences {
		delete(matchState.Presences, p.GetUserId())

		for i, seatUserId := range matchState.Seats {
			if seatUserId == p.GetUserId() {
				matchState.Seats[i] = ""
				logger.Debug("MatchLeave: User %s left, seat %d freed.", p.GetUserId(), i)

				if matchState.OwnerSeat == i {
					ownerLeft = true
				}
				break
			}
		}

		mh.broadcastJSON(dispatcher, logger, OpPlayerLeft, app.PlayerLeftPayload{
			UserID: p.GetUserId(),
		}, nil)
	}

	newOwnerSeat := findFirstHumanSeat(matchState.Seats[:])
	if newOwnerSeat != matchState.OwnerSeat {
		matchState.OwnerSeat = newOwnerSeat
		if newOwnerSeat >= 0 {
			logger.Debug("MatchLeave: Owner set to human seat %d.", newOwnerSeat)
		} else if ownerLeft {
			logger.Debug("MatchLeave: Owner left and no human owner is available.")
		}
	}

	if shouldTerminateNoHumans(matchState.Seats[:]) {
		logger.Info("MatchLeave: Terminating match with no humans.")
		return nil
	}

	mh.updateLabel(matchState, dispatcher, logger)

	return matchState
}

func (mh *matchHandler) MatchLoop(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, messages []runtime.MatchData) interface{} {
	matchState, ok := state.(*MatchState)
	if !ok {
		return state
	}

	matchState.Tick = tick

	for _, msg := range messages {
		switch msg.GetOpCode() {
		case OpStartGame:
			mh.handleStartGame(ctx, matchState, dispatcher, logger, msg)
		case OpDrawStock:
			mh.handleDraw(ctx, matchState, dispatcher, logger, msg, app.DrawSourceStock)
		case OpDrawDiscard:
			mh.handleDraw(ctx, matchState, dispatcher, logger, msg, app.DrawSourceDiscard)
		case OpDiscard:
			mh.handleDiscard(ctx, matchState, dispatcher, logger, msg)
		case OpDropHand:
			mh.handleDropHand(ctx, matchState, dispatcher, logger, msg)
		case OpShedCard:
			mh.handleShedCard(ctx, matchState, dispatcher, logger, msg)
		case OpReorderHand:
			mh.handleReorderHand(ctx, matchState, dispatcher, logger, msg)
		default:
			logger.Warn("MatchLoop: Unknown opcode received: %d", msg.GetOpCode())
		}
	}

	if matchState.BotsEnabled {
		mh.processBots(ctx, matchState, dispatcher, logger)
	}

	mh.processTurnClock(ctx, matchState, dispatcher, logger)

	return matchState
}

// processTurnClock forfeits the turn of a human who stalls past the
/// configured turn duration: a forced stock draw (when needed) followed by
// discarding the first card. Bots pace themselves in processBots.
func (mh *matchHandler) processTurnClock(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	if state.Game == nil || state.Game.Phase != domain.PhasePlaying {
		state.TurnPlayerID = ""
		return
	}

	current := state.Game.CurrentPlayer()
	if current == nil {
		return
	}

	if state.TurnPlayerID != current.UserID {
		state.TurnPlayerID = current.UserID
		state.TurnDeadlineTick = state.Tick + int64(config.TurnDuration())
		return
	}

	if isBotUserId(current.UserID) || state.Tick < state.TurnDeadlineTick {
		return
	}

	logger.Info("processTurnClock: Forcing move for stalled player %s.", current.UserID)

	if !state.Game.TurnHasDrawn {
		events, err := state.App.DrawFromStock(state.Game, current.UserID)
		if err != nil {
			logger.Warn("processTurnClock: Forced draw failed: %v", err)
			return
		}
		for _, ev := range events {
			mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
		}
	}

	events, err := state.App.Discard(state.Game, current.UserID, 0)
	if err != nil {
		logger.Warn("processTurnClock: Forced discard failed: %v", err)
		return
	}
	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	// Restart the clock even if the round handed the turn back to the
	// same player.
	state.TurnPlayerID = ""
}

func (mh *matchHandler) processBots(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	// 1. Auto-fill lobby with bots if there's only one human player after delay
	if state.Game == nil {
		humanCount := state.GetHumanPlayerCount()
		if humanCount == 1 {
			if state.LastSinglePlayerTick == 0 {
				state.LastSinglePlayerTick = state.Tick
				logger.Debug("processBots: Single player detected, starting auto-fill timer.")
			}

			if state.Tick-state.LastSinglePlayerTick >= int64(state.BotAutoFillDelay) {
				added := false
				for i, seat := range state.Seats {
					if seat == "" {
						identity := bot.GetBotIdentity(i)
						botID := identity.UserID
						state.Seats[i] = botID

						agent, err := bot.NewAgent(botID)
						if err != nil {
							logger.Error("Failed to create bot agent for %s: %v", botID, err)
						} else {
							state.Bots[botID] = agent
						}

						logger.Info("processBots: Added bot %s (%s) to seat %d", identity.Username, botID, i)
						added = true
					}
				}
				if added {
					mh.updateLabel(state, dispatcher, logger)
					mh.broadcastMatchState(state, dispatcher, logger)
				}
				state.LastSinglePlayerTick = 0
			}
		} else {
			// Reset timer if 0 or >1 humans
			state.LastSinglePlayerTick = 0
		}
	}

	// 2. Handle bot turns in-game. A Carioca turn is several moves (draw,
	// optional drop and sheds, discard), so the bot acts one move per
	// activation with a fresh thinking delay before each.
	if state.Game != nil && state.Game.Phase == domain.PhasePlaying {
		currentUserID := state.Game.CurrentPlayer().UserID

		if isBotUserId(currentUserID) {
			if state.BotWaitUntil == 0 {
				delay := rand.Intn(state.BotMaxDelay-state.BotMinDelay+1) + state.BotMinDelay
				state.BotWaitUntil = state.Tick + int64(delay)
				logger.Debug("processBots: Bot %s will act at tick %d (current %d)", currentUserID, state.BotWaitUntil, state.Tick)
			}

			if state.Tick >= state.BotWaitUntil {
				state.BotWaitUntil = 0 // Reset for next move

				agent, exists := state.Bots[currentUserID]
				if !exists {
					// Fallback if agent missing (shouldn't happen for new bots)
					var err error
					agent, err = bot.NewAgent(currentUserID)
					if err != nil {
						logger.Error("processBots: Failed to create fallback agent: %v", err)
						return
					}
					state.Bots[currentUserID] = agent
				}

				move, ok, err := agent.Play(state.Game)
				if err != nil {
					logger.Error("processBots: Bot %s failed to calculate move: %v", currentUserID, err)
					return
				}
				if !ok {
					return
				}

				if err := mh.applyBotMove(ctx, state, dispatcher, logger, currentUserID, move); err != nil {
					logger.Warn("processBots: Bot %s move rejected: %v", currentUserID, err)
				}
			}
		} else {
			// Not a bot turn, reset wait if it was set
			state.BotWaitUntil = 0
		}
	}
}

// applyBotMove routes a bot decision through the same app service the
// human handlers use.
func (mh *matchHandler) applyBotMove(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, move bot.Move) error {
	var events []app.Event
	var err error

	switch move.Kind {
	case bot.MoveDrawStock:
		events, err = state.App.DrawFromStock(state.Game, userID)
	case bot.MoveDrawDiscard:
		events, err = state.App.DrawFromDiscard(state.Game, userID)
	case bot.MoveDiscard:
		events, err = state.App.Discard(state.Game, userID, move.CardIndex)
	case bot.MoveDropHand:
		events, err = state.App.DropHand(state.Game, userID, move.Combos)
	case bot.MoveShed:
		events, err = state.App.ShedCard(state.Game, userID, move.CardIndex, move.TargetUserID, move.MeldIndex)
	}
	if err != nil {
		return err
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
	return nil
}

func (mh *matchHandler) broadcastMatchState(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	var players []PlayerSummary
	for i, userId := range state.Seats {
		if userId == "" {
			continue
		}

		displayName := userId
		if p, exists := state.Presences[userId]; exists {
			displayName = p.GetUsername()
		} else if name := bot.GetBotDisplayName(userId); name != "" {
			displayName = name
		}

		summary := PlayerSummary{
			UserID:      userId,
			Seat:        i,
			IsOwner:     i == state.OwnerSeat,
			DisplayName: displayName,
			IsBot:       isBotUserId(userId),
		}
		if state.Game != nil {
			if pl := state.Game.PlayerByID(userId); pl != nil {
				summary.CardsRemaining = len(pl.Hand)
				summary.HasDropped = pl.HasDropped
				summary.Points = pl.Points
			}
		}
		players = append(players, summary)
	}

	snapshot := MatchSnapshot{
		Seats:     state.Seats[:],
		OwnerSeat: state.OwnerSeat,
		Tick:      state.Tick,
		Phase:     domain.PhaseLobby,
		Players:   players,
	}
	if state.Game != nil {
		snapshot.Phase = state.Game.Phase
		snapshot.RoundIndex = state.Game.RoundIndex
		snapshot.RoundName = state.Game.Round.Description()
	}

	mh.broadcastJSON(dispatcher, logger, OpMatchSnapshot, snapshot, nil)
}

func (mh *matchHandler) senderSeat(state *MatchState, userID string) int {
	for i, seatUserId := range state.Seats {
		if seatUserId == userID {
			return i
		}
	}
	return -1
}

func (mh *matchHandler) handleStartGame(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	senderSeat := mh.senderSeat(state, senderID)

	logger.Info("StartGame: Request received from %s (seat=%d, owner_seat=%d, occupied=%d)", senderID, senderSeat, state.OwnerSeat, state.GetOccupiedSeatCount())

	if state.Game != nil {
		logger.Warn("StartGame: Game already in progress.")
		mh.sendError(state, dispatcher, logger, senderID, 400, "game already started")
		return
	}

	if senderSeat != state.OwnerSeat {
		logger.Warn("StartGame: User %s tried to start game but is not owner (owner_seat=%d)", senderID, state.OwnerSeat)
		mh.sendError(state, dispatcher, logger, senderID, 403, "only the match owner can start the game")
		return
	}

	activeCount := state.GetOccupiedSeatCount()
	if activeCount < app.MinPlayersToStartGame {
		logger.Warn("StartGame: Cannot start with %d players. Need at least %d.", activeCount, app.MinPlayersToStartGame)
		mh.sendError(state, dispatcher, logger, senderID, 400, "not enough players")
		return
	}

	game, events, err := state.App.StartGame(state.Seats[:])
	if err != nil {
		logger.Error("StartGame: Failed to start game: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	// Store the authoritative game state
	state.Game = game

	mh.updateLabel(state, dispatcher, logger)

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}

	logger.Info("StartGame: Game started with %d players, round %q.", activeCount, game.Round.Description())
}

func (mh *matchHandler) handleDraw(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData, source app.DrawSource) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDraw: Game not started.")
		return
	}

	var events []app.Event
	var err error
	if source == app.DrawSourceDiscard {
		events, err = state.App.DrawFromDiscard(state.Game, senderID)
	} else {
		events, err = state.App.DrawFromStock(state.Game, senderID)
	}
	if err != nil {
		logger.Warn("handleDraw: User %s failed to draw from %s: %v", senderID, source, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDiscard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDiscard: Game not started.")
		return
	}

	var request DiscardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleDiscard: Failed to unmarshal DiscardRequest: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	events, err := state.App.Discard(state.Game, senderID, request.CardIndex)
	if err != nil {
		logger.Warn("handleDiscard: User %s failed to discard index %d: %v", senderID, request.CardIndex, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleDropHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleDropHand: Game not started.")
		return
	}

	var request DropHandRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleDropHand: Failed to unmarshal DropHandRequest: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	events, err := state.App.DropHand(state.Game, senderID, request.Combos)
	if err != nil {
		var hand []domain.Card
		if pl := state.Game.PlayerByID(senderID); pl != nil {
			hand = pl.Hand
		}
		logger.Warn("handleDropHand: User %s failed to drop hand: %v. Requested: %+v, Hand: %+v", senderID, err, request.Combos, hand)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleShedCard(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleShedCard: Game not started.")
		return
	}

	var request ShedCardRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleShedCard: Failed to unmarshal ShedCardRequest: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	events, err := state.App.ShedCard(state.Game, senderID, request.HandIndex, request.TargetUserID, request.MeldIndex)
	if err != nil {
		logger.Warn("handleShedCard: User %s failed to shed card: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}

	for _, ev := range events {
		mh.broadcastEvent(ctx, state, dispatcher, logger, ev)
	}
}

func (mh *matchHandler) handleReorderHand(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, msg runtime.MatchData) {
	senderID := msg.GetUserId()
	if state.Game == nil {
		logger.Warn("handleReorderHand: Game not started.")
		return
	}

	var request ReorderHandRequest
	if err := json.Unmarshal(msg.GetData(), &request); err != nil {
		logger.Error("handleReorderHand: Failed to unmarshal ReorderHandRequest: %v", err)
		mh.sendError(state, dispatcher, logger, senderID, 400, "invalid payload")
		return
	}

	if err := state.App.ReorderHand(state.Game, senderID, request.Hand); err != nil {
		logger.Warn("handleReorderHand: User %s failed to reorder hand: %v", senderID, err)
		mh.sendError(state, dispatcher, logger, senderID, 400, err.Error())
		return
	}
}

// broadcastEvent handles the conversion and dispatching of app events to Nakama.
func (mh *matchHandler) broadcastEvent(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	opCode, known := eventOpCode(ev.Kind)
	if !known {
		logger.Warn("Unknown event kind: %v", ev.Kind)
		return
	}

	// Let bot agents observe public events before dispatch.
	if len(ev.Recipients) == 0 {
		for _, agent := range state.Bots {
			agent.OnGameEvent(ev)
		}
	}

	if ev.Kind == app.EventGameEnded {
		mh.settleGameEnd(ctx, state, dispatcher, logger, ev)
	}

	bytes, err := json.Marshal(ev.Payload)
	if err != nil {
		logger.Error("Failed to marshal event %v: %v", ev.Kind, err)
		return
	}

	// Determine recipients (default to broadcast)
	var recipients []runtime.Presence
	if len(ev.Recipients) > 0 {
		for _, uid := range ev.Recipients {
			if p, ok := state.Presences[uid]; ok {
				recipients = append(recipients, p)
			}
		}

		// If we had intended recipients but none are connected (e.g. they are bots),
		// we MUST NOT broadcast to everyone else.
		if len(recipients) == 0 {
			return
		}
	}

	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// settleGameEnd pays out the winner and returns the match to the lobby.
func (mh *matchHandler) settleGameEnd(ctx context.Context, state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, ev app.Event) {
	p, ok := ev.Payload.(app.GameEndedPayload)
	if !ok {
		return
	}

	if state.Economy != nil && p.WinnerID != "" && !isBotUserId(p.WinnerID) {
		updates := []ports.WalletUpdate{
			{
				UserID: p.WinnerID,
				Amount: WinnerChipReward,
				Metadata: map[string]interface{}{
					"match_id": ctx.Value(runtime.RUNTIME_CTX_MATCH_ID),
					"reason":   "game_won",
				},
			},
		}
		if err := state.Economy.UpdateBalances(ctx, updates); err != nil {
			logger.Error("Failed to award winner chips: %v", err)
		}
	}

	// Game ended, clear game state and update label back to lobby
	state.Game = nil
	mh.updateLabel(state, dispatcher, logger)
}

// broadcastJSON marshals payload and dispatches it under opCode.
func (mh *matchHandler) broadcastJSON(dispatcher runtime.MatchDispatcher, logger runtime.Logger, opCode int64, payload interface{}, recipients []runtime.Presence) {
	bytes, err := json.Marshal(payload)
	if err != nil {
		logger.Error("Failed to marshal payload for opcode %d: %v", opCode, err)
		return
	}
	dispatcher.BroadcastMessage(opCode, bytes, recipients, nil, true)
}

// sendError sends a GameErrorEvent to a specific user.
func (mh *matchHandler) sendError(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger, userID string, code int, message string) {
	presence, ok := state.Presences[userID]
	if !ok {
		// Bots read errors from applyBotMove, not the wire.
		return
	}

	mh.broadcastJSON(dispatcher, logger, OpGameError, GameErrorEvent{
		Code:    code,
		Message: message,
	}, []runtime.Presence{presence})
}

func (mh *matchHandler) updateLabel(state *MatchState, dispatcher runtime.MatchDispatcher, logger runtime.Logger) {
	phase := domain.PhaseLobby
	if state.Game != nil {
		phase = state.Game.Phase
	}

	labelBytes, err := json.Marshal(MatchLabel{
		Open:  state.GetOpenSeatsCount(),
		Game:  MatchLabelGame,
		Phase: string(phase),
	})
	if err != nil {
		logger.Error("UpdateLabel: Failed to marshal: %v", err)
		return
	}
	if err := dispatcher.MatchLabelUpdate(string(labelBytes)); err != nil {
		logger.Error("UpdateLabel: Failed to update: %v", err)
	}
}

func (mh *matchHandler) MatchTerminate(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, reason int) interface{} {
	logger.Debug("MatchTerminate: Match terminated for reason %d", reason)
	return state
}

func (mh *matchHandler) MatchSignal(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, dispatcher runtime.MatchDispatcher, tick int64, state interface{}, data string) (interface{}, string) {
	return state, ""
}

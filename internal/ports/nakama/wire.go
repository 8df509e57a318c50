package nakama

import (
	"carioca/internal/app"
	"carioca/internal/domain"
)

// Client request payloads. Card-bearing requests use the same JSON card
// encoding the server emits in events.

type DiscardRequest struct {
	CardIndex int `json:"card_index"`
}

type DropHandRequest struct {
	Combos [][]domain.Card `json:"combos"`
}

type ShedCardRequest struct {
	HandIndex    int    `json:"hand_index"`
	TargetUserID string `json:"target_user_id"`
	MeldIndex    int    `json:"meld_index"`
}

type ReorderHandRequest struct {
	Hand []domain.Card `json:"hand"`
}

// PlayerSummary is the per-seat view included in match snapshots.
type PlayerSummary struct {
	UserID         string `json:"user_id"`
	Seat           int    `json:"seat"`
	IsOwner        bool   `json:"is_owner"`
	DisplayName    string `json:"display_name"`
	CardsRemaining int    `json:"cards_remaining"`
	HasDropped     bool   `json:"has_dropped"`
	Points         int    `json:"points"`
	IsBot          bool   `json:"is_bot"`
}

// MatchSnapshot is broadcast whenever seating changes so clients can
// render the table without replaying the event history.
type MatchSnapshot struct {
	Seats      []string        `json:"seats"`
	OwnerSeat  int             `json:"owner_seat"`
	Tick       int64           `json:"tick"`
	Phase      domain.Phase    `json:"phase"`
	RoundIndex int             `json:"round_index"`
	RoundName  string          `json:"round_name,omitempty"`
	Players    []PlayerSummary `json:"players"`
}

// GameErrorEvent is sent to a single user when their action is rejected.
type GameErrorEvent struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

// MatchLabel is the JSON label Nakama indexes for match listing queries.
type MatchLabel struct {
	Open  int    `json:"open"`
	Game  string `json:"game"`
	Phase string `json:"phase"`
}

// eventOpCode maps an app event kind to its wire op code.
func eventOpCode(kind app.EventKind) (int64, bool) {
	switch kind {
	case app.EventPlayerJoined:
		return OpPlayerJoined, true
	case app.EventPlayerLeft:
		return OpPlayerLeft, true
	case app.EventGameStarted:
		return OpGameStarted, true
	case app.EventHandDealt:
		return OpHandDealt, true
	case app.EventCardDrawn:
		return OpCardDrawn, true
	case app.EventDrawAnnounced:
		return OpDrawAnnounced, true
	case app.EventCardDiscarded:
		return OpCardDiscarded, true
	case app.EventHandDropped:
		return OpHandDropped, true
	case app.EventCardShed:
		return OpCardShed, true
	case app.EventTurnChanged:
		return OpTurnChanged, true
	case app.EventRoundEnded:
		return OpRoundEnded, true
	case app.EventGameEnded:
		return OpGameEnded, true
	}
	return 0, false
}

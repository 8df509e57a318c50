package app

import "carioca/internal/domain"

// EventKind identifies emitted domain events for Nakama dispatch.
type EventKind string

const (
	EventPlayerJoined  EventKind = "player_joined"
	EventPlayerLeft    EventKind = "player_left"
	EventGameStarted   EventKind = "game_started"
	EventHandDealt     EventKind = "hand_dealt"
	EventCardDrawn     EventKind = "card_drawn"
	EventDrawAnnounced EventKind = "draw_announced"
	EventCardDiscarded EventKind = "card_discarded"
	EventHandDropped   EventKind = "hand_dropped"
	EventCardShed      EventKind = "card_shed"
	EventTurnChanged   EventKind = "turn_changed"
	EventRoundEnded    EventKind = "round_ended"
	EventGameEnded     EventKind = "game_ended"
)

// Event is a domain/app event with optional targeted recipients.
type Event struct {
	Kind       EventKind
	Payload    any
	Recipients []string // user IDs; empty means broadcast
}

type PlayerJoinedPayload struct {
	UserID string `json:"user_id"`
	Seat   int    `json:"seat"`
	Owner  bool   `json:"owner"`
}

type PlayerLeftPayload struct {
	UserID string `json:"user_id"`
}

type GameStartedPayload struct {
	Phase           domain.Phase `json:"phase"`
	RoundIndex      int          `json:"round_index"`
	RoundName       string       `json:"round_name"`
	FirstTurnUserID string       `json:"first_turn_user_id"`
}

// HandDealtPayload is sent only to the hand's owner.
type HandDealtPayload struct {
	UserID     string        `json:"user_id"`
	Hand       []domain.Card `json:"hand"`
	RoundIndex int           `json:"round_index"`
}

// CardDrawnPayload is sent only to the drawing player; everyone else
// learns about the draw through DrawAnnouncedPayload.
type CardDrawnPayload struct {
	UserID string      `json:"user_id"`
	Card   domain.Card `json:"card"`
	Source DrawSource  `json:"source"`
}

type DrawAnnouncedPayload struct {
	UserID     string       `json:"user_id"`
	Source     DrawSource   `json:"source"`
	StockCount int          `json:"stock_count"`
	DiscardTop *domain.Card `json:"discard_top,omitempty"`
}

type CardDiscardedPayload struct {
	UserID string      `json:"user_id"`
	Card   domain.Card `json:"card"`
}

type HandDroppedPayload struct {
	UserID string          `json:"user_id"`
	Melds  [][]domain.Card `json:"melds"`
}

type CardShedPayload struct {
	UserID       string              `json:"user_id"`
	Card         domain.Card         `json:"card"`
	TargetUserID string              `json:"target_user_id"`
	MeldIndex    int                 `json:"meld_index"`
	Position     domain.ShedPosition `json:"position"`
}

type TurnChangedPayload struct {
	UserID string `json:"user_id"`
}

// PlayerScore pairs a player with their points for one round and overall.
type PlayerScore struct {
	UserID      string `json:"user_id"`
	RoundPoints int    `json:"round_points"`
	TotalPoints int    `json:"total_points"`
}

type RoundEndedPayload struct {
	RoundIndex     int           `json:"round_index"`
	RoundName      string        `json:"round_name"`
	WinnerID       string        `json:"winner_id"`
	Scores         []PlayerScore `json:"scores"`
	NextRoundIndex int           `json:"next_round_index"`
	NextRoundName  string        `json:"next_round_name,omitempty"`
	GameOver       bool          `json:"game_over"`
}

type GameEndedPayload struct {
	WinnerID  string        `json:"winner_id"`
	Standings []PlayerScore `json:"standings"`
}

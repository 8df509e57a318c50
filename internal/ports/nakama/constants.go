package nakama

const (
	// RpcQuickMatch is the Nakama RPC id clients call to find or create a lobby-capable match.
	RpcQuickMatch = "quick_match"

	// RpcVoiceToken is the Nakama RPC id clients call to obtain voice channel tokens.
	RpcVoiceToken = "voice_token"

	// MatchNameCarioca is the authoritative match handler name registered with Nakama.
	MatchNameCarioca = "carioca_match"

	// WinnerChipReward is credited to the human winner when a game ends.
	WinnerChipReward int64 = 1000
)

// Match label keys used by the quick match query.
const (
	MatchLabelKeyOpen  = "open"
	MatchLabelKeyGame  = "game"
	MatchLabelKeyPhase = "phase"

	MatchLabelGame = "carioca"
)

// Op codes for client messages and server events.
const (
	// Client -> Server
	OpStartGame   int64 = 1
	OpDrawStock   int64 = 2
	OpDrawDiscard int64 = 3
	OpDiscard     int64 = 4
	OpDropHand    int64 = 5
	OpShedCard    int64 = 6
	OpReorderHand int64 = 7

	// Server -> Client events
	OpMatchSnapshot int64 = 100
	OpPlayerJoined  int64 = 101
	OpPlayerLeft    int64 = 102
	OpGameStarted   int64 = 103
	OpHandDealt     int64 = 104 // sent privately
	OpCardDrawn     int64 = 105 // sent privately
	OpDrawAnnounced int64 = 106
	OpCardDiscarded int64 = 107
	OpHandDropped   int64 = 108
	OpCardShed      int64 = 109
	OpTurnChanged   int64 = 110
	OpRoundEnded    int64 = 111
	OpGameEnded     int64 = 112
	OpGameError     int64 = 199
)

package nakama

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"

	"github.com/heroiclabs/nakama-common/runtime"
)

// QuickMatchResponse is the payload returned to clients when requesting a lobby-capable match.
type QuickMatchResponse struct {
	MatchID string `json:"match_id"`
	IsNew   bool   `json:"is_new"`
}

// RegisterRPCs registers Nakama RPC endpoints.
func RegisterRPCs(initializer runtime.Initializer) error {
	if err := initializer.RegisterRpc(RpcQuickMatch, rpcQuickMatch); err != nil {
		return err
	}
	return initializer.RegisterRpc(RpcVoiceToken, rpcVoiceToken)
}

func rpcQuickMatch(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	// Find any match that is our game, still in the lobby, with a free seat.
	query := fmt.Sprintf("+label.%s:>=1 +label.%s:%s +label.%s:lobby",
		MatchLabelKeyOpen, MatchLabelKeyGame, MatchLabelGame, MatchLabelKeyPhase)

	limit := 10
	authoritative := true

	minSize := 1
	maxSize := 3 // ensure < 4 players

	matches, err := nk.MatchList(ctx, limit, authoritative, "", &minSize, &maxSize, query)
	if err != nil {
		logger.Error("MatchList error: %v", err)
		return "", err
	}

	if len(matches) > 0 {
		resp := QuickMatchResponse{MatchID: matches[0].MatchId, IsNew: false}
		b, _ := json.Marshal(resp)
		return string(b), nil
	}

	// Create new match; seat/owner assignment happens in MatchJoin (server-authoritative).
	matchID, err := nk.MatchCreate(ctx, MatchNameCarioca, map[string]interface{}{})
	if err != nil {
		logger.Error("MatchCreate error: %v", err)
		return "", err
	}

	resp := QuickMatchResponse{MatchID: matchID, IsNew: true}
	b, _ := json.Marshal(resp)
	return string(b), nil
}

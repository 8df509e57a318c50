package nakama

import (
	"context"
	"database/sql"
	"encoding/json"

	"carioca/internal/app"
	"carioca/internal/config"

	"github.com/heroiclabs/nakama-common/runtime"
)

// VoiceTokenRequest asks for a signed token to log into voice or join a
// match voice channel.
type VoiceTokenRequest struct {
	Action  string `json:"action"` // "login" or "join"
	MatchID string `json:"match_id,omitempty"`
}

// VoiceTokenResponse carries the signed token back to the client.
type VoiceTokenResponse struct {
	Token string `json:"token"`
}

func rpcVoiceToken(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, payload string) (string, error) {
	userID, _ := ctx.Value(runtime.RUNTIME_CTX_USER_ID).(string)
	if userID == "" {
		return "", runtime.NewError("Authentication required", 16) // UNAUTHENTICATED
	}

	var req VoiceTokenRequest
	if err := json.Unmarshal([]byte(payload), &req); err != nil {
		return "", runtime.NewError("Invalid payload", 3) // INVALID_ARGUMENT
	}

	// The signing secret comes from the server environment; issuer and
	// domain may be overridden by the game config file.
	env, _ := ctx.Value(runtime.RUNTIME_CTX_ENV).(map[string]string)
	secret := env["carioca_voice_secret"]
	issuer := env["carioca_voice_issuer"]
	domain := env["carioca_voice_domain"]
	if cfg := config.GetGameConfig(); cfg != nil {
		if issuer == "" {
			issuer = cfg.VoiceIssuer
		}
		if domain == "" {
			domain = cfg.VoiceDomain
		}
	}
	if secret == "" || issuer == "" || domain == "" {
		logger.Warn("rpcVoiceToken: Voice credentials not configured.")
		return "", runtime.NewError("Voice not configured", 13) // INTERNAL
	}

	svc := app.NewVoiceService(secret, issuer, domain)
	token, err := svc.GenerateToken(userID, req.Action, req.MatchID)
	if err != nil {
		logger.Warn("rpcVoiceToken: Failed to generate token for %s: %v", userID, err)
		return "", runtime.NewError(err.Error(), 3)
	}

	b, _ := json.Marshal(VoiceTokenResponse{Token: token})
	return string(b), nil
}

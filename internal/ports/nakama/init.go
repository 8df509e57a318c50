package nakama

import (
	"context"
	"database/sql"

	"carioca/internal/bot"

	"github.com/heroiclabs/nakama-common/runtime"
)

// InitModule wires RPCs, hooks, and match handlers for Nakama runtime.
func InitModule(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule, initializer runtime.Initializer) error {
	if err := RegisterRPCs(initializer); err != nil {
		return err
	}

	if err := initializer.RegisterAfterAuthenticateDevice(AfterAuthenticateDevice); err != nil {
		return err
	}

	if err := initializer.RegisterMatch(MatchNameCarioca, func(ctx context.Context, logger runtime.Logger, db *sql.DB, nk runtime.NakamaModule) (runtime.Match, error) {
		return newMatchHandler(), nil
	}); err != nil {
		return err
	}

	// Bot accounts must exist so they can appear in match listings and
	// hold seats like any other user.
	if err := bot.LoadIdentities("data/bot_identities.json"); err != nil {
		logger.Warn("InitModule: Could not load bot identities: %v", err)
	} else if err := bot.ProvisionBots(ctx, nk, logger); err != nil {
		logger.Warn("InitModule: Could not provision bot accounts: %v", err)
	}

	logger.Info("Carioca Go module loaded.")
	return nil
}

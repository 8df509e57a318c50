package bot

import (
	"carioca/internal/domain"
)

// Agent represents an autonomous bot player.
type Agent struct {
	ID       string
	Name     string
	Strategy Brain
}

// Play asks the agent to calculate its next move based on the current game
// state. It returns ok=false when the agent has nothing to do, which the
// caller treats as end of turn input.
func (a *Agent) Play(game *domain.Game) (Move, bool, error) {
	player := game.PlayerByID(a.ID)
	if player == nil {
		return Move{}, false, nil
	}
	if game.CurrentPlayer() != player {
		return Move{}, false, nil
	}

	move, err := a.Strategy.CalculateMove(game, player)
	if err != nil {
		return Move{}, false, err
	}
	if move.Kind == 0 {
		return Move{}, false, nil
	}
	return move, true, nil
}

// OnGameEvent notifies the agent of a game event.
func (a *Agent) OnGameEvent(event interface{}) {
	a.Strategy.OnEvent(event)
}

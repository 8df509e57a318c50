package main

import (
	"flag"
	"fmt"
	"math/rand"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"

	"carioca/internal/app"
	"carioca/internal/bot"
	"carioca/internal/domain"
)

const humanID = "you"

const maxBotMovesPerTurn = 32

func main() {
	botsFlag := flag.Int("bots", 2, "number of bot opponents (1-3)")
	levelFlag := flag.String("level", "smart", "bot difficulty: easy, smart, hard")
	seedFlag := flag.Int64("seed", 0, "deck shuffle seed (0 for random)")
	flag.Parse()

	botCount := *botsFlag
	if botCount < 1 || botCount > 3 {
		fmt.Fprintf(os.Stderr, "usage: %s [-bots 1..3] [-level easy|smart|hard] [-seed n]\n", os.Args[0])
		os.Exit(1)
	}

	seed := *seedFlag
	if seed == 0 {
		seed = time.Now().UnixNano()
	}
	rng := rand.New(rand.NewSource(seed))

	pterm.Print("\n")
	title, err := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("C", pterm.FgRed.ToStyle()),
		putils.LettersFromStringWithStyle("arioca", pterm.FgDarkGray.ToStyle()),
	).Srender()
	if err == nil {
		pterm.Print(title)
	}

	name, _ := pterm.DefaultInteractiveTextInput.WithDefaultText("Enter your name").WithDefaultValue("Player").Show()
	pterm.Println()
	pterm.Info.Printfln("Playing against %d %s bots (seed %d)", botCount, *levelFlag, seed)

	level := bot.ParseLevel(*levelFlag)
	table := newTable(name, botCount, level, rng)
	if err := table.run(); err != nil {
		pterm.Error.Printfln("Game aborted: %v", err)
		os.Exit(1)
	}
}

// table drives a single local game: one human seat, the rest bots.
type table struct {
	svc    *app.Service
	game   *domain.Game
	agents map[string]*bot.Agent
	names  map[string]string
}

func newTable(humanName string, botCount int, level bot.BotLevel, rng *rand.Rand) *table {
	t := &table{
		svc:    app.NewService(rng),
		agents: make(map[string]*bot.Agent),
		names:  map[string]string{humanID: humanName},
	}

	seats := []string{humanID}
	for i := 1; i <= botCount; i++ {
		id := "bot-" + strconv.Itoa(i)
		brain, err := bot.NewBrain(level, rng)
		if err != nil {
			panic(err)
		}
		botName := fmt.Sprintf("Bot %d", i)
		t.agents[id] = &bot.Agent{ID: id, Name: botName, Strategy: brain}
		t.names[id] = botName
		seats = append(seats, id)
	}

	game, events, err := t.svc.StartGame(seats)
	if err != nil {
		panic(err)
	}
	t.game = game
	t.reportEvents(events)
	return t
}

func (t *table) run() error {
	for t.game.Phase == domain.PhasePlaying {
		current := t.game.CurrentPlayer()
		if current == nil {
			return fmt.Errorf("no current player")
		}

		if current.UserID == humanID {
			if err := t.humanTurn(current); err != nil {
				return err
			}
			continue
		}

		if err := t.botTurn(current.UserID); err != nil {
			return err
		}
	}

	t.printStandings()
	return nil
}

// humanTurn walks the player through one full turn: a draw, then any
// number of plays until a discard (or going out) passes the turn.
func (t *table) humanTurn(player *domain.Player) error {
	printTable(t.game, t.names, player)

	source, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Draw a card").
		WithOptions(t.drawOptions(player)).
		Show()

	var events []app.Event
	var err error
	if strings.HasPrefix(source, optDrawDiscard) {
		events, err = t.svc.DrawFromDiscard(t.game, humanID)
	} else {
		events, err = t.svc.DrawFromStock(t.game, humanID)
	}
	if err != nil {
		pterm.Warning.Printfln("Draw failed: %v", err)
		return nil
	}
	t.reportEvents(events)

	for t.game.Phase == domain.PhasePlaying && t.game.CurrentPlayer() == player && t.game.TurnHasDrawn {
		printHand(player.Hand)

		action, _ := pterm.DefaultInteractiveSelect.
			WithDefaultText("Your move").
			WithOptions(t.actionOptions(player)).
			Show()

		switch action {
		case optDiscard:
			t.reportEvents(t.doDiscard(player))
		case optDropHand:
			t.reportEvents(t.doDropHand(player))
		case optShedCard:
			t.reportEvents(t.doShedCard(player))
		}
	}
	return nil
}

const (
	optDrawStock   = "Draw from stock"
	optDrawDiscard = "Draw from discard"
	optDiscard     = "Discard a card"
	optDropHand    = "Lay down the contract"
	optShedCard    = "Shed a card onto a meld"
)

func (t *table) drawOptions(player *domain.Player) []string {
	options := []string{optDrawStock}
	if len(t.game.Discard) > 0 && !player.HasDropped {
		top := t.game.Discard[len(t.game.Discard)-1]
		options = append(options, fmt.Sprintf("%s (%s)", optDrawDiscard, cardLabel(top)))
	}
	return options
}

func (t *table) actionOptions(player *domain.Player) []string {
	options := []string{optDiscard}
	if !player.HasDropped {
		reqTrios, reqEscalas := t.game.Round.Requirements()
		if _, ok := domain.FindBestBajada(player.Hand, reqTrios, reqEscalas, false); ok {
			options = append(options, optDropHand)
		}
	} else if t.shedTargets(player) != nil {
		options = append(options, optShedCard)
	}
	return options
}

func (t *table) doDiscard(player *domain.Player) []app.Event {
	idx := pickCard(player.Hand, "Discard which card?")
	events, err := t.svc.Discard(t.game, humanID, idx)
	if err != nil {
		pterm.Warning.Printfln("Discard failed: %v", err)
		return nil
	}
	return events
}

func (t *table) doDropHand(player *domain.Player) []app.Event {
	reqTrios, reqEscalas := t.game.Round.Requirements()
	candidates, ok := domain.FindBestBajada(player.Hand, reqTrios, reqEscalas, false)
	if !ok {
		pterm.Warning.Println("The contract cannot be completed from this hand.")
		return nil
	}

	combos := make([][]domain.Card, len(candidates))
	for i, cand := range candidates {
		for _, idx := range cand.Indices {
			combos[i] = append(combos[i], player.Hand[idx])
		}
	}

	events, err := t.svc.DropHand(t.game, humanID, combos)
	if err != nil {
		pterm.Warning.Printfln("Drop failed: %v", err)
		return nil
	}
	return events
}

// shedTarget identifies one meld on the table a hand card can extend.
type shedTarget struct {
	label     string
	cardIndex int
	ownerID   string
	meldIndex int
}

func (t *table) shedTargets(player *domain.Player) []shedTarget {
	var targets []shedTarget
	for i, card := range player.Hand {
		for _, other := range t.game.Players {
			for m, meld := range other.Melds {
				if _, ok := domain.CanShed(card, meld); ok {
					targets = append(targets, shedTarget{
						label:     fmt.Sprintf("%s onto %s's meld %d", cardLabel(card), t.names[other.UserID], m+1),
						cardIndex: i,
						ownerID:   other.UserID,
						meldIndex: m,
					})
				}
			}
		}
	}
	return targets
}

func (t *table) doShedCard(player *domain.Player) []app.Event {
	targets := t.shedTargets(player)
	if targets == nil {
		pterm.Warning.Println("No card in hand fits any meld.")
		return nil
	}

	options := make([]string, len(targets))
	for i, target := range targets {
		options[i] = target.label
	}
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText("Shed which card?").
		WithOptions(options).
		Show()

	for i, target := range targets {
		if options[i] != choice {
			continue
		}
		events, err := t.svc.ShedCard(t.game, humanID, target.cardIndex, target.ownerID, target.meldIndex)
		if err != nil {
			pterm.Warning.Printfln("Shed failed: %v", err)
			return nil
		}
		return events
	}
	return nil
}

// botTurn lets an agent act until the turn passes to someone else.
func (t *table) botTurn(userID string) error {
	agent := t.agents[userID]
	if agent == nil {
		return fmt.Errorf("no agent for %s", userID)
	}

	for moves := 0; moves < maxBotMovesPerTurn; moves++ {
		if t.game.Phase != domain.PhasePlaying || t.game.CurrentPlayer().UserID != userID {
			return nil
		}

		move, ok, err := agent.Play(t.game)
		if err != nil {
			return fmt.Errorf("bot %s: %w", userID, err)
		}
		if !ok {
			return fmt.Errorf("bot %s has no move", userID)
		}

		events, err := t.applyMove(userID, move)
		if err != nil {
			return fmt.Errorf("bot %s move rejected: %w", userID, err)
		}
		t.reportEvents(events)
	}
	return fmt.Errorf("bot %s exceeded move limit", userID)
}

func (t *table) applyMove(userID string, move bot.Move) ([]app.Event, error) {
	switch move.Kind {
	case bot.MoveDrawStock:
		return t.svc.DrawFromStock(t.game, userID)
	case bot.MoveDrawDiscard:
		return t.svc.DrawFromDiscard(t.game, userID)
	case bot.MoveDiscard:
		return t.svc.Discard(t.game, userID, move.CardIndex)
	case bot.MoveDropHand:
		return t.svc.DropHand(t.game, userID, move.Combos)
	case bot.MoveShed:
		return t.svc.ShedCard(t.game, userID, move.CardIndex, move.TargetUserID, move.MeldIndex)
	}
	return nil, fmt.Errorf("unknown move kind %d", move.Kind)
}

// reportEvents narrates public events; private payloads stay silent since
// the table rendering shows the human hand directly.
func (t *table) reportEvents(events []app.Event) {
	for _, ev := range events {
		switch p := ev.Payload.(type) {
		case app.GameStartedPayload:
			pterm.Info.Printfln("Round %d: %s. %s starts.", p.RoundIndex+1, p.RoundName, t.names[p.FirstTurnUserID])
		case app.DrawAnnouncedPayload:
			pterm.Println(pterm.Gray(fmt.Sprintf("%s drew from the %s pile.", t.names[p.UserID], p.Source)))
		case app.CardDiscardedPayload:
			pterm.Printfln("%s discarded %s.", t.names[p.UserID], cardLabel(p.Card))
		case app.HandDroppedPayload:
			pterm.Success.Printfln("%s laid down the contract!", t.names[p.UserID])
			for _, meld := range p.Melds {
				pterm.Println("  " + meldLabel(meld))
			}
		case app.CardShedPayload:
			pterm.Printfln("%s shed %s onto %s's meld.", t.names[p.UserID], cardLabel(p.Card), t.names[p.TargetUserID])
		case app.RoundEndedPayload:
			printRoundResult(p, t.names)
		case app.GameEndedPayload:
			pterm.Success.Printfln("Game over. %s wins!", t.names[p.WinnerID])
		}
	}
}

func (t *table) printStandings() {
	rows := pterm.TableData{{"Player", "Points"}}
	for _, pl := range t.game.Players {
		rows = append(rows, []string{t.names[pl.UserID], strconv.Itoa(pl.Points)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
}

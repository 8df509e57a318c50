package main

import (
	"fmt"
	"strconv"

	"github.com/pterm/pterm"

	"carioca/internal/app"
	"carioca/internal/domain"
)

// cardLabel renders a card with suit-colored text.
func cardLabel(c domain.Card) string {
	if c.IsJoker() {
		return pterm.LightMagenta("JOKER")
	}
	switch c.Suit {
	case domain.SuitHearts, domain.SuitDiamonds:
		return pterm.LightRed(c.String())
	default:
		return pterm.LightCyan(c.String())
	}
}

func meldLabel(meld []domain.Card) string {
	out := ""
	for i, c := range meld {
		if i > 0 {
			out += " "
		}
		out += cardLabel(c)
	}
	return out
}

// printTable draws the opponents, the piles, and the human hand.
func printTable(game *domain.Game, names map[string]string, human *domain.Player) {
	var opponents []pterm.Panel
	for _, pl := range game.Players {
		if pl == human {
			continue
		}
		opponents = append(opponents, pterm.Panel{Data: opponentBox(pl, names)})
	}

	center := pterm.Panel{Data: pileBox(game)}
	me := pterm.Panel{Data: handBox(human)}

	pterm.DefaultPanel.WithPanels([][]pterm.Panel{
		opponents,
		{center},
		{me},
	}).Render()
}

func opponentBox(pl *domain.Player, names map[string]string) string {
	pbox := pterm.DefaultBox.WithLeftPadding(2).WithRightPadding(2)
	status := fmt.Sprintf("%d cards", len(pl.Hand))
	if pl.HasDropped {
		status += ", " + pterm.LightGreen("down")
		for _, meld := range pl.Melds {
			status += "\n" + meldLabel(meld)
		}
	}
	return pbox.WithTitle(names[pl.UserID]).WithTitleTopLeft().Sprintf("%s\nPoints: %d", status, pl.Points)
}

func pileBox(game *domain.Game) string {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1).WithBottomPadding(1)
	top := "empty"
	if len(game.Discard) > 0 {
		top = cardLabel(game.Discard[len(game.Discard)-1])
	}
	info := fmt.Sprintf("Contract: %s\nStock: %d cards\nDiscard: %s",
		game.Round.Description(), len(game.Stock), top)
	return pbox.WithTitle(pterm.LightYellow("Round "+strconv.Itoa(game.RoundIndex+1))).WithTitleTopCenter().Sprint(info)
}

func handBox(pl *domain.Player) string {
	pbox := pterm.DefaultBox.WithLeftPadding(4).WithRightPadding(4).WithTopPadding(1)
	body := highlightedHand(pl.Hand)
	if pl.HasDropped {
		body += "\n" + pterm.LightGreen("Contract laid down")
		for _, meld := range pl.Melds {
			body += "\n" + meldLabel(meld)
		}
	}
	return pbox.WithTitle("Your hand").WithTitleTopLeft().Sprint(body)
}

// highlightedHand brackets the ranges DetectCombos finds so melds in an
// ordered hand stand out.
func highlightedHand(hand []domain.Card) string {
	combos := domain.DetectCombos(hand)
	inCombo := make(map[int]domain.ComboType, len(hand))
	starts := make(map[int]bool, len(combos))
	ends := make(map[int]bool, len(combos))
	for _, combo := range combos {
		starts[combo.StartIndex] = true
		ends[combo.EndIndex] = true
		for i := combo.StartIndex; i <= combo.EndIndex; i++ {
			inCombo[i] = combo.Type
		}
	}

	out := ""
	for i, c := range hand {
		if i > 0 {
			out += " "
		}
		if starts[i] {
			out += pterm.LightGreen("[")
		}
		out += cardLabel(c)
		if ends[i] {
			out += pterm.LightGreen("]")
		}
	}
	if len(combos) > 0 {
		trios, escalas := 0, 0
		for _, combo := range combos {
			if combo.Type == domain.ComboTrio {
				trios++
			} else {
				escalas++
			}
		}
		out += pterm.Gray(fmt.Sprintf("\nDetected: %d trio(s), %d escala(s)", trios, escalas))
	}
	return out
}

func printHand(hand []domain.Card) {
	pterm.Println("Hand: " + highlightedHand(hand))
}

// pickCard prompts for one card out of the hand and returns its index.
func pickCard(hand []domain.Card, prompt string) int {
	options := make([]string, len(hand))
	for i, c := range hand {
		options[i] = strconv.Itoa(i+1) + ": " + c.String()
	}
	choice, _ := pterm.DefaultInteractiveSelect.
		WithDefaultText(prompt).
		WithOptions(options).
		Show()
	for i, opt := range options {
		if opt == choice {
			return i
		}
	}
	return 0
}

func printRoundResult(p app.RoundEndedPayload, names map[string]string) {
	pterm.Info.Printfln("%s went out and won the round (%s).", names[p.WinnerID], p.RoundName)
	rows := pterm.TableData{{"Player", "Round", "Total"}}
	for _, score := range p.Scores {
		rows = append(rows, []string{names[score.UserID], strconv.Itoa(score.RoundPoints), strconv.Itoa(score.TotalPoints)})
	}
	pterm.DefaultTable.WithHasHeader().WithData(rows).Render()
	if !p.GameOver {
		pterm.Info.Printfln("Next up: %s", p.NextRoundName)
	}
}

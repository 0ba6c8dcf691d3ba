package main

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/pterm/pterm"

	"github.com/magefree/coup-engine-go/internal/game"
	"github.com/magefree/coup-engine-go/internal/game/rules"
	"github.com/magefree/coup-engine-go/internal/game/watchers"
	"github.com/magefree/coup-engine-go/internal/tournament"
)

func printRoundHeader(round, rounds int, gameID string) {
	pterm.DefaultSection.Printfln("Game %d of %d (%s)", round, rounds, gameID)
}

// printEvent writes one line per notable event.
func printEvent(evt rules.Event) {
	switch evt.Type {
	case rules.EventActionDeclared:
		pterm.Info.Printfln("%s declares %s%s", pterm.LightCyan(evt.PlayerID), evt.Data, targetSuffix(evt))
	case rules.EventCounteractionDeclared:
		pterm.Warning.Printfln("%s responds with %s", pterm.LightCyan(evt.PlayerID), evt.Data)
	case rules.EventChallengeWon, rules.EventChallengeLost, rules.EventInfluenceLost,
		rules.EventInfluenceReplaced, rules.EventCardsExchanged:
		pterm.Println("  " + evt.Description)
	case rules.EventPlayerEliminated:
		pterm.Error.Println(evt.Description)
	case rules.EventPlayerDisqualified:
		pterm.Error.Println(evt.Description)
	}
}

func targetSuffix(evt rules.Event) string {
	if evt.TargetID == "" {
		return ""
	}
	return " against " + pterm.LightCyan(evt.TargetID)
}

// printTable renders the public state of every seat.
func printTable(view game.GameView) {
	data := pterm.TableData{{"Player", "Coins", "Influence", "Revealed", "Status"}}
	for _, p := range view.Players {
		status := pterm.LightGreen("In play")
		if !p.Alive {
			status = pterm.LightRed("Out")
		} else if p.Name == view.ActivePlayer {
			status = pterm.LightYellow("Next")
		}
		data = append(data, []string{
			p.Name,
			strconv.Itoa(p.Coins),
			strings.Repeat("■ ", p.InfluenceCount),
			influenceList(p.Revealed),
			status,
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()
	pterm.Printfln("Turn %d  |  Court deck: %d cards", view.Turn, view.DeckSize)
}

func influenceList(cards []game.Influence) string {
	names := make([]string, 0, len(cards))
	for _, c := range cards {
		names = append(names, c.String())
	}
	return strings.Join(names, ", ")
}

func printWinner(name string, turns int) {
	pbox := pterm.DefaultBox.WithHorizontalPadding(4).WithTopPadding(1).WithBottomPadding(1)
	text := "No winner"
	if name != "" {
		text = pterm.Sprintf("%s wins after %d turns", pterm.LightCyan(name), turns)
	}
	pbox.WithTitle(pterm.LightGreen("|GAME OVER|")).WithTitleTopCenter().Println(text)
}

func printRoundSummary(players []*game.Player, challenges *watchers.ChallengeWatcher,
	eliminations *watchers.EliminationWatcher, coins *watchers.CoinFlowWatcher) {
	data := pterm.TableData{{"Player", "Challenges won", "Challenges lost", "Coins gained", "Coins stolen", "Coins spent"}}
	for _, p := range players {
		name := p.Name()
		data = append(data, []string{
			name,
			strconv.Itoa(challenges.Won(name)),
			strconv.Itoa(challenges.Lost(name)),
			strconv.Itoa(coins.Gained(name)),
			strconv.Itoa(coins.Lost(name)),
			strconv.Itoa(coins.Spent(name)),
		})
	}
	_ = pterm.DefaultTable.WithHasHeader().WithData(data).Render()

	order := eliminations.Order()
	for i, name := range order {
		suffix := ""
		if eliminations.WasDisqualified(name) {
			suffix = " (disqualified)"
		}
		order[i] = name + suffix
	}
	if len(order) > 0 {
		pterm.Printfln("Knocked out: %s", strings.Join(order, " -> "))
	}
}

func printStandings(snap tournament.SeriesSnapshot) {
	data := pterm.TableData{{"Player", "Wins", "Points", "Win rate"}}
	for _, st := range snap.Standings {
		data = append(data, []string{
			st.Name,
			strconv.Itoa(st.Wins),
			strconv.Itoa(st.Points),
			fmt.Sprintf("%.0f%%", 100*float64(st.Wins)/float64(snap.NumRounds)),
		})
	}
	pterm.DefaultSection.Println("Standings")
	_ = pterm.DefaultTable.WithHasHeader().WithBoxed().WithData(data).Render()

	abandoned := 0
	for _, r := range snap.Rounds {
		if r.Abandoned {
			abandoned++
		}
	}
	if abandoned > 0 {
		pterm.Warning.Printfln("%d of %d games abandoned at the turn limit", abandoned, snap.NumRounds)
	}
}

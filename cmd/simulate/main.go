package main

import (
	"sort"
	"strconv"

	"bomb_royale/internal/logger"

	"github.com/alecthomas/kong"
	"github.com/pterm/pterm"
)

type CLI struct {
	Players    int    `default:"5" help:"Number of players (2-10)"`
	Seed       string `default:"bomb" help:"Seed; every action derives its entropy from it"`
	Cost       int64  `default:"100" help:"Wager per player"`
	ShieldRisk int    `default:"30" help:"Holders use their shield from this risk on"`
	AfkEvery   int    `default:"0" help:"Every n-th holder goes AFK (0 disables)"`
	MaxTurns   int    `default:"10000" help:"Abort after this many turns"`
	Verbose    bool   `short:"v" help:"Verbose logging"`
}

func main() {
	var cli CLI
	kong.Parse(&cli, kong.Description("Play one seeded Bomb Royale game offline."))

	level := "warn"
	if cli.Verbose {
		level = "debug"
	}
	logger.InitPretty(level)

	res, err := Play(Settings{
		Players:     cli.Players,
		Seed:        cli.Seed,
		Cost:        cli.Cost,
		ShieldRisk:  cli.ShieldRisk,
		AFKEvery:    cli.AfkEvery,
		MaxTurns:    cli.MaxTurns,
		TurnSeconds: 1,
	})
	if err != nil {
		logger.Fatal("simulation failed", "seed", cli.Seed, "error", err)
	}

	pterm.DefaultSection.Printf("seed %q, %d players, wager %d", cli.Seed, cli.Players, cli.Cost)

	rows := pterm.TableData{{"turn", "holder", "risk", "shield", "outcome", "to"}}
	for _, r := range res.Rounds {
		logger.Debug("round", "turn", r.Turn, "holder", r.Holder, "risk", r.Risk, "outcome", r.Outcome)
		to := r.Receiver
		outcome := r.Outcome
		switch r.Outcome {
		case "exploded":
			outcome = pterm.LightRed(r.Outcome)
			to = "looted by " + r.Looter
		case "afk":
			outcome = pterm.Yellow(r.Outcome)
			to = "looted by " + r.Looter
		}
		shield := ""
		if r.Shield {
			shield = pterm.Cyan("yes")
		}
		rows = append(rows, []string{strconv.Itoa(r.Turn), r.Holder, strconv.Itoa(r.Risk), shield, outcome, to})
	}
	if err := pterm.DefaultTable.WithHasHeader().WithData(rows).Render(); err != nil {
		logger.Fatal("render", "error", err)
	}

	looters := make([]string, 0, len(res.Looted))
	for a := range res.Looted {
		looters = append(looters, a)
	}
	sort.Strings(looters)
	summary := pterm.Sprintfln("%s wins %d (fee %d)", pterm.LightGreen(res.Winner), res.Reward, res.Fee)
	for _, a := range looters {
		summary += pterm.Sprintfln("%s looted %d", pterm.LightCyan(a), res.Looted[a])
	}
	pterm.DefaultBox.WithTitle(pterm.LightGreen("|WINNER|")).WithTitleTopCenter().Println(summary)
}

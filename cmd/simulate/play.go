package main

import (
	"fmt"
	"strconv"

	"bomb_royale/internal/game"
)

// Round is one turn of a simulated game.
type Round struct {
	Turn     int
	Holder   string
	Risk     int
	Shield   bool
	Outcome  string
	Receiver string
	Looter   string
}

// Result summarizes a finished simulation.
type Result struct {
	Rounds  []Round
	Winner  string
	Reward  int64
	Fee     int64
	Looted  map[string]int64
	Players []string
}

// Settings drives the simulated players.
type Settings struct {
	Players     int
	Seed        string
	Cost        int64
	ShieldRisk  int // holders shield passes at or above this risk
	AFKEvery    int // every n-th holder goes AFK, 0 disables
	MaxTurns    int
	TurnSeconds int64
}

// entropy mirrors the server: every action draws from a fresh PRNG seeded by
// its own invocation.
func entropy(seed string, turn int, sender string) []byte {
	return []byte(seed + "/" + strconv.Itoa(turn) + "/" + sender)
}

// Play runs one game offline, start to payout.
func Play(s Settings) (*Result, error) {
	if s.Players < game.MinPlayers || s.Players > game.MaxPlayers {
		return nil, fmt.Errorf("players must be between %d and %d", game.MinPlayers, game.MaxPlayers)
	}
	turnLen := s.TurnSeconds * 1000 * 1000
	if turnLen <= 0 {
		turnLen = 1000 * 1000
	}

	var now int64 = 1
	addrs := make([]string, s.Players)
	for i := range addrs {
		addrs[i] = fmt.Sprintf("sim:%02d", i+1)
	}

	g := game.New("sim-"+s.Seed, s.Cost, addrs[0], now)
	for _, a := range addrs {
		if err := g.Join(game.NewPlayer(a)); err != nil {
			return nil, fmt.Errorf("join %s: %w", a, err)
		}
		if err := g.Deposit(s.Cost); err != nil {
			return nil, fmt.Errorf("deposit %s: %w", a, err)
		}
	}
	if err := g.AskReady(addrs[0], now); err != nil {
		return nil, fmt.Errorf("ask ready: %w", err)
	}
	for _, a := range addrs[1:] {
		if err := g.ConfirmReady(a); err != nil {
			return nil, fmt.Errorf("confirm %s: %w", a, err)
		}
	}
	if _, err := g.Start(now, game.NewPRNG(entropy(s.Seed, 0, addrs[0]))); err != nil {
		return nil, fmt.Errorf("start: %w", err)
	}

	res := &Result{Looted: make(map[string]int64), Players: addrs}
	for turn := 1; !g.IsVictory(); turn++ {
		if s.MaxTurns > 0 && turn > s.MaxTurns {
			return nil, fmt.Errorf("no winner after %d turns", s.MaxTurns)
		}
		now += turnLen

		holder := g.PlayerWithBomb()
		if holder == nil {
			return nil, fmt.Errorf("turn %d: bomb not in play", turn)
		}
		bomb, _ := holder.HeldBomb()
		round := Round{Turn: turn, Holder: holder.Address, Risk: bomb.Risk}

		if s.AFKEvery > 0 && turn%s.AFKEvery == 0 {
			now += game.AFKWindow
			round.Outcome = "afk"
		} else {
			round.Shield = holder.HasShield() && bomb.Risk >= s.ShieldRisk
			receiver, err := g.SendBomb(holder.Address, now, round.Shield, game.NewPRNG(entropy(s.Seed, turn, holder.Address)))
			if err != nil {
				return nil, fmt.Errorf("turn %d: send: %w", turn, err)
			}
			if receiver != nil {
				round.Outcome = "pass"
				round.Receiver = receiver.Address
				res.Rounds = append(res.Rounds, round)
				continue
			}
			round.Outcome = "exploded"
		}

		looter := firstAliveExcept(g, holder.Address)
		if looter == "" {
			return nil, fmt.Errorf("turn %d: nobody left to loot", turn)
		}
		if err := g.Loot(looter, holder.Address, now, game.NewPRNG(entropy(s.Seed, turn, looter))); err != nil {
			return nil, fmt.Errorf("turn %d: loot: %w", turn, err)
		}
		reward := g.LootReward()
		if err := g.Withdraw(reward); err != nil {
			return nil, fmt.Errorf("turn %d: loot reward: %w", turn, err)
		}
		res.Looted[looter] += reward
		round.Looter = looter
		res.Rounds = append(res.Rounds, round)
	}

	winner := g.Winner()
	reward := g.WinnerReward()
	fee, err := g.ClaimVictory(winner.Address, reward)
	if err != nil {
		return nil, fmt.Errorf("claim: %w", err)
	}
	res.Winner = winner.Address
	res.Reward = reward
	res.Fee = fee
	return res, nil
}

func firstAliveExcept(g *game.GameState, address string) string {
	for _, p := range g.Players() {
		if p.IsAlive() && p.Address != address {
			return p.Address
		}
	}
	return ""
}

package game

import (
	"encoding/json"
	"fmt"
)

// Record is the stored shape of a game. Field names are shared with the
// legacy records and must not change.
type Record struct {
	Token          string                  `json:"token"`
	Cost           int64                   `json:"cost"`
	Host           string                  `json:"host"`
	Created        int64                   `json:"created"`
	Started        int64                   `json:"started"`
	Players        map[string]PlayerRecord `json:"players"`
	Reward         int64                   `json:"reward"`
	Events         []string                `json:"events"`
	ReadyTimestamp int64                   `json:"ready_timestamp"`
}

type PlayerRecord struct {
	Address string      `json:"address"`
	State   PlayerState `json:"state"`
	Shield  bool        `json:"shield"`
	Ready   bool        `json:"ready"`
	Bomb    *Bomb       `json:"bomb,omitempty"`
}

// Record returns a detached copy of the game suitable for storage or display.
func (g *GameState) Record() Record {
	rec := Record{
		Token:          g.token,
		Cost:           g.cost,
		Host:           g.host,
		Created:        g.created,
		Started:        g.started,
		Players:        make(map[string]PlayerRecord, len(g.players)),
		Reward:         g.reward,
		Events:         append([]string{}, g.events...),
		ReadyTimestamp: g.readyTimestamp,
	}
	for addr, p := range g.players {
		pr := PlayerRecord{
			Address: p.Address,
			State:   p.State,
			Shield:  p.Shield,
			Ready:   p.Ready,
		}
		if p.Bomb != nil {
			b := *p.Bomb
			pr.Bomb = &b
		}
		rec.Players[addr] = pr
	}
	return rec
}

// FromRecord rebuilds a game. A stored bomb without risk loads with the
// initial risk.
func FromRecord(rec Record) *GameState {
	g := New(rec.Token, rec.Cost, rec.Host, rec.Created)
	g.started = rec.Started
	g.reward = rec.Reward
	g.events = append(g.events, rec.Events...)
	g.readyTimestamp = rec.ReadyTimestamp
	for addr, pr := range rec.Players {
		p := &Player{
			Address: pr.Address,
			State:   pr.State,
			Shield:  pr.Shield,
			Ready:   pr.Ready,
		}
		if pr.Bomb != nil {
			b := *pr.Bomb
			if b.Risk == 0 {
				b.Risk = InitialRisk
			}
			p.Bomb = &b
		}
		g.players[addr] = p
	}
	return g
}

func (g *GameState) MarshalJSON() ([]byte, error) {
	return json.Marshal(g.Record())
}

func (g *GameState) UnmarshalJSON(data []byte) error {
	var rec Record
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	*g = *FromRecord(rec)
	return nil
}

// Decode parses a stored game record.
func Decode(data []byte) (*GameState, error) {
	g := &GameState{}
	if err := json.Unmarshal(data, g); err != nil {
		return nil, fmt.Errorf("decode game: %w", err)
	}
	return g, nil
}

package main

import (
	"strconv"
	"testing"
)

func TestPlayConservesPool(t *testing.T) {
	for i := 0; i < 50; i++ {
		s := Settings{Players: 2 + i%9, Seed: "seed" + strconv.Itoa(i), Cost: 100, ShieldRisk: 25, AFKEvery: i % 4, MaxTurns: 10000}
		res, err := Play(s)
		if err != nil {
			t.Fatalf("seed %s: %v", s.Seed, err)
		}
		var looted int64
		for _, v := range res.Looted {
			looted += v
		}
		if got, want := looted+res.Reward+res.Fee, int64(s.Players)*s.Cost; got != want {
			t.Fatalf("seed %s: paid %d, want %d", s.Seed, got, want)
		}
		if res.Winner == "" {
			t.Fatalf("seed %s: no winner", s.Seed)
		}
		if len(res.Looted) == 0 {
			t.Fatalf("seed %s: nobody looted", s.Seed)
		}
	}
}

func TestPlayDeterministic(t *testing.T) {
	s := Settings{Players: 6, Seed: "fixed", Cost: 200, ShieldRisk: 30, MaxTurns: 10000}
	a, err := Play(s)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	b, err := Play(s)
	if err != nil {
		t.Fatalf("play: %v", err)
	}
	if a.Winner != b.Winner || len(a.Rounds) != len(b.Rounds) {
		t.Fatalf("same seed diverged: %s/%d vs %s/%d", a.Winner, len(a.Rounds), b.Winner, len(b.Rounds))
	}
}

func TestPlayRejectsPlayerCount(t *testing.T) {
	if _, err := Play(Settings{Players: 1, Seed: "x", Cost: 100}); err == nil {
		t.Fatal("expected error for a single player")
	}
	if _, err := Play(Settings{Players: 11, Seed: "x", Cost: 100}); err == nil {
		t.Fatal("expected error for eleven players")
	}
}

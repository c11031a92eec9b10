package game

import (
	"errors"
	"testing"
)

func TestBombRiskIsClamped(t *testing.T) {
	b := NewBomb(100)
	if b.Risk != InitialRisk {
		t.Fatalf("initial risk = %d", b.Risk)
	}
	prev := b.Risk
	for i := 0; i < 20; i++ {
		b.Advance(int64(200 + i))
		if b.Risk < prev || b.Risk > MaxRisk {
			t.Fatalf("risk %d after %d advances", b.Risk, i+1)
		}
		prev = b.Risk
	}
	if b.Risk != MaxRisk || b.Started != 219 {
		t.Fatalf("bomb = %+v", b)
	}
}

func TestBombTimedOut(t *testing.T) {
	b := NewBomb(1000)
	if b.TimedOut(1000 + AFKWindow - 1) {
		t.Fatal("timed out before the window elapsed")
	}
	if !b.TimedOut(1000 + AFKWindow) {
		t.Fatal("not timed out at the window boundary")
	}
}

func TestBombExplodes(t *testing.T) {
	// first roll of the vector is 38
	cases := []struct {
		risk int
		want bool
	}{
		{5, false},
		{38, false},
		{39, true},
		{50, true},
	}
	for _, tc := range cases {
		b := &Bomb{Risk: tc.risk}
		got, err := b.Explodes(vectorRNG(t))
		if err != nil {
			t.Fatal(err)
		}
		if got != tc.want {
			t.Fatalf("Explodes(risk=%d) = %v; want %v", tc.risk, got, tc.want)
		}
	}
}

func TestPlayerLifecycle(t *testing.T) {
	p := NewPlayer("hxA")
	if !p.IsAlive() || !p.HasShield() || p.IsReady() || p.HasBomb() {
		t.Fatalf("new player = %+v", p)
	}

	if err := p.Die(0); !errors.Is(err, ErrNotLootable) {
		t.Fatalf("Die alive: %v", err)
	}
	if err := p.PrepareToDie(); err != nil {
		t.Fatal(err)
	}
	if err := p.PrepareToDie(); !errors.Is(err, ErrAlreadyDead) {
		t.Fatalf("PrepareToDie twice: %v", err)
	}
	if !p.IsLootable(0) {
		t.Fatal("prepared player must be lootable")
	}
	if err := p.Die(0); err != nil {
		t.Fatal(err)
	}
	if !p.IsDead() || p.IsLootable(0) {
		t.Fatalf("dead player = %+v", p)
	}
}

func TestPlayerAFKIsLootable(t *testing.T) {
	p := NewPlayer("hxA")
	p.GiveBomb(NewBomb(0))
	if p.IsLootable(AFKWindow - 1) {
		t.Fatal("holder lootable before timeout")
	}
	if !p.IsLootable(AFKWindow) {
		t.Fatal("timed out holder must be lootable")
	}
	if err := p.Die(AFKWindow); err != nil {
		t.Fatal(err)
	}
}

func TestPlayerShieldAndBomb(t *testing.T) {
	p := NewPlayer("hxA")
	if err := p.UseShield(); err != nil {
		t.Fatal(err)
	}
	if err := p.UseShield(); !errors.Is(err, ErrNoShieldAvailable) {
		t.Fatalf("second UseShield: %v", err)
	}

	if _, err := p.TakeBomb(); !errors.Is(err, ErrNoObjectHeld) {
		t.Fatalf("TakeBomb empty: %v", err)
	}
	b := NewBomb(7)
	p.GiveBomb(b)
	got, err := p.TakeBomb()
	if err != nil || got != b || p.HasBomb() {
		t.Fatalf("TakeBomb = %v, %v", got, err)
	}
}

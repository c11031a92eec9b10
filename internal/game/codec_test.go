package game

import (
	"encoding/json"
	"strings"
	"testing"
)

func TestRecordRoundTrip(t *testing.T) {
	g := started(t, "hxA", "hxB")
	g.AddEvent("tx1")
	_ = mustPlayer(t, g, "hxB").UseShield()

	data, err := json.Marshal(g)
	if err != nil {
		t.Fatal(err)
	}
	back, err := Decode(data)
	if err != nil {
		t.Fatal(err)
	}

	if back.Token() != "tok" || back.Cost() != cost || back.Host() != "hxA" ||
		back.Started() != g.Started() || back.Pool() != 200 || back.ReadyTimestamp() != g.ReadyTimestamp() {
		t.Fatalf("decoded game = %+v", back.Record())
	}
	if ev := back.Events(); len(ev) != 1 || ev[0] != "tx1" {
		t.Fatalf("events = %v", ev)
	}
	h := back.PlayerWithBomb()
	if h == nil || h.Address != "hxA" || h.Bomb.Risk != InitialRisk {
		t.Fatalf("holder = %+v", h)
	}
	if mustPlayer(t, back, "hxB").HasShield() {
		t.Fatal("shield state lost")
	}
}

func TestRecordIsDetached(t *testing.T) {
	g := started(t, "hxA", "hxB")
	rec := g.Record()
	rec.Players["hxA"].Bomb.Risk = 40
	if mustPlayer(t, g, "hxA").Bomb.Risk != InitialRisk {
		t.Fatal("record shares the bomb with the game")
	}
}

func TestDecodeLegacyBombWithoutRisk(t *testing.T) {
	data := `{"token":"tok","cost":100,"host":"hxA","created":1,"started":2,
		"players":{"hxA":{"address":"hxA","state":1,"shield":true,"ready":true,"bomb":{"started":2}},
		"hxB":{"address":"hxB","state":3,"shield":true,"ready":true}},
		"reward":190,"events":[],"ready_timestamp":10}`
	g, err := Decode([]byte(data))
	if err != nil {
		t.Fatal(err)
	}
	if b := mustPlayer(t, g, "hxA").Bomb; b == nil || b.Risk != InitialRisk {
		t.Fatalf("bomb = %+v", b)
	}
	if !mustPlayer(t, g, "hxB").IsDead() || !g.IsVictory() {
		t.Fatal("player states not restored")
	}
}

func TestDecodeError(t *testing.T) {
	_, err := Decode([]byte("{"))
	if err == nil || !strings.HasPrefix(err.Error(), "decode game:") {
		t.Fatalf("err = %v", err)
	}
}

package http

import (
	"bytes"
	"encoding/json"
	nethttp "net/http"
	"net/http/httptest"
	"testing"

	"bomb_royale/internal/config"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"
	"bomb_royale/internal/ws"

	"github.com/coder/quartz"
	"github.com/gin-gonic/gin"
)

const operator = "tg:op"

type api struct {
	t *testing.T
	r *gin.Engine
}

func newAPI(t *testing.T) *api {
	t.Helper()
	gin.SetMode(gin.TestMode)
	service.InitJWT("test-secret")

	store := repository.NewMemoryStore()
	hub := ws.NewHub()
	svc := service.NewBombService(store, hub, quartz.NewMock(t), service.Options{
		AllowedWagers: []int64{100},
		MaxGames:      10,
		Operator:      operator,
	})

	r := gin.New()
	RegisterRoutes(r, Deps{
		Service: svc,
		Store:   store,
		Hub:     hub,
		Config: &config.Config{
			DevMode:          true,
			APIRateLimit:     1000,
			APIRateWindow:    60,
			ActionRateLimit:  1000,
			ActionRateWindow: 60,
		},
		Version: "test",
	})
	return &api{t: t, r: r}
}

func (a *api) do(method, path, token string, body any) (int, map[string]any) {
	a.t.Helper()
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			a.t.Fatal(err)
		}
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	a.r.ServeHTTP(w, req)

	out := map[string]any{}
	_ = json.Unmarshal(w.Body.Bytes(), &out)
	return w.Code, out
}

func (a *api) login(address string) string {
	a.t.Helper()
	code, body := a.do(nethttp.MethodPost, "/api/v1/auth", "", map[string]string{"address": address})
	if code != nethttp.StatusOK {
		a.t.Fatalf("auth %s: %d %v", address, code, body)
	}
	return body["token"].(string)
}

func (a *api) ok(method, path, token string, body any) map[string]any {
	a.t.Helper()
	code, out := a.do(method, path, token, body)
	if code/100 != 2 {
		a.t.Fatalf("%s %s: %d %v", method, path, code, out)
	}
	return out
}

func (a *api) fails(method, path, token string, body any, status int, errCode string) {
	a.t.Helper()
	code, out := a.do(method, path, token, body)
	if code != status || out["code"] != errCode {
		a.t.Fatalf("%s %s = %d %v; want %d %s", method, path, code, out, status, errCode)
	}
}

func TestGameOverHTTP(t *testing.T) {
	a := newAPI(t)
	op := a.login(operator)
	alice := a.login("tg:1")
	bob := a.login("tg:2")

	a.fails("POST", "/api/v1/admin/fund", alice, map[string]any{"address": "tg:1", "amount": 1000}, 403, "SENDER_NOT_OPERATOR")
	for _, addr := range []string{"tg:1", "tg:2"} {
		a.ok("POST", "/api/v1/admin/fund", op, map[string]any{"address": addr, "amount": 1000})
	}

	a.fails("POST", "/api/v1/game/create", alice, map[string]any{"amount": 150}, 400, "FORBIDDEN_PARTICIPATION_COST")
	token := a.ok("POST", "/api/v1/game/create", alice, map[string]any{"amount": 100})["token"].(string)
	a.fails("POST", "/api/v1/game/create", alice, map[string]any{"amount": 100}, 409, "PLAYER_ALREADY_REGISTERED")
	a.fails("POST", "/api/v1/game/join", bob, map[string]any{"token": "nope", "amount": 100}, 404, "GAME_DOESNT_EXIST")
	a.ok("POST", "/api/v1/game/join", bob, map[string]any{"token": token, "amount": 100})

	a.fails("POST", "/api/v1/game/ready/ask", bob, nil, 403, "INVALID_GAME_HOST")
	a.ok("POST", "/api/v1/game/ready/ask", alice, nil)
	a.ok("POST", "/api/v1/game/ready/ok", bob, nil)
	a.ok("POST", "/api/v1/game/start", alice, nil)

	state := a.ok("GET", "/api/v1/game/"+token, "", nil)
	if state["started"].(float64) == 0 || state["reward"].(float64) != 200 {
		t.Fatalf("state = %v", state)
	}
	var rec game.Record
	raw, _ := json.Marshal(state)
	if err := json.Unmarshal(raw, &rec); err != nil {
		t.Fatal(err)
	}
	holder, other := alice, "tg:2"
	for addr, p := range rec.Players {
		if p.Bomb != nil && addr == "tg:2" {
			holder, other = bob, "tg:1"
		}
	}

	out := a.ok("POST", "/api/v1/game/bomb", holder, map[string]any{"use_shield": true})
	if out["exploded"] != false || out["receiver"] != other {
		t.Fatalf("bomb = %v", out)
	}
	a.fails("POST", "/api/v1/game/win", alice, nil, 409, "GAME_ISNT_VICTORY")

	if room := a.ok("GET", "/api/v1/rooms/tg:2", "", nil); room["token"] != token {
		t.Fatalf("room = %v", room)
	}
	if bal := a.ok("GET", "/api/v1/me/balance", alice, nil); bal["balance"].(float64) != 900 {
		t.Fatalf("balance = %v", bal)
	}
	if games := a.ok("GET", "/api/games", "", nil)["games"].([]any); len(games) != 1 {
		t.Fatalf("games = %v", games)
	}

	a.ok("POST", "/api/v1/admin/games/"+token+"/reset", op, nil)
	a.fails("GET", "/api/v1/game/"+token, "", nil, 404, "GAME_DOESNT_EXIST")
	if bal := a.ok("GET", "/api/v1/me/balance", bob, nil); bal["balance"].(float64) != 1000 {
		t.Fatalf("balance after reset = %v", bal)
	}
}

func TestAccountsHTTP(t *testing.T) {
	a := newAPI(t)
	alice := a.login("tg:1234")

	if acc := a.ok("GET", "/api/v1/accounts/tg:1234", "", nil); acc["name"] != "Player_1234" {
		t.Fatalf("account = %v", acc)
	}
	a.fails("PUT", "/api/v1/me/account", alice, map[string]string{"name": "x"}, 400, "INVALID_ACCOUNT_NAME")
	a.ok("PUT", "/api/v1/me/account", alice, map[string]string{"name": "Bomber"})
	if acc := a.ok("GET", "/api/v1/accounts/tg:1234", "", nil); acc["name"] != "Bomber" {
		t.Fatalf("account = %v", acc)
	}
}

func TestAuthAndHealth(t *testing.T) {
	a := newAPI(t)

	if code, _ := a.do("POST", "/api/v1/game/create", "", map[string]any{"amount": 100}); code != 401 {
		t.Fatalf("unauthenticated create: %d", code)
	}
	// without an address dev mode falls back to telegram, which is not configured
	if code, _ := a.do("POST", "/api/v1/auth", "", map[string]string{"init_data": "x"}); code != 503 {
		t.Fatalf("telegram auth without bot token: %d", code)
	}

	for _, path := range []string{"/health", "/healthz", "/readyz", "/api/health"} {
		if code, body := a.do("GET", path, "", nil); code != 200 {
			t.Fatalf("%s: %d %v", path, code, body)
		}
	}
	if wagers := a.ok("GET", "/api/v1/wagers", "", nil)["wagers"].([]any); len(wagers) != 1 {
		t.Fatalf("wagers = %v", wagers)
	}
	if fees := a.ok("GET", "/api/v1/operator/fees", "", nil); fees["fees"].(float64) != 0 {
		t.Fatalf("fees = %v", fees)
	}
}

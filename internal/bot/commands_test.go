package bot

import (
	"context"
	"strings"
	"testing"

	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"

	"github.com/coder/quartz"
)

const operator = "hxoperator"

func newCommands(t *testing.T) (*Commands, *service.BombService) {
	t.Helper()
	svc := service.NewBombService(repository.NewMemoryStore(), nil, quartz.NewMock(t), service.Options{
		AllowedWagers: []int64{100},
		MaxGames:      10,
		Operator:      operator,
	})
	return NewCommands(svc, operator), svc
}

func mustContain(t *testing.T, got, want string) {
	t.Helper()
	if !strings.Contains(got, want) {
		t.Fatalf("response %q does not contain %q", got, want)
	}
}

func TestCommandsFundAndBalance(t *testing.T) {
	c, _ := newCommands(t)
	ctx := context.Background()

	mustContain(t, c.Run(ctx, "fund", "tg:1 500"), "balance 500")
	mustContain(t, c.Run(ctx, "fund", "tg:1 250"), "balance 750")
	out := c.Run(ctx, "balance", "tg:1")
	mustContain(t, out, "balance 750")
	mustContain(t, out, "fund +250")

	mustContain(t, c.Run(ctx, "fund", "tg:1"), "Usage")
	mustContain(t, c.Run(ctx, "fund", "tg:1 lots"), "Usage")
	mustContain(t, c.Run(ctx, "fund", "tg:1 -5"), "invalid amount")
}

func TestCommandsGamesAndReset(t *testing.T) {
	c, svc := newCommands(t)
	ctx := context.Background()

	mustContain(t, c.Run(ctx, "games", ""), "No live games")

	c.Run(ctx, "fund", "tg:1 100")
	c.Run(ctx, "fund", "tg:2 100")
	token, err := svc.CreateGame(ctx, "tg:1", 100)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := svc.JoinGame(ctx, "tg:2", token, 100); err != nil {
		t.Fatalf("join: %v", err)
	}

	out := c.Run(ctx, "games", "5")
	mustContain(t, out, token)
	mustContain(t, out, "2 players")
	mustContain(t, out, "pool 200")

	mustContain(t, c.Run(ctx, "game", token), "tg:2 alive")
	mustContain(t, c.Run(ctx, "game", "nope"), "Error")

	mustContain(t, c.Run(ctx, "reset_game", token), "refunded and closed")
	mustContain(t, c.Run(ctx, "balance", "tg:1"), "balance 100")
	mustContain(t, c.Run(ctx, "games", ""), "No live games")
	mustContain(t, c.Run(ctx, "reset_player", "tg:1"), "Error")
}

func TestCommandsFees(t *testing.T) {
	c, _ := newCommands(t)
	ctx := context.Background()

	mustContain(t, c.Run(ctx, "fees", ""), "Operator fees: 0")
	mustContain(t, c.Run(ctx, "withdraw", "tg:1 10"), "not enough operator fees")
	mustContain(t, c.Run(ctx, "reset_games", ""), "0 games")
}

func TestCommandsUnknown(t *testing.T) {
	c, _ := newCommands(t)
	mustContain(t, c.Run(context.Background(), "rm", "-rf"), "Unknown command")
	mustContain(t, c.Run(context.Background(), "help", ""), "/reset_games")
}

package bot

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
)

// Operator is the part of the game host the bot drives.
type Operator interface {
	GameStates(ctx context.Context, limit int) ([]game.Record, error)
	GameState(ctx context.Context, token string) (game.Record, error)
	Balance(ctx context.Context, address string) (int64, []*domain.Transaction, error)
	OperatorFees(ctx context.Context) (int64, error)
	ResetGames(ctx context.Context, sender string) (int, error)
	ResetGame(ctx context.Context, sender, token string) error
	ResetPlayer(ctx context.Context, sender, address string) error
	WithdrawOperatorFees(ctx context.Context, sender, address string, amount int64) (int64, error)
	Fund(ctx context.Context, sender, address string, amount int64) (int64, error)
}

// Commands turns chat commands into operator calls and formats the answers
// as Telegram HTML.
type Commands struct {
	svc      Operator
	operator string
}

func NewCommands(svc Operator, operator string) *Commands {
	return &Commands{svc: svc, operator: operator}
}

func (c *Commands) Run(ctx context.Context, command, args string) string {
	switch command {
	case "start", "help":
		return helpMessage
	case "games":
		return c.games(ctx, args)
	case "game":
		return c.game(ctx, args)
	case "fees":
		return c.fees(ctx)
	case "balance":
		return c.balance(ctx, args)
	case "fund":
		return c.fund(ctx, args)
	case "withdraw":
		return c.withdraw(ctx, args)
	case "reset_games":
		return c.resetGames(ctx)
	case "reset_game":
		return c.resetGame(ctx, args)
	case "reset_player":
		return c.resetPlayer(ctx, args)
	default:
		return "❌ Unknown command. Use /help."
	}
}

const helpMessage = `<b>💣 Bomb Royale operator</b>

/games [limit] - live games
/game &lt;token&gt; - one game
/fees - collected operator fees
/balance &lt;address&gt; - player balance
/fund &lt;address&gt; &lt;amount&gt; - credit a player
/withdraw &lt;address&gt; &lt;amount&gt; - pay out fees
/reset_games - refund and close every game
/reset_game &lt;token&gt; - refund and close one game
/reset_player &lt;address&gt; - drop a room registration`

func failed(err error) string {
	return fmt.Sprintf("❌ Error: %s", html.EscapeString(err.Error()))
}

func (c *Commands) games(ctx context.Context, args string) string {
	limit := 10
	if args != "" {
		if n, err := strconv.Atoi(strings.TrimSpace(args)); err == nil && n > 0 && n <= 50 {
			limit = n
		}
	}

	recs, err := c.svc.GameStates(ctx, limit)
	if err != nil {
		return failed(err)
	}
	if len(recs) == 0 {
		return "✅ No live games"
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🎮 Live games (%d)</b>\n\n", len(recs)))
	for _, r := range recs {
		status := "lobby"
		if r.Started != 0 {
			status = "started"
		}
		sb.WriteString(fmt.Sprintf("<code>%s</code> | %s | %d players | wager %d | pool %d\n",
			html.EscapeString(r.Token), status, len(r.Players), r.Cost, r.Reward))
	}
	return sb.String()
}

func (c *Commands) game(ctx context.Context, args string) string {
	token := strings.TrimSpace(args)
	if token == "" {
		return "❌ Usage: /game <token>"
	}
	r, err := c.svc.GameState(ctx, token)
	if err != nil {
		return failed(err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>🎮 %s</b>\nhost %s | wager %d | pool %d\n\n",
		html.EscapeString(r.Token), html.EscapeString(r.Host), r.Cost, r.Reward))
	for _, p := range game.FromRecord(r).Players() {
		line := fmt.Sprintf("%s %s", html.EscapeString(p.Address), p.State)
		if p.HasBomb() {
			line += fmt.Sprintf(" 💣 risk %d", p.Bomb.Risk)
		}
		if p.HasShield() {
			line += " 🛡"
		}
		sb.WriteString(line + "\n")
	}
	return sb.String()
}

func (c *Commands) fees(ctx context.Context) string {
	fees, err := c.svc.OperatorFees(ctx)
	if err != nil {
		return failed(err)
	}
	return fmt.Sprintf("💰 Operator fees: %d", fees)
}

func (c *Commands) balance(ctx context.Context, args string) string {
	address := strings.TrimSpace(args)
	if address == "" {
		return "❌ Usage: /balance <address>"
	}
	balance, txs, err := c.svc.Balance(ctx, address)
	if err != nil {
		return failed(err)
	}

	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("<b>👤 %s</b>\nbalance %d\n", html.EscapeString(address), balance))
	for i, tx := range txs {
		if i == 5 {
			break
		}
		sb.WriteString(fmt.Sprintf("%s %+d\n", tx.Type, tx.Amount))
	}
	return sb.String()
}

// addressAmount parses "<address> <amount>".
func addressAmount(args string) (string, int64, bool) {
	parts := strings.Fields(args)
	if len(parts) != 2 {
		return "", 0, false
	}
	amount, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return "", 0, false
	}
	return parts[0], amount, true
}

func (c *Commands) fund(ctx context.Context, args string) string {
	address, amount, ok := addressAmount(args)
	if !ok {
		return "❌ Usage: /fund <address> <amount>"
	}
	balance, err := c.svc.Fund(ctx, c.operator, address, amount)
	if err != nil {
		return failed(err)
	}
	return fmt.Sprintf("✅ %s funded with %d, balance %d", html.EscapeString(address), amount, balance)
}

func (c *Commands) withdraw(ctx context.Context, args string) string {
	address, amount, ok := addressAmount(args)
	if !ok {
		return "❌ Usage: /withdraw <address> <amount>"
	}
	left, err := c.svc.WithdrawOperatorFees(ctx, c.operator, address, amount)
	if err != nil {
		return failed(err)
	}
	return fmt.Sprintf("✅ %d paid to %s, %d fees left", amount, html.EscapeString(address), left)
}

func (c *Commands) resetGames(ctx context.Context) string {
	n, err := c.svc.ResetGames(ctx, c.operator)
	if err != nil {
		return failed(err)
	}
	return fmt.Sprintf("✅ %d games refunded and closed", n)
}

func (c *Commands) resetGame(ctx context.Context, args string) string {
	token := strings.TrimSpace(args)
	if token == "" {
		return "❌ Usage: /reset_game <token>"
	}
	if err := c.svc.ResetGame(ctx, c.operator, token); err != nil {
		return failed(err)
	}
	return fmt.Sprintf("✅ Game %s refunded and closed", html.EscapeString(token))
}

func (c *Commands) resetPlayer(ctx context.Context, args string) string {
	address := strings.TrimSpace(args)
	if address == "" {
		return "❌ Usage: /reset_player <address>"
	}
	if err := c.svc.ResetPlayer(ctx, c.operator, address); err != nil {
		return failed(err)
	}
	return fmt.Sprintf("✅ %s unregistered", html.EscapeString(address))
}

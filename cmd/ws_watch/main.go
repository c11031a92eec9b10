package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/url"
	"os/signal"
	"syscall"
	"time"

	"bomb_royale/internal/logger"
	"bomb_royale/internal/ws"

	"github.com/alecthomas/kong"
	"github.com/gorilla/websocket"
)

// Connects to a running server as a spectator and prints every event of the
// watched games until interrupted.
type CLI struct {
	Server string   `default:"ws://127.0.0.1:8080/ws" help:"Websocket endpoint"`
	Token  string   `required:"" env:"WS_TOKEN" help:"Session token (see fund_player)"`
	Game   []string `arg:"" optional:"" help:"Game tokens to watch"`
	Raw    bool     `help:"Print raw frames instead of decoded events"`
	Level  string   `default:"info" enum:"debug,info,warn,error" help:"Log level"`
}

func main() {
	var cli CLI
	kong.Parse(&cli, kong.Description("Watch Bomb Royale games over the websocket."))
	logger.InitPretty(cli.Level)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	u, err := url.Parse(cli.Server)
	if err != nil {
		logger.Fatal("bad server url", "error", err)
	}
	q := u.Query()
	q.Set("token", cli.Token)
	u.RawQuery = q.Encode()

	conn, _, err := websocket.DefaultDialer.DialContext(ctx, u.String(), nil)
	if err != nil {
		logger.Fatal("dial", "error", err)
	}
	defer conn.Close()

	go func() {
		<-ctx.Done()
		_ = conn.WriteControl(websocket.CloseMessage,
			websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""), time.Now().Add(time.Second))
		_ = conn.Close()
	}()

	for _, g := range cli.Game {
		if err := conn.WriteJSON(ws.Request{Type: ws.MsgSubscribe, Game: g}); err != nil {
			logger.Fatal("subscribe", "game", g, "error", err)
		}
	}

	for {
		_, frame, err := conn.ReadMessage()
		if err != nil {
			if ctx.Err() == nil {
				logger.Error("read", "error", err)
			}
			return
		}
		if cli.Raw {
			fmt.Println(string(frame))
			continue
		}

		var msg ws.Message
		if err := json.Unmarshal(frame, &msg); err != nil {
			logger.Warn("undecodable frame", "error", err)
			continue
		}
		switch msg.Type {
		case ws.MsgEvent:
			e := msg.Event
			if e == nil {
				continue
			}
			logger.Info(e.Name, "game", e.Token, "actor", e.Actor, "data", e.Data, "id", e.ID)
		case ws.MsgError:
			logger.Warn("server error", "game", msg.Game, "error", msg.Error)
		default:
			logger.Debug(msg.Type, "game", msg.Game)
		}
	}
}

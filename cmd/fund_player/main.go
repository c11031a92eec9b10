package main

import (
	"context"
	"fmt"

	"bomb_royale/internal/config"
	"bomb_royale/internal/db"
	"bomb_royale/internal/logger"
	"bomb_royale/internal/repository"
	"bomb_royale/internal/service"

	"github.com/alecthomas/kong"
	"github.com/coder/quartz"
)

// Credits a player balance as the operator and prints a session token for
// that player. Uses the same environment as the server.
type CLI struct {
	Address string `arg:"" help:"Player address, e.g. tg:1234567890"`
	Amount  int64  `default:"1000" help:"Amount to credit"`
	Token   bool   `default:"true" negatable:"" help:"Print a session token for the player"`
}

func main() {
	var cli CLI
	kong.Parse(&cli, kong.Description("Fund a Bomb Royale player balance."))

	cfg := config.Load()
	logger.InitPretty(cfg.LogLevel)

	if cfg.Storage != config.StoragePostgres {
		logger.Fatal("fund_player needs STORAGE=postgres, memory balances die with the process")
	}

	pool := db.Connect(cfg.DatabaseURL)
	defer pool.Close()

	svc := service.NewBombService(repository.NewPostgresStore(pool), nil, quartz.NewReal(), service.Options{
		AllowedWagers: cfg.AllowedWagers,
		MaxGames:      cfg.MaxGames,
		Operator:      cfg.OperatorAddress,
	})

	balance, err := svc.Fund(context.Background(), cfg.OperatorAddress, cli.Address, cli.Amount)
	if err != nil {
		logger.Fatal("fund failed", "address", cli.Address, "error", err)
	}
	logger.Info("player funded", "address", cli.Address, "amount", cli.Amount, "balance", balance)

	if !cli.Token {
		return
	}
	service.InitJWT(cfg.JWTSecret)
	token, err := service.GenerateJWT(cli.Address)
	if err != nil {
		logger.Fatal("failed to generate token", "error", err)
	}
	fmt.Println(token)
}

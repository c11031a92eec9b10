package service

import (
	"context"
	"errors"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
)

// CreateGame opens a lobby hosted by sender, staking amount. The token of the
// new game is the id of the creating invocation.
func (s *BombService) CreateGame(ctx context.Context, sender string, amount int64) (string, error) {
	var token string
	err := s.invoke(ctx, "create_game", sender, func(ctx context.Context, inv *invocation) error {
		tx := inv.tx

		count, err := tx.CountGames(ctx)
		if err != nil {
			return err
		}
		if s.maxGames > 0 && count >= s.maxGames {
			return ErrMaximumGamesReached
		}
		if !s.wagers[amount] {
			return ErrForbiddenCost
		}
		if _, err := tx.GetGame(ctx, inv.id); err == nil {
			return ErrGameAlreadyExists
		} else if !errors.Is(err, repository.ErrNotFound) {
			return err
		}
		if err := checkNotRegistered(ctx, tx, sender); err != nil {
			return err
		}
		if err := stake(ctx, inv, inv.id, sender, amount); err != nil {
			return err
		}

		player := game.NewPlayer(sender)
		g := game.New(inv.id, amount, player.Address, inv.now)
		if err := g.Deposit(amount); err != nil {
			return err
		}
		if err := g.Join(player); err != nil {
			return err
		}
		inv.emit(g, domain.EventCreateGame, sender, nil)
		inv.emit(g, domain.EventJoinGame, sender, nil)

		if err := register(ctx, tx, sender, g.Token()); err != nil {
			return err
		}
		token = g.Token()
		return saveGame(ctx, tx, g)
	})
	return token, err
}

// JoinGame adds sender to a lobby, staking exactly the game cost.
func (s *BombService) JoinGame(ctx context.Context, sender, token string, amount int64) error {
	return s.invoke(ctx, "join_game", sender, func(ctx context.Context, inv *invocation) error {
		tx := inv.tx

		if err := checkNotRegistered(ctx, tx, sender); err != nil {
			return err
		}
		g, err := loadGame(ctx, tx, token)
		if err != nil {
			return err
		}
		if g.IsStarted() {
			return game.ErrAlreadyStarted
		}
		if err := g.Deposit(amount); err != nil {
			return err
		}

		player := game.NewPlayer(sender)
		if err := g.Join(player); err != nil {
			return err
		}
		if err := stake(ctx, inv, token, sender, amount); err != nil {
			return err
		}
		inv.emit(g, domain.EventJoinGame, sender, nil)

		if err := register(ctx, tx, sender, token); err != nil {
			return err
		}
		return saveGame(ctx, tx, g)
	})
}

// QuitGame unregisters sender. Before the start the player leaves the game
// and is refunded; afterwards the player stays in, and may still be looted.
func (s *BombService) QuitGame(ctx context.Context, sender string) error {
	return s.invoke(ctx, "quit_game", sender, func(ctx context.Context, inv *invocation) error {
		tx := inv.tx

		g, err := loadPlayerGame(ctx, tx, sender)
		if err != nil {
			return err
		}
		if _, err := g.Player(sender); err != nil {
			return err
		}
		if err := unregister(ctx, tx, sender, g.Token()); err != nil {
			return err
		}
		inv.emit(g, domain.EventQuitGame, sender, nil)

		if !g.IsStarted() {
			if err := refund(ctx, inv, g, sender, g.Cost()); err != nil {
				return err
			}
			if err := g.Quit(sender, inv.rng); err != nil {
				return err
			}
		}
		return saveGame(ctx, tx, g)
	})
}

// AskReady starts the ready countdown of the sender's game.
func (s *BombService) AskReady(ctx context.Context, sender string) error {
	return s.invoke(ctx, "ready_ask", sender, func(ctx context.Context, inv *invocation) error {
		g, err := loadPlayerGame(ctx, inv.tx, sender)
		if err != nil {
			return err
		}
		if err := g.AskReady(sender, inv.now); err != nil {
			return err
		}
		inv.emit(g, domain.EventReadyAsk, sender, map[string]interface{}{"deadline": g.ReadyTimestamp()})
		return saveGame(ctx, inv.tx, g)
	})
}

func (s *BombService) ConfirmReady(ctx context.Context, sender string) error {
	return s.invoke(ctx, "ready_ok", sender, func(ctx context.Context, inv *invocation) error {
		g, err := loadPlayerGame(ctx, inv.tx, sender)
		if err != nil {
			return err
		}
		if err := g.ConfirmReady(sender); err != nil {
			return err
		}
		return saveGame(ctx, inv.tx, g)
	})
}

// StartGame starts the sender's game, refunding the players evicted for not
// confirming.
func (s *BombService) StartGame(ctx context.Context, sender string) error {
	return s.invoke(ctx, "start_game", sender, func(ctx context.Context, inv *invocation) error {
		tx := inv.tx

		g, err := loadPlayerGame(ctx, tx, sender)
		if err != nil {
			return err
		}
		if _, err := g.Player(sender); err != nil {
			return err
		}

		afkers, err := g.Start(inv.now, inv.rng)
		if err != nil {
			return err
		}
		inv.emit(g, domain.EventStartGame, sender, nil)
		if holder := g.PlayerWithBomb(); holder != nil {
			inv.emit(g, domain.EventRecvBomb, holder.Address, map[string]interface{}{"risk": holder.Bomb.Risk})
		}

		for _, afker := range afkers {
			if err := unregister(ctx, tx, afker.Address, g.Token()); err != nil {
				return err
			}
			inv.emit(g, domain.EventAfkStartGame, afker.Address, nil)
			if err := refund(ctx, inv, g, afker.Address, g.Cost()); err != nil {
				return err
			}
		}
		return saveGame(ctx, tx, g)
	})
}

// SendBomb passes the sender's bomb, optionally protected by the shield. It
// returns the receiver, or "" when the bomb exploded in the sender's hands.
func (s *BombService) SendBomb(ctx context.Context, sender string, useShield bool) (string, error) {
	var receiver string
	err := s.invoke(ctx, "send_bomb", sender, func(ctx context.Context, inv *invocation) error {
		g, err := loadPlayerGame(ctx, inv.tx, sender)
		if err != nil {
			return err
		}

		risk := 0
		if p, err := g.Player(sender); err == nil && p.HasBomb() {
			risk = p.Bomb.Risk
		}

		recv, err := g.SendBomb(sender, inv.now, useShield, inv.rng)
		if err != nil {
			return err
		}
		inv.emit(g, domain.EventSendBomb, sender, map[string]interface{}{"use_shield": useShield, "risk": risk})
		if recv != nil {
			receiver = recv.Address
			inv.emit(g, domain.EventRecvBomb, recv.Address, map[string]interface{}{"risk": recv.Bomb.Risk})
		} else {
			inv.emit(g, domain.EventExplodedBomb, sender, nil)
		}
		return saveGame(ctx, inv.tx, g)
	})
	return receiver, err
}

// LootPlayer finishes a lootable player and pays the loot reward to sender.
func (s *BombService) LootPlayer(ctx context.Context, sender, looted string) error {
	return s.invoke(ctx, "loot_player", sender, func(ctx context.Context, inv *invocation) error {
		g, err := loadPlayerGame(ctx, inv.tx, sender)
		if err != nil {
			return err
		}
		if err := g.Loot(sender, looted, inv.now, inv.rng); err != nil {
			return err
		}

		reward := g.LootReward()
		if err := pay(ctx, inv, g, sender, reward, domain.TxLootReward); err != nil {
			return err
		}
		inv.emit(g, domain.EventLootReward, sender, map[string]interface{}{"looted": looted, "reward": reward})

		// Announced here because claiming the victory evicts the game.
		if g.IsVictory() {
			if w := g.Winner(); w != nil {
				inv.emit(g, domain.EventWinGame, w.Address, map[string]interface{}{"amount": g.WinnerReward()})
			}
		}
		return saveGame(ctx, inv.tx, g)
	})
}

// WinGame pays the winner, books the operator fee and closes the game. It
// returns the amount paid.
func (s *BombService) WinGame(ctx context.Context, sender string) (int64, error) {
	var paid int64
	err := s.invoke(ctx, "win_game", sender, func(ctx context.Context, inv *invocation) error {
		tx := inv.tx

		g, err := loadPlayerGame(ctx, tx, sender)
		if err != nil {
			return err
		}
		if _, err := g.Player(sender); err != nil {
			return err
		}

		reward := g.WinnerReward()
		fee, err := g.ClaimVictory(sender, reward)
		if err != nil {
			return err
		}
		if reward > 0 {
			if _, err := tx.AdjustBalance(ctx, sender, reward, domain.TxWinReward, map[string]interface{}{"token": g.Token(), "tx": inv.id}); err != nil {
				return err
			}
		}
		if _, err := tx.AddOperatorFees(ctx, fee); err != nil {
			return err
		}
		paid = reward
		return saveGame(ctx, tx, g)
	})
	return paid, err
}

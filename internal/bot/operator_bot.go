package bot

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"bomb_royale/internal/logger"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// OperatorBot exposes the operator commands over Telegram. Every command runs
// as the operator address; only the listed Telegram users are heard.
type OperatorBot struct {
	bot      *tgbotapi.BotAPI
	commands *Commands
	adminIDs []int64
	stopCh   chan struct{}
	wg       sync.WaitGroup
	log      *slog.Logger
}

func NewOperatorBot(token string, commands *Commands, adminIDs []int64) (*OperatorBot, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, err
	}

	log := logger.With("component", "operator_bot")
	log.Info("operator bot authorized", "username", bot.Self.UserName)

	return &OperatorBot{
		bot:      bot,
		commands: commands,
		adminIDs: adminIDs,
		stopCh:   make(chan struct{}),
		log:      log,
	}, nil
}

// Start listens for commands until Stop.
func (b *OperatorBot) Start() {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.bot.GetUpdatesChan(u)
	b.log.Info("starting bot update loop")

	for {
		select {
		case <-b.stopCh:
			b.log.Info("stopping bot update loop")
			return
		case update, ok := <-updates:
			if !ok {
				return
			}
			if update.Message == nil || update.Message.From == nil || !update.Message.IsCommand() {
				continue
			}
			if !b.isAdmin(update.Message.From.ID) {
				b.log.Warn("command from non admin", "user_id", update.Message.From.ID)
				continue
			}

			b.wg.Add(1)
			go func(msg *tgbotapi.Message) {
				defer b.wg.Done()
				b.handle(msg)
			}(update.Message)
		}
	}
}

// Stop waits up to 10 seconds for running commands.
func (b *OperatorBot) Stop() {
	b.log.Info("stopping operator bot...")
	close(b.stopCh)
	b.bot.StopReceivingUpdates()

	done := make(chan struct{})
	go func() {
		b.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
		b.log.Info("operator bot stopped gracefully")
	case <-time.After(10 * time.Second):
		b.log.Warn("operator bot shutdown timeout, some handlers may not have completed")
	}
}

func (b *OperatorBot) isAdmin(userID int64) bool {
	for _, id := range b.adminIDs {
		if id == userID {
			return true
		}
	}
	return false
}

func (b *OperatorBot) handle(msg *tgbotapi.Message) {
	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	b.log.Info("operator command", "command", msg.Command(), "user_id", msg.From.ID)
	response := b.commands.Run(ctx, msg.Command(), msg.CommandArguments())

	reply := tgbotapi.NewMessage(msg.Chat.ID, response)
	reply.ParseMode = "HTML"
	if _, err := b.bot.Send(reply); err != nil {
		b.log.Error("failed to send reply", "error", err)
	}
}

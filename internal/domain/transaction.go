package domain

import "time"

// Ledger entry kinds
const (
	TxFund         = "fund"
	TxWager        = "wager"
	TxRefund       = "refund"
	TxLootReward   = "loot_reward"
	TxWinReward    = "win_reward"
	TxFeesWithdraw = "fees_withdraw"
)

type Transaction struct {
	ID        int64                  `db:"id" json:"id"`
	Address   string                 `db:"address" json:"address"`
	Type      string                 `db:"type" json:"type"`
	Amount    int64                  `db:"amount" json:"amount"`
	Meta      map[string]interface{} `db:"meta" json:"meta,omitempty"`
	CreatedAt time.Time              `db:"created_at" json:"created_at"`
}

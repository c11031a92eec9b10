package domain

// Event names
const (
	EventCreateGame   = "create_game"
	EventJoinGame     = "join_game"
	EventQuitGame     = "quit_game"
	EventReadyAsk     = "ready_ask"
	EventStartGame    = "start_game"
	EventAfkStartGame = "afk_start_game"
	EventSendBomb     = "send_bomb"
	EventRecvBomb     = "recv_bomb"
	EventExplodedBomb = "exploded_bomb"
	EventLootReward   = "loot_reward"
	EventRefundReward = "refund_reward"
	EventWinGame      = "win_game"
)

// Event is a notification for observers. It is never read back by the game.
// ID is the invocation that emitted it; one invocation may emit several.
type Event struct {
	ID        string                 `json:"id"`
	Name      string                 `json:"name"`
	Token     string                 `json:"token"`
	Actor     string                 `json:"actor"`
	Timestamp int64                  `json:"timestamp"`
	Data      map[string]interface{} `json:"data,omitempty"`
}

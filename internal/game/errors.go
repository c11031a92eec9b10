package game

import "errors"

// Membership
var (
	ErrAlreadyJoined    = errors.New("game already joined")
	ErrPlayerNotFound   = errors.New("player not found")
	ErrGameFull         = errors.New("game is full")
	ErrNotEnoughPlayers = errors.New("not enough players")
)

// Phase
var (
	ErrAlreadyStarted          = errors.New("game already started")
	ErrNotStarted              = errors.New("game not started")
	ErrAlreadyOver             = errors.New("game already over")
	ErrCountdownAlreadyPending = errors.New("ready countdown already started")
	ErrCountdownNotPending     = errors.New("ready countdown not started")
	ErrCountdownNotReached     = errors.New("ready countdown not reached")
)

// Authorization
var ErrNotHost = errors.New("player is not the game host")

// Economic
var (
	ErrInvalidCost      = errors.New("invalid participation cost")
	ErrInsufficientPool = errors.New("not enough funds for reward")
)

// Bomb / combat
var (
	ErrNoObjectHeld      = errors.New("player has no bomb")
	ErrNoShieldAvailable = errors.New("player has no shield")
	ErrAlreadyDead       = errors.New("player already dead")
	ErrNotLootable       = errors.New("player is not lootable")
	ErrSuicide           = errors.New("player cannot loot himself")
	ErrCannotDistribute  = errors.New("cannot distribute bomb")
	ErrAfkExploded       = errors.New("bomb exploded while afk")
)

// Victory
var (
	ErrNotVictoryYet = errors.New("game is not a victory yet")
	ErrNotTheWinner  = errors.New("player is not the winner")
)

// PRNG
var (
	ErrSeedUninitialized = errors.New("prng seed uninitialized")
	ErrEmptyRange        = errors.New("prng range upper bound is zero")
)

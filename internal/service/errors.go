package service

import (
	"errors"

	"bomb_royale/internal/domain"
	"bomb_royale/internal/game"
	"bomb_royale/internal/repository"
)

var (
	ErrGameDoesntExist         = errors.New("game doesn't exist")
	ErrGameAlreadyExists       = errors.New("game already exists")
	ErrPlayerAlreadyRegistered = errors.New("player already registered in a game")
	ErrPlayerNotRegistered     = errors.New("player is not registered in a game")
	ErrForbiddenCost           = errors.New("forbidden participation cost")
	ErrMaximumGamesReached     = errors.New("maximum games count reached")
	ErrNotOperator             = errors.New("sender is not the operator")
	ErrNotEnoughOperatorFees   = errors.New("not enough operator fees")
	ErrInsufficientFunds       = errors.New("insufficient funds")
	ErrInvalidAmount           = errors.New("invalid amount")
)

// CodeOK is reported for invocations that committed.
const (
	CodeOK       = "OK"
	CodeInternal = "INTERNAL"
)

var errorCodes = []struct {
	err  error
	code string
}{
	{game.ErrAlreadyJoined, "GAME_ALREADY_JOINED"},
	{game.ErrPlayerNotFound, "PLAYER_NOT_FOUND"},
	{game.ErrGameFull, "GAME_IS_FULL"},
	{game.ErrNotEnoughPlayers, "NOT_ENOUGH_PLAYERS"},
	{game.ErrAlreadyStarted, "GAME_ALREADY_STARTED"},
	{game.ErrNotStarted, "GAME_NOT_STARTED"},
	{game.ErrAlreadyOver, "GAME_ALREADY_OVER"},
	{game.ErrCountdownAlreadyPending, "READY_COUNTDOWN_ALREADY_STARTED"},
	{game.ErrCountdownNotPending, "START_COUNTDOWN_NOT_STARTED"},
	{game.ErrCountdownNotReached, "READY_COUNTDOWN_NOT_REACHED"},
	{game.ErrNotHost, "INVALID_GAME_HOST"},
	{game.ErrInvalidCost, "INVALID_PARTICIPATION_COST"},
	{game.ErrInsufficientPool, "NOT_ENOUGH_FUNDS_FOR_REWARD"},
	{game.ErrNoObjectHeld, "PLAYER_HAS_NO_BOMB"},
	{game.ErrNoShieldAvailable, "PLAYER_HAS_NO_SHIELD"},
	{game.ErrAlreadyDead, "PLAYER_ALREADY_DEAD"},
	{game.ErrNotLootable, "PLAYER_IS_NOT_LOOTABLE"},
	{game.ErrSuicide, "DO_NOT_SUICIDE"},
	{game.ErrCannotDistribute, "CANNOT_DISTRIBUTE_BOMBS"},
	{game.ErrAfkExploded, "BOMB_AFK_EXPLODED"},
	{game.ErrNotVictoryYet, "GAME_ISNT_VICTORY"},
	{game.ErrNotTheWinner, "PLAYER_IS_NOT_WINNER"},
	{game.ErrSeedUninitialized, "SEED_UNINITIALIZED"},
	{game.ErrEmptyRange, "EMPTY_RANGE"},

	{ErrGameDoesntExist, "GAME_DOESNT_EXIST"},
	{ErrGameAlreadyExists, "GAME_ALREADY_EXISTS"},
	{ErrPlayerAlreadyRegistered, "PLAYER_ALREADY_REGISTERED"},
	{ErrPlayerNotRegistered, "PLAYER_IS_NOT_REGISTERED"},
	{ErrForbiddenCost, "FORBIDDEN_PARTICIPATION_COST"},
	{ErrMaximumGamesReached, "MAXIMUM_GAMES_COUNT_REACHED"},
	{ErrNotOperator, "SENDER_NOT_OPERATOR"},
	{ErrNotEnoughOperatorFees, "NOT_ENOUGH_OPERATOR_FEES"},
	{ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	{repository.ErrInsufficientFunds, "INSUFFICIENT_FUNDS"},
	{ErrInvalidAmount, "INVALID_AMOUNT"},
	{domain.ErrInvalidAccountName, "INVALID_ACCOUNT_NAME"},
}

// ErrorCode maps an invocation error to its stable machine-readable code.
func ErrorCode(err error) string {
	if err == nil {
		return CodeOK
	}
	for _, ec := range errorCodes {
		if errors.Is(err, ec.err) {
			return ec.code
		}
	}
	return CodeInternal
}

package game

import "sort"

const (
	// MinPlayers is the minimum number of players required to start.
	MinPlayers = 2
	// MaxPlayers is the capacity of a game.
	MaxPlayers = 10
	// CountdownPerPlayer is the ready countdown granted per player, in microseconds.
	CountdownPerPlayer int64 = 5 * 1000 * 1000

	LootRewardPercent  = 10
	OperatorFeePercent = 2
)

// GameState is one game record. It is loaded, mutated by exactly one
// operation and stored again by the hosting transaction; a failed operation
// may leave it half-mutated and the caller must discard it.
type GameState struct {
	token          string
	cost           int64
	host           string
	created        int64
	started        int64
	players        map[string]*Player
	reward         int64
	events         []string
	readyTimestamp int64
	closed         bool
}

// New creates a game in the lobby phase with an empty pool.
func New(token string, cost int64, host string, created int64) *GameState {
	return &GameState{
		token:   token,
		cost:    cost,
		host:    host,
		created: created,
		players: make(map[string]*Player),
	}
}

func (g *GameState) Token() string         { return g.token }
func (g *GameState) Cost() int64           { return g.cost }
func (g *GameState) Host() string          { return g.host }
func (g *GameState) Created() int64        { return g.created }
func (g *GameState) Started() int64        { return g.started }
func (g *GameState) ReadyTimestamp() int64 { return g.readyTimestamp }
func (g *GameState) Events() []string      { return g.events }
func (g *GameState) IsStarted() bool       { return g.started != 0 }
func (g *GameState) IsOver() bool          { return g.closed }

// ================================================
// Membership
// ================================================

func (g *GameState) Join(p *Player) error {
	if _, ok := g.players[p.Address]; ok {
		return ErrAlreadyJoined
	}
	if len(g.players) >= MaxPlayers {
		return ErrGameFull
	}
	g.players[p.Address] = p
	return nil
}

// Quit removes a player. The game is over once nobody is left; a leaving
// host is replaced by a randomly picked remaining player.
func (g *GameState) Quit(address string, rng *PRNG) error {
	if _, ok := g.players[address]; !ok {
		return ErrPlayerNotFound
	}
	delete(g.players, address)

	if len(g.players) == 0 {
		return g.Over()
	}

	if address == g.host {
		next, err := Pick(rng, g.sortedPlayers())
		if err != nil {
			return err
		}
		g.host = next.Address
	}
	return nil
}

// Player returns the participant registered under address.
func (g *GameState) Player(address string) (*Player, error) {
	p, ok := g.players[address]
	if !ok {
		return nil, ErrPlayerNotFound
	}
	return p, nil
}

// Players returns every participant, ordered by address.
func (g *GameState) Players() []*Player {
	return g.sortedPlayers()
}

func (g *GameState) PlayerCount() int {
	return len(g.players)
}

// ================================================
// Pool
// ================================================

func (g *GameState) Deposit(amount int64) error {
	if amount != g.cost {
		return ErrInvalidCost
	}
	g.reward += amount
	return nil
}

func (g *GameState) Withdraw(amount int64) error {
	if amount < 0 || g.reward < amount {
		return ErrInsufficientPool
	}
	g.reward -= amount
	return nil
}

// Pool is the remaining value escrowed by the game.
func (g *GameState) Pool() int64 {
	return g.reward
}

func (g *GameState) LootReward() int64 {
	return g.cost * LootRewardPercent / 100
}

func (g *GameState) OperatorFee() int64 {
	return g.reward * OperatorFeePercent / 100
}

func (g *GameState) WinnerReward() int64 {
	return g.reward - g.OperatorFee()
}

// ================================================
// Lobby
// ================================================

// AskReady starts the ready countdown. Only the host may ask.
func (g *GameState) AskReady(host string, now int64) error {
	p, err := g.Player(host)
	if err != nil {
		return err
	}
	if len(g.players) < MinPlayers {
		return ErrNotEnoughPlayers
	}
	if g.IsStarted() {
		return ErrAlreadyStarted
	}
	if g.readyTimestamp != 0 {
		return ErrCountdownAlreadyPending
	}
	if p.Address != g.host {
		return ErrNotHost
	}

	g.readyTimestamp = now + int64(len(g.players))*CountdownPerPlayer
	p.SetReady()
	return nil
}

func (g *GameState) ConfirmReady(address string) error {
	p, err := g.Player(address)
	if err != nil {
		return err
	}
	if g.IsStarted() {
		return ErrAlreadyStarted
	}
	if g.readyTimestamp == 0 {
		return ErrCountdownNotPending
	}
	p.SetReady()
	return nil
}

// Start evicts players that did not confirm, then hands a fresh bomb to a
// random player. The countdown only matters when someone was evicted, so a
// unanimous lobby may start early. The evicted players are returned for
// refunding; evictions are applied before the later checks and rely on the
// caller's rollback when one of them fails.
func (g *GameState) Start(now int64, rng *PRNG) ([]*Player, error) {
	if g.IsStarted() {
		return nil, ErrAlreadyStarted
	}

	var afkers []*Player
	for _, p := range g.sortedPlayers() {
		if !p.IsReady() {
			afkers = append(afkers, p)
		}
	}
	for _, afker := range afkers {
		if err := g.Quit(afker.Address, rng); err != nil {
			return nil, err
		}
	}

	if len(afkers) > 0 && now < g.readyTimestamp {
		return nil, ErrCountdownNotReached
	}
	if len(g.players) < MinPlayers {
		return nil, ErrNotEnoughPlayers
	}

	if err := g.spawnBomb(now, rng); err != nil {
		return nil, err
	}
	g.started = now
	return afkers, nil
}

// ================================================
// Active
// ================================================

// SendBomb passes the sender's bomb to a random alive player without a bomb.
// The explosion roll is always drawn, even when a shield discards it, so a
// shielded pass consumes the same PRNG stream as an unshielded one. A nil
// receiver means the bomb exploded: the sender is now lootable and keeps it.
func (g *GameState) SendBomb(sender string, now int64, useShield bool, rng *PRNG) (*Player, error) {
	if !g.IsStarted() {
		return nil, ErrNotStarted
	}
	p, err := g.Player(sender)
	if err != nil {
		return nil, err
	}
	if !p.IsAlive() {
		return nil, ErrAlreadyDead
	}
	bomb, err := p.HeldBomb()
	if err != nil {
		return nil, err
	}
	if bomb.TimedOut(now) {
		return nil, ErrAfkExploded
	}

	if useShield {
		if err := p.UseShield(); err != nil {
			return nil, err
		}
	}

	exploded, err := bomb.Explodes(rng)
	if err != nil {
		return nil, err
	}
	if exploded && !useShield {
		return nil, p.PrepareToDie()
	}

	receiver, err := g.randomPlayerWithoutBomb(p, rng)
	if err != nil {
		return nil, err
	}
	if _, err := p.TakeBomb(); err != nil {
		return nil, err
	}
	bomb.Advance(now)
	receiver.GiveBomb(bomb)
	return receiver, nil
}

// Loot finishes a lootable player. Unless that produced a victory, a new
// bomb is spawned on a random alive player.
func (g *GameState) Loot(looter, looted string, now int64, rng *PRNG) error {
	if !g.IsStarted() {
		return ErrNotStarted
	}
	lp, err := g.Player(looter)
	if err != nil {
		return err
	}
	victim, err := g.Player(looted)
	if err != nil {
		return err
	}
	if lp.Address == victim.Address {
		return ErrSuicide
	}

	if err := victim.Die(now); err != nil {
		return err
	}
	if _, err := victim.TakeBomb(); err != nil {
		return err
	}

	if !g.IsVictory() {
		return g.spawnBomb(now, rng)
	}
	return nil
}

// ================================================
// Victory
// ================================================

// IsVictory: one player alive and everybody else dead. A lootable straggler
// blocks the victory until looted.
func (g *GameState) IsVictory() bool {
	alive, dead := 0, 0
	for _, p := range g.players {
		switch {
		case p.IsAlive():
			alive++
		case p.IsDead():
			dead++
		}
	}
	return alive == 1 && dead == len(g.players)-1
}

// Winner returns the first alive player, nil if there is none.
func (g *GameState) Winner() *Player {
	for _, p := range g.sortedPlayers() {
		if p.IsAlive() {
			return p
		}
	}
	return nil
}

// ClaimVictory pays reward to the winner out of the pool and closes the game.
// Whatever remains in the pool afterwards is the operator fee.
func (g *GameState) ClaimVictory(winner string, reward int64) (int64, error) {
	if g.closed {
		return 0, ErrAlreadyOver
	}
	if !g.IsStarted() {
		return 0, ErrNotStarted
	}
	if !g.IsVictory() {
		return 0, ErrNotVictoryYet
	}
	if w := g.Winner(); w == nil || w.Address != winner {
		return 0, ErrNotTheWinner
	}
	if err := g.Withdraw(reward); err != nil {
		return 0, err
	}

	fee := g.reward
	g.reward = 0
	return fee, g.Over()
}

// Over closes the game. A closed game must be evicted from storage.
func (g *GameState) Over() error {
	if g.closed {
		return ErrAlreadyOver
	}
	g.closed = true
	return nil
}

// AddEvent records the id of an invocation that emitted events for this game.
// An invocation may emit several events but is recorded once.
func (g *GameState) AddEvent(id string) {
	for _, e := range g.events {
		if e == id {
			return
		}
	}
	g.events = append(g.events, id)
}

// PlayerWithBomb returns the current holder, nil if the bomb is not in play.
func (g *GameState) PlayerWithBomb() *Player {
	for _, p := range g.sortedPlayers() {
		if p.HasBomb() {
			return p
		}
	}
	return nil
}

// ================================================
// Helpers
// ================================================

func (g *GameState) spawnBomb(now int64, rng *PRNG) error {
	p, err := g.randomPlayerWithoutBomb(nil, rng)
	if err != nil {
		return err
	}
	p.GiveBomb(NewBomb(now))
	return nil
}

// randomPlayerWithoutBomb picks among alive players without a bomb, except
// immune. The eligible set is materialized in address order so the draw does
// not depend on map iteration.
func (g *GameState) randomPlayerWithoutBomb(immune *Player, rng *PRNG) (*Player, error) {
	var eligible []*Player
	for _, p := range g.sortedPlayers() {
		if !p.IsAlive() || p.HasBomb() {
			continue
		}
		if immune != nil && p.Address == immune.Address {
			continue
		}
		eligible = append(eligible, p)
	}
	if len(eligible) == 0 {
		return nil, ErrCannotDistribute
	}
	return Pick(rng, eligible)
}

func (g *GameState) sortedPlayers() []*Player {
	out := make([]*Player, 0, len(g.players))
	for _, p := range g.players {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Address < out[j].Address })
	return out
}

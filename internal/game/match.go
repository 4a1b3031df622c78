package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"go.uber.org/zap"

	"github.com/tom-jt/Diviners-Gambit/internal/game/catalog"
	"github.com/tom-jt/Diviners-Gambit/internal/game/effects"
	"github.com/tom-jt/Diviners-Gambit/internal/game/ledger"
	"github.com/tom-jt/Diviners-Gambit/internal/game/mana"
	"github.com/tom-jt/Diviners-Gambit/internal/game/rules"
	"github.com/tom-jt/Diviners-Gambit/internal/game/settings"
	"github.com/tom-jt/Diviners-Gambit/internal/game/state"
	"github.com/tom-jt/Diviners-Gambit/internal/game/status"
	"github.com/tom-jt/Diviners-Gambit/internal/game/watchers"
)

// Options configure a match. The zero value plays Remastered with the
// default pool, no pacing and no replay.
type Options struct {
	Settings settings.Settings
	// Catalog defaults to catalog.Default().
	Catalog *catalog.Catalog
	Seed    uint64
	Sink    Sink
	Pacer   Pacer
	// Recorder keeps a snapshot per round and saves it when a game ends.
	Recorder *ReplayRecorder
	Logger   *zap.Logger
	// Strict turns invariant violations into panics.
	Strict bool
	// AutoRematch starts the next game as soon as one ends.
	AutoRematch bool
	// OnGameOver is called under the match lock and must not call back
	// into the match.
	OnGameOver func(Result)
}

// Result summarises a finished game.
type Result struct {
	MatchID    string         `json:"match_id"`
	Game       int            `json:"game"`
	Winner     int            `json:"winner"`
	WinnerName string         `json:"winner_name"`
	Turns      int            `json:"turns"`
	Mode       string         `json:"mode"`
	Seed       uint64         `json:"seed"`
	Players    []ResultPlayer `json:"players"`
	Checksum   string         `json:"checksum"`
	EndedAt    time.Time      `json:"ended_at"`
}

// ResultPlayer is one seat of a Result.
type ResultPlayer struct {
	ID        int     `json:"id"`
	Name      string  `json:"name"`
	Health    float64 `json:"health"`
	DivinerID int     `json:"diviner_id"`
	Left      bool    `json:"left"`
}

// Match runs the games of one room. All methods are safe for concurrent use;
// resolution runs synchronously inside the call that completes a round.
type Match struct {
	mu sync.Mutex

	id       string
	settings settings.Settings
	seed     uint64
	strict   bool
	rematch  bool

	cat      *catalog.Catalog
	arena    *state.Arena
	bus      *rules.EventBus
	ledger   *ledger.Ledger
	statuses *status.Manager
	effects  *effects.Dispatcher
	turns    *rules.TurnManager
	registry *rules.WatcherRegistry
	stats    *watchers.Set
	dealer   *Dealer
	records  *Records

	sink       Sink
	pacer      Pacer
	recorder   *ReplayRecorder
	onGameOver func(Result)
	logger     *zap.Logger

	started bool
	game    int
	last    *Result
}

// NewMatch seats the named players. It fails when the player count is out of
// range or when the catalog has a card or status without an implementation.
func NewMatch(id string, names []string, opts Options) (*Match, error) {
	if len(names) < minPlayers {
		return nil, ErrTooFewPlayers
	}
	if len(names) > maxPlayers {
		return nil, ErrTooManyPlayers
	}

	cat := opts.Catalog
	if cat == nil {
		cat = catalog.Default()
	}
	if err := effects.Validate(cat); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}
	if err := status.Validate(cat); err != nil {
		return nil, fmt.Errorf("invalid catalog: %w", err)
	}

	logger := opts.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	logger = logger.With(zap.String("match_id", id))

	sink := opts.Sink
	if sink == nil {
		sink = NewLogSink(logger)
	}
	pacer := opts.Pacer
	if pacer == nil {
		pacer = NoPacing
	}

	cfg := opts.Settings.Normalized()
	arena := state.NewArena(names...)
	bus := rules.NewEventBus()
	l := ledger.New(arena, bus, logger)
	statuses := status.NewManager(cat, arena, bus, l, logger)
	statuses.SetStrict(opts.Strict)
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed^0x9e3779b97f4a7c15))
	dispatcher := effects.New(cat, arena, bus, l, statuses, rng, logger)
	dispatcher.SetStrict(opts.Strict)

	registry := rules.NewWatcherRegistry()

	m := &Match{
		id:         id,
		settings:   cfg,
		seed:       opts.Seed,
		strict:     opts.Strict,
		rematch:    opts.AutoRematch,
		cat:        cat,
		arena:      arena,
		bus:        bus,
		ledger:     l,
		statuses:   statuses,
		effects:    dispatcher,
		turns:      rules.NewTurnManager(1),
		registry:   registry,
		stats:      watchers.NewSet(registry),
		dealer:     NewDealer(cat, cfg.Pool),
		records:    NewRecords(),
		sink:       sink,
		pacer:      pacer,
		recorder:   opts.Recorder,
		onGameOver: opts.OnGameOver,
		logger:     logger,
	}
	statuses.OnCostChange(m.refreshHand)
	return m, nil
}

// ID returns the match id.
func (m *Match) ID() string {
	return m.id
}

// Start begins the first game.
func (m *Match) Start() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.started {
		return ErrMatchRunning
	}
	if m.seated() < minPlayers {
		return ErrTooFewPlayers
	}
	m.started = true
	m.begin()
	return nil
}

// Rematch starts a new game once the current one is over. Passive statuses
// and chosen diviners carry over; everything else is reset.
func (m *Match) Rematch() error {
	m.mu.Lock()
	defer m.mu.Unlock()

	if !m.started || m.turns.CurrentPhase() != rules.PhaseGameOver {
		return ErrMatchRunning
	}
	if m.seated() < minPlayers {
		return ErrTooFewPlayers
	}
	m.restart()
	return nil
}

// PlayCard commits cardID for the player. Targeting cards stay pending until
// ChooseTarget, unless nobody can be targeted, in which case they target
// their owner.
func (m *Match) PlayCard(playerID, cardID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.awaiting(playerID)
	if err != nil {
		return err
	}
	if p.Pending != nil {
		return ErrTargetPending
	}
	if p.Status != state.NotPlayed || p.Played != nil {
		return ErrNotYourTurn
	}
	if !p.HasInHand(cardID) {
		return ErrCardNotInHand
	}
	def, err := m.cat.Card(cardID)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrCardNotInHand, err)
	}
	cost := mana.EffectiveCost(p, def)
	if !mana.Affordable(cost, p.Mana) {
		return ErrCardUnplayable
	}

	pc := state.NewPlayedCard(def, p.ID)
	pc.Cost = cost
	p.RemoveFromHand(cardID)
	m.logger.Debug("card committed",
		zap.Int("player_id", p.ID),
		zap.String("card", def.Name),
		zap.Float64("cost", cost),
	)

	if def.Targets {
		targets := m.targets()
		if len(targets) == 0 {
			pc.Target = p.ID
		} else {
			p.Pending = pc
			m.sink.HandUpdated(p.ID, p.Hand)
			return nil
		}
	}

	m.commit(p, pc)
	return nil
}

// ChooseTarget completes a pending targeting card.
func (m *Match) ChooseTarget(playerID, targetID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.awaiting(playerID)
	if err != nil {
		return err
	}
	if p.Pending == nil {
		return ErrNoPendingCard
	}
	if !m.targetable(p.ID, targetID) {
		return ErrInvalidTarget
	}

	pc := p.Pending
	p.Pending = nil
	pc.Target = targetID
	m.commit(p, pc)
	return nil
}

// Targets returns the player ids the player may currently target.
func (m *Match) Targets(playerID int) ([]int, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if _, err := m.arena.Lookup(playerID); err != nil {
		return nil, err
	}
	targets := m.targets()
	if len(targets) == 0 {
		targets = []int{playerID}
	}
	return targets, nil
}

// Leave forfeits the player. During a game they are marked dead, and the
// game ends or resolves if they were the last one holding it up.
func (m *Match) Leave(playerID int) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	p, err := m.arena.Lookup(playerID)
	if err != nil {
		return err
	}
	if p.Left {
		return nil
	}
	p.Left = true
	m.logger.Info("player left", zap.Int("player_id", p.ID), zap.String("name", p.Name))

	if !m.started || m.turns.CurrentPhase() != rules.PhaseAwaitingCards || !p.Alive() {
		return nil
	}

	if p.Pending != nil {
		m.dealer.Refill(p, p.Pending)
		p.Pending = nil
	}
	m.kill(p)

	if len(m.arena.Alive()) <= 1 {
		m.concede()
		return nil
	}
	m.maybeResolve()
	return nil
}

// Record returns the tally of one player across games.
func (m *Match) Record(playerID int) Record {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.records.Of(playerID)
}

// LastResult returns the result of the most recent finished game.
func (m *Match) LastResult() (Result, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if m.last == nil {
		return Result{}, false
	}
	return *m.last, true
}

// Phase returns the current round phase.
func (m *Match) Phase() rules.Phase {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.turns.CurrentPhase()
}

// Turn returns the current turn number; 0 is the diviner pick.
func (m *Match) Turn() int {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.turns.TurnNumber()
}

// Snapshot captures the current state.
func (m *Match) Snapshot() *Snapshot {
	m.mu.Lock()
	defer m.mu.Unlock()

	return m.snapshot()
}

func (m *Match) snapshot() *Snapshot {
	return takeSnapshot(m.id, m.turns.TurnNumber(), m.turns.CurrentPhase().String(), m.arena)
}

// awaiting validates that playerID may act in the current phase.
func (m *Match) awaiting(playerID int) (*state.Player, error) {
	p, err := m.arena.Lookup(playerID)
	if err != nil {
		return nil, err
	}
	if !m.started {
		return nil, ErrNotAwaitingCards
	}
	switch m.turns.CurrentPhase() {
	case rules.PhaseAwaitingCards:
	case rules.PhaseGameOver:
		return nil, ErrMatchOver
	default:
		return nil, ErrNotAwaitingCards
	}
	if !p.Alive() {
		return nil, ErrPlayerDead
	}
	return p, nil
}

func (m *Match) targets() []int {
	var out []int
	for _, p := range m.arena.Players() {
		if p.Targetable && p.Alive() {
			out = append(out, p.ID)
		}
	}
	return out
}

// targetable falls back to self-targeting when nobody else can be chosen.
func (m *Match) targetable(self, id int) bool {
	targets := m.targets()
	if len(targets) == 0 {
		return id == self
	}
	for _, t := range targets {
		if t == id {
			return true
		}
	}
	return false
}

func (m *Match) commit(p *state.Player, pc *state.PlayedCard) {
	p.Played = pc
	p.Status = state.HasPlayed
	m.sink.HandUpdated(p.ID, p.Hand)
	m.maybeResolve()
}

func (m *Match) seated() int {
	n := 0
	for _, p := range m.arena.Players() {
		if !p.Left {
			n++
		}
	}
	return n
}

// begin initialises a fresh game on the current subscriptions.
func (m *Match) begin() {
	m.game++
	m.subscribe()

	for _, p := range m.arena.Players() {
		p.Status = state.NotPlayed
		p.Targetable = true
		p.Played, p.Pending = nil, nil
	}
	m.resetResources()

	if m.settings.Diviners {
		for _, p := range m.arena.Players() {
			m.dealer.DealDiviners(p)
		}
		m.bus.SubscribeOnce(rules.EventTurnEnd, m.divinersPicked)
		m.turns.Restart(0)
	} else {
		m.spawnModeStatuses()
		for _, p := range m.arena.Players() {
			m.dealer.Deal(p)
		}
		m.turns.Restart(1)
	}
	m.benchLeavers()

	m.startGame()
}

// restart prepares a rematch. Passive statuses are re-applied after the
// resources reset so that their adjustments survive it.
func (m *Match) restart() {
	m.game++
	m.statuses.Strip()
	m.bus.Reset()
	m.subscribe()

	for _, p := range m.arena.Players() {
		p.Status = state.NotPlayed
		p.Targetable = true
		p.Played, p.Pending = nil, nil
	}
	m.resetResources()
	for _, p := range m.arena.Players() {
		m.dealer.Deal(p)
	}
	m.statuses.Reapply()
	m.benchLeavers()
	m.turns.Restart(1)

	m.startGame()
}

func (m *Match) startGame() {
	m.registry.ResetWatchers()
	m.refreshAll()
	if m.recorder != nil {
		m.recorder.StartRecording(m.replayID(), m.seed)
		m.recorder.RecordState(m.replayID(), m.snapshot())
	}
	m.bus.Publish(rules.Event{Type: rules.EventGameStarted, PlayerID: state.NoPlayer, SourceID: state.NoPlayer, Turn: m.turns.TurnNumber()})
	m.logger.Info("game started",
		zap.Int("game", m.game),
		zap.String("mode", m.settings.Mode.String()),
		zap.String("pool", string(m.dealer.Pool())),
		zap.Bool("diviners", m.settings.Diviners),
		zap.Int("players", m.arena.Len()),
	)
	m.announceTurn()
}

func (m *Match) replayID() string {
	return fmt.Sprintf("%s-%d", m.id, m.game)
}

func (m *Match) subscribe() {
	m.registry.Attach(m.bus)
}

func (m *Match) resetResources() {
	health, mp := m.settings.StartingHealth(), m.settings.StartingMana()
	for _, p := range m.arena.Players() {
		m.ledger.ChangeHealth(p.ID, health, true)
		m.ledger.ChangeMana(p.ID, mp, true)
	}
}

// benchLeavers keeps players who left out of a new game.
func (m *Match) benchLeavers() {
	for _, p := range m.arena.Players() {
		if !p.Left {
			continue
		}
		p.Status = state.Dead
		p.Targetable = false
		p.Hand = nil
	}
}

func (m *Match) spawnModeStatuses() {
	preset := m.settings.Mode.Info().StatusID
	if preset < 0 {
		return
	}
	for _, p := range m.arena.Alive() {
		m.statuses.Spawn(p.ID, preset, -1, false, status.NoParams)
	}
}

// divinersPicked runs at the end of turn 0.
func (m *Match) divinersPicked(rules.Event) {
	for _, p := range m.arena.Players() {
		if p.Played != nil {
			p.DivinerID = p.Played.ID
		}
		p.Hand = nil
	}
	m.spawnModeStatuses()
	for _, p := range m.arena.Players() {
		if p.Left {
			continue
		}
		m.dealer.Deal(p)
	}
	m.logger.Info("diviners picked")
}

func (m *Match) maybeResolve() {
	if m.turns.CurrentPhase() != rules.PhaseAwaitingCards {
		return
	}
	for _, p := range m.arena.Alive() {
		if p.Status == state.NotPlayed {
			return
		}
	}
	m.resolveRound()
}

func (m *Match) advance(next rules.Phase) {
	if err := m.turns.Advance(next); err != nil {
		m.violation("phase transition rejected", zap.Error(err))
	}
}

func (m *Match) resolveRound() {
	m.advance(rules.PhaseRevealAndResolve)

	for _, p := range m.arena.Players() {
		if p.Played == nil {
			continue
		}
		m.sink.CardRevealed(p.ID, p.Played.ID)
		m.dealer.Refill(p, p.Played)
	}

	for tier, ok := m.turns.NextTier(); ok; tier, ok = m.turns.NextTier() {
		cards := rules.CardsAtTier(m.arena.Players(), tier)
		if rules.IsUniqueTier(tier) {
			cards = rules.SelectUnique(cards, m.arena.PlayedCardOf)
		}
		for _, pc := range cards {
			m.executeCard(pc, tier)
		}
	}

	m.bus.Publish(rules.Event{Type: rules.EventFinishExecute, PlayerID: state.NoPlayer, SourceID: state.NoPlayer, Turn: m.turns.TurnNumber()})
	m.refreshAll()
	m.detectDeaths()

	m.advance(rules.PhaseRoundEndCheck)
	m.endRound()
}

func (m *Match) executeCard(pc *state.PlayedCard, tier catalog.Priority) {
	if !m.ledger.PayCost(pc.Owner, pc.Cost) {
		m.logger.Debug("card skipped, cost not paid",
			zap.Int("player_id", pc.Owner),
			zap.String("card", pc.Name),
		)
		return
	}

	owner := m.arena.Player(pc.Owner)
	if tier != catalog.PriorityDontExecute && owner.CanUseEffects {
		m.effects.Execute(pc)
		m.bus.Publish(rules.NewCardEvent(rules.EventCardPlayed, pc, true))
	}

	if pc.Targets && pc.HasTarget() {
		m.sink.Arrow(pc.Owner, pc.Target)
	}
	m.pacer(StageCard)
}

func (m *Match) detectDeaths() {
	for _, p := range m.arena.Players() {
		if p.Alive() && p.Health <= 0 {
			m.kill(p)
		}
	}
}

func (m *Match) kill(p *state.Player) {
	p.Status = state.Dead
	p.Targetable = false
	m.bus.Publish(rules.NewEvent(rules.EventPlayerDied, p.ID, state.NoPlayer))
	m.sink.PlayerDied(p.ID)
	m.logger.Info("player died", zap.Int("player_id", p.ID), zap.Float64("health", p.Health))
}

func (m *Match) endRound() {
	m.pacer(StageRound)
	m.bus.Publish(rules.Event{Type: rules.EventTurnEnd, PlayerID: state.NoPlayer, SourceID: state.NoPlayer, Turn: m.turns.TurnNumber()})
	m.detectDeaths()
	m.logRound()

	if len(m.arena.Alive()) <= 1 {
		m.gameOver()
		return
	}

	for _, p := range m.arena.Players() {
		p.Played = nil
		if p.Status == state.HasPlayed {
			p.Status = state.NotPlayed
		}
	}
	m.advance(rules.PhaseAwaitingCards)
	m.refreshAll()
	if m.recorder != nil {
		m.recorder.RecordState(m.replayID(), m.snapshot())
	}
	m.announceTurn()
}

// concede ends the game without resolving the pending round.
func (m *Match) concede() {
	for _, p := range m.arena.Players() {
		if p.Played != nil {
			m.dealer.Refill(p, p.Played)
		}
		p.Played, p.Pending = nil, nil
	}
	m.advance(rules.PhaseRevealAndResolve)
	m.advance(rules.PhaseRoundEndCheck)
	m.gameOver()
}

func (m *Match) logRound() {
	ids := make([]int, 0, m.arena.Len())
	for _, p := range m.arena.Players() {
		ids = append(ids, p.ID)
	}
	for id, s := range m.stats.Stats(ids) {
		m.logger.Debug("round stats",
			zap.Int("turn", m.turns.TurnNumber()),
			zap.Int("player_id", id),
			zap.Int("cards_played", s.CardsPlayed),
			zap.Float64("damage_taken", s.DamageTaken),
			zap.Float64("healing", s.Healing),
			zap.Int("landed", s.Landed),
			zap.Int("blocked", s.Blocked),
			zap.Int("blocks", s.Blocks),
			zap.Bool("died", s.Died),
		)
	}
	m.registry.ResetWatchers()
}

func (m *Match) gameOver() {
	m.advance(rules.PhaseGameOver)

	winner, name := state.NoPlayer, ""
	if alive := m.arena.Alive(); len(alive) == 1 {
		winner, name = alive[0].ID, alive[0].Name
	}
	m.records.Finish(m.arena.Players(), winner)
	m.sink.GameEnded(winner, name)
	if winner == state.NoPlayer {
		m.sink.TextUpdated("Tied!")
	} else {
		m.sink.TextUpdated(fmt.Sprintf("%s Wins!", winnerLabel(winner, name)))
	}

	snap := m.snapshot()
	result := Result{
		MatchID:    m.id,
		Game:       m.game,
		Winner:     winner,
		WinnerName: name,
		Turns:      m.turns.TurnNumber(),
		Mode:       m.settings.Mode.String(),
		Seed:       m.seed,
		EndedAt:    snap.Timestamp,
	}
	for _, p := range m.arena.Players() {
		result.Players = append(result.Players, ResultPlayer{
			ID:        p.ID,
			Name:      p.Name,
			Health:    p.Health,
			DivinerID: p.DivinerID,
			Left:      p.Left,
		})
	}
	if sum, err := snap.ComputeChecksum(); err == nil {
		result.Checksum = sum.Hash
	}
	m.last = &result

	m.logger.Info("game over",
		zap.Int("game", m.game),
		zap.Int("winner", winner),
		zap.String("winner_name", name),
		zap.Int("turns", result.Turns),
		zap.String("checksum", result.Checksum),
	)

	if m.recorder != nil {
		m.recorder.RecordState(m.replayID(), snap)
		if err := m.recorder.SaveReplay(m.replayID()); err != nil {
			m.logger.Warn("failed to save replay", zap.Error(err))
		}
	}
	if m.onGameOver != nil {
		m.onGameOver(result)
	}

	m.pacer(StageGame)
	if m.rematch && m.seated() >= minPlayers {
		m.restart()
	}
}

func winnerLabel(id int, name string) string {
	if name == "" {
		return fmt.Sprintf("Player %d", id)
	}
	return name
}

func (m *Match) announceTurn() {
	if turn := m.turns.TurnNumber(); turn == 0 {
		m.sink.TextUpdated("Picking Diviners")
	} else {
		m.sink.TextUpdated(fmt.Sprintf("Turn %d", turn))
	}
}

// refreshHand re-prices one hand and pushes it to its owner.
func (m *Match) refreshHand(playerID int) {
	p := m.arena.Player(playerID)
	if p == nil {
		return
	}
	mana.Refresh(p, m.cat)
	m.sink.HandUpdated(p.ID, p.Hand)
}

func (m *Match) refreshAll() {
	for _, p := range m.arena.Players() {
		m.refreshHand(p.ID)
	}
}

func (m *Match) violation(msg string, fields ...zap.Field) {
	if m.strict {
		panic(fmt.Sprintf("%s: %v", msg, fields))
	}
	m.logger.Error(msg, fields...)
}

package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/depp1024/living/internal/agent"
	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/logger"
	"github.com/sirupsen/logrus"
)

// Journal принимает события прогона (см. infrastructure/storage).
type Journal interface {
	Append(ev domain.JournalEvent) error
	Close() error
}

// Area представляет собой одну загруженную область: мир, агенты и их планировщик.
// Всё, кроме снимка, принадлежит горутине Run.
type Area struct {
	ID    string
	World *domain.WorldContext
	Turns *TurnManager

	Seed     int64
	LoadedAt time.Time

	clock    Clock
	now      time.Duration
	journal  Journal
	eventSeq uint64

	publishEvery time.Duration
	lastPublish  time.Duration
	onPublish    func(api.ServerMessage)

	// Снимок для наблюдателей (HTTP, websocket)
	mu   sync.RWMutex
	view areaView

	running bool
	done    chan struct{}
	log     *logrus.Entry
}

// AreaOption настраивает область при создании.
type AreaOption func(*Area)

func WithJournal(j Journal) AreaOption {
	return func(a *Area) { a.journal = j }
}

func WithPublisher(fn func(api.ServerMessage), every time.Duration) AreaOption {
	return func(a *Area) {
		a.onPublish = fn
		a.publishEvery = every
	}
}

func NewArea(world *domain.WorldContext, seed int64, clock Clock, opts ...AreaOption) *Area {
	a := &Area{
		ID:       world.ID,
		World:    world,
		Turns:    NewTurnManager(),
		Seed:     seed,
		LoadedAt: time.Now(),
		clock:    clock,
		done:     make(chan struct{}),
		log:      logger.Log.WithField("area", world.ID),
	}
	for _, opt := range opts {
		opt(a)
	}
	a.refreshView()
	return a
}

// Spawn создает агента по профилю и ставит его в очередь. Вызывать до Run.
func (a *Area) Spawn(p *domain.Profile) domain.AgentHandle {
	ag := domain.NewAgent(p, a.World.Locale)
	h := a.World.Roster.Add(ag)
	a.Turns.Schedule(h, agent.NewWalker(a.World, ag, a), a.now)
	return h
}

// Run крутит планировщик области до опустошения очереди или отмены ctx.
// Ни два шага агентов, ни шаг и чтение ростера никогда не идут параллельно.
func (a *Area) Run(ctx context.Context) error {
	a.mu.Lock()
	a.running = true
	a.mu.Unlock()

	defer func() {
		a.mu.Lock()
		a.running = false
		a.mu.Unlock()
		a.refreshView()
		close(a.done)
	}()

	a.log.WithField("agents", a.Turns.Len()).Info("Area loop started")

	for {
		item := a.Turns.PeekNext()
		if item == nil {
			a.publish()
			a.log.Info("Area loop finished: no active agents")
			return nil
		}

		if err := a.clock.Sleep(ctx, item.Wake-a.now); err != nil {
			return fmt.Errorf("area %s: %w: %w", a.ID, domain.ErrAborted, err)
		}
		a.now = item.Wake

		delay, done, err := a.step(item)
		switch {
		case err != nil:
			a.log.WithFields(logrus.Fields{
				"agent": item.Handle,
			}).WithError(err).Error("Agent stopped")
			a.Turns.Remove(item.Handle)
			a.stopAgent(item.Handle, err)
		case done:
			a.Turns.Remove(item.Handle)
		default:
			a.Turns.Reschedule(item.Handle, a.now+delay)
		}

		if a.now-a.lastPublish >= a.publishEvery {
			a.publish()
		}
	}
}

// stopAgent завершает упавшего агента: его больше не шагают,
// поэтому он не должен оставаться собеседником для других.
func (a *Area) stopAgent(h domain.AgentHandle, cause error) {
	ag, ok := a.World.Roster.Get(h)
	if !ok {
		return
	}
	ag.EndTalk()
	ag.State = domain.StateTerminated
	a.Record(domain.JournalEvent{Kind: domain.EventTerminated, Agent: h, Nickname: ag.Nickname, Detail: cause.Error()})
}

// step выполняет шаг агента. Паника останавливает только этого агента.
func (a *Area) step(item *TurnItem) (delay time.Duration, done bool, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("agent %s panicked: %v", item.Handle, r)
			done = true
		}
	}()
	return item.Task.Step(a.now)
}

// Done закрывается, когда Run завершился.
func (a *Area) Done() <-chan struct{} {
	return a.done
}

// Now - виртуальное время области.
func (a *Area) Now() time.Duration {
	return a.now
}

// Dispose убирает всех агентов. Вызывать после остановки Run: сетку и индексы не трогает.
func (a *Area) Dispose() {
	for _, ag := range a.World.Roster.Agents() {
		a.Turns.Remove(ag.Handle)
		ag.Dispose()
		a.Record(domain.JournalEvent{Kind: domain.EventDisposed, Agent: ag.Handle, Nickname: ag.Nickname})
	}
	a.World.Roster.Clear()
	a.Record(domain.JournalEvent{Kind: domain.EventAreaCleared})

	if a.journal != nil {
		if err := a.journal.Close(); err != nil {
			a.log.WithError(err).Warn("Failed to close journal")
		}
		a.journal = nil
	}
	a.refreshView()
	a.log.Info("Area disposed")
}

// publish обновляет снимок и рассылает его наблюдателям.
func (a *Area) publish() {
	a.lastPublish = a.now
	snap := a.refreshView()
	if a.onPublish != nil {
		a.onPublish(api.ServerMessage{Type: api.MessageSnapshot, AreaID: a.ID, Snapshot: &snap})
	}
}

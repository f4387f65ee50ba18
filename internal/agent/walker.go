// Package agent - автомат поведения одного человека на карте.
//
// Жизненный цикл:
//  1. Idle -> скорость, случайная стартовая клетка, первая цель.
//  2. Routing -> маршрут до цели (или Terminated, если циклы кончились).
//  3. Moving -> по одной точке за шаг; каждая точка - точка приостановки.
//  4. EncounterCheck -> поиск соседа в радиусе 100 м, при успехе оба в Talking.
//  5. Talking -> свои реплики с паузами, затем прерванное состояние.
package agent

import (
	"errors"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/systems"
	"github.com/depp1024/living/pkg/logger"
	"github.com/depp1024/living/pkg/utils"
	"github.com/sirupsen/logrus"
)

// ErrNoWalkableCells - в области нет дорог, агента некуда поставить.
var ErrNoWalkableCells = errors.New("no walkable cells")

// EventSink принимает события для журнала прогона. Может быть nil.
type EventSink interface {
	Record(ev domain.JournalEvent)
}

// Walker ведёт одного агента. Вызывается только из горутины области.
type Walker struct {
	Agent *domain.Agent

	world *domain.WorldContext
	sink  EventSink
	log   *logrus.Entry
}

func NewWalker(w *domain.WorldContext, a *domain.Agent, sink EventSink) *Walker {
	return &Walker{
		Agent: a,
		world: w,
		sink:  sink,
		log: logger.Log.WithFields(logrus.Fields{
			"area":  w.ID,
			"agent": a.Nickname,
		}),
	}
}

// Step выполняет переходы до ближайшей точки приостановки.
// Возвращает задержку до следующего вызова; done=true - агент завершил маршрут.
func (b *Walker) Step(now time.Duration) (delay time.Duration, done bool, err error) {
	a := b.Agent
	for {
		// Партнёр мог начать с нами разговор, пока мы спали.
		if a.IsTalking() && a.State != domain.StateTalking {
			a.Talk.Resume = a.State
			a.State = domain.StateTalking
		}

		switch a.State {
		case domain.StateIdle:
			if err := b.setup(); err != nil {
				return 0, true, err
			}
			a.State = domain.StateRouting

		case domain.StateRouting:
			if a.Routing.Exhausted() {
				a.State = domain.StateTerminated
				b.log.Info("Route cycles finished")
				b.record(now, domain.EventTerminated, "", "")
				return 0, true, nil
			}
			a.Movement = systems.BuildRoute(b.world, a.Pos, a.Routing.Goal)
			a.State = domain.StateMoving
			if a.Movement.Done() {
				// Стоим на месте: минимальная пауза, чтобы не прокрутить все циклы за один шаг.
				b.arrive(now)
				return domain.MinStepDurationMs * time.Millisecond, false, nil
			}

		case domain.StateMoving:
			d, ok := systems.AdvanceWaypoint(a)
			if !ok {
				b.arrive(now)
				continue
			}
			a.State = domain.StateEncounterCheck
			return d, false, nil

		case domain.StateEncounterCheck:
			a.State = domain.StateMoving
			if partner := systems.FindEncounter(b.world, a); partner != nil {
				found := systems.StartConversation(b.world, a, partner)
				b.log.WithFields(logrus.Fields{
					"partner": partner.Nickname,
					"script":  found,
				}).Debug("Conversation started")
				b.record(now, domain.EventTalkStart, partner.Nickname, "")
			}

		case domain.StateTalking:
			if line, ok := systems.NextLine(a); ok {
				b.log.WithField("line", line.Text).Debug("Says")
				return systems.LineDelay(), false, nil
			}
			partner := a.Talk.PartnerNickname
			a.EndTalk()
			// Продолжаем с прерванного места: Idle ещё не размещён, Routing уже отметил прибытие.
			a.State = a.Talk.Resume
			b.record(now, domain.EventTalkEnd, partner, "")

		case domain.StateTerminated:
			return 0, true, nil

		default:
			return 0, true, errors.New("unknown agent state " + a.State.String())
		}
	}
}

// setup: скорость, стартовая клетка и первая цель.
func (b *Walker) setup() error {
	a := b.Agent
	cells := b.world.Grid.WalkableCells()
	idx := utils.RandomIndex(b.world.Rng, len(cells))
	if idx < 0 {
		return ErrNoWalkableCells
	}

	a.Speed = utils.RandomRange(b.world.Rng, domain.SpeedMin, domain.SpeedMax)
	a.Pos = cells[idx]
	a.GeoPos = b.world.ToGeo(a.Pos)
	systems.SelectGoal(b.world, a)

	b.log.WithFields(logrus.Fields{
		"speed": a.Speed,
		"start": a.Pos,
		"goal":  a.Routing.Goal,
	}).Debug("Agent placed")
	return nil
}

// arrive: маршрут пройден, переходим к следующей группе категорий.
func (b *Walker) arrive(now time.Duration) {
	a := b.Agent
	b.record(now, domain.EventArrival, "", a.Routing.Destination.Place)

	a.Routing.Advance()
	a.Movement = nil
	a.State = domain.StateRouting
	if !a.Routing.Exhausted() {
		systems.SelectGoal(b.world, a)
	}
}

func (b *Walker) record(now time.Duration, kind domain.EventKind, partner, place string) {
	if b.sink == nil {
		return
	}
	b.sink.Record(domain.JournalEvent{
		TimeMs:   now.Milliseconds(),
		Area:     b.world.ID,
		Kind:     kind,
		Agent:    b.Agent.Handle,
		Nickname: b.Agent.Nickname,
		Partner:  partner,
		Place:    place,
	})
}

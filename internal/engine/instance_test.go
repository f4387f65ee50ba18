package engine

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/systems"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// scriptTask отдает заданные задержки и пишет время своих шагов в общий лог.
type scriptTask struct {
	name   string
	delays []time.Duration
	log    *[]string
	fail   error
	panics bool
}

func (s *scriptTask) Step(now time.Duration) (time.Duration, bool, error) {
	*s.log = append(*s.log, s.name+"@"+now.String())
	if s.panics {
		panic("boom")
	}
	if s.fail != nil {
		return 0, false, s.fail
	}
	if len(s.delays) == 0 {
		return 0, true, nil
	}
	d := s.delays[0]
	s.delays = s.delays[1:]
	return d, false, nil
}

func newEmptyArea(opts ...AreaOption) *Area {
	rect := geo.RectFromCenter(testCenter.Lat, testCenter.Lng, 0.5)
	w := BuildWorld(WorldData{ID: "t", Center: testCenter, Rect: rect, Network: domain.NewRoadNetwork(), Seed: 1})
	return NewArea(w, 1, VirtualClock{}, opts...)
}

func TestAreaSchedulerOrder(t *testing.T) {
	var log []string
	a := newEmptyArea()
	a.Turns.Schedule(domain.PackAgentHandle(0, 1), &scriptTask{name: "a", delays: []time.Duration{300 * time.Millisecond}, log: &log}, 0)
	a.Turns.Schedule(domain.PackAgentHandle(1, 1), &scriptTask{name: "b", delays: []time.Duration{100 * time.Millisecond, 200 * time.Millisecond}, log: &log}, 0)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, []string{"a@0s", "b@0s", "b@100ms", "a@300ms", "b@300ms"}, log)
	assert.Equal(t, 300*time.Millisecond, a.Now())
}

func TestAreaAgentFailureIsolated(t *testing.T) {
	var log []string
	a := newEmptyArea()
	a.Turns.Schedule(domain.PackAgentHandle(0, 1), &scriptTask{name: "panic", panics: true, log: &log}, 0)
	a.Turns.Schedule(domain.PackAgentHandle(1, 1), &scriptTask{name: "err", fail: errors.New("bad"), log: &log}, 0)
	a.Turns.Schedule(domain.PackAgentHandle(2, 1), &scriptTask{name: "ok", delays: []time.Duration{time.Second}, log: &log}, 0)

	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, []string{"panic@0s", "err@0s", "ok@0s", "ok@1s"}, log)
}

func TestAreaFailedAgentLeavesConversations(t *testing.T) {
	journal := &memoryJournal{}
	a := newEmptyArea(WithJournal(journal))
	profiles := testProfiles()
	talking := domain.NewAgent(profiles[0], "en")
	walking := domain.NewAgent(profiles[1], "en")
	partner := domain.NewAgent(&domain.Profile{ID: "p3", Nickname: "carol"}, "en")
	ht := a.World.Roster.Add(talking)
	hw := a.World.Roster.Add(walking)
	a.World.Roster.Add(partner)

	// Один упал посреди разговора, другой на ходу.
	talking.State = domain.StateMoving
	talking.StartTalk(domain.RoleResponder, walking, nil)
	walking.State = domain.StateMoving
	a.Turns.Schedule(ht, &scriptTask{name: "talking", panics: true, log: new([]string)}, 0)
	a.Turns.Schedule(hw, &scriptTask{name: "walking", fail: errors.New("bad step"), log: new([]string)}, 0)

	require.NoError(t, a.Run(context.Background()))

	assert.Equal(t, domain.StateTerminated, talking.State)
	assert.Equal(t, domain.StateTerminated, walking.State)
	assert.False(t, talking.IsTalking())
	assert.Nil(t, systems.FindEncounter(a.World, partner), "a stopped agent is never picked as a partner")

	var details []string
	for _, ev := range journal.events {
		if ev.Kind == domain.EventTerminated {
			details = append(details, ev.Nickname+": "+ev.Detail)
		}
	}
	require.Len(t, details, 2)
	assert.Contains(t, details[0], "alice: ")
	assert.Contains(t, details[0], "panicked")
	assert.Equal(t, "bob: bad step", details[1])
}

func TestAreaCancel(t *testing.T) {
	var log []string
	a := newEmptyArea()
	a.Turns.Schedule(domain.PackAgentHandle(0, 1), &scriptTask{name: "a", delays: []time.Duration{time.Hour}, log: &log}, 0)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	err := a.Run(ctx)
	assert.ErrorIs(t, err, domain.ErrAborted)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, log)

	select {
	case <-a.Done():
	default:
		t.Fatal("done channel must be closed")
	}
}

func TestAreaPublishesSnapshots(t *testing.T) {
	var log []string
	var got []api.ServerMessage
	a := newEmptyArea(WithPublisher(func(m api.ServerMessage) { got = append(got, m) }, time.Second))
	a.Turns.Schedule(domain.PackAgentHandle(0, 1), &scriptTask{
		name:   "a",
		delays: []time.Duration{500 * time.Millisecond, 500 * time.Millisecond, 500 * time.Millisecond},
		log:    &log,
	}, 0)

	require.NoError(t, a.Run(context.Background()))
	require.NotEmpty(t, got)
	for _, m := range got {
		assert.Equal(t, api.MessageSnapshot, m.Type)
		assert.Equal(t, "t", m.AreaID)
		require.NotNil(t, m.Snapshot)
	}
	require.Len(t, got, 2)
	assert.Equal(t, int64(1000), got[0].Snapshot.TimeMs)
	assert.Equal(t, int64(1500), got[1].Snapshot.TimeMs, "final snapshot when the queue drains")
}

func TestAreaSpawnAndDispose(t *testing.T) {
	journal := &memoryJournal{}
	a := newEmptyArea(WithJournal(journal))
	h := a.Spawn(&domain.Profile{ID: "p", Nickname: "carol", Patterns: [][]string{{"food"}}})

	ag, ok := a.World.Roster.Get(h)
	require.True(t, ok)
	assert.Equal(t, h, ag.Handle)
	assert.Equal(t, 1, a.Turns.Len())

	// Дорог нет: агент падает на первом шаге, но область завершается штатно
	require.NoError(t, a.Run(context.Background()))
	assert.Equal(t, 0, a.Turns.Len())

	a.Dispose()
	_, ok = a.World.Roster.Get(h)
	assert.False(t, ok, "stale handle after dispose")
	assert.False(t, ag.Active)
	assert.True(t, journal.closed)
	assert.Equal(t, 1, journal.kinds()[domain.EventDisposed])
}

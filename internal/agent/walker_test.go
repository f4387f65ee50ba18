package agent

import (
	"math/rand"
	"os"
	"testing"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/systems"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMain(m *testing.M) {
	logger.Init()
	os.Exit(m.Run())
}

type memorySink struct {
	events []domain.JournalEvent
}

func (s *memorySink) Record(ev domain.JournalEvent) { s.events = append(s.events, ev) }

func (s *memorySink) kinds() []domain.EventKind {
	var out []domain.EventKind
	for _, ev := range s.events {
		out = append(out, ev.Kind)
	}
	return out
}

// newLineWorld - одна дорога вдоль широты длиной n клеток (~1.1 м на клетку).
func newLineWorld(n int, anns ...domain.FacilityAnnotation) *domain.WorldContext {
	grid := domain.NewNavigableGrid(n, 1)
	for x := 0; x < n; x++ {
		grid.MarkWalkable(domain.Position{X: x, Y: 0})
	}
	for _, a := range anns {
		grid.Annotate(a.NodeID, a.Tags, a.Pos())
	}
	return &domain.WorldContext{
		ID:          "test",
		Rect:        geo.RectFromCenter(35.6896, 139.6921, 0.5),
		Grid:        grid,
		Annotations: domain.NewAnnotationIndex(grid.Annotations()),
		Dialogue:    domain.NewDialogueTable(),
		Roster:      domain.NewRoster(),
		Rng:         rand.New(rand.NewSource(7)),
	}
}

func newAgent(w *domain.WorldContext, nickname string) *domain.Agent {
	a := domain.NewAgent(&domain.Profile{
		ID:       nickname,
		Nickname: nickname,
		Names:    map[string]string{"en": nickname},
		Patterns: [][]string{{"cafe"}},
	}, "en")
	w.Roster.Add(a)
	return a
}

// moving ставит агента в клетку from с маршрутом до to.
func moving(w *domain.WorldContext, a *domain.Agent, from, to int) {
	a.Speed = 0.01
	a.Pos = domain.Position{X: from, Y: 0}
	a.GeoPos = w.ToGeo(a.Pos)
	a.Routing.Goal = domain.Position{X: to, Y: 0}
	a.Movement = systems.BuildRoute(w, a.Pos, a.Routing.Goal)
	a.State = domain.StateMoving
}

func TestEncounterAfterWaypoint(t *testing.T) {
	w := newLineWorld(200)
	w.Dialogue.Add("taro", "hanako", domain.ParseTranscript("taro「やあ」hanako「こんにちは」"))

	a := newAgent(w, "taro")
	b := newAgent(w, "hanako")
	moving(w, a, 10, 12)
	moving(w, b, 56, 58) // ~50 м

	sink := &memorySink{}
	wa := NewWalker(w, a, sink)

	d, done, err := wa.Step(0)
	require.NoError(t, err)
	assert.False(t, done)
	assert.GreaterOrEqual(t, d, 100*time.Millisecond)
	assert.Equal(t, domain.StateEncounterCheck, a.State)

	// Прибытие в точку: проверка соседей, затем первая реплика.
	d, done, err = wa.Step(d)
	require.NoError(t, err)
	assert.False(t, done)
	assert.Equal(t, systems.LineDelay(), d)

	assert.Equal(t, domain.StateTalking, a.State)
	assert.Equal(t, domain.StateTalking, b.State)
	assert.Equal(t, domain.RoleInitiator, a.Talk.Role)
	assert.Equal(t, domain.RoleResponder, b.Talk.Role)
	assert.NotEmpty(t, a.Talk.Playback)
	assert.NotEmpty(t, b.Talk.Playback)
	assert.Contains(t, sink.kinds(), domain.EventTalkStart)

	// Партнёр просыпается уже в разговоре и проигрывает свои реплики.
	wb := NewWalker(w, b, sink)
	d, _, err = wb.Step(0)
	require.NoError(t, err)
	assert.Equal(t, systems.LineDelay(), d)
	assert.Equal(t, 1, b.Talk.Line)
}

func TestEncounterWithoutDialogue(t *testing.T) {
	w := newLineWorld(200)
	a := newAgent(w, "taro")
	b := newAgent(w, "hanako")
	moving(w, a, 10, 12)
	moving(w, b, 56, 58)

	wa := NewWalker(w, a, nil)
	wb := NewWalker(w, b, nil)

	d, _, err := wa.Step(0)
	require.NoError(t, err)
	require.NotPanics(t, func() { _, _, err = wa.Step(d) })
	require.NoError(t, err)

	assert.False(t, a.IsTalking(), "talk ends immediately without lines")
	assert.True(t, a.HasTalkedTo("hanako"))
	assert.True(t, b.IsTalking(), "partner clears its own flag")

	_, _, err = wb.Step(d)
	require.NoError(t, err)
	assert.False(t, b.IsTalking())
	assert.NotEqual(t, domain.StateTalking, b.State)
}

func TestWalkerRunsToTermination(t *testing.T) {
	anns := []domain.FacilityAnnotation{
		{NodeID: 1, Tags: domain.Tags{"amenity": "cafe", "name": "North"}, X: 90, Y: 0},
		{NodeID: 2, Tags: domain.Tags{"amenity": "cafe", "name": "South"}, X: 5, Y: 0},
	}
	w := newLineWorld(100, anns...)
	a := newAgent(w, "taro")
	sink := &memorySink{}
	wa := NewWalker(w, a, sink)

	now := time.Duration(0)
	for i := 0; i < 10000; i++ {
		d, done, err := wa.Step(now)
		require.NoError(t, err)
		if done {
			break
		}
		now += d
	}

	assert.Equal(t, domain.StateTerminated, a.State)
	assert.Equal(t, 5, a.Routing.Cycle)
	assert.True(t, a.Active, "marker stays until disposed")
	assert.InDelta(t, 0.01, a.Speed, 0.005)

	kinds := sink.kinds()
	require.NotEmpty(t, kinds)
	assert.Equal(t, domain.EventTerminated, kinds[len(kinds)-1])

	arrivals := 0
	for _, k := range kinds {
		if k == domain.EventArrival {
			arrivals++
		}
	}
	assert.Equal(t, 5, arrivals)

	_, done, err := wa.Step(now)
	assert.NoError(t, err)
	assert.True(t, done)
}

func TestWalkerNoRoads(t *testing.T) {
	w := newLineWorld(0)
	a := newAgent(w, "taro")

	_, done, err := NewWalker(w, a, nil).Step(0)
	assert.ErrorIs(t, err, ErrNoWalkableCells)
	assert.True(t, done)
}

// talkUntilResumed прогоняет ответчика до конца его реплик.
func talkUntilResumed(t *testing.T, wb *Walker) {
	t.Helper()
	now := time.Duration(0)
	for i := 0; i < 100; i++ {
		d, done, err := wb.Step(now)
		require.NoError(t, err)
		require.False(t, done)
		if wb.Agent.State != domain.StateTalking {
			return
		}
		now += d
	}
	t.Fatal("responder never left the conversation")
}

func TestResponderResumesRouting(t *testing.T) {
	w := newLineWorld(200)
	w.Dialogue.Add("taro", "hanako", domain.ParseTranscript("taro「やあ」hanako「こんにちは」"))

	a := newAgent(w, "taro")
	b := newAgent(w, "hanako")
	moving(w, a, 10, 12)

	// Ответчик только что прибыл: маршрут сброшен, новая цель выбрана, ждёт паузы.
	b.Speed = 0.01
	b.Pos = domain.Position{X: 56, Y: 0}
	b.GeoPos = w.ToGeo(b.Pos)
	b.Movement = nil
	b.State = domain.StateRouting
	b.Routing.Cycle = 1
	b.Routing.Goal = domain.Position{X: 60, Y: 0}
	b.Routing.History = []domain.Visit{{Place: "Cafe A"}}

	wa := NewWalker(w, a, nil)
	d, _, err := wa.Step(0)
	require.NoError(t, err)
	_, _, err = wa.Step(d)
	require.NoError(t, err)
	require.True(t, b.IsTalking())
	assert.Equal(t, domain.StateRouting, b.Talk.Resume)

	sink := &memorySink{}
	wb := NewWalker(w, b, sink)
	talkUntilResumed(t, wb)

	assert.Equal(t, 1, b.Routing.Cycle, "talk does not consume a goal cycle")
	assert.Len(t, b.Routing.History, 1)
	assert.Equal(t, domain.Position{X: 60, Y: 0}, b.Routing.Goal)
	assert.NotContains(t, sink.kinds(), domain.EventArrival)
	assert.Equal(t, []domain.EventKind{domain.EventTalkEnd}, sink.kinds())
	// Маршрут к прежней цели построен и первый шаг сделан.
	require.NotNil(t, b.Movement)
	assert.Equal(t, domain.StateEncounterCheck, b.State)
}

func TestResponderResumesIdle(t *testing.T) {
	w := newLineWorld(200)
	w.Dialogue.Add("taro", "hanako", domain.ParseTranscript("taro「やあ」hanako「こんにちは」"))

	a := newAgent(w, "taro")
	b := newAgent(w, "hanako")
	moving(w, a, 10, 12)
	systems.StartConversation(w, a, b)
	require.Equal(t, domain.StateIdle, b.Talk.Resume)

	wb := NewWalker(w, b, nil)
	talkUntilResumed(t, wb)

	// После разговора агент всё равно размещается на карте.
	assert.Greater(t, b.Speed, 0.0)
	assert.True(t, w.Grid.IsWalkable(b.Pos))
	assert.NotEmpty(t, b.Routing.History, "first goal chosen by setup")
}

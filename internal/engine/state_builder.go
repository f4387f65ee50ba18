package engine

import (
	"sort"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/api"
	"github.com/depp1024/living/pkg/geo"
)

// areaView - копия состояния области для чтения из других горутин.
type areaView struct {
	snapshot api.AreaSnapshot
	details  map[string]api.AgentDetail
	queue    []api.QueueItemView
}

// refreshView пересобирает снимок. Вызывается только горутиной, владеющей областью.
func (a *Area) refreshView() api.AreaSnapshot {
	labels := domain.Labels(a.World.Locale)

	snap := api.AreaSnapshot{
		AreaID: a.ID,
		TimeMs: a.now.Milliseconds(),
		Center: toLatLng(a.World.Center),
		Rect: api.RectView{
			BottomLeft:          toLatLng(a.World.Rect.BottomLeft),
			TopRight:            toLatLng(a.World.Rect.TopRight),
			CrossesAntimeridian: a.World.Rect.CrossesAntimeridian,
		},
		Agents: make([]api.AgentView, 0, a.World.Roster.Len()),
	}
	details := make(map[string]api.AgentDetail, a.World.Roster.Len())

	a.World.Roster.Each(func(ag *domain.Agent) {
		view := toAgentView(ag, labels)
		snap.Agents = append(snap.Agents, view)
		details[view.Handle] = toAgentDetail(ag, view)
	})

	queue := a.Turns.DebugDump()

	a.mu.Lock()
	a.view = areaView{snapshot: snap, details: details, queue: queue}
	a.mu.Unlock()
	return snap
}

// Snapshot возвращает последний опубликованный снимок.
func (a *Area) Snapshot() api.AreaSnapshot {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return a.view.snapshot
}

// AgentDetail возвращает подробности агента из последнего снимка.
func (a *Area) AgentDetail(h domain.AgentHandle) (api.AgentDetail, bool) {
	a.mu.RLock()
	defer a.mu.RUnlock()
	d, ok := a.view.details[h.Key()]
	return d, ok
}

// QueueDump - очередь планировщика на момент последнего снимка.
func (a *Area) QueueDump() []api.QueueItemView {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]api.QueueItemView, len(a.view.queue))
	copy(out, a.view.queue)
	return out
}

// Summary - строка для списка областей.
func (a *Area) Summary() api.AreaSummary {
	a.mu.RLock()
	defer a.mu.RUnlock()
	return api.AreaSummary{
		ID:         a.ID,
		Center:     toLatLng(a.World.Center),
		Agents:     len(a.view.snapshot.Agents),
		Walkable:   len(a.World.Grid.WalkableCells()),
		Facilities: a.World.Facilities.Len(),
		Running:    a.running,
		LoadedAt:   a.LoadedAt.UnixMilli(),
	}
}

func toAgentView(ag *domain.Agent, labels domain.PopupLabels) api.AgentView {
	view := api.AgentView{
		Handle:   ag.Handle.Key(),
		Nickname: ag.Nickname,
		Name:     ag.Texts.Name,
		Icon:     ag.Icon,
		Color:    ag.Color,
		State:    ag.State.String(),
		Active:   ag.Active,
		Geo:      toLatLng(ag.GeoPos),
		Speed:    ag.Speed,
		Popup:    ag.StatusText(labels),
	}
	view.Pos.X = ag.Pos.X
	view.Pos.Y = ag.Pos.Y

	if r := ag.Routing; r != nil {
		view.Destination = r.Destination.Place
		view.Amenity = r.Destination.Amenity
		view.Cycle = r.Cycle
		view.MaxCycles = r.MaxCycles
		view.StoppedBy = ag.PreviousPlace()
	}

	if ag.IsTalking() {
		view.Talk = &api.TalkView{
			Role:    ag.Talk.Role.String(),
			Partner: ag.Talk.PartnerNickname,
			Line:    ag.Talk.Line,
			Lines:   len(ag.Talk.Playback),
		}
	}
	return view
}

func toAgentDetail(ag *domain.Agent, view api.AgentView) api.AgentDetail {
	d := api.AgentDetail{AgentView: view, History: []api.VisitView{}}
	if r := ag.Routing; r != nil {
		d.Patterns = r.Patterns
		for _, v := range r.History {
			d.History = append(d.History, api.VisitView{Place: v.Place, Comment: v.Comment})
		}
	}
	if m := ag.Movement; m != nil {
		for _, wp := range m.Waypoints {
			d.Route = append(d.Route, toLatLng(wp))
		}
		for _, c := range m.Crossed {
			if name := c.Tags.Name(); name != "" {
				d.Crossed = append(d.Crossed, name)
			} else {
				d.Crossed = append(d.Crossed, c.Tags.Amenity())
			}
		}
	}
	return d
}

func toLatLng(p geo.LatLng) api.LatLng {
	return api.LatLng{Lat: p.Lat, Lng: p.Lng}
}

// sortQueueView упорядочивает дамп очереди так, как её обходит планировщик.
func sortQueueView(items []api.QueueItemView) {
	sort.Slice(items, func(i, j int) bool {
		if items[i].WakeMs != items[j].WakeMs {
			return items[i].WakeMs < items[j].WakeMs
		}
		return items[i].Seq < items[j].Seq
	})
}

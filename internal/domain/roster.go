package domain

// Roster - арена агентов области. Слот освобождается при удалении,
// поколение растёт, поэтому старые хендлы перестают резолвиться.
type Roster struct {
	slots []rosterSlot
	free  []uint32
	count int
}

type rosterSlot struct {
	agent      *Agent
	generation uint32
}

func NewRoster() *Roster {
	return &Roster{}
}

// Add кладёт агента в свободный слот и проставляет ему Handle.
func (r *Roster) Add(a *Agent) AgentHandle {
	var slot uint32
	if n := len(r.free); n > 0 {
		slot = r.free[n-1]
		r.free = r.free[:n-1]
	} else {
		slot = uint32(len(r.slots))
		r.slots = append(r.slots, rosterSlot{})
	}

	s := &r.slots[slot]
	s.generation++
	s.agent = a
	r.count++

	a.Handle = PackAgentHandle(slot, s.generation)
	return a.Handle
}

// Get резолвит хендл. Устаревший хендл даёт false.
func (r *Roster) Get(h AgentHandle) (*Agent, bool) {
	slot := h.Slot()
	if h.IsZero() || int(slot) >= len(r.slots) {
		return nil, false
	}
	s := r.slots[slot]
	if s.agent == nil || s.generation != h.Generation() {
		return nil, false
	}
	return s.agent, true
}

// Remove освобождает слот.
func (r *Roster) Remove(h AgentHandle) bool {
	if _, ok := r.Get(h); !ok {
		return false
	}
	slot := h.Slot()
	r.slots[slot].agent = nil
	r.free = append(r.free, slot)
	r.count--
	return true
}

func (r *Roster) Len() int {
	return r.count
}

// Each обходит живых агентов в порядке слотов.
func (r *Roster) Each(fn func(*Agent)) {
	for i := range r.slots {
		if a := r.slots[i].agent; a != nil {
			fn(a)
		}
	}
}

// Agents - снимок списка в порядке слотов.
func (r *Roster) Agents() []*Agent {
	out := make([]*Agent, 0, r.count)
	r.Each(func(a *Agent) { out = append(out, a) })
	return out
}

// Clear удаляет всех (поколения слотов сохраняются).
func (r *Roster) Clear() {
	r.free = r.free[:0]
	for i := range r.slots {
		r.slots[i].agent = nil
		r.free = append(r.free, uint32(i))
	}
	r.count = 0
}

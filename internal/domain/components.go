package domain

import "github.com/depp1024/living/pkg/geo"

// --- КОМПОНЕНТЫ ---

// Visit - запись истории назначений.
type Visit struct {
	Place   string `json:"place"`
	Comment string `json:"comment,omitempty"`
}

// Destination - текущая цель агента.
type Destination struct {
	Place   string `json:"place"`
	Amenity string `json:"amenity"`
}

// RoutingComponent - куда и в каком порядке ходит агент.
type RoutingComponent struct {
	Patterns     [][]string `json:"patterns"`
	PatternIndex int        `json:"patternIndex"`
	Cycle        int        `json:"cycle"`
	MaxCycles    int        `json:"maxCycles"`

	Goal        Position    `json:"goal"`
	Destination Destination `json:"destination"`
	History     []Visit     `json:"history"`

	// Comments - пул реплик по категории (из профиля).
	Comments map[string][]string `json:"-"`
}

// CurrentCategories - группа категорий текущего шага цикла (nil, если шаблонов нет).
func (r *RoutingComponent) CurrentCategories() []string {
	if len(r.Patterns) == 0 {
		return nil
	}
	return r.Patterns[r.PatternIndex%len(r.Patterns)]
}

// Advance переходит к следующей группе и считает завершённые циклы.
func (r *RoutingComponent) Advance() {
	r.Cycle++
	if len(r.Patterns) > 0 {
		r.PatternIndex = (r.PatternIndex + 1) % len(r.Patterns)
	}
}

// Exhausted - агент прошёл все len(patterns)*5 циклов.
func (r *RoutingComponent) Exhausted() bool {
	return r.Cycle >= r.MaxCycles
}

// Visited проверяет, был ли агент уже в этом месте.
func (r *RoutingComponent) Visited(place string) bool {
	for _, v := range r.History {
		if v.Place == place {
			return true
		}
	}
	return false
}

// MovementComponent - текущий маршрут.
type MovementComponent struct {
	Cells     []Position   `json:"cells"`
	Waypoints []geo.LatLng `json:"waypoints"`
	Next      int          `json:"next"`

	// Crossed - заведения, мимо которых проходит маршрут.
	Crossed []FacilityAnnotation `json:"crossed,omitempty"`
}

// Done - все точки маршрута пройдены.
func (m *MovementComponent) Done() bool {
	return m == nil || m.Next >= len(m.Waypoints)
}

// TalkComponent - состояние разговора.
type TalkComponent struct {
	IsTalking       bool           `json:"isTalking"`
	Role            Role           `json:"role"`
	Partner         AgentHandle    `json:"partner"`
	PartnerNickname string         `json:"partnerNickname"`
	Playback        []DialogueLine `json:"playback,omitempty"`
	Line            int            `json:"line"`
	// Resume - состояние, прерванное разговором; в него агент возвращается.
	Resume AgentState `json:"resume"`

	// TalkedTo - с кем этот агент уже разговаривал (по никнейму).
	TalkedTo map[string]bool `json:"-"`
}

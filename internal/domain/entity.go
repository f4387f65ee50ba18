package domain

import (
	"strings"

	"github.com/depp1024/living/pkg/geo"
)

// --- СУЩНОСТЬ ---

// Agent - человек на карте. Данные здесь, поведение в systems и agent.
type Agent struct {
	Handle   AgentHandle `json:"handle"`
	ID       string      `json:"id"`
	Nickname string      `json:"nickname"`
	Texts    LocaleTexts `json:"texts"`
	Icon     string      `json:"icon,omitempty"`
	Color    string      `json:"color,omitempty"`

	// Speed - метры в миллисекунду.
	Speed float64    `json:"speed"`
	State AgentState `json:"state"`

	Pos    Position   `json:"pos"`
	GeoPos geo.LatLng `json:"geo"`
	// Active сбрасывается при удалении с карты (маркер убран).
	Active bool `json:"active"`

	// Компоненты (Если nil - значит свойство отсутствует)
	Routing  *RoutingComponent  `json:"routing,omitempty"`
	Movement *MovementComponent `json:"movement,omitempty"`
	Talk     *TalkComponent     `json:"talk,omitempty"`
}

// NewAgent собирает агента из профиля. Скорость и позицию выставляет вызывающий.
func NewAgent(p *Profile, locale string) *Agent {
	return &Agent{
		ID:       p.ID,
		Nickname: p.Nickname,
		Texts:    p.Texts(locale),
		Icon:     p.Icon,
		Color:    p.Color,
		State:    StateIdle,
		Active:   true,
		Routing: &RoutingComponent{
			Patterns:  p.Patterns,
			MaxCycles: len(p.Patterns) * RoutingPatternRepeat,
			Comments:  p.Comments,
		},
		Talk: &TalkComponent{TalkedTo: make(map[string]bool)},
	}
}

// IsTalking - nil-safe проверка.
func (a *Agent) IsTalking() bool {
	return a.Talk != nil && a.Talk.IsTalking
}

// HasTalkedTo - разговаривал ли агент уже с этим никнеймом.
func (a *Agent) HasTalkedTo(nickname string) bool {
	return a.Talk != nil && a.Talk.TalkedTo[nickname]
}

// StartTalk переводит агента в разговор с партнёром.
func (a *Agent) StartTalk(role Role, partner *Agent, playback []DialogueLine) {
	if a.Talk == nil {
		a.Talk = &TalkComponent{TalkedTo: make(map[string]bool)}
	}
	if a.State != StateTalking {
		a.Talk.Resume = a.State
	}
	a.Talk.IsTalking = true
	a.Talk.Role = role
	a.Talk.Partner = partner.Handle
	a.Talk.PartnerNickname = partner.Nickname
	a.Talk.Playback = playback
	a.Talk.Line = 0
	a.Talk.TalkedTo[partner.Nickname] = true
	a.State = StateTalking
}

// EndTalk сбрасывает только собственное состояние разговора, партнёра не трогает.
func (a *Agent) EndTalk() {
	if a.Talk == nil {
		return
	}
	a.Talk.IsTalking = false
	a.Talk.Playback = nil
	a.Talk.Line = 0
}

// PreviousPlace - место, где агент был до текущей цели.
func (a *Agent) PreviousPlace() string {
	if a.Routing == nil || len(a.Routing.History) < 2 {
		return ""
	}
	return a.Routing.History[len(a.Routing.History)-2].Place
}

// Dispose убирает агента с карты. Общие сетку и индексы не трогает.
func (a *Agent) Dispose() {
	a.Active = false
	a.Movement = nil
	a.Pos = Position{}
	a.GeoPos = geo.LatLng{}
	if a.Talk != nil {
		a.Talk.IsTalking = false
		a.Talk.Playback = nil
	}
}

// StatusText - текст всплывающей подсказки агента.
func (a *Agent) StatusText(l PopupLabels) string {
	dest := ""
	if a.Routing != nil {
		dest = a.Routing.Destination.Place
	}
	return strings.Join([]string{
		l.Name + a.Texts.Name,
		l.Destination + dest,
		l.StoppedBy + a.PreviousPlace(),
		l.Intro + a.Texts.Intro,
		l.Word + a.Texts.Word,
	}, "\n")
}

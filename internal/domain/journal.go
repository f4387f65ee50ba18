package domain

// EventKind - тип записи журнала прогона.
type EventKind string

const (
	EventAreaLoaded  EventKind = "area_loaded"
	EventAreaCleared EventKind = "area_cleared"
	EventArrival     EventKind = "arrival"
	EventTalkStart   EventKind = "talk_start"
	EventTalkEnd     EventKind = "talk_end"
	EventTerminated  EventKind = "terminated"
	EventDisposed    EventKind = "disposed"
)

// JournalEvent - одна строка журнала.
type JournalEvent struct {
	Seq      uint64      `json:"seq"`
	TimeMs   int64       `json:"t"` // виртуальное время области
	Area     string      `json:"area"`
	Kind     EventKind   `json:"kind"`
	Agent    AgentHandle `json:"agent,omitempty"`
	Nickname string      `json:"nickname,omitempty"`
	Partner  string      `json:"partner,omitempty"`
	Place    string      `json:"place,omitempty"`
	Detail   string      `json:"detail,omitempty"`
}

// JournalHeader пишется первой строкой журнала.
type JournalHeader struct {
	Version   int     `json:"version"`
	Area      string  `json:"area"`
	Seed      int64   `json:"seed"`
	Timestamp int64   `json:"timestamp"`
	Lat       float64 `json:"lat"`
	Lng       float64 `json:"lng"`
}

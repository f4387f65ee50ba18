package api

// --- СЕРВЕР -> КЛИЕНТ ---

// Типы сообщений наблюдателю.
const (
	MessageSnapshot    = "SNAPSHOT"
	MessageAreaLoaded  = "AREA_LOADED"
	MessageAreaCleared = "AREA_CLEARED"
	MessageError       = "ERROR"
)

// ServerMessage это корневой объект, который сервер отправляет наблюдателю по websocket.
type ServerMessage struct {
	// Type - один из Message*.
	Type string `json:"type"`

	// AreaID область, к которой относится сообщение.
	AreaID string `json:"areaId,omitempty"`

	// Snapshot полный снимок области (только для SNAPSHOT).
	Snapshot *AreaSnapshot `json:"snapshot,omitempty"`

	// Error текст ошибки (только для ERROR).
	Error string `json:"error,omitempty"`
}

// LatLng - точка в градусах.
type LatLng struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

// RectView - рабочий прямоугольник области.
type RectView struct {
	BottomLeft          LatLng `json:"bottomLeft"`
	TopRight            LatLng `json:"topRight"`
	CrossesAntimeridian bool   `json:"crossesAntimeridian"`
}

// AreaSnapshot это снимок области, видимый наблюдателю.
// Публикуется горутиной области; наружу уходит только копия.
type AreaSnapshot struct {
	AreaID string   `json:"areaId"`
	TimeMs int64    `json:"timeMs"` // виртуальное время области
	Center LatLng   `json:"center"`
	Rect   RectView `json:"rect"`

	Agents []AgentView `json:"agents"`
}

// AgentView это DTO агента.
type AgentView struct {
	Handle   string `json:"handle"`
	Nickname string `json:"nickname"`
	Name     string `json:"name"`
	Icon     string `json:"icon,omitempty"`
	Color    string `json:"color,omitempty"`

	State  string `json:"state"`
	Active bool   `json:"active"`

	Pos struct {
		X int `json:"x"`
		Y int `json:"y"`
	} `json:"pos"`
	Geo LatLng `json:"geo"`

	Speed       float64 `json:"speed"`
	Destination string  `json:"destination,omitempty"`
	Amenity     string  `json:"amenity,omitempty"`
	StoppedBy   string  `json:"stoppedBy,omitempty"`
	Cycle       int     `json:"cycle"`
	MaxCycles   int     `json:"maxCycles"`

	// Talk заполнен только во время разговора.
	Talk *TalkView `json:"talk,omitempty"`

	// Popup - готовый текст подсказки на языке области.
	Popup string `json:"popup"`
}

// TalkView - состояние разговора.
type TalkView struct {
	Role    string `json:"role"`
	Partner string `json:"partner"`
	Line    int    `json:"line"`
	Lines   int    `json:"lines"`
}

// AgentDetail - подробности одного агента (история и маршрут).
type AgentDetail struct {
	AgentView
	History  []VisitView `json:"history"`
	Route    []LatLng    `json:"route,omitempty"`
	Crossed  []string    `json:"crossed,omitempty"`
	Patterns [][]string  `json:"patterns"`
}

// VisitView - запись истории.
type VisitView struct {
	Place   string `json:"place"`
	Comment string `json:"comment,omitempty"`
}

// AreaSummary - строка списка областей.
type AreaSummary struct {
	ID         string `json:"id"`
	Center     LatLng `json:"center"`
	Agents     int    `json:"agents"`
	Walkable   int    `json:"walkable"`
	Facilities int    `json:"facilities"`
	Running    bool   `json:"running"`
	LoadedAt   int64  `json:"loadedAt"`
}

// QueueItemView - элемент очереди планировщика (отладка).
type QueueItemView struct {
	Handle string `json:"handle"`
	WakeMs int64  `json:"wakeMs"`
	Seq    uint64 `json:"seq"`
	Index  int    `json:"index"`
}

// --- КЛИЕНТ -> СЕРВЕР ---

// Команды наблюдателя по websocket.
const (
	ClientView  = "VIEW"
	ClientClear = "CLEAR"
)

// ClientMessage - команда наблюдателя.
type ClientMessage struct {
	Type string       `json:"type"`
	View *ViewRequest `json:"view,omitempty"`
}

// ViewRequest - смена масштаба карты (POST /view).
type ViewRequest struct {
	ZoomStart int     `json:"zoomStart"`
	ZoomEnd   int     `json:"zoomEnd"`
	Center    *LatLng `json:"center,omitempty"`
}

// LoadRequest - загрузка области в точке (POST /areas). Пустое тело - центр по умолчанию.
type LoadRequest struct {
	Center *LatLng `json:"center,omitempty"`
}

// ViewResponse - что произошло после смены масштаба.
type ViewResponse struct {
	Loaded  *AreaSummary `json:"loaded,omitempty"`
	Cleared bool         `json:"cleared"`
}

// ErrorResponse - тело ответа об ошибке.
type ErrorResponse struct {
	Error string `json:"error"`
}

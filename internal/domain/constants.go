package domain

import "time"

// Параметры поведения агентов. Время в миллисекундах, расстояния в метрах.
const (
	EncounterRadiusM     = 100.0
	FacilitySnapRadiusM  = 30.0
	GoalCandidates       = 1000
	RoutingPatternRepeat = 5

	MinStepDurationMs   = 100
	DialogueLineDelayMs = 3000
	RateLimitPaddingMs  = 100

	SpeedMin = 0.005 // м/мс
	SpeedMax = 0.015
)

// Параметры области.
const (
	ZoomThreshold = 14
	QueryRadiusKm = 0.5
)

// GeoStatus - состояние лимита запросов источника гео-данных.
type GeoStatus struct {
	Available bool
	Wait      time.Duration
}

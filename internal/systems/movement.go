package systems

import (
	"math"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/geo"
)

// StepDuration - время перехода между точками: расстояние / скорость, не меньше 100 мс.
func StepDuration(from, to geo.LatLng, speed float64) time.Duration {
	ms := float64(domain.MinStepDurationMs)
	if speed > 0 {
		ms = math.Max(geo.Distance(from, to)/speed, ms)
	}
	return time.Duration(ms * float64(time.Millisecond))
}

// BuildRoute прокладывает маршрут и переводит клетки в географические точки.
// Пустой маршрут (цель совпадает со стартом или недостижима) - это валидный результат.
func BuildRoute(w *domain.WorldContext, start, goal domain.Position) *domain.MovementComponent {
	cells := FindPath(w.Grid, start, goal)
	m := &domain.MovementComponent{
		Cells:     cells,
		Waypoints: make([]geo.LatLng, len(cells)),
	}
	for i, c := range cells {
		m.Waypoints[i] = w.ToGeo(c)
		// По клетке берём первое заведение, как при регистрации.
		if at := w.Grid.AnnotationsAt(c); len(at) > 0 {
			m.Crossed = append(m.Crossed, at[0])
		}
	}
	return m
}

// AdvanceWaypoint переносит агента в следующую точку маршрута и возвращает длительность шага.
// ok=false, если маршрут закончился.
func AdvanceWaypoint(a *domain.Agent) (d time.Duration, ok bool) {
	m := a.Movement
	if m.Done() {
		return 0, false
	}
	next := m.Waypoints[m.Next]
	d = StepDuration(a.GeoPos, next, a.Speed)

	a.GeoPos = next
	a.Pos = m.Cells[m.Next]
	m.Next++
	return d, true
}

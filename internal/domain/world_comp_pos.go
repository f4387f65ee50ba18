package domain

import "math"

// Стоимость шага по сетке (целые, чтобы A* был детерминированным).
const (
	CostCardinal = 10
	CostDiagonal = 14
)

// DistanceTo возвращает точное расстояние до другой клетки (float)
func (p Position) DistanceTo(other Position) float64 {
	return math.Sqrt(float64(p.DistanceSquaredTo(other)))
}

// DistanceSquaredTo возвращает квадрат расстояния (int) для сравнения без корней
func (p Position) DistanceSquaredTo(other Position) int {
	dx := p.X - other.X
	dy := p.Y - other.Y
	return dx*dx + dy*dy
}

// IsAdjacent возвращает true, если клетка соседняя (включая диагональ)
func (p Position) IsAdjacent(other Position) bool {
	dx, dy := absInt(p.X-other.X), absInt(p.Y-other.Y)
	return dx <= 1 && dy <= 1 && (dx != 0 || dy != 0)
}

// Octile - допустимая эвристика для 8-связной сетки с весами 10/14.
func (p Position) Octile(other Position) int {
	dx, dy := absInt(p.X-other.X), absInt(p.Y-other.Y)
	if dx < dy {
		dx, dy = dy, dx
	}
	return CostCardinal*(dx-dy) + CostDiagonal*dy
}

// Shift возвращает новую позицию со смещением.
func (p Position) Shift(dx, dy int) Position {
	return Position{X: p.X + dx, Y: p.Y + dy}
}

// Directions8 - порядок обхода соседей. Он фиксирован, от него зависит воспроизводимость маршрутов.
var Directions8 = [8]Position{
	{X: 1, Y: 0}, {X: -1, Y: 0}, {X: 0, Y: 1}, {X: 0, Y: -1},
	{X: 1, Y: 1}, {X: 1, Y: -1}, {X: -1, Y: 1}, {X: -1, Y: -1},
}

func absInt(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

// Package raster переводит отрезки дорог в клетки сетки.
package raster

import "github.com/depp1024/living/internal/domain"

// Plot возвращает все клетки отрезка (x0,y0)-(x1,y1), включая оба конца, по алгоритму Брезенхэма.
// Только целочисленная арифметика; соседние точки отличаются не более чем на 1 по каждой оси.
// Порядок всегда от начала к концу.
func Plot(x0, y0, x1, y1 int) []domain.Position {
	dx := abs(x1 - x0)
	dy := abs(y1 - y0)
	sx := sign(x1 - x0)
	sy := sign(y1 - y0)

	points := make([]domain.Position, 0, max(dx, dy)+1)

	switch {
	case dx == 0 && dy == 0:
		return append(points, domain.Position{X: x0, Y: y0})

	// Вертикаль и горизонталь перечисляем напрямую.
	case dx == 0:
		for y := y0; ; y += sy {
			points = append(points, domain.Position{X: x0, Y: y})
			if y == y1 {
				return points
			}
		}
	case dy == 0:
		for x := x0; ; x += sx {
			points = append(points, domain.Position{X: x, Y: y0})
			if x == x1 {
				return points
			}
		}
	}

	err := dx - dy
	for {
		points = append(points, domain.Position{X: x0, Y: y0})
		if x0 == x1 && y0 == y1 {
			break
		}

		// Оба шага могут выполниться за одну итерацию (диагональ), поэтому без else.
		e2 := err * 2
		if e2 > -dy {
			err -= dy
			x0 += sx
		}
		if e2 < dx {
			err += dx
			y0 += sy
		}
	}
	return points
}

// Line - то же самое для пары позиций.
func Line(a, b domain.Position) []domain.Position {
	return Plot(a.X, a.Y, b.X, b.Y)
}

func abs(v int) int {
	if v < 0 {
		return -v
	}
	return v
}

func sign(v int) int {
	if v > 0 {
		return 1
	}
	if v < 0 {
		return -1
	}
	return 0
}

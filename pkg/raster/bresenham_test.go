package raster

import (
	"testing"

	"github.com/depp1024/living/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPlot(t *testing.T) {
	tests := []struct {
		name           string
		x0, y0, x1, y1 int
		want           []domain.Position
	}{
		{"single point", 3, 3, 3, 3, []domain.Position{{X: 3, Y: 3}}},
		{"vertical up", 1, 0, 1, 3, []domain.Position{{X: 1, Y: 0}, {X: 1, Y: 1}, {X: 1, Y: 2}, {X: 1, Y: 3}}},
		{"vertical down", 1, 3, 1, 1, []domain.Position{{X: 1, Y: 3}, {X: 1, Y: 2}, {X: 1, Y: 1}}},
		{"horizontal left", 2, 5, 0, 5, []domain.Position{{X: 2, Y: 5}, {X: 1, Y: 5}, {X: 0, Y: 5}}},
		{"diagonal", 0, 0, 3, 3, []domain.Position{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}, {X: 3, Y: 3}}},
		{"shallow", 0, 0, 4, 1, []domain.Position{{X: 0, Y: 0}, {X: 1, Y: 0}, {X: 2, Y: 0}, {X: 3, Y: 1}, {X: 4, Y: 1}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Plot(tt.x0, tt.y0, tt.x1, tt.y1))
		})
	}
}

func TestPlotProperties(t *testing.T) {
	ends := []domain.Position{
		{X: 0, Y: 0}, {X: 7, Y: 2}, {X: -5, Y: 9}, {X: 13, Y: -4},
		{X: 2, Y: 17}, {X: -8, Y: -8}, {X: 0, Y: 11}, {X: 6, Y: 0},
	}

	for _, a := range ends {
		for _, b := range ends {
			points := Line(a, b)
			require.NotEmpty(t, points)
			assert.Equal(t, a, points[0], "starts at %v", a)
			assert.Equal(t, b, points[len(points)-1], "ends at %v", b)

			for i := 1; i < len(points); i++ {
				dx := abs(points[i].X - points[i-1].X)
				dy := abs(points[i].Y - points[i-1].Y)
				assert.True(t, dx <= 1 && dy <= 1 && dx+dy > 0, "gap between %v and %v", points[i-1], points[i])
			}

			assert.Equal(t, points, Line(a, b), "deterministic")
		}
	}
}

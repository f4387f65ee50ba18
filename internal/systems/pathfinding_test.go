package systems

import (
	"testing"

	"github.com/depp1024/living/internal/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFindPath(t *testing.T) {
	// Буква L: вдоль y=0 и затем вверх по x=5.
	cells := append(row(0, 0, 5), domain.Position{X: 5, Y: 1}, domain.Position{X: 5, Y: 2})
	g := newTestWorld(8, 8, cells, nil).Grid

	path := FindPath(g, domain.Position{X: 0, Y: 0}, domain.Position{X: 5, Y: 2})
	require.NotEmpty(t, path)
	assert.NotEqual(t, domain.Position{X: 0, Y: 0}, path[0], "start excluded")
	assert.Equal(t, domain.Position{X: 5, Y: 2}, path[len(path)-1], "goal included")

	prev := domain.Position{X: 0, Y: 0}
	for _, p := range path {
		assert.True(t, g.IsWalkable(p))
		assert.True(t, prev.IsAdjacent(p), "%v -> %v", prev, p)
		prev = p
	}

	assert.Equal(t, path, FindPath(g, domain.Position{X: 0, Y: 0}, domain.Position{X: 5, Y: 2}), "deterministic")
}

func TestFindPath_Diagonal(t *testing.T) {
	cells := []domain.Position{{X: 0, Y: 0}, {X: 1, Y: 1}, {X: 2, Y: 2}}
	g := newTestWorld(3, 3, cells, nil).Grid

	assert.Equal(t, []domain.Position{{X: 1, Y: 1}, {X: 2, Y: 2}}, FindPath(g, cells[0], cells[2]))
}

func TestFindPath_Empty(t *testing.T) {
	cells := append(row(0, 0, 2), row(0, 5, 7)...)
	g := newTestWorld(8, 3, cells, nil).Grid

	tests := []struct {
		name        string
		start, goal domain.Position
	}{
		{"unreachable", domain.Position{X: 0, Y: 0}, domain.Position{X: 7, Y: 0}},
		{"start not walkable", domain.Position{X: 0, Y: 2}, domain.Position{X: 2, Y: 0}},
		{"goal not walkable", domain.Position{X: 0, Y: 0}, domain.Position{X: 3, Y: 0}},
		{"same cell", domain.Position{X: 1, Y: 0}, domain.Position{X: 1, Y: 0}},
		{"out of bounds", domain.Position{X: 0, Y: 0}, domain.Position{X: 99, Y: 0}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Empty(t, FindPath(g, tt.start, tt.goal))
		})
	}

	assert.True(t, PathExists(g, domain.Position{X: 1, Y: 0}, domain.Position{X: 1, Y: 0}))
	assert.False(t, PathExists(g, domain.Position{X: 0, Y: 0}, domain.Position{X: 7, Y: 0}))
}

func TestFindPath_Cycle(t *testing.T) {
	// Кольцо вокруг центра: поиск обязан завершиться.
	var cells []domain.Position
	for x := 0; x < 5; x++ {
		cells = append(cells, domain.Position{X: x, Y: 0}, domain.Position{X: x, Y: 4})
	}
	for y := 1; y < 4; y++ {
		cells = append(cells, domain.Position{X: 0, Y: y}, domain.Position{X: 4, Y: y})
	}
	g := newTestWorld(5, 5, cells, nil).Grid

	path := FindPath(g, domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 4})
	require.NotEmpty(t, path)
	assert.Equal(t, domain.Position{X: 4, Y: 4}, path[len(path)-1])
	assert.Empty(t, FindPath(g, domain.Position{X: 0, Y: 0}, domain.Position{X: 2, Y: 2}))
}

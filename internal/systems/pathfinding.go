package systems

import (
	"container/heap"

	"github.com/depp1024/living/internal/domain"
)

// FindPath ищет маршрут A* по проходимым клеткам (8-связность, веса 10/14, октильная эвристика).
// Результат без стартовой клетки, с целевой. Пусто, если пути нет,
// если старт или цель непроходимы, или если старт совпадает с целью.
func FindPath(g *domain.NavigableGrid, start, goal domain.Position) []domain.Position {
	if start == goal || !g.IsWalkable(start) || !g.IsWalkable(goal) {
		return nil
	}

	startIdx := g.GetIndex(start.X, start.Y)
	goalIdx := g.GetIndex(goal.X, goal.Y)

	gScore := map[int]int{startIdx: 0}
	cameFrom := make(map[int]int)
	closed := make(map[int]bool)

	open := &openSet{}
	seq := 0
	heap.Push(open, &pathNode{pos: start, idx: startIdx, g: 0, h: start.Octile(goal), seq: seq})

	for open.Len() > 0 {
		cur := heap.Pop(open).(*pathNode)
		if closed[cur.idx] {
			continue
		}
		if cur.idx == goalIdx {
			return reconstruct(g, cameFrom, startIdx, goalIdx)
		}
		closed[cur.idx] = true

		for i, dir := range domain.Directions8 {
			next := cur.pos.Shift(dir.X, dir.Y)
			if !g.IsWalkable(next) {
				continue
			}
			nIdx := g.GetIndex(next.X, next.Y)
			if closed[nIdx] {
				continue
			}

			cost := domain.CostCardinal
			if i >= 4 {
				cost = domain.CostDiagonal
			}
			tentative := cur.g + cost
			if old, ok := gScore[nIdx]; ok && tentative >= old {
				continue
			}

			gScore[nIdx] = tentative
			cameFrom[nIdx] = cur.idx
			seq++
			heap.Push(open, &pathNode{pos: next, idx: nIdx, g: tentative, h: next.Octile(goal), seq: seq})
		}
	}
	return nil
}

// PathExists - есть ли маршрут между клетками. Совпадающие проходимые клетки достижимы.
func PathExists(g *domain.NavigableGrid, start, goal domain.Position) bool {
	if start == goal {
		return g.IsWalkable(start)
	}
	return len(FindPath(g, start, goal)) > 0
}

func reconstruct(g *domain.NavigableGrid, cameFrom map[int]int, startIdx, goalIdx int) []domain.Position {
	var rev []domain.Position
	for idx := goalIdx; idx != startIdx; idx = cameFrom[idx] {
		rev = append(rev, domain.Position{X: idx / g.SizeY, Y: idx % g.SizeY})
	}
	path := make([]domain.Position, len(rev))
	for i := range rev {
		path[i] = rev[len(rev)-1-i]
	}
	return path
}

// --- открытый список: min-куча по (f, h, seq) ---

type pathNode struct {
	pos  domain.Position
	idx  int
	g, h int
	seq  int
}

type openSet []*pathNode

func (o openSet) Len() int { return len(o) }

func (o openSet) Less(i, j int) bool {
	fi, fj := o[i].g+o[i].h, o[j].g+o[j].h
	if fi != fj {
		return fi < fj
	}
	if o[i].h != o[j].h {
		return o[i].h < o[j].h
	}
	return o[i].seq < o[j].seq
}

func (o openSet) Swap(i, j int) { o[i], o[j] = o[j], o[i] }

func (o *openSet) Push(x any) { *o = append(*o, x.(*pathNode)) }

func (o *openSet) Pop() any {
	old := *o
	n := len(old)
	x := old[n-1]
	old[n-1] = nil
	*o = old[:n-1]
	return x
}

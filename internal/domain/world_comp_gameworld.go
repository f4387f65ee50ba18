package domain

// NewNavigableGrid создаёт пустую (непроходимую) сетку.
func NewNavigableGrid(sizeX, sizeY int) *NavigableGrid {
	if sizeX < 0 {
		sizeX = 0
	}
	if sizeY < 0 {
		sizeY = 0
	}
	return &NavigableGrid{
		SizeX:       sizeX,
		SizeY:       sizeY,
		walkable:    make([]bool, sizeX*sizeY),
		annotations: make(map[int][]FacilityAnnotation),
		registered:  make(map[int64]bool),
	}
}

func (g *NavigableGrid) GetIndex(x, y int) int {
	return x*g.SizeY + y
}

func (g *NavigableGrid) InBounds(p Position) bool {
	return p.X >= 0 && p.X < g.SizeX && p.Y >= 0 && p.Y < g.SizeY
}

// MarkWalkable помечает клетку проходимой.
// Возвращает true, только если клетка внутри сетки и раньше не была проходимой.
func (g *NavigableGrid) MarkWalkable(p Position) bool {
	if !g.InBounds(p) {
		return false
	}
	idx := g.GetIndex(p.X, p.Y)
	if g.walkable[idx] {
		return false
	}
	g.walkable[idx] = true
	g.plot = append(g.plot, p)
	return true
}

func (g *NavigableGrid) IsWalkable(p Position) bool {
	return g.InBounds(p) && g.walkable[g.GetIndex(p.X, p.Y)]
}

// WalkableCells - плоский список проходимых клеток в порядке растеризации.
func (g *NavigableGrid) WalkableCells() []Position {
	return g.plot
}

// Annotate привязывает заведение к клетке. Узел регистрируется один раз: первая запись побеждает.
func (g *NavigableGrid) Annotate(nodeID int64, tags Tags, p Position) bool {
	if !g.InBounds(p) || g.registered[nodeID] {
		return false
	}
	a := FacilityAnnotation{NodeID: nodeID, Tags: tags, X: p.X, Y: p.Y}
	idx := g.GetIndex(p.X, p.Y)
	g.annotations[idx] = append(g.annotations[idx], a)
	g.ordered = append(g.ordered, a)
	g.registered[nodeID] = true
	return true
}

func (g *NavigableGrid) IsRegistered(nodeID int64) bool {
	return g.registered[nodeID]
}

// AnnotationsAt возвращает метки клетки (nil, если их нет)
func (g *NavigableGrid) AnnotationsAt(p Position) []FacilityAnnotation {
	if !g.InBounds(p) {
		return nil
	}
	return g.annotations[g.GetIndex(p.X, p.Y)]
}

// Annotations - все метки в порядке регистрации.
func (g *NavigableGrid) Annotations() []FacilityAnnotation {
	return g.ordered
}

// Package spatial - поиск ближайших соседей по k-d дереву.
package spatial

import (
	"container/heap"
	"math"
	"sort"

	"github.com/depp1024/living/pkg/geo"
)

// Metric - расстояние между двумя точками одной размерности.
// Для отсечения ветвей дерево сравнивает расстояние до проекции запроса на разделяющую плоскость.
type Metric func(a, b []float64) float64

// SquaredEuclidean - квадрат евклидова расстояния (для клеток сетки).
func SquaredEuclidean(a, b []float64) float64 {
	var s float64
	for i := range a {
		d := a[i] - b[i]
		s += d * d
	}
	return s
}

// Geodesic - метры по дуге для точек [lat, lng].
// Долгота может быть развёрнута за ±180 (см. geo.Rect.UnwrapLng): гаверсинус периодичен.
func Geodesic(a, b []float64) float64 {
	return geo.Distance(geo.LatLng{Lat: a[0], Lng: a[1]}, geo.LatLng{Lat: b[0], Lng: b[1]})
}

// PlaneBound - нижняя оценка расстояния от точки до любой точки по ту сторону
// разделяющей плоскости axis = split. Ошибка в большую сторону теряет соседей.
type PlaneBound func(point []float64, axis int, split float64) float64

// geodesicPlane: до параллели - дуга меридиана, до меридиана - дуга большого круга.
func geodesicPlane(point []float64, axis int, split float64) float64 {
	const rad = math.Pi / 180
	if axis == 0 {
		return geo.EarthRadiusKm * 1000 * math.Abs(point[0]-split) * rad
	}
	dLng := math.Abs(point[1]-split) * rad
	if dLng >= math.Pi/2 {
		return 0
	}
	return geo.EarthRadiusKm * 1000 * math.Asin(math.Abs(math.Cos(point[0]*rad)*math.Sin(dLng)))
}

// Neighbor - результат поиска.
type Neighbor[T any] struct {
	Item     T
	Distance float64
}

type entry[T any] struct {
	item  T
	point []float64
	seq   int
}

type node[T any] struct {
	entry       entry[T]
	axis        int
	left, right *node[T]
}

// Tree - неизменяемое k-d дерево. Строится один раз на загрузку области.
type Tree[T any] struct {
	root   *node[T]
	dims   int
	size   int
	metric Metric
	bound  PlaneBound
}

// New строит дерево. coords возвращает координаты элемента (длина одинакова для всех).
func New[T any](items []T, coords func(T) []float64, metric Metric) *Tree[T] {
	entries := make([]entry[T], len(items))
	dims := 0
	for i, it := range items {
		p := coords(it)
		entries[i] = entry[T]{item: it, point: p, seq: i}
		dims = len(p)
	}
	t := &Tree[T]{dims: dims, size: len(items), metric: metric}
	t.root = build(entries, 0, dims)
	return t
}

// NewGeodesic строит дерево по [lat, lng] с расстоянием в метрах.
// Долготы должны быть непрерывны в пределах области: для области через антимеридиан
// их разворачивает geo.Rect.UnwrapLng, иначе разделение по сырой долготе теряет соседей.
func NewGeodesic[T any](items []T, coords func(T) []float64) *Tree[T] {
	t := New(items, coords, Geodesic)
	t.bound = geodesicPlane
	return t
}

func build[T any](entries []entry[T], depth, dims int) *node[T] {
	if len(entries) == 0 {
		return nil
	}
	axis := 0
	if dims > 0 {
		axis = depth % dims
	}
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].point[axis] < entries[j].point[axis]
	})
	mid := len(entries) / 2
	return &node[T]{
		entry: entries[mid],
		axis:  axis,
		left:  build(entries[:mid], depth+1, dims),
		right: build(entries[mid+1:], depth+1, dims),
	}
}

func (t *Tree[T]) Len() int {
	if t == nil {
		return 0
	}
	return t.size
}

// Nearest возвращает до k ближайших элементов по возрастанию расстояния.
// При равных расстояниях раньше идёт элемент, добавленный раньше.
func (t *Tree[T]) Nearest(point []float64, k int) []Neighbor[T] {
	if t == nil || t.root == nil || k <= 0 {
		return nil
	}

	best := &candidates[T]{}
	probe := make([]float64, len(point))
	t.search(t.root, point, probe, k, best)

	// Вынимаем из max-кучи в обратном порядке.
	out := make([]Neighbor[T], best.Len())
	for i := len(out) - 1; i >= 0; i-- {
		c := heap.Pop(best).(candidate[T])
		out[i] = Neighbor[T]{Item: c.entry.item, Distance: c.dist}
	}
	return out
}

func (t *Tree[T]) search(n *node[T], point, probe []float64, k int, best *candidates[T]) {
	if n == nil {
		return
	}

	d := t.metric(point, n.entry.point)
	best.offer(candidate[T]{entry: n.entry, dist: d}, k)

	near, far := n.left, n.right
	if point[n.axis] >= n.entry.point[n.axis] {
		near, far = n.right, n.left
	}
	t.search(near, point, probe, k, best)

	var planeDist float64
	if t.bound != nil {
		planeDist = t.bound(point, n.axis, n.entry.point[n.axis])
	} else {
		// Проекция запроса на разделяющую плоскость: ближе к дальней ветке не бывает.
		copy(probe, point)
		probe[n.axis] = n.entry.point[n.axis]
		planeDist = t.metric(point, probe)
	}
	if best.Len() < k || planeDist <= best.worst().dist {
		t.search(far, point, probe, k, best)
	}
}

// --- max-куча кандидатов ---

type candidate[T any] struct {
	entry entry[T]
	dist  float64
}

type candidates[T any] []candidate[T]

func (c candidates[T]) Len() int { return len(c) }

// Less инвертирован: наверху худший (дальний, при равенстве более поздний).
func (c candidates[T]) Less(i, j int) bool {
	if c[i].dist != c[j].dist {
		return c[i].dist > c[j].dist
	}
	return c[i].entry.seq > c[j].entry.seq
}
func (c candidates[T]) Swap(i, j int) { c[i], c[j] = c[j], c[i] }

func (c *candidates[T]) Push(x any) { *c = append(*c, x.(candidate[T])) }

func (c *candidates[T]) Pop() any {
	old := *c
	n := len(old)
	x := old[n-1]
	*c = old[:n-1]
	return x
}

func (c candidates[T]) worst() candidate[T] { return c[0] }

func (c *candidates[T]) offer(x candidate[T], k int) {
	if c.Len() < k {
		heap.Push(c, x)
		return
	}
	w := c.worst()
	if x.dist < w.dist || (x.dist == w.dist && x.entry.seq < w.entry.seq) {
		(*c)[0] = x
		heap.Fix(c, 0)
	}
}

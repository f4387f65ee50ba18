package domain

import (
	"math/rand"

	"github.com/depp1024/living/internal/spatial"
	"github.com/depp1024/living/pkg/geo"
)

// Position - клетка сетки. X идёт по широте, Y по долготе.
type Position struct {
	X int `json:"x"`
	Y int `json:"y"`
}

// FacilityAnnotation - метка заведения, привязанная к проходимой клетке.
type FacilityAnnotation struct {
	NodeID int64 `json:"nodeId"`
	Tags   Tags  `json:"tags"`
	X      int   `json:"x"`
	Y      int   `json:"y"`
}

func (a FacilityAnnotation) Pos() Position {
	return Position{X: a.X, Y: a.Y}
}

// NavigableGrid - растр дорог области.
// Клетка проходима, если через неё прошёл хотя бы один отрезок дороги.
type NavigableGrid struct {
	SizeX int `json:"sizeX"`
	SizeY int `json:"sizeY"`

	walkable []bool
	plot     []Position

	// Индекс клетки -> метки
	annotations map[int][]FacilityAnnotation
	ordered     []FacilityAnnotation
	registered  map[int64]bool
}

// WorldContext - всё, что принадлежит одной загруженной области.
// Мутирует его только горутина области.
type WorldContext struct {
	ID        string
	Center    geo.LatLng
	Rect      geo.Rect
	Locale    string
	Languages []string

	Network     *RoadNetwork
	Grid        *NavigableGrid
	Facilities  *spatial.Tree[Facility]
	Annotations *spatial.Tree[FacilityAnnotation]
	Dialogue    *DialogueTable
	Roster      *Roster

	// Rng - единственный источник случайности области.
	Rng *rand.Rand
}

// ToGeo переводит клетку в координату в рамках области.
func (w *WorldContext) ToGeo(p Position) geo.LatLng {
	return geo.ToGeo(w.Rect, p.X, p.Y)
}

// ToGrid переводит координату в клетку области.
func (w *WorldContext) ToGrid(p geo.LatLng) Position {
	x, y := geo.ToGrid(w.Rect, p.Lat, p.Lng)
	return Position{X: x, Y: y}
}

// Package geo переводит географические координаты в целочисленную сетку рабочей области и обратно.
package geo

import (
	"fmt"
	"math"
)

const (
	// GridScale - фиксированная точность сетки: одна клетка = 10^-5 градуса.
	GridScale = 1e5

	// EarthRadiusKm используется для оценки прямоугольника вокруг центра.
	EarthRadiusKm = 6371.0

	// EarthRadiusM - радиус для расстояний по дуге (как у Leaflet CRS.Earth).
	EarthRadiusM = 6371000.0

	maxLat = 90.0
)

// LatLng - точка на сфере в градусах.
type LatLng struct {
	Lat float64 `json:"lat" yaml:"lat"`
	Lng float64 `json:"lng" yaml:"lng"`
}

func (p LatLng) String() string {
	return fmt.Sprintf("(%.6f,%.6f)", p.Lat, p.Lng)
}

// Rect - рабочий прямоугольник области.
// При CrossesAntimeridian левая граница (BottomLeft.Lng) численно больше правой.
type Rect struct {
	BottomLeft          LatLng `json:"bottomLeft"`
	TopRight            LatLng `json:"topRight"`
	CrossesAntimeridian bool   `json:"crossesAntimeridian"`
}

// RectFromCenter строит квадрат вокруг центра по сферическому приближению.
func RectFromCenter(lat, lng, radiusKm float64) Rect {
	dLat := (radiusKm / EarthRadiusKm) * (180 / math.Pi)
	dLng := dLat / math.Cos(lat*math.Pi/180)
	// У полюсов косинус стремится к нулю: ограничиваем полушириной в 180°.
	if math.IsInf(dLng, 0) || math.IsNaN(dLng) || dLng >= 180 {
		dLng = 180 - 1/GridScale
	}

	bottom := clampLat(lat - dLat)
	top := clampLat(lat + dLat)
	left := NormalizeLng(lng - dLng)
	right := NormalizeLng(lng + dLng)

	return Rect{
		BottomLeft:          LatLng{Lat: bottom, Lng: left},
		TopRight:            LatLng{Lat: top, Lng: right},
		CrossesAntimeridian: left > right,
	}
}

// NormalizeLng приводит долготу к диапазону [-180,180).
func NormalizeLng(lng float64) float64 {
	l := math.Mod(lng+180, 360)
	if l < 0 {
		l += 360
	}
	return l - 180
}

func clampLat(lat float64) float64 {
	return math.Max(-maxLat, math.Min(maxLat, lat))
}

// lngOffset - смещение долготы от левой границы с учётом перехода через антимеридиан.
func (r Rect) lngOffset(lng float64) float64 {
	d := lng - r.BottomLeft.Lng
	if r.CrossesAntimeridian && d < 0 {
		d += 360
	}
	return d
}

// UnwrapLng - долгота, непрерывная в окрестности области: при переходе через
// антимеридиан значения по ту сторону выходят за 180, а не прыгают к -180.
// Точки в пределах 180° от середины области не рвутся.
func (r Rect) UnwrapLng(lng float64) float64 {
	mid := r.BottomLeft.Lng + r.lngOffset(r.TopRight.Lng)/2
	return mid + NormalizeLng(lng-mid)
}

// ToGrid проецирует координату в клетку сетки.
func ToGrid(r Rect, lat, lng float64) (x, y int) {
	x = int(math.Floor((lat - r.BottomLeft.Lat) * GridScale))
	y = int(math.Floor(r.lngOffset(lng) * GridScale))
	return x, y
}

// ToGeo - точное обратное масштабирование клетки в координату.
func ToGeo(r Rect, x, y int) LatLng {
	lat := float64(x)/GridScale + r.BottomLeft.Lat
	lng := float64(y)/GridScale + r.BottomLeft.Lng
	if r.CrossesAntimeridian {
		lng = NormalizeLng(lng)
	}
	return LatLng{Lat: lat, Lng: lng}
}

// GridSize возвращает размеры сетки (sizeX по широте, sizeY по долготе).
func (r Rect) GridSize() (sizeX, sizeY int) {
	x0, y0 := ToGrid(r, r.BottomLeft.Lat, r.BottomLeft.Lng)
	x1, y1 := ToGrid(r, r.TopRight.Lat, r.TopRight.Lng)
	return x1 - x0, y1 - y0
}

// Contains проверяет попадание точки в прямоугольник (включая границы).
func (r Rect) Contains(p LatLng) bool {
	if p.Lat < r.BottomLeft.Lat || p.Lat > r.TopRight.Lat {
		return false
	}
	if r.CrossesAntimeridian {
		return p.Lng >= r.BottomLeft.Lng || p.Lng <= r.TopRight.Lng
	}
	return p.Lng >= r.BottomLeft.Lng && p.Lng <= r.TopRight.Lng
}

// Split делит прямоугольник, пересекающий антимеридиан, на [left,180] и [-180,right].
// Любой запрос по такой области обязан идти по обеим половинам.
func (r Rect) Split() []Rect {
	if !r.CrossesAntimeridian {
		return []Rect{r}
	}
	return []Rect{
		{
			BottomLeft: r.BottomLeft,
			TopRight:   LatLng{Lat: r.TopRight.Lat, Lng: 180},
		},
		{
			BottomLeft: LatLng{Lat: r.BottomLeft.Lat, Lng: -180},
			TopRight:   r.TopRight,
		},
	}
}

// Distance - расстояние по большому кругу в метрах (гаверсинус).
func Distance(a, b LatLng) float64 {
	const rad = math.Pi / 180
	dLat := (b.Lat - a.Lat) * rad
	dLng := (b.Lng - a.Lng) * rad
	s1 := math.Sin(dLat / 2)
	s2 := math.Sin(dLng / 2)
	h := s1*s1 + math.Cos(a.Lat*rad)*math.Cos(b.Lat*rad)*s2*s2
	return 2 * EarthRadiusM * math.Asin(math.Min(1, math.Sqrt(h)))
}

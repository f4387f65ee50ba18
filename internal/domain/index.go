package domain

import (
	"github.com/depp1024/living/internal/spatial"
	"github.com/depp1024/living/pkg/geo"
)

// NewFacilityIndex - индекс заведений по (lat, lng) с расстоянием по дуге.
// Запросы к нему строятся через FacilityPoint с тем же прямоугольником.
func NewFacilityIndex(rect geo.Rect, facilities []Facility) *spatial.Tree[Facility] {
	return spatial.NewGeodesic(facilities, func(f Facility) []float64 {
		return FacilityPoint(rect, f.Lat, f.Lng)
	})
}

// FacilityPoint - координата в индексе заведений (долгота развёрнута по области).
func FacilityPoint(rect geo.Rect, lat, lng float64) []float64 {
	return []float64{lat, rect.UnwrapLng(lng)}
}

// NewAnnotationIndex - индекс меток сетки по (x, y) с квадратом евклидова расстояния.
func NewAnnotationIndex(annotations []FacilityAnnotation) *spatial.Tree[FacilityAnnotation] {
	return spatial.New(annotations, func(a FacilityAnnotation) []float64 {
		return []float64{float64(a.X), float64(a.Y)}
	}, spatial.SquaredEuclidean)
}

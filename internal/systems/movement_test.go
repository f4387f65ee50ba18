package systems

import (
	"testing"
	"time"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/pkg/geo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestStepDuration(t *testing.T) {
	a := geo.LatLng{Lat: 35.0, Lng: 139.0}
	b := geo.LatLng{Lat: 35.001, Lng: 139.0} // ~111 м

	d := StepDuration(a, b, 0.01)
	assert.InDelta(t, 11120, float64(d/time.Millisecond), 20)

	assert.Equal(t, 100*time.Millisecond, StepDuration(a, a, 0.01), "floor for zero distance")
	assert.Equal(t, 100*time.Millisecond, StepDuration(a, geo.LatLng{Lat: 35.000001, Lng: 139.0}, 0.01))
	assert.Equal(t, 100*time.Millisecond, StepDuration(a, b, 0), "zero speed")
}

func TestBuildRouteAndAdvance(t *testing.T) {
	anns := []domain.FacilityAnnotation{cafe(1, "Mid", 2, 0)}
	w := newTestWorld(5, 1, row(0, 0, 4), anns)
	a := newTestAgent("taro", []string{"cafe"})
	a.Speed = 0.01
	a.GeoPos = w.ToGeo(a.Pos)

	a.Movement = BuildRoute(w, domain.Position{X: 0, Y: 0}, domain.Position{X: 4, Y: 0})
	require.Len(t, a.Movement.Waypoints, 4)
	require.Len(t, a.Movement.Crossed, 1)
	assert.Equal(t, int64(1), a.Movement.Crossed[0].NodeID)

	steps := 0
	for {
		d, ok := AdvanceWaypoint(a)
		if !ok {
			break
		}
		assert.GreaterOrEqual(t, d, 100*time.Millisecond)
		steps++
	}
	assert.Equal(t, 4, steps)
	assert.Equal(t, domain.Position{X: 4, Y: 0}, a.Pos)
	assert.Equal(t, w.ToGeo(domain.Position{X: 4, Y: 0}), a.GeoPos)

	empty := BuildRoute(w, domain.Position{X: 1, Y: 0}, domain.Position{X: 1, Y: 0})
	assert.True(t, empty.Done())
}

package engine

import (
	"fmt"
	"maps"
	"math/rand"

	"github.com/depp1024/living/internal/domain"
	"github.com/depp1024/living/internal/spatial"
	"github.com/depp1024/living/pkg/geo"
	"github.com/depp1024/living/pkg/logger"
	"github.com/depp1024/living/pkg/raster"
	"github.com/sirupsen/logrus"
)

// WorldData - всё, что загружено для одной области.
type WorldData struct {
	ID         string
	Center     geo.LatLng
	Rect       geo.Rect
	Network    *domain.RoadNetwork
	Facilities []domain.Facility
	Dialogue   *domain.DialogueTable
	Locale     string
	Languages  []string
	Seed       int64
}

// BuildWorld создает WorldContext: привязка заведений к узлам, растр дорог, индексы.
func BuildWorld(d WorldData) *domain.WorldContext {
	log := logger.Log.WithField("area", d.ID)

	if err := d.Network.Validate(); err != nil {
		log.WithError(err).Warn("Road network has dangling node references")
	}

	facilities := domain.NewFacilityIndex(d.Rect, d.Facilities)
	snapped := SnapFacilities(d.Rect, d.Network, facilities)

	grid := BuildGrid(d.Rect, d.Network, log)
	annotations := domain.NewAnnotationIndex(grid.Annotations())

	dialogue := d.Dialogue
	if dialogue == nil {
		dialogue = domain.NewDialogueTable()
	}

	log.WithFields(logrus.Fields{
		"ways":        len(d.Network.Ways),
		"nodes":       len(d.Network.Nodes),
		"facilities":  len(d.Facilities),
		"snapped":     snapped,
		"walkable":    len(grid.WalkableCells()),
		"annotations": annotations.Len(),
		"size_x":      grid.SizeX,
		"size_y":      grid.SizeY,
	}).Info("World built")

	return &domain.WorldContext{
		ID:          d.ID,
		Center:      d.Center,
		Rect:        d.Rect,
		Locale:      d.Locale,
		Languages:   d.Languages,
		Network:     d.Network,
		Grid:        grid,
		Facilities:  facilities,
		Annotations: annotations,
		Dialogue:    dialogue,
		Roster:      domain.NewRoster(),
		Rng:         rand.New(rand.NewSource(d.Seed)),
	}
}

// SnapFacilities заменяет теги узла тегами ближайшего заведения, если оно ближе 30 м.
// Возвращает число изменённых узлов.
// Индекс должен быть построен NewFacilityIndex с тем же rect.
func SnapFacilities(rect geo.Rect, net *domain.RoadNetwork, index *spatial.Tree[domain.Facility]) int {
	if index.Len() == 0 {
		return 0
	}
	snapped := 0
	for _, id := range net.SortedNodeIDs() {
		node := net.Nodes[id]
		nearest := index.Nearest(domain.FacilityPoint(rect, node.Lat, node.Lng), 1)
		if len(nearest) == 0 || nearest[0].Distance >= domain.FacilitySnapRadiusM {
			continue
		}
		node.Tags = maps.Clone(nearest[0].Item.Tags)
		snapped++
	}
	return snapped
}

// BuildGrid растеризует дороги в сетку области.
// Дороги обходятся по возрастанию ID; клетки вне сетки отбрасываются.
// Заведение привязывается к клетке конца отрезка, первая регистрация узла побеждает.
func BuildGrid(rect geo.Rect, net *domain.RoadNetwork, log *logrus.Entry) *domain.NavigableGrid {
	sizeX, sizeY := rect.GridSize()
	grid := domain.NewNavigableGrid(sizeX, sizeY)

	for _, wayID := range net.SortedWayIDs() {
		way := net.Ways[wayID]
		for i := 0; i+1 < len(way.NodeIDs); i++ {
			ids := [2]int64{way.NodeIDs[i], way.NodeIDs[i+1]}
			n0, ok0 := net.Nodes[ids[0]]
			n1, ok1 := net.Nodes[ids[1]]
			if !ok0 || !ok1 {
				log.WithFields(logrus.Fields{"way": wayID, "from": ids[0], "to": ids[1]}).Warn("Skipping segment with missing node")
				continue
			}

			nodes := [2]*domain.Node{n0, n1}
			ends := [2]domain.Position{project(rect, n0), project(rect, n1)}

			for _, p := range raster.Line(ends[0], ends[1]) {
				if !grid.InBounds(p) {
					continue
				}
				grid.MarkWalkable(p)

				for k := range ends {
					if p != ends[k] {
						continue
					}
					tags, err := facilityTags(nodes[k])
					if err != nil {
						continue
					}
					grid.Annotate(ids[k], tags, p)
				}
			}
		}
	}
	return grid
}

func project(rect geo.Rect, n *domain.Node) domain.Position {
	x, y := geo.ToGrid(rect, n.Lat, n.Lng)
	return domain.Position{X: x, Y: y}
}

// facilityTags - теги узла, если это заведение (amenity + name).
func facilityTags(n *domain.Node) (domain.Tags, error) {
	if !n.Tags.IsFacility() {
		return nil, fmt.Errorf("node %d: %w", n.ID, domain.ErrMissingTag)
	}
	return n.Tags, nil
}

package domain

import (
	"errors"
	"fmt"
	"sort"
)

// Node - узел дорожной сети.
type Node struct {
	ID   int64   `json:"id"`
	Lat  float64 `json:"lat"`
	Lng  float64 `json:"lon"`
	Tags Tags    `json:"tags,omitempty"`
}

// Way - упорядоченная цепочка узлов (дорога).
type Way struct {
	ID      int64   `json:"id"`
	NodeIDs []int64 `json:"nodes"`
	Tags    Tags    `json:"tags,omitempty"`
}

// RoadNetwork - узлы и дороги, полученные из источника.
type RoadNetwork struct {
	Nodes map[int64]*Node `json:"node"`
	Ways  map[int64]*Way  `json:"way"`
}

func NewRoadNetwork() *RoadNetwork {
	return &RoadNetwork{
		Nodes: make(map[int64]*Node),
		Ways:  make(map[int64]*Way),
	}
}

func (n *RoadNetwork) AddNode(node *Node) {
	n.Nodes[node.ID] = node
}

func (n *RoadNetwork) AddWay(way *Way) {
	n.Ways[way.ID] = way
}

// Merge добавляет данные другой сети (половинки прямоугольника через антимеридиан).
func (n *RoadNetwork) Merge(other *RoadNetwork) {
	if other == nil {
		return
	}
	for id, node := range other.Nodes {
		n.Nodes[id] = node
	}
	for id, way := range other.Ways {
		n.Ways[id] = way
	}
}

// Validate проверяет, что каждая дорога ссылается только на существующие узлы.
func (n *RoadNetwork) Validate() error {
	var errs []error
	for _, wayID := range n.SortedWayIDs() {
		for _, nodeID := range n.Ways[wayID].NodeIDs {
			if _, ok := n.Nodes[nodeID]; !ok {
				errs = append(errs, fmt.Errorf("way %d references node %d: %w", wayID, nodeID, ErrMissingNode))
			}
		}
	}
	return errors.Join(errs...)
}

// SortedWayIDs - ID дорог по возрастанию, чтобы построение сетки не зависело от порядка map.
func (n *RoadNetwork) SortedWayIDs() []int64 {
	ids := make([]int64, 0, len(n.Ways))
	for id := range n.Ways {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

func (n *RoadNetwork) SortedNodeIDs() []int64 {
	ids := make([]int64, 0, len(n.Nodes))
	for id := range n.Nodes {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Package streetnet adapts an external street-network provider into the
// routable-graph contract the directions flow depends on: fetch a local
// road/path graph around a center, snap a coordinate to its nearest node, and
// compute shortest paths under a distance or time weight.
package streetnet

import (
	"container/heap"
	"errors"

	"github.com/communitytransit/directions-backend/internal/geo"
	"github.com/communitytransit/directions-backend/internal/models"
)

var (
	// ErrNoRoutableNode means the fetched subgraph contains no node to snap
	// a coordinate onto.
	ErrNoRoutableNode = errors.New("no routable node found in the fetched subgraph")
	// ErrNoPath means the two nodes are not connected within the fetched
	// subgraph.
	ErrNoPath = errors.New("no path found between nodes in the fetched subgraph")
)

// Mode selects which ways of the street network are routable.
type Mode string

const (
	ModeDrive Mode = "drive"
	ModeWalk  Mode = "walk"
)

// Weight selects the edge metric minimized by ShortestPath.
type Weight string

const (
	WeightDistance Weight = "distance"
	WeightTime     Weight = "time"
)

// NodeID identifies a node within a fetched graph. IDs are the provider's
// OSM node ids, so they are stable across fetches of the same area.
type NodeID int64

type edge struct {
	to         NodeID
	distanceKm float64
	timeHours  float64
}

// Graph is an in-memory routable subgraph extracted around a center point.
// It is immutable after construction and safe for concurrent reads.
type Graph struct {
	coords map[NodeID]models.Coordinate
	adj    map[NodeID][]edge
}

// NewGraph returns an empty graph.
func NewGraph() *Graph {
	return &Graph{
		coords: make(map[NodeID]models.Coordinate),
		adj:    make(map[NodeID][]edge),
	}
}

// AddNode registers a node and its coordinate.
func (g *Graph) AddNode(id NodeID, c models.Coordinate) {
	g.coords[id] = c
}

// AddEdge adds a directed edge between two registered nodes. speedKmh
// determines the time weight of the edge.
func (g *Graph) AddEdge(from, to NodeID, speedKmh float64) {
	a, okA := g.coords[from]
	b, okB := g.coords[to]
	if !okA || !okB {
		return
	}
	d := geo.Distance(a, b)
	g.adj[from] = append(g.adj[from], edge{to: to, distanceKm: d, timeHours: d / speedKmh})
}

// NodeCount returns the number of nodes in the graph.
func (g *Graph) NodeCount() int {
	return len(g.coords)
}

// NodeCoordinate returns the coordinate of a node.
func (g *Graph) NodeCoordinate(id NodeID) (models.Coordinate, bool) {
	c, ok := g.coords[id]
	return c, ok
}

// NearestNode snaps a coordinate to the closest graph node by great-circle
// distance. Every snapped coordinate the rest of the system compares comes
// out of this method, which is what makes exact coordinate equality sound.
func (g *Graph) NearestNode(point models.Coordinate) (NodeID, error) {
	if len(g.coords) == 0 {
		return 0, ErrNoRoutableNode
	}
	var best NodeID
	bestDist := -1.0
	for id, c := range g.coords {
		d := geo.Distance(point, c)
		if bestDist < 0 || d < bestDist || (d == bestDist && id < best) {
			best = id
			bestDist = d
		}
	}
	return best, nil
}

// ShortestPath runs Dijkstra between two nodes under the chosen weight and
// returns the node sequence from -> to inclusive.
func (g *Graph) ShortestPath(from, to NodeID, weight Weight) ([]NodeID, error) {
	if _, ok := g.coords[from]; !ok {
		return nil, ErrNoRoutableNode
	}
	if _, ok := g.coords[to]; !ok {
		return nil, ErrNoRoutableNode
	}
	if from == to {
		return []NodeID{from}, nil
	}

	dist := map[NodeID]float64{from: 0}
	prev := map[NodeID]NodeID{}
	visited := map[NodeID]bool{}

	pq := &nodeQueue{{id: from, cost: 0}}
	heap.Init(pq)

	for pq.Len() > 0 {
		cur := heap.Pop(pq).(queueItem)
		if visited[cur.id] {
			continue
		}
		visited[cur.id] = true
		if cur.id == to {
			break
		}
		for _, e := range g.adj[cur.id] {
			w := e.distanceKm
			if weight == WeightTime {
				w = e.timeHours
			}
			next := cur.cost + w
			if d, seen := dist[e.to]; !seen || next < d {
				dist[e.to] = next
				prev[e.to] = cur.id
				heap.Push(pq, queueItem{id: e.to, cost: next})
			}
		}
	}

	if !visited[to] {
		return nil, ErrNoPath
	}

	var path []NodeID
	for at := to; ; at = prev[at] {
		path = append(path, at)
		if at == from {
			break
		}
	}
	for i, j := 0, len(path)-1; i < j; i, j = i+1, j-1 {
		path[i], path[j] = path[j], path[i]
	}
	return path, nil
}

// PathCoordinates materializes a node path as an ordered coordinate sequence.
func (g *Graph) PathCoordinates(path []NodeID) models.Path {
	coords := make(models.Path, 0, len(path))
	for _, id := range path {
		if c, ok := g.coords[id]; ok {
			coords = append(coords, c)
		}
	}
	return coords
}

type queueItem struct {
	id   NodeID
	cost float64
}

type nodeQueue []queueItem

func (q nodeQueue) Len() int            { return len(q) }
func (q nodeQueue) Less(i, j int) bool  { return q[i].cost < q[j].cost }
func (q nodeQueue) Swap(i, j int)       { q[i], q[j] = q[j], q[i] }
func (q *nodeQueue) Push(x interface{}) { *q = append(*q, x.(queueItem)) }
func (q *nodeQueue) Pop() interface{} {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[:n-1]
	return item
}

package tracker

import (
	"cmp"
	"slices"
	"strings"

	g "github.com/anacrolix/generics"
	"github.com/anacrolix/missinggo/v2/panicif"
	"github.com/anacrolix/multiless"

	"github.com/upflare/tracker/geo"
)

// A node in the location graph. Every node knows its distance to every other node.
type locationNode struct {
	geo.Location
	distances map[geo.LocationId]float64
	// Other location ids, nearest first.
	neighbours []geo.LocationId
	peers      peerSet
}

func (me *locationNode) sortNeighbours() {
	me.neighbours = me.neighbours[:0]
	for id := range me.distances {
		me.neighbours = append(me.neighbours, id)
	}
	slices.SortFunc(me.neighbours, func(a, b geo.LocationId) int {
		return me.neighbourOrder(a, b).OrderingInt()
	})
}

// Nearest first. Ties are broken by id so that the order doesn't depend on map iteration.
func (me *locationNode) neighbourOrder(a, b geo.LocationId) multiless.Computation {
	return multiless.New().Cmp(
		cmp.Compare(me.distances[a], me.distances[b]),
	).Cmp(
		strings.Compare(string(a), string(b)),
	)
}

type locationGraph map[geo.LocationId]*locationNode

// Returns nil for None. A location id seen before returns the existing node; later sightings with
// different coordinates don't alter it.
func (me *locationGraph) getOrCreate(opt g.Option[geo.Location]) *locationNode {
	if !opt.Ok {
		return nil
	}
	loc := opt.Value
	if node, ok := (*me)[loc.Id]; ok {
		return node
	}
	g.MakeMapIfNil(me)
	node := &locationNode{
		Location:  loc,
		distances: make(map[geo.LocationId]float64, len(*me)),
		peers:     newPeerSet(),
	}
	for id, other := range *me {
		panicif.True(g.MapContains(other.distances, loc.Id))
		d := geo.Distance(loc, other.Location)
		node.distances[id] = d
		other.distances[loc.Id] = d
		other.sortNeighbours()
	}
	node.sortNeighbours()
	g.MapMustAssignNew(*me, loc.Id, node)
	return node
}

func (me locationGraph) get(id geo.LocationId) *locationNode {
	return me[id]
}

package tracker

import (
	"github.com/elliotchance/orderedmap/v2"
)

// Peer ids in insertion order. Iteration order is what makes selection reproducible for a given
// RandSource.
type peerSet struct {
	m *orderedmap.OrderedMap[PeerId, struct{}]
}

func newPeerSet() peerSet {
	return peerSet{orderedmap.NewOrderedMap[PeerId, struct{}]()}
}

// Returns false if the id was already present.
func (me peerSet) Add(id PeerId) bool {
	return me.m.Set(id, struct{}{})
}

func (me peerSet) Delete(id PeerId) bool {
	return me.m.Delete(id)
}

func (me peerSet) Contains(id PeerId) bool {
	_, ok := me.m.Get(id)
	return ok
}

func (me peerSet) Len() int {
	return me.m.Len()
}

func (me peerSet) Iter(f func(PeerId) bool) {
	for e := me.m.Front(); e != nil; e = e.Next() {
		if !f(e.Key) {
			return
		}
	}
}

func (me peerSet) Slice() []PeerId {
	return me.m.Keys()
}

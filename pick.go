package tracker

// Candidates gathered for one pickPeers call. Gathering order is kept so that sampling with a
// given RandSource is reproducible.
type peerPool struct {
	ids  []PeerId
	seen map[PeerId]struct{}
}

func (me *peerPool) add(id PeerId) {
	if _, ok := me.seen[id]; ok {
		return
	}
	if me.seen == nil {
		me.seen = make(map[PeerId]struct{})
	}
	me.seen[id] = struct{}{}
	me.ids = append(me.ids, id)
}

func (me *peerPool) len() int {
	return len(me.ids)
}

// Removes and returns the id at i. Order of the remaining ids changes.
func (me *peerPool) take(i int) PeerId {
	id := me.ids[i]
	last := len(me.ids) - 1
	me.ids[i] = me.ids[last]
	me.ids = me.ids[:last]
	return id
}

// Adds randomly chosen peers that can serve url to chosen, until it holds count peers or there
// are no more candidates. Candidates come from the requester's subnet, then its location, then
// same-country locations in order of increasing distance.
func (t *Tracker) pickPeers(url string, requester *peer, chosen peerSet, count int) {
	var pool peerPool
	addFrom := func(peers peerSet) {
		peers.Iter(func(id PeerId) bool {
			if id == requester.Id || chosen.Contains(id) {
				return true
			}
			if p := t.peers[id]; p != nil && p.canServe(url) {
				pool.add(id)
			}
			return true
		})
	}
	if subnet, ok := t.subnets.get(requester.Subnet); ok {
		addFrom(subnet)
	}
	if requester.Location.Ok {
		if node := t.locations.get(requester.Location.Value.Id); node != nil {
			addFrom(node.peers)
			t.addNeighbourCandidates(node, count, &pool, addFrom)
		}
	}
	for chosen.Len() < count && pool.len() > 0 {
		chosen.Add(pool.take(t.rand.IntN(pool.len())))
	}
}

func (t *Tracker) addNeighbourCandidates(
	node *locationNode,
	count int,
	pool *peerPool,
	addFrom func(peerSet),
) {
	for _, id := range node.neighbours {
		if pool.len() > t.config.PoolFactor*count {
			break
		}
		if node.distances[id] > t.config.MaxNeighbourDistanceKm {
			break
		}
		neighbour := t.locations.get(id)
		if neighbour == nil || neighbour.Country != node.Country {
			continue
		}
		addFrom(neighbour.peers)
	}
}

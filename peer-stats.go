package tracker

// Byte counters for transfers between peers.
type P2PStats struct {
	Sent     int64 `json:"sent"`
	Received int64 `json:"received"`
}

// Byte counters for fragments fetched from the CDN because no peer could serve them.
type XHRStats struct {
	Received int64 `json:"received"`
}

// Cumulative transfer counters, either as reported by one peer or summed over all peers.
type TransferStats struct {
	P2P P2PStats `json:"p2p"`
	XHR XHRStats `json:"xhr"`
}

// Fraction of received bytes that came from peers. The +1 keeps it defined before anything was
// received.
func (me TransferStats) P2PRatio() float64 {
	return float64(me.P2P.Received) / float64(me.P2P.Received+me.XHR.Received+1)
}

func (me TransferStats) TotalReceived() int64 {
	return me.P2P.Received + me.XHR.Received
}

// Folds the newly reported counters of a peer into its stored ones, and returns by how much each
// counter advanced. Counters are cumulative per peer, so a value that doesn't exceed the stored one
// is a stale report and is ignored.
func (me *TransferStats) advance(reported TransferStats) (delta TransferStats) {
	delta.P2P.Sent = advanceCounter(&me.P2P.Sent, reported.P2P.Sent)
	delta.P2P.Received = advanceCounter(&me.P2P.Received, reported.P2P.Received)
	delta.XHR.Received = advanceCounter(&me.XHR.Received, reported.XHR.Received)
	return
}

// Whether any reported counter went backwards.
func (me TransferStats) isStale(reported TransferStats) bool {
	return reported.P2P.Sent < me.P2P.Sent ||
		reported.P2P.Received < me.P2P.Received ||
		reported.XHR.Received < me.XHR.Received
}

func (me *TransferStats) add(delta TransferStats) {
	me.P2P.Sent += delta.P2P.Sent
	me.P2P.Received += delta.P2P.Received
	me.XHR.Received += delta.XHR.Received
}

func advanceCounter(stored *int64, reported int64) int64 {
	if reported <= *stored {
		return 0
	}
	delta := reported - *stored
	*stored = reported
	return delta
}

package wstracker

import (
	"expvar"
	"sync/atomic"
)

var (
	metrics          = expvar.NewMap("wstracker")
	messagesReceived = expvar.NewMap("wstrackerMessagesReceived")
)

type serverCounters struct {
	connections          atomic.Int64
	disconnections       atomic.Int64
	messagesReceived     atomic.Int64
	messagesLimited      atomic.Int64
	messagesInvalid      atomic.Int64
	signalsRelayed       atomic.Int64
	signalsUndeliverable atomic.Int64
}

// Connection and message counts for a Server since it was created.
type ServerStats struct {
	Connections      int64 `json:"connections"`
	Disconnections   int64 `json:"disconnections"`
	MessagesReceived int64 `json:"messagesReceived"`
	// Frames dropped because the connection exceeded its rate limit.
	MessagesLimited int64 `json:"messagesLimited"`
	// Frames that couldn't be decoded, or had an unknown action.
	MessagesInvalid int64 `json:"messagesInvalid"`
	SignalsRelayed  int64 `json:"signalsRelayed"`
	// Offers and answers for ids that aren't connected.
	SignalsUndeliverable int64 `json:"signalsUndeliverable"`
}

func (me *serverCounters) snapshot() ServerStats {
	return ServerStats{
		Connections:          me.connections.Load(),
		Disconnections:       me.disconnections.Load(),
		MessagesReceived:     me.messagesReceived.Load(),
		MessagesLimited:      me.messagesLimited.Load(),
		MessagesInvalid:      me.messagesInvalid.Load(),
		SignalsRelayed:       me.signalsRelayed.Load(),
		SignalsUndeliverable: me.signalsUndeliverable.Load(),
	}
}

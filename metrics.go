package tracker

import (
	"github.com/prometheus/client_golang/prometheus"
)

const metricsNamespace = "tracker"

// Exposes a Tracker's statistics to prometheus. Values are read at scrape time.
type metricsCollector struct {
	t *Tracker

	peers         *prometheus.Desc
	peakPeers     *prometheus.Desc
	locations     *prometheus.Desc
	subnets       *prometheus.Desc
	transferBytes *prometheus.Desc
	p2pRatio      *prometheus.Desc
	operations    *prometheus.Desc
	timingSeconds *prometheus.Desc
}

func newMetricsCollector(t *Tracker) *metricsCollector {
	desc := func(name, help string, labels ...string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(metricsNamespace, "", name), help, labels, nil)
	}
	return &metricsCollector{
		t:             t,
		peers:         desc("peers", "Currently registered peers."),
		peakPeers:     desc("peak_peers", "Most peers registered at once."),
		locations:     desc("locations", "Known locations."),
		subnets:       desc("subnets", "Known subnets."),
		transferBytes: desc("transfer_bytes_total", "Bytes transferred as reported by peers.", "source", "direction"),
		p2pRatio:      desc("p2p_ratio", "Fraction of received bytes that came from peers."),
		operations:    desc("operations_total", "Handled queries and reports.", "operation"),
		timingSeconds: desc("operation_seconds", "Elapsed time of handled operations.", "operation", "stat"),
	}
}

func (me *metricsCollector) Describe(ch chan<- *prometheus.Desc) {
	for _, d := range []*prometheus.Desc{
		me.peers, me.peakPeers, me.locations, me.subnets,
		me.transferBytes, me.p2pRatio, me.operations, me.timingSeconds,
	} {
		ch <- d
	}
}

func (me *metricsCollector) Collect(ch chan<- prometheus.Metric) {
	s := me.t.Stats()
	gauge := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.GaugeValue, v, labels...)
	}
	counter := func(d *prometheus.Desc, v float64, labels ...string) {
		ch <- prometheus.MustNewConstMetric(d, prometheus.CounterValue, v, labels...)
	}
	gauge(me.peers, float64(s.Peers))
	gauge(me.peakPeers, float64(s.PeakPeers))
	gauge(me.locations, float64(s.Locations))
	gauge(me.subnets, float64(s.Subnets))
	counter(me.transferBytes, float64(s.Transfer.P2P.Sent), "p2p", "sent")
	counter(me.transferBytes, float64(s.Transfer.P2P.Received), "p2p", "received")
	counter(me.transferBytes, float64(s.Transfer.XHR.Received), "xhr", "received")
	gauge(me.p2pRatio, s.P2PRatio)
	for _, op := range []struct {
		name string
		TimingSummary
	}{
		{"query", s.Query},
		{"report", s.Report},
	} {
		counter(me.operations, float64(op.Count), op.name)
		gauge(me.timingSeconds, op.Min.Seconds(), op.name, "min")
		gauge(me.timingSeconds, op.Mean.Seconds(), op.name, "mean")
		gauge(me.timingSeconds, op.Max.Seconds(), op.name, "max")
	}
}

// RegisterMetrics exposes the Tracker's statistics through reg.
func (t *Tracker) RegisterMetrics(reg prometheus.Registerer) error {
	return reg.Register(newMetricsCollector(t))
}

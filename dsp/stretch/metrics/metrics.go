// Package metrics exports Stretcher and LiveShifter counters to
// Prometheus.
package metrics

import (
	"sync"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

// StatsSource is implemented by *stretch.Stretcher and *stretch.LiveShifter.
type StatsSource interface {
	Stats() stretch.Stats
}

// Collector reads the stats of every tracked instance at scrape time.
type Collector struct {
	mu      sync.RWMutex
	sources map[string]StatsSource

	input      *prometheus.Desc
	output     *prometheus.Desc
	buffered   *prometheus.Desc
	startDelay *prometheus.Desc
	faulted    *prometheus.Desc
}

// NewCollector builds an empty collector. Register it with a registry
// and Track instances as they are created.
func NewCollector(namespace string) *Collector {
	labels := []string{"instance"}
	desc := func(name, help string) *prometheus.Desc {
		return prometheus.NewDesc(prometheus.BuildFQName(namespace, "", name), help, labels, nil)
	}
	return &Collector{
		sources:    make(map[string]StatsSource),
		input:      desc("input_frames_total", "Input frames consumed."),
		output:     desc("output_frames_total", "Output frames produced."),
		buffered:   desc("buffered_frames", "Output frames waiting to be retrieved."),
		startDelay: desc("start_delay_frames", "Current start delay in output frames."),
		faulted:    desc("faulted", "1 if the instance is faulted."),
	}
}

// Track starts reporting src under the instance label name, replacing
// any source already tracked under it.
func (c *Collector) Track(name string, src StatsSource) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.sources[name] = src
}

// Untrack stops reporting name.
func (c *Collector) Untrack(name string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.sources, name)
}

// Describe implements prometheus.Collector.
func (c *Collector) Describe(ch chan<- *prometheus.Desc) {
	ch <- c.input
	ch <- c.output
	ch <- c.buffered
	ch <- c.startDelay
	ch <- c.faulted
}

// Collect implements prometheus.Collector.
func (c *Collector) Collect(ch chan<- prometheus.Metric) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	for name, src := range c.sources {
		st := src.Stats()
		faulted := 0.0
		if st.Faulted {
			faulted = 1
		}
		ch <- prometheus.MustNewConstMetric(c.input, prometheus.CounterValue, float64(st.InputFrames), name)
		ch <- prometheus.MustNewConstMetric(c.output, prometheus.CounterValue, float64(st.OutputFrames), name)
		ch <- prometheus.MustNewConstMetric(c.buffered, prometheus.GaugeValue, float64(st.Buffered), name)
		ch <- prometheus.MustNewConstMetric(c.startDelay, prometheus.GaugeValue, float64(st.StartDelay), name)
		ch <- prometheus.MustNewConstMetric(c.faulted, prometheus.GaugeValue, faulted, name)
	}
}

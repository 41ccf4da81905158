package metrics

import (
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/cwbudde/algo-stretch/dsp/stretch"
)

type fixedStats stretch.Stats

func (f fixedStats) Stats() stretch.Stats { return stretch.Stats(f) }

func TestCollectorReportsTrackedSources(t *testing.T) {
	c := NewCollector("stretch")
	reg := prometheus.NewRegistry()
	require.NoError(t, reg.Register(c))

	c.Track("a", fixedStats{InputFrames: 100, OutputFrames: 150, Buffered: 20, StartDelay: 1024})
	c.Track("b", fixedStats{InputFrames: 7, Faulted: true})

	expected := `
# HELP stretch_input_frames_total Input frames consumed.
# TYPE stretch_input_frames_total counter
stretch_input_frames_total{instance="a"} 100
stretch_input_frames_total{instance="b"} 7
# HELP stretch_faulted 1 if the instance is faulted.
# TYPE stretch_faulted gauge
stretch_faulted{instance="a"} 0
stretch_faulted{instance="b"} 1
`
	require.NoError(t, testutil.GatherAndCompare(reg, strings.NewReader(expected),
		"stretch_input_frames_total", "stretch_faulted"))
	assert.Equal(t, 10, testutil.CollectAndCount(c))

	c.Untrack("b")
	assert.Equal(t, 5, testutil.CollectAndCount(c))
}

func TestCollectorWithStretcher(t *testing.T) {
	s, err := stretch.New(44100, 1, stretch.DefaultOptions(), 2, 1)
	require.NoError(t, err)
	defer s.Close()

	c := NewCollector("algo")
	c.Track("main", s)
	require.NoError(t, s.Process([][]float32{make([]float32, 4410)}, true))

	assert.Equal(t, 5, testutil.CollectAndCount(c))
	assert.InDelta(t, 8820, testutil.ToFloat64(gaugeOnly(c, "algo_buffered_frames")), 0)
}

// gaugeOnly narrows c to a single metric family so ToFloat64 can read it.
func gaugeOnly(c *Collector, name string) prometheus.Collector {
	return filtered{c: c, name: name}
}

type filtered struct {
	c    *Collector
	name string
}

func (f filtered) Describe(ch chan<- *prometheus.Desc) { prometheus.DescribeByCollect(f, ch) }

func (f filtered) Collect(ch chan<- prometheus.Metric) {
	all := make(chan prometheus.Metric)
	go func() {
		f.c.Collect(all)
		close(all)
	}()
	for m := range all {
		if strings.Contains(m.Desc().String(), `"`+f.name+`"`) {
			ch <- m
		}
	}
}

package metrics

import (
	"sort"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
)

// PromReporter exports reported metrics through a Prometheus registerer.
// Counter and gauge vectors are created lazily on first report of a name;
// the label set of a metric is fixed by that first report, so callers must
// report a given name with a consistent dimension shape.
type PromReporter struct {
	mu       sync.Mutex
	reg      prometheus.Registerer
	ns       string
	counters map[string]*prometheus.CounterVec
	gauges   map[string]*prometheus.GaugeVec
}

// NewPromReporter creates a reporter registering its vectors on reg under
// the given namespace. A nil reg uses the default registerer.
func NewPromReporter(reg prometheus.Registerer, namespace string) *PromReporter {
	if reg == nil {
		reg = prometheus.DefaultRegisterer
	}
	return &PromReporter{
		reg:      reg,
		ns:       namespace,
		counters: make(map[string]*prometheus.CounterVec),
		gauges:   make(map[string]*prometheus.GaugeVec),
	}
}

// IncCounter implements Reporter.
func (r *PromReporter) IncCounter(name string, delta Value, dims Dimension) {
	r.counterVec(name, dims).With(prometheus.Labels(dims)).Add(float64(delta))
}

// SetGauge implements Reporter.
func (r *PromReporter) SetGauge(name string, value Value, dims Dimension) {
	r.gaugeVec(name, dims).With(prometheus.Labels(dims)).Set(float64(value))
}

func (r *PromReporter) counterVec(name string, dims Dimension) *prometheus.CounterVec {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vec, ok := r.counters[name]; ok {
		return vec
	}
	vec := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: r.ns,
		Name:      name,
	}, labelKeys(dims))
	r.reg.MustRegister(vec)
	r.counters[name] = vec
	return vec
}

func (r *PromReporter) gaugeVec(name string, dims Dimension) *prometheus.GaugeVec {
	r.mu.Lock()
	defer r.mu.Unlock()

	if vec, ok := r.gauges[name]; ok {
		return vec
	}
	vec := prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: r.ns,
		Name:      name,
	}, labelKeys(dims))
	r.reg.MustRegister(vec)
	r.gauges[name] = vec
	return vec
}

func labelKeys(dims Dimension) []string {
	keys := make([]string, 0, len(dims))
	for k := range dims {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

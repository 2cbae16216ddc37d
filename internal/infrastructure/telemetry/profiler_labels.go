package telemetry

import (
	"context"
	"sort"

	"github.com/grafana/pyroscope-go"
)

// Profiling label keys
const (
	ProfilingLabelRoute  = "route"
	ProfilingLabelMethod = "method"
)

// maxLabelValueLength keeps label values from inflating profile size
const maxLabelValueLength = 128

// WithProfilingLabels runs fn with the labels attached to every profile
// sample it produces. Empty keys and values are dropped.
func WithProfilingLabels(ctx context.Context, labels map[string]string, fn func(context.Context)) {
	pairs := labelPairs(labels)
	if len(pairs) == 0 {
		fn(ctx)
		return
	}
	pyroscope.TagWrapper(ctx, pyroscope.Labels(pairs...), fn)
}

// HTTPRequestLabels labels a request by its route pattern and method
func HTTPRequestLabels(route, method string) map[string]string {
	return map[string]string{
		ProfilingLabelRoute:  route,
		ProfilingLabelMethod: method,
	}
}

func labelPairs(labels map[string]string) []string {
	keys := make([]string, 0, len(labels))
	for k, v := range labels {
		if k != "" && v != "" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	pairs := make([]string, 0, len(keys)*2)
	for _, k := range keys {
		v := labels[k]
		if len(v) > maxLabelValueLength {
			v = v[:maxLabelValueLength]
		}
		pairs = append(pairs, k, v)
	}
	return pairs
}

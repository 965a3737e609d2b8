// Package metrics records build and stage metrics.
//
// Components receive a Recorder and default to NoopRecorder, so nothing needs a nil
// check. The watch command swaps in a PrometheusRecorder when metrics.listen is
// configured and serves it through HTTPHandler.
package metrics

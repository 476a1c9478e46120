// Package metrics provides observability hooks for compile and render work.
//
// Components receive a Recorder and default to NoopRecorder, so metrics can
// be collected without nil checks at every call site:
//
//	doc.SetRecorder(metrics.NewPrometheusRecorder(reg))
//
// The command line front end writes the registry to a textfile (node
// exporter textfile collector format) with WriteTextfile.
package metrics

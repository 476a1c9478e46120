package metrics

import (
	prom "github.com/prometheus/client_golang/prometheus"
)

// WriteTextfile writes the metrics gathered by reg to path in the text
// exposition format.
func WriteTextfile(reg *prom.Registry, path string) error {
	if reg == nil {
		return nil
	}
	return prom.WriteToTextfile(path, reg)
}

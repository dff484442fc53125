// Package config defines the kestrel configuration model and its YAML
// loading pipeline: read, unmarshal, apply defaults, validate. Environment
// variables (KESTREL_*) can override file values, and a file watcher can
// reload rotation policies at runtime without restarting the daemon.
package config

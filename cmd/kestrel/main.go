// Kestrel is a log rotation, compression, archival, and retention daemon
// for field-deployed signal collection platforms.
//
// It manages size-, age-, and free-space-triggered rotation of capture
// logs, gzip compression of rotated artifacts, background shipping to
// archive storage backends, and category-based retention sweeps across
// the local and archive tiers.
//
// Usage:
//
//	# Start the daemon with default configuration
//	kestrel run
//
//	# Start with custom configuration file
//	kestrel run --config /etc/kestrel/kestrel.yaml
//
//	# Force an immediate rotation of one managed file
//	kestrel rotate /var/log/kestrel/wifi.log
//
//	# Validate a configuration file
//	kestrel validate --config kestrel.yaml
//
//	# List recent archive records
//	kestrel archives list --format json
//
//	# Show version information
//	kestrel version
package main

func main() {
	Execute()
}

package config

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// SizeValue is a byte count that unmarshals from raw integers or
// human-readable strings such as "100MB" or "1GB".
type SizeValue int64

// UnmarshalYAML implements yaml.Unmarshaler.
func (s *SizeValue) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid size value: %w", err)
	}

	n, err := ParseSize(raw)
	if err != nil {
		return err
	}
	*s = SizeValue(n)
	return nil
}

// Bytes returns the size as an int64 byte count.
func (s SizeValue) Bytes() int64 {
	return int64(s)
}

// sizeUnits maps suffixes to multipliers. Longer suffixes are checked
// first so "KB" wins over "B".
var sizeUnits = []struct {
	suffix     string
	multiplier int64
}{
	{"TB", 1 << 40},
	{"GB", 1 << 30},
	{"MB", 1 << 20},
	{"KB", 1 << 10},
	{"B", 1},
}

// ParseSize parses a byte count. Accepts raw integers ("1048576") and
// suffixed values ("100MB", "1gb", "512 KB"). Suffixes are binary
// (1 KB = 1024 bytes) and case-insensitive.
func ParseSize(raw string) (int64, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("size value is empty")
	}

	upper := strings.ToUpper(trimmed)
	for _, unit := range sizeUnits {
		if !strings.HasSuffix(upper, unit.suffix) {
			continue
		}
		numPart := strings.TrimSpace(strings.TrimSuffix(upper, unit.suffix))
		if numPart == "" {
			return 0, fmt.Errorf("size value %q has no number", raw)
		}
		n, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid size value %q: %w", raw, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("size value %q is negative", raw)
		}
		return int64(n * float64(unit.multiplier)), nil
	}

	n, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid size value %q: %w", raw, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("size value %q is negative", raw)
	}
	return n, nil
}

// AgeValue is a duration that unmarshals from raw seconds, Go duration
// strings ("10h", "90m"), or day-suffixed values ("7d").
type AgeValue time.Duration

// UnmarshalYAML implements yaml.Unmarshaler.
func (a *AgeValue) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err != nil {
		return fmt.Errorf("invalid age value: %w", err)
	}

	d, err := ParseAge(raw)
	if err != nil {
		return err
	}
	*a = AgeValue(d)
	return nil
}

// Duration returns the age as a time.Duration.
func (a AgeValue) Duration() time.Duration {
	return time.Duration(a)
}

// ParseAge parses an age threshold. Accepts raw integers as seconds
// ("3600"), day-suffixed values ("7d"), and anything time.ParseDuration
// accepts ("10h", "90m", "1h30m").
func ParseAge(raw string) (time.Duration, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return 0, fmt.Errorf("age value is empty")
	}

	if n, err := strconv.ParseInt(trimmed, 10, 64); err == nil {
		if n < 0 {
			return 0, fmt.Errorf("age value %q is negative", raw)
		}
		return time.Duration(n) * time.Second, nil
	}

	lower := strings.ToLower(trimmed)
	if strings.HasSuffix(lower, "d") {
		numPart := strings.TrimSpace(strings.TrimSuffix(lower, "d"))
		n, err := strconv.ParseFloat(numPart, 64)
		if err != nil {
			return 0, fmt.Errorf("invalid age value %q: %w", raw, err)
		}
		if n < 0 {
			return 0, fmt.Errorf("age value %q is negative", raw)
		}
		return time.Duration(n * float64(24*time.Hour)), nil
	}

	d, err := time.ParseDuration(trimmed)
	if err != nil {
		return 0, fmt.Errorf("invalid age value %q: %w", raw, err)
	}
	if d < 0 {
		return 0, fmt.Errorf("age value %q is negative", raw)
	}
	return d, nil
}

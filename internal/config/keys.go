package config

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrUnknownKey is returned by Get and Set for an unsupported dotted key.
var ErrUnknownKey = errors.New("unknown configuration key")

// Keys lists every dotted key in document order.
func Keys() []string {
	return []string{
		"output.default_format",
		"output.default_locale",
		"output.equivalencies",
		"logging.level",
		"logging.format",
		"logging.file",
		"server.address",
		"server.allowed_origins",
		"server.read_header_timeout_seconds",
		"server.shutdown_timeout_seconds",
		"estimator.strict",
	}
}

// KeyValue is one entry of List.
type KeyValue struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// List returns every key with its current value.
func (c *Config) List() []KeyValue {
	out := make([]KeyValue, 0, len(Keys()))
	for _, k := range Keys() {
		v, _ := c.Get(k)
		out = append(out, KeyValue{Key: k, Value: v})
	}
	return out
}

// Get returns the value at a dotted key as a string. Lists are comma-joined.
func (c *Config) Get(key string) (string, error) {
	switch key {
	case "output.default_format":
		return c.Output.DefaultFormat, nil
	case "output.default_locale":
		return c.Output.DefaultLocale, nil
	case "output.equivalencies":
		return strconv.FormatBool(c.Output.Equivalencies), nil
	case "logging.level":
		return c.Logging.Level, nil
	case "logging.format":
		return c.Logging.Format, nil
	case "logging.file":
		return c.Logging.File, nil
	case "server.address":
		return c.Server.Address, nil
	case "server.allowed_origins":
		return strings.Join(c.Server.AllowedOrigins, ","), nil
	case "server.read_header_timeout_seconds":
		return strconv.Itoa(c.Server.ReadHeaderTimeoutSeconds), nil
	case "server.shutdown_timeout_seconds":
		return strconv.Itoa(c.Server.ShutdownTimeoutSeconds), nil
	case "estimator.strict":
		return strconv.FormatBool(c.Estimator.Strict), nil
	default:
		return "", fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
}

// Set parses value for the dotted key and stores it. Call Validate and Save
// afterwards to persist a consistent document.
func (c *Config) Set(key, value string) error {
	switch key {
	case "output.default_format":
		c.Output.DefaultFormat = value
	case "output.default_locale":
		c.Output.DefaultLocale = value
	case "output.equivalencies":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Output.Equivalencies = b
	case "logging.level":
		c.Logging.Level = value
	case "logging.format":
		c.Logging.Format = value
	case "logging.file":
		c.Logging.File = value
	case "server.address":
		c.Server.Address = value
	case "server.allowed_origins":
		c.Server.AllowedOrigins = splitList(value)
	case "server.read_header_timeout_seconds":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.Server.ReadHeaderTimeoutSeconds = n
	case "server.shutdown_timeout_seconds":
		n, err := parseInt(key, value)
		if err != nil {
			return err
		}
		c.Server.ShutdownTimeoutSeconds = n
	case "estimator.strict":
		b, err := parseBool(key, value)
		if err != nil {
			return err
		}
		c.Estimator.Strict = b
	default:
		return fmt.Errorf("%w: %s", ErrUnknownKey, key)
	}
	return nil
}

func parseBool(key, value string) (bool, error) {
	b, err := strconv.ParseBool(value)
	if err != nil {
		return false, fmt.Errorf("%s: expected true or false, got %q", key, value)
	}
	return b, nil
}

func parseInt(key, value string) (int, error) {
	n, err := strconv.Atoi(value)
	if err != nil {
		return 0, fmt.Errorf("%s: expected an integer, got %q", key, value)
	}
	return n, nil
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}

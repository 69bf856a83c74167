package config

import (
	"fmt"
	"strings"
)

const (
	ErrorTypeIO         = "io"
	ErrorTypeParse      = "parse"
	ErrorTypeValidation = "validation"
)

// ConfigurationError describes why a configuration file could not be used.
type ConfigurationError struct {
	FilePath    string
	FileName    string
	ErrorType   string
	Message     string
	Suggestions []string
	Err         error
}

// Error implements the error interface
func (ce *ConfigurationError) Error() string {
	name := ce.FileName
	if name == "" {
		name = "<config>"
	}
	if ce.Err != nil {
		return fmt.Sprintf("[%s] %s: %s: %v", ce.ErrorType, name, ce.Message, ce.Err)
	}
	return fmt.Sprintf("[%s] %s: %s", ce.ErrorType, name, ce.Message)
}

func (ce *ConfigurationError) Unwrap() error { return ce.Err }

// DetailedError returns a multi-line message including suggestions.
func (ce *ConfigurationError) DetailedError() string {
	parts := []string{fmt.Sprintf("Configuration error in %s", ce.FilePath)}
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))
	if ce.Err != nil {
		parts = append(parts, fmt.Sprintf("  Details: %v", ce.Err))
	}
	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, s := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", s))
		}
	}
	return strings.Join(parts, "\n")
}

package config

import (
	"fmt"
	"strings"
)

// ConfigurationError represents a structured error that occurs during
// configuration or declaration loading.
type ConfigurationError struct {
	FilePath    string   `json:"filePath"`    // Full path to the file that caused the error
	FileName    string   `json:"fileName"`    // Base name of the file
	Category    string   `json:"category"`    // Declaration category (sources, features, config)
	ErrorType   string   `json:"errorType"`   // Type of error (parse, validation, io)
	Message     string   `json:"message"`     // Human-readable error message
	Details     string   `json:"details"`     // Additional details about the error
	Suggestions []string `json:"suggestions"` // Actionable suggestions to fix the error
}

// Error implements the error interface.
func (ce ConfigurationError) Error() string {
	return fmt.Sprintf("[%s] %s: %s", ce.Category, ce.FileName, ce.Message)
}

// DetailedError returns a detailed error message with all context.
func (ce ConfigurationError) DetailedError() string {
	var parts []string

	parts = append(parts, fmt.Sprintf("Configuration error in %s", ce.FileName))
	parts = append(parts, fmt.Sprintf("  File: %s", ce.FilePath))
	parts = append(parts, fmt.Sprintf("  Category: %s", ce.Category))
	parts = append(parts, fmt.Sprintf("  Type: %s", ce.ErrorType))
	parts = append(parts, fmt.Sprintf("  Error: %s", ce.Message))

	if ce.Details != "" {
		parts = append(parts, fmt.Sprintf("  Details: %s", ce.Details))
	}

	if len(ce.Suggestions) > 0 {
		parts = append(parts, "  Suggestions:")
		for _, suggestion := range ce.Suggestions {
			parts = append(parts, fmt.Sprintf("    - %s", suggestion))
		}
	}

	return strings.Join(parts, "\n")
}

// ConfigurationErrorCollection holds multiple configuration errors.
type ConfigurationErrorCollection struct {
	Errors []ConfigurationError `json:"errors"`
}

// Error implements the error interface for the collection.
func (cec ConfigurationErrorCollection) Error() string {
	if len(cec.Errors) == 0 {
		return "no configuration errors"
	}

	if len(cec.Errors) == 1 {
		return cec.Errors[0].Error()
	}

	return fmt.Sprintf("%d configuration errors: %s (and %d more)",
		len(cec.Errors), cec.Errors[0].Error(), len(cec.Errors)-1)
}

// HasErrors returns true if there are any errors in the collection.
func (cec *ConfigurationErrorCollection) HasErrors() bool {
	return len(cec.Errors) > 0
}

// Add appends an error to the collection.
func (cec *ConfigurationErrorCollection) Add(err ConfigurationError) {
	cec.Errors = append(cec.Errors, err)
}

// DetailedError returns every error's detailed message.
func (cec ConfigurationErrorCollection) DetailedError() string {
	var parts []string
	for _, err := range cec.Errors {
		parts = append(parts, err.DetailedError())
	}
	return strings.Join(parts, "\n\n")
}

package api

import (
	"fmt"
	"time"
)

// DefaultMaxBodyBytes caps a single response body when MaxBodyBytes is unset
const DefaultMaxBodyBytes int64 = 32 << 20

// SourceConfig describes one JSON endpoint to load rows from
type SourceConfig struct {
	Name    string            `json:"name"`
	BaseURL string            `json:"base_url"`
	Headers map[string]string `json:"headers,omitempty"`

	// Authentication
	AuthMethod string `json:"auth_method"` // "none", "bearer", "api_key", "basic"
	AuthToken  string `json:"auth_token,omitempty"`
	Username   string `json:"username,omitempty"`
	Password   string `json:"password,omitempty"`

	// Data extraction
	DataPath string `json:"data_path"` // gjson path of the record array (e.g. "data.items")

	// Pagination
	PaginationType string `json:"pagination_type"` // "none", "offset", "page", "cursor"
	PageSize       int    `json:"page_size"`
	MaxPages       int    `json:"max_pages"`
	MaxRows        int    `json:"max_rows,omitempty"` // 0 means no limit

	MaxBodyBytes int64 `json:"max_body_bytes,omitempty"` // per response; 0 means DefaultMaxBodyBytes

	Timeout time.Duration `json:"timeout"`
}

// DefaultSourceConfig returns sensible defaults for a single-page endpoint
func DefaultSourceConfig(url string) SourceConfig {
	return SourceConfig{
		Name:           url,
		BaseURL:        url,
		AuthMethod:     "none",
		PaginationType: "none",
		PageSize:       100,
		MaxPages:       10,
		Timeout:        30 * time.Second,
	}
}

// Validate checks if the configuration is valid
func (c SourceConfig) Validate() error {
	if c.BaseURL == "" {
		return &ValidationError{Field: "BaseURL", Message: "is required"}
	}
	if c.Timeout <= 0 {
		return &ValidationError{Field: "Timeout", Message: "must be positive"}
	}
	if c.MaxBodyBytes < 0 {
		return &ValidationError{Field: "MaxBodyBytes", Message: "must not be negative"}
	}
	switch c.PaginationType {
	case "", "none":
	case "offset", "page", "cursor":
		if c.PageSize <= 0 {
			return &ValidationError{Field: "PageSize", Message: "must be positive when paginating"}
		}
		if c.MaxPages <= 0 {
			return &ValidationError{Field: "MaxPages", Message: "must be positive when paginating"}
		}
	default:
		return &ValidationError{Field: "PaginationType", Message: fmt.Sprintf("unknown type %q", c.PaginationType)}
	}
	switch c.AuthMethod {
	case "", "none", "bearer", "api_key", "basic":
	default:
		return &ValidationError{Field: "AuthMethod", Message: fmt.Sprintf("unknown method %q", c.AuthMethod)}
	}
	return nil
}

// ValidationError represents a configuration validation error
type ValidationError struct {
	Field   string
	Message string
}

func (e *ValidationError) Error() string {
	return e.Field + ": " + e.Message
}

func (c SourceConfig) bodyLimit() int64 {
	if c.MaxBodyBytes > 0 {
		return c.MaxBodyBytes
	}
	return DefaultMaxBodyBytes
}

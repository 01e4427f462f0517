// Package fmp reads stock quotes and the economic calendar from Financial
// Modeling Prep.
package fmp

import (
	"bytes"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"bondfeed/internal/fault"
	"bondfeed/internal/provider"
)

const (
	Name           = "fmp"
	DefaultBaseURL = "https://financialmodelingprep.com/api/v3"
)

// Defaults for the FMP free tier. CacheTTL applies to quotes.
var Defaults = provider.Config{
	BaseURL:   DefaultBaseURL,
	RateLimit: time.Second,
	CacheTTL:  time.Minute,
}

type apiError struct {
	ErrorMessage string `json:"Error Message"`
	Message      string `json:"message"`
}

// decodeList decodes an array payload. FMP reports failures as a JSON
// object with a 200 status.
func decodeList(payload []byte, dst any) error {
	trimmed := bytes.TrimSpace(payload)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var apiErr apiError
		if err := json.Unmarshal(trimmed, &apiErr); err != nil {
			return fault.Shape(Name, "decode response: %v", err)
		}
		return classify(apiErr.ErrorMessage + apiErr.Message)
	}
	if err := json.Unmarshal(trimmed, dst); err != nil {
		return fault.Shape(Name, "decode response: %v", err)
	}
	return nil
}

func classify(msg string) error {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "limit"):
		return fault.Quota(Name, 0, errors.New(msg))
	case strings.Contains(lower, "api key") || strings.Contains(lower, "apikey"):
		return fault.Configuration(Name, "%s", msg)
	default:
		return fault.Shape(Name, "api error: %s", msg)
	}
}

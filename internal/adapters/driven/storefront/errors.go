package storefront

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sort"
	"strconv"
	"strings"

	"github.com/custodia-labs/storefront-cli/internal/core/domain"
)

// maxDetailLen bounds how much of a non-JSON error body is kept.
const maxDetailLen = 200

// APIError represents a non-2xx storefront API response.
// Fields holds flattened field errors, e.g. "billing_details.phone_number".
type APIError struct {
	StatusCode int
	Code       string
	Detail     string
	Fields     map[string]string
	URL        string
}

func (e *APIError) Error() string {
	msg := e.Detail
	if len(e.Fields) > 0 {
		if msg != "" {
			msg += "; "
		}
		msg += joinFields(e.Fields)
	}
	if msg == "" {
		msg = http.StatusText(e.StatusCode)
	}
	return fmt.Sprintf("storefront: API error %d: %s (URL: %s)", e.StatusCode, msg, e.URL)
}

// Unwrap maps the status onto the domain sentinels.
func (e *APIError) Unwrap() error {
	switch e.StatusCode {
	case http.StatusUnauthorized:
		return domain.ErrUnauthorized
	case http.StatusNotFound:
		return domain.ErrNotFound
	case http.StatusTooManyRequests:
		return domain.ErrRateLimited
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.ErrInvalidInput
	}
	return nil
}

// IsNotFound checks if the error indicates a resource was not found.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return false
}

// IsUnauthorized checks if the error indicates an authentication failure.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsRateLimited checks if the error indicates rate limiting.
func IsRateLimited(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusTooManyRequests
	}
	return false
}

// detailKeys are the top-level keys that carry a message, in precedence order.
var detailKeys = []string{"detail", "message", "error"}

// parseAPIError decodes a DRF-style error body. Known top-level keys
// (detail, message, error, code) become Detail and Code; everything else is
// flattened into Fields.
func parseAPIError(status int, body []byte, url string) *APIError {
	apiErr := &APIError{StatusCode: status, URL: url}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		detail := strings.TrimSpace(string(body))
		if len(detail) > maxDetailLen {
			detail = detail[:maxDetailLen]
		}
		apiErr.Detail = detail
		return apiErr
	}

	switch v := raw.(type) {
	case map[string]any:
		for _, key := range detailKeys {
			if val, ok := v[key]; ok && apiErr.Detail == "" {
				apiErr.Detail = messageOf(val)
			}
		}
		fields := map[string]string{}
		for key, val := range v {
			switch key {
			case "detail", "message", "error":
			case "code":
				apiErr.Code = messageOf(val)
			default:
				flattenInto(fields, key, val)
			}
		}
		if len(fields) > 0 {
			apiErr.Fields = fields
		}
	default:
		apiErr.Detail = messageOf(v)
	}
	return apiErr
}

// flattenInto walks nested field maps and lists, joining keys with dots.
func flattenInto(out map[string]string, prefix string, val any) {
	switch v := val.(type) {
	case map[string]any:
		for key, inner := range v {
			flattenInto(out, prefix+"."+key, inner)
		}
	case []any:
		if allScalars(v) {
			out[prefix] = messageOf(v)
			return
		}
		for i, inner := range v {
			if isEmpty(inner) {
				continue
			}
			flattenInto(out, prefix+"."+strconv.Itoa(i), inner)
		}
	default:
		out[prefix] = messageOf(v)
	}
}

// messageOf renders a scalar or a list of scalars as one message.
func messageOf(val any) string {
	switch v := val.(type) {
	case nil:
		return ""
	case string:
		return v
	case []any:
		parts := make([]string, 0, len(v))
		for _, item := range v {
			if s := messageOf(item); s != "" {
				parts = append(parts, s)
			}
		}
		return strings.Join(parts, "; ")
	case map[string]any:
		fields := map[string]string{}
		for key, inner := range v {
			flattenInto(fields, key, inner)
		}
		return joinFields(fields)
	default:
		return fmt.Sprint(v)
	}
}

func joinFields(fields map[string]string) string {
	keys := make([]string, 0, len(fields))
	for k := range fields {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	parts := make([]string, 0, len(keys))
	for _, k := range keys {
		parts = append(parts, k+": "+fields[k])
	}
	return strings.Join(parts, "; ")
}

func allScalars(list []any) bool {
	for _, item := range list {
		switch item.(type) {
		case map[string]any, []any:
			return false
		}
	}
	return true
}

func isEmpty(val any) bool {
	switch v := val.(type) {
	case nil:
		return true
	case map[string]any:
		return len(v) == 0
	case []any:
		return len(v) == 0
	}
	return false
}

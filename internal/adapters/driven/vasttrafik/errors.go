package vasttrafik

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/custodia-labs/tramtid/internal/core/domain"
)

// APIError represents a non-2xx response from the API.
type APIError struct {
	StatusCode int
	Message    string
	URL        string
}

func (e *APIError) Error() string {
	return fmt.Sprintf("vasttrafik: API error %d: %s (URL: %s)", e.StatusCode, e.Message, e.URL)
}

// Unwrap makes every APIError match domain.ErrTransport. The client also
// wraps a 401 in domain.ErrAuthorization.
func (e *APIError) Unwrap() error {
	return domain.ErrTransport
}

// IsUnauthorized checks if the error indicates a rejected token.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized
	}
	return false
}

// IsNotFound checks if the error indicates a missing resource.
func IsNotFound(err error) bool {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusNotFound
	}
	return errors.Is(err, domain.ErrNotFound)
}

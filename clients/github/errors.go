package github

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/pkg/errors"
)

var (
	// ErrNotFound matches api errors for resources that don't exist
	ErrNotFound = errors.New("Not found")
	// ErrConflict matches api errors caused by a concurrent change, like a ref update that isn't a fast-forward or a branch that was created in the meantime
	ErrConflict = errors.New("Conflict")
)

// APIError is returned for every non-2xx response
type APIError struct {
	Method     string
	URL        string
	StatusCode int
	Message    string
}

func newAPIError(method, url string, statusCode int, body []byte) *APIError {

	apiErr := &APIError{
		Method:     method,
		URL:        url,
		StatusCode: statusCode,
	}

	var response struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &response); err == nil && response.Message != "" {
		apiErr.Message = response.Message
	} else {
		apiErr.Message = http.StatusText(statusCode)
	}

	return apiErr
}

func (e *APIError) Error() string {
	return fmt.Sprintf("%v %v responded with status %v: %v", e.Method, e.URL, e.StatusCode, e.Message)
}

// Is lets errors.Is match ErrNotFound and ErrConflict
func (e *APIError) Is(target error) bool {
	switch target {
	case ErrNotFound:
		return e.StatusCode == http.StatusNotFound
	case ErrConflict:
		return e.StatusCode == http.StatusConflict ||
			(e.StatusCode == http.StatusUnprocessableEntity && (e.Message == "Update is not a fast forward" || e.Message == "Reference already exists"))
	}
	return false
}

package realtimebidding

import (
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

// IsNotFound reports whether err is a 404 API error
func IsNotFound(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && apiErr.Code == http.StatusNotFound
}

// IsRetryable reports whether err is an API error worth retrying
func IsRetryable(err error) bool {
	var apiErr *googleapi.Error
	return errors.As(err, &apiErr) && retryableStatus(apiErr.Code)
}

package oura

import "fmt"

// APIError is returned when a request could not be sent or the API answered
// with a non-2xx status.
type APIError struct {
	URL        string
	StatusCode int
	Body       string
	Err        error
}

func (e *APIError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("Failed to send request to Oura API (%s): %v", e.URL, e.Err)
	}
	return fmt.Sprintf("Received error response from Oura API when requesting url: %s. Error: %q, status: %d",
		e.URL, e.Body, e.StatusCode)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// FetchURL reports the requested URL.
func (e *APIError) FetchURL() string {
	return e.URL
}

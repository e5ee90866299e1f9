package repositories

import "net/http"

// HTTPClient is the subset of http.Client the repositories need,
// so tests can substitute their own transport.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

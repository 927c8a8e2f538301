package contracts

import "net/http"

// HTTPClient fetches a resource. *http.Client satisfies it.
type HTTPClient interface {
	Get(url string) (*http.Response, error)
}

package server

import "net/http"

// StartHTTP serves handler on addr until the listener fails.
func StartHTTP(addr string, handler http.Handler) error {
	return http.ListenAndServe(addr, handler)
}

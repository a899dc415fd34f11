package transport

import (
	"net/http"
	"time"
)

// Throttle delays every request by a fixed amount before handing it to Next.
// Placed behind a caching Transport it only slows down real network calls.
type Throttle struct {
	Delay time.Duration
	Next  http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (t *Throttle) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.Delay > 0 {
		timer := time.NewTimer(t.Delay)
		select {
		case <-timer.C:
		case <-req.Context().Done():
			timer.Stop()
			if req.Body != nil {
				req.Body.Close()
			}
			return nil, req.Context().Err()
		}
	}
	return next(t.Next).RoundTrip(req)
}

// Headers sets fixed headers on every outgoing request.
type Headers struct {
	Set  http.Header
	Next http.RoundTripper
}

// RoundTrip implements http.RoundTripper
func (h *Headers) RoundTrip(req *http.Request) (*http.Response, error) {
	req = req.Clone(req.Context())
	for k, vs := range h.Set {
		req.Header.Del(k)
		for _, v := range vs {
			req.Header.Add(k, v)
		}
	}
	return next(h.Next).RoundTrip(req)
}

func next(rt http.RoundTripper) http.RoundTripper {
	if rt == nil {
		return http.DefaultTransport
	}
	return rt
}

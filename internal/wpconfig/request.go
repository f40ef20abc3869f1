package wpconfig

import "net/http"

// HeaderForwardedProto carries the protocol a TLS-terminating proxy received.
const HeaderForwardedProto = "X-Forwarded-Proto"

// Request is the inbound request context the configuration pass may adjust.
// Server holds CGI-style server variables.
type Request struct {
	Header http.Header
	Server map[string]string
}

// RequestFromHTTP copies the headers of r into a Request with empty server variables.
func RequestFromHTTP(r *http.Request) *Request {
	return &Request{
		Header: r.Header.Clone(),
		Server: map[string]string{},
	}
}

// ApplyForwardedProto sets the HTTPS server variable to "on" when the request
// arrived through a proxy that terminated TLS, and reports whether it did.
func ApplyForwardedProto(req *Request) bool {
	if req == nil || req.Header == nil {
		return false
	}
	if req.Header.Get(HeaderForwardedProto) != "https" {
		return false
	}
	if req.Server == nil {
		req.Server = map[string]string{}
	}
	req.Server["HTTPS"] = "on"
	return true
}

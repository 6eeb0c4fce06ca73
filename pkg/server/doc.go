// Package server exposes the analysis pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                  liveness probe, answers "ok"
//	GET  /v1/version               build information
//	POST /v1/analyze               body {"heights":[...],"max_height":9}
//	GET  /v1/analyze               ?heights=2,5,1&max_height=9 or ?preset=deep
//	GET  /v1/render/{format}       same query plus style, cell_size, caption
//	GET  /v1/random                ?seed=&width=&max_height=
//
// Analysis responses are the JSON render of the result. Every response
// carries an X-Request-ID header (echoed from the request when present) and
// an X-Cache header reporting whether the analysis came from the cache.
//
// Failures are written as
//
//	{"error": {"code": "INVALID_CONFIGURATION", "message": "..."}}
//
// with 400 for validation codes, 415 for unsupported request bodies and 500
// otherwise.
package server

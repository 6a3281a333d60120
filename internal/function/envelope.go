// Package function implements the cloud-function request handler for
// demo entries.
//
// The hosting platform invokes the handler with a normalized request
// description (method, optional body, optional query parameters) and
// consumes a normalized response description (status code, headers,
// body). Handle dispatches on the HTTP method: OPTIONS for CORS
// preflight, GET to list entries, POST to create one, DELETE to remove
// one by id, and 405 for anything else.
package function

import "encoding/json"

// Request is the invocation input supplied by the hosting platform.
//
// A missing HTTPMethod is treated as GET, a missing Body as "{}", and
// missing QueryStringParameters as an empty mapping.
type Request struct {
	HTTPMethod            string            `json:"httpMethod"`
	Body                  string            `json:"body"`
	QueryStringParameters map[string]string `json:"queryStringParameters"`
}

// Response is the invocation output consumed by the hosting platform.
// IsBase64Encoded is always false; every body this handler produces is
// plain JSON text (or empty, for preflight).
type Response struct {
	StatusCode      int               `json:"statusCode"`
	Headers         map[string]string `json:"headers"`
	Body            string            `json:"body"`
	IsBase64Encoded bool              `json:"isBase64Encoded"`
}

const (
	headerContentType     = "Content-Type"
	headerAllowOrigin     = "Access-Control-Allow-Origin"
	headerAllowMethods    = "Access-Control-Allow-Methods"
	headerAllowHeaders    = "Access-Control-Allow-Headers"
	headerMaxAge          = "Access-Control-Max-Age"
	contentTypeJSON       = "application/json"
	allowedOrigin         = "*"
	allowedMethods        = "GET, POST, DELETE, OPTIONS"
	allowedHeaders        = "Content-Type"
	preflightCacheSeconds = "86400"
)

// jsonResponse marshals v and wraps it in the standard response headers
// (Content-Type and the CORS origin every non-preflight branch carries).
func jsonResponse(status int, v any) Response {
	body, err := json.Marshal(v)
	if err != nil {
		// Response payloads are plain structs; marshal failure would be
		// a programming error. Degrade to a generic 500 body.
		return Response{
			StatusCode: 500,
			Headers:    jsonHeaders(),
			Body:       `{"error": "Internal server error"}`,
		}
	}

	return Response{
		StatusCode: status,
		Headers:    jsonHeaders(),
		Body:       string(body),
	}
}

func jsonHeaders() map[string]string {
	return map[string]string{
		headerContentType: contentTypeJSON,
		headerAllowOrigin: allowedOrigin,
	}
}

// preflightResponse is the OPTIONS branch: status 200, empty body, and
// the four CORS headers with a 24h preflight cache lifetime.
func preflightResponse() Response {
	return Response{
		StatusCode: 200,
		Headers: map[string]string{
			headerAllowOrigin:  allowedOrigin,
			headerAllowMethods: allowedMethods,
			headerAllowHeaders: allowedHeaders,
			headerMaxAge:       preflightCacheSeconds,
		},
		Body: "",
	}
}

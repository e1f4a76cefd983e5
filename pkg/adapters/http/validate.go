package http

import (
	"errors"
	"net/http"

	"github.com/getkin/kin-openapi/openapi3filter"
)

// MaxBodyBytes caps request bodies.
const MaxBodyBytes = 1 << 20

// validateRequest enforces the embedded OpenAPI document: path parameters
// and JSON bodies that do not match are refused with 400 before any handler
// runs.
func (s *Server) validateRequest(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		route, params, err := s.router.FindRoute(r)
		if err != nil {
			// Not described by the document: chi answers 404 or 405.
			next.ServeHTTP(w, r)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, MaxBodyBytes)
		in := &openapi3filter.RequestValidationInput{
			Request:    r,
			PathParams: params,
			Route:      route,
		}
		if err := openapi3filter.ValidateRequest(r.Context(), in); err != nil {
			writeJSON(w, http.StatusBadRequest, errorBody{Error: requestErrorMessage(err)})
			return
		}
		next.ServeHTTP(w, r)
	})
}

func requestErrorMessage(err error) string {
	var reqErr *openapi3filter.RequestError
	if errors.As(err, &reqErr) {
		return "invalid request: " + reqErr.Error()
	}
	return "invalid request"
}

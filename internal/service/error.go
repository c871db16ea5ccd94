package service

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/middleware"
	"github.com/ofte-auth/ponto/internal/util"
	log "github.com/sirupsen/logrus"
	"github.com/ztrue/tracerr"
)

// APIError defines a API error.
type APIError struct {
	Code   int    `json:"code"`
	Err    error  `json:"error"`
	Detail string `json:"detail,omitempty"`
}

// NewAPIError returns a new API error. Errors with a 5xx code carry a stack trace.
func NewAPIError(code int, err error, detail string) *APIError {
	apiError := &APIError{
		Code:   code,
		Err:    err,
		Detail: detail,
	}
	if code >= 500 {
		apiError.Err = tracerr.Wrap(err)
	}
	return apiError
}

func (e *APIError) Error() string {
	return e.Err.Error()
}

// BindHTTPRequest binds an API error to a HTTP Request's context.
func (e *APIError) BindHTTPRequest(r *http.Request) {
	ctx := context.WithValue(r.Context(), ContextError, e)
	*r = *r.Clone(ctx)
}

// MarshalJSON ...
func (e *APIError) MarshalJSON() ([]byte, error) {
	return json.Marshal(&struct {
		Code   int    `json:"code"`
		Error  string `json:"error"`
		Detail string `json:"detail,omitempty"`
	}{
		Code:   e.Code,
		Error:  e.Err.Error(),
		Detail: e.Detail,
	})
}

// ErrorHandler is middleware to log and process HTTP errors bound to the request.
func ErrorHandler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		next.ServeHTTP(w, r)
		err := r.Context().Value(ContextError)
		if err == nil {
			return
		}
		switch err := err.(type) {
		case *APIError:
			entry := log.WithFields(log.Fields{
				"code":    err.Code,
				"path":    r.URL.Path,
				"request": middleware.GetReqID(r.Context()),
			})
			if err.Code >= 500 {
				entry.Error(err)
			} else {
				entry.Info(err)
			}
			util.JSONResponse(w, err, err.Code)
			if err, ok := err.Err.(tracerr.Error); ok {
				for n, v := range err.StackTrace() {
					if n == 0 {
						continue
					}
					if n > 3 {
						break
					}
					fmt.Println(v)
				}
				fmt.Println("<snip>")
			}
		case error:
			log.WithField("request", middleware.GetReqID(r.Context())).Error(err)
			http.Error(w, err.Error(), 500)
		}
	})
}

package server

import (
	"errors"
	"net/http"

	"github.com/labstack/echo/v4"

	"codect/internal/engine"
	"codect/internal/logger"
)

const codeBadRequest = "bad_request"

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// apiError is an error already classified for the client.
type apiError struct {
	status  int
	code    string
	message string
}

func (e *apiError) Error() string {
	return e.message
}

func badRequest(message string) error {
	return &apiError{status: http.StatusBadRequest, code: codeBadRequest, message: message}
}

func classify(err error) *apiError {
	var ae *apiError
	if errors.As(err, &ae) {
		return ae
	}

	var he *echo.HTTPError
	if errors.As(err, &he) {
		code := codeBadRequest
		switch he.Code {
		case http.StatusRequestEntityTooLarge:
			code = engine.CodeResourceLimitExceeded
		case http.StatusNotFound:
			code = "not_found"
		case http.StatusMethodNotAllowed:
			code = "method_not_allowed"
		default:
			if he.Code >= http.StatusInternalServerError {
				code = engine.CodeInternal
			}
		}
		return &apiError{status: he.Code, code: code, message: http.StatusText(he.Code)}
	}

	code := engine.Code(err)
	status := http.StatusInternalServerError
	switch code {
	case engine.CodeUnsupportedLanguage, engine.CodeLanguageRequired:
		status = http.StatusBadRequest
	case engine.CodeResourceLimitExceeded:
		status = http.StatusRequestEntityTooLarge
	case engine.CodeCanceled:
		status = http.StatusServiceUnavailable
	}
	return &apiError{status: status, code: code, message: err.Error()}
}

func errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}
	ae := classify(err)
	if ae.status >= http.StatusInternalServerError {
		logger.Error("request failed", "uri", c.Request().RequestURI, "err", err)
	}
	if c.Request().Method == http.MethodHead {
		err = c.NoContent(ae.status)
	} else {
		err = c.JSON(ae.status, errorBody{Error: errorDetail{Code: ae.code, Message: ae.message}})
	}
	if err != nil {
		logger.Error("write error response", "err", err)
	}
}

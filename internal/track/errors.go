package track

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/noah-isme/parcel-proxy/internal/common"
	"github.com/noah-isme/parcel-proxy/internal/resilience"
)

// Error codes carried by the AppError kinds this package produces. Callers
// branch on these instead of matching message text; the messages themselves
// are kept stable for clients that display them verbatim.
const (
	CodeConfig       = "CONFIG"
	CodeValidation   = "VALIDATION"
	CodeUpstream     = "UPSTREAM"
	CodeRejected     = "REJECTED"
	CodeNotFound     = "NOT_FOUND"
	CodeUnclassified = "UNCLASSIFIED"
)

const (
	msgNotFound     = "No tracking information found"
	msgUnclassified = "Failed to fetch tracking information. Please try again later."
	msgNoAPIKey     = "API key not configured"
)

// ErrMissingCredential reports an absent upstream credential. It is raised
// before any upstream call is attempted.
func ErrMissingCredential() *common.AppError {
	return common.NewAppError(CodeConfig, msgNoAPIKey, http.StatusInternalServerError, nil)
}

func errUpstream(stage string, status int) *common.AppError {
	return common.NewAppError(
		CodeUpstream,
		fmt.Sprintf("Tracking service error: %d", status),
		http.StatusBadGateway,
		fmt.Errorf("%s returned status %d", stage, status),
	)
}

func errUpstreamUnavailable(err error) *common.AppError {
	return common.NewAppError(
		CodeUpstream,
		"Tracking service error: upstream unavailable",
		http.StatusBadGateway,
		err,
	)
}

func errRejected(reason string) *common.AppError {
	if reason == "" {
		reason = "Invalid tracking number"
	}
	return common.NewAppError(
		CodeRejected,
		fmt.Sprintf("Tracking rejected: %s", reason),
		http.StatusUnprocessableEntity,
		nil,
	)
}

func errNotFound() *common.AppError {
	return common.NewAppError(CodeNotFound, msgNotFound, http.StatusNotFound, nil)
}

func errUnclassified(err error) *common.AppError {
	return common.NewAppError(CodeUnclassified, msgUnclassified, http.StatusInternalServerError, err)
}

// classify re-raises already classified errors unchanged and wraps anything
// else (network failures, decode errors, timeouts) into the generic
// try-again-later error. An open breaker is an upstream failure: the
// provider is known to be erroring, not mysteriously unreachable.
func classify(err error) error {
	if err == nil {
		return nil
	}
	var app *common.AppError
	if errors.As(err, &app) {
		switch app.Code {
		case CodeConfig, CodeUpstream, CodeRejected, CodeNotFound:
			return app
		}
	}
	if errors.Is(err, resilience.ErrOpenCircuit) {
		return errUpstreamUnavailable(err)
	}
	return errUnclassified(err)
}

package github

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/bkyoung/goodtogo/internal/errs"
	"github.com/google/go-github/v68/github"
)

// mapRESTError classifies a go-github REST error into the analyzer's
// taxonomy. op names the failing operation for the resulting message.
func mapRESTError(op string, err error) error {
	if err == nil {
		return nil
	}

	var ghErr *github.ErrorResponse
	if errors.As(err, &ghErr) && ghErr.Response != nil {
		return mapStatus(op, ghErr.Response.StatusCode, ghErr.Message, ghErr.Errors)
	}

	var rlErr *github.RateLimitError
	if errors.As(err, &rlErr) {
		return errs.Remote(fmt.Sprintf("%s: rate limited", op), true, err)
	}

	var abuseErr *github.AbuseRateLimitError
	if errors.As(err, &abuseErr) {
		return errs.Remote(fmt.Sprintf("%s: secondary rate limit", op), true, err)
	}

	// Anything else (DNS failure, connection reset, context deadline) is a
	// network-layer error: retryable, since it carries no status code
	// proving the request was even processed.
	return errs.Remote(fmt.Sprintf("%s: request failed", op), true, err)
}

func mapStatus(op string, statusCode int, message string, details []github.Error) error {
	if message == "" {
		message = fmt.Sprintf("HTTP %d", statusCode)
	}
	if len(details) > 0 {
		var parts []string
		for _, d := range details {
			switch {
			case d.Message != "":
				parts = append(parts, d.Message)
			case d.Field != "":
				parts = append(parts, fmt.Sprintf("%s: %s", d.Field, d.Code))
			}
		}
		if len(parts) > 0 {
			message = fmt.Sprintf("%s: %s", message, strings.Join(parts, "; "))
		}
	}
	full := fmt.Sprintf("%s: %s", op, message)

	switch statusCode {
	case http.StatusUnauthorized, http.StatusForbidden:
		return errs.Authentication(full, nil)
	case http.StatusTooManyRequests:
		return errs.Remote(full, true, nil)
	case http.StatusNotFound, http.StatusUnprocessableEntity:
		return errs.Remote(full, false, nil)
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable, http.StatusGatewayTimeout:
		return errs.Remote(full, true, nil)
	default:
		return errs.Remote(full, false, nil)
	}
}

// mapGraphQLError classifies a githubv4 query error. The library surfaces
// transport failures as plain errors and query-level failures embedded in
// the error message, so this is coarser than mapRESTError: anything that
// isn't an obvious auth failure is treated as a retryable remote error.
func mapGraphQLError(op string, err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	if strings.Contains(msg, "401") || strings.Contains(strings.ToLower(msg), "bad credentials") {
		return errs.Authentication(fmt.Sprintf("%s: %s", op, msg), err)
	}
	return errs.Remote(fmt.Sprintf("%s: %s", op, msg), true, err)
}

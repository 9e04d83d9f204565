// Package apierr defines the HTTP-facing error-kind taxonomy from spec.md
// §7, one per sentinel object in original_source/disorderCook_front.py.
package apierr

import (
	"fmt"
	"net/http"
)

// Error is a client-facing error: an HTTP status plus the JSON envelope
// message the front end writes back verbatim.
type Error struct {
	Status  int
	Message string
}

func (e *Error) Error() string { return e.Message }

func newErr(status int, msg string) *Error {
	return &Error{Status: status, Message: msg}
}

var (
	BadJSON         = newErr(http.StatusBadRequest, "Incoming data was not valid JSON")
	URLMismatch     = newErr(http.StatusBadRequest, "Incoming POST data disagreed with request URL")
	MissingField    = newErr(http.StatusBadRequest, "Incoming POST was missing required field")
	BadType         = newErr(http.StatusBadRequest, "A value in the POST had the wrong type")
	BadValue        = newErr(http.StatusBadRequest, "Illegal value (usually a non-positive number)")
	BadName         = newErr(http.StatusBadRequest, "Unacceptable length of account, venue, or symbol")
	BookError       = newErr(http.StatusBadRequest, "Book limit exceeded! (See command line options)")
	TooManyAccounts = newErr(http.StatusInternalServerError, "Maximum number of accounts exceeded")
	NoSuchOrder     = newErr(http.StatusBadRequest, "No such order for that Exchange + Symbol combo")
	NoAuthError     = newErr(http.StatusUnauthorized, "Server is in +authentication mode but no API key was received")
	AuthFailure     = newErr(http.StatusUnauthorized, "Unknown account or wrong API key")
	AuthWeirdFail   = newErr(http.StatusUnauthorized, "Account of stored data had no associated API key (this is impossible)")
	Disabled        = newErr(http.StatusBadRequest, "Disabled or not enabled. (See command line options)")
)

// Internal wraps an unexpected engine-layer failure as a 500.
func Internal(err error) *Error {
	return newErr(http.StatusInternalServerError, err.Error())
}

// VenueNotFound reports that venue has never had a book created on it.
func VenueNotFound(venue string) *Error {
	return newErr(http.StatusNotFound, fmt.Sprintf("Venue %s does not exist (create it by using it)", venue))
}

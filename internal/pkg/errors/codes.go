package errors

import "net/http"

const (
	CodeValidationFailed = "VALIDATION_FAILED"
	CodeListingNotFound  = "LISTING_NOT_FOUND"
	CodeUnauthenticated  = "UNAUTHENTICATED"
	CodeForbidden        = "FORBIDDEN"
)

var (
	ErrValidationFailed = New(
		CodeValidationFailed,
		"Listing data is invalid",
		http.StatusBadRequest,
	)

	ErrListingNotFound = New(
		CodeListingNotFound,
		"Listing not found!",
		http.StatusNotFound,
	)

	ErrUnauthenticated = New(
		CodeUnauthenticated,
		"You must be logged in!",
		http.StatusUnauthorized,
	)

	ErrForbidden = New(
		CodeForbidden,
		"You don't have permission to do that!",
		http.StatusForbidden,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrDatabaseError = New(
		"DATABASE_ERROR",
		"Database operation failed",
		http.StatusInternalServerError,
	)

	ErrStorageError = New(
		"STORAGE_ERROR",
		"Image storage operation failed",
		http.StatusInternalServerError,
	)

	ErrCacheError = New(
		"CACHE_ERROR",
		"Cache operation failed",
		http.StatusInternalServerError,
	)

	ErrRouteNotFound = New(
		"NOT_FOUND",
		"Page Not Found!",
		http.StatusNotFound,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Oh no! Something went wrong.",
		http.StatusInternalServerError,
	)
)

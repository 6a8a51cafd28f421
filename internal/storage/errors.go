package storage

import "errors"

// Sentinel errors shared by every Storage implementation. Handlers map these
// to wire-level statuses; implementations wrap driver errors into them so the
// rest of the service never inspects database errors directly.
var (
	ErrUserNotFound    = errors.New("user not found")
	ErrPostNotFound    = errors.New("post not found")
	ErrArticleNotFound = errors.New("article not found")

	ErrEmailTaken    = errors.New("email already registered")
	ErrUsernameTaken = errors.New("username already taken")

	// ErrInvalidPagination rejects page or page_size below 1.
	ErrInvalidPagination = errors.New("page and page_size must be positive")

	// ErrInvalidFilter rejects malformed filter parameters.
	ErrInvalidFilter = errors.New("malformed filter parameter")

	// ErrInvalidPostType rejects filter values that name no known post type.
	// Post creation never returns it: an unrecognized type defaults to GENERAL.
	ErrInvalidPostType = errors.New("unknown post type")

	// ErrLikeConflict reports that the like-toggle lost the insert race twice
	// in a row. A single collision is absorbed internally as an unlike.
	ErrLikeConflict = errors.New("like toggle conflict")

	ErrEmptyContent = errors.New("content cannot be empty")
)

package handlers

import "errors"

var (
	errMissingUserID = errors.New("user.id is required")
	errBadUserID     = errors.New("user_id must be an integer")
	errBadLimit      = errors.New("limit must be an integer")
	errBadStrength   = errors.New("min and max must be numbers")
)

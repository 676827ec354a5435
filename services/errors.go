package services

import "errors"

// Missing-reference outcomes, distinguished from store failures so handlers
// can answer 400/404 instead of 500.
var (
	ErrClientNotFound    = errors.New("client not found")
	ErrServiceNotFound   = errors.New("service not found")
	ErrMilestoneNotFound = errors.New("milestone not found")
	ErrTaskNotFound      = errors.New("task not found")
)

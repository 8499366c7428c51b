package model

import "errors"

var (
	// ErrNotFound is returned by stores when no row matches the key.
	ErrNotFound = errors.New("not found")

	ErrUnauthorized          = errors.New("unauthorized")
	ErrBadRequest            = errors.New("bad request")
	ErrUserNotFound          = errors.New("user not found")
	ErrFileNotFound          = errors.New("file not found")
	ErrBillingAccountMissing = errors.New("no billing account found")
	ErrSubscriptionRequired  = errors.New("subscription required")

	// ErrSignature marks a webhook delivery whose signature did not verify.
	ErrSignature = errors.New("webhook signature verification failed")
	// ErrUpstreamProvider wraps failures of calls to the payment provider.
	ErrUpstreamProvider = errors.New("payment provider error")
	ErrInternal         = errors.New("internal error")
)

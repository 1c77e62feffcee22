// Package errors contains domain-specific errors for the feed domain
package errors

import (
	pkgerrors "github.com/feedfusion/bot-service/pkg/errors"
)

// Domain errors for feed operations
var (
	ErrUserNotFound         = pkgerrors.NewNotFoundError("user not found")
	ErrChannelNotFound      = pkgerrors.NewNotFoundError("channel not found")
	ErrSubscriptionNotFound = pkgerrors.NewNotFoundError("subscription not found")
	ErrUserAlreadyExists    = pkgerrors.NewConflictError("user already exists")
	ErrChannelAlreadyExists = pkgerrors.NewConflictError("channel already exists")
	ErrAlreadySubscribed    = pkgerrors.NewConflictError("already subscribed to this channel")
	ErrSubscriptionLimit    = pkgerrors.NewQuotaError("subscription limit reached")
	ErrNotAChannel          = pkgerrors.NewValidationError("resolved chat is not a channel")
	ErrChannelLookupFailed  = pkgerrors.NewInternalError("channel lookup failed")
	ErrDatabaseOperation    = pkgerrors.NewInternalError("database operation failed")
)

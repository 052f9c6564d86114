// Package common provides shared utilities and types used across the application.
package common

import (
	"errors"
	"fmt"
)

// Common application errors.
var (
	// Database errors.
	ErrNotFound       = errors.New("not found")
	ErrDuplicateEntry = errors.New("duplicate entry")

	// Segmentation errors.
	ErrFeatureProcessing = errors.New("feature processing failed")
	ErrInsufficientData  = errors.New("insufficient data")
	ErrNoProfiles        = errors.New("no profiles to segment")

	// Configuration errors.
	ErrMissingConfig = errors.New("missing configuration")
	ErrInvalidConfig = errors.New("invalid configuration")
)

// FeatureError reports that one profile could not be encoded because a
// required attribute is missing or invalid. It excludes that profile from
// feature-based methods only; the run continues.
type FeatureError struct {
	ProfileID string
	Attribute string
	Reason    string
}

func (e *FeatureError) Error() string {
	return fmt.Sprintf("%v: profile %s attribute %q: %s",
		ErrFeatureProcessing, e.ProfileID, e.Attribute, e.Reason)
}

func (e *FeatureError) Unwrap() error {
	return ErrFeatureProcessing
}

// NewFeatureError creates a FeatureError for the given profile and attribute.
func NewFeatureError(profileID, attribute, reason string) error {
	return &FeatureError{
		ProfileID: profileID,
		Attribute: attribute,
		Reason:    reason,
	}
}

// UserError represents an error that should be shown to the user.
type UserError struct {
	Err         error
	UserMessage string
}

func (e *UserError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.UserMessage, e.Err)
	}
	return e.UserMessage
}

func (e *UserError) Unwrap() error {
	return e.Err
}

// NewUserError creates a new user-friendly error.
func NewUserError(userMessage string, err error) error {
	return &UserError{
		UserMessage: userMessage,
		Err:         err,
	}
}

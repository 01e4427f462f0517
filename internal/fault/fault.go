// Package fault classifies provider failures so callers can decide between
// retrying, backing off and falling back.
package fault

import (
	"errors"
	"fmt"
	"time"
)

// Kind is the failure class of a provider call.
type Kind int

const (
	// KindNone means no failure.
	KindNone Kind = iota
	// KindConfiguration means the provider is disabled or lacks a credential.
	KindConfiguration
	// KindTransient covers network and HTTP failures worth retrying.
	KindTransient
	// KindShape means the response parsed but required fields are missing or invalid.
	KindShape
	// KindQuota means the provider signalled a rate limit or exhausted quota.
	KindQuota
)

func (k Kind) String() string {
	switch k {
	case KindNone:
		return "none"
	case KindConfiguration:
		return "configuration"
	case KindTransient:
		return "transient"
	case KindShape:
		return "shape"
	case KindQuota:
		return "quota"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Retryable reports whether another attempt may succeed.
func (k Kind) Retryable() bool {
	return k == KindTransient || k == KindQuota
}

// Error is a classified provider failure.
type Error struct {
	Kind     Kind
	Provider string
	Err      error
	// RetryAfter is the provider-requested wait, zero when unknown.
	RetryAfter time.Duration
}

func (e *Error) Error() string {
	if e.Provider == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s %s: %v", e.Provider, e.Kind, e.Err)
}

func (e *Error) Unwrap() error { return e.Err }

// Configuration reports a disabled or unconfigured provider.
func Configuration(provider, format string, args ...any) error {
	return &Error{Kind: KindConfiguration, Provider: provider, Err: fmt.Errorf(format, args...)}
}

// Transient wraps a retryable transport failure.
func Transient(provider string, err error) error {
	return &Error{Kind: KindTransient, Provider: provider, Err: err}
}

// Shape reports a response that cannot be normalised.
func Shape(provider, format string, args ...any) error {
	return &Error{Kind: KindShape, Provider: provider, Err: fmt.Errorf(format, args...)}
}

// Quota reports a rate-limit signal; retryAfter may be zero.
func Quota(provider string, retryAfter time.Duration, err error) error {
	return &Error{Kind: KindQuota, Provider: provider, Err: err, RetryAfter: retryAfter}
}

// KindOf classifies err. Unclassified errors, attempt deadlines included,
// are transient.
func KindOf(err error) Kind {
	if err == nil {
		return KindNone
	}
	var fe *Error
	if errors.As(err, &fe) {
		return fe.Kind
	}
	return KindTransient
}

// RetryAfter extracts the provider-requested wait from err.
func RetryAfter(err error) time.Duration {
	var fe *Error
	if errors.As(err, &fe) {
		return fe.RetryAfter
	}
	return 0
}

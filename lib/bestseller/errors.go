package bestseller

import (
	"errors"
	"fmt"
)

// ErrQuotaExceeded is returned by a fetcher once the configured daily request
// quota has been spent.
var ErrQuotaExceeded = errors.New("daily request quota exceeded")

// ConfigurationError reports a missing or invalid configuration value.
type ConfigurationError struct {
	Field  string
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("configuration: %s: %s", e.Field, e.Reason)
}

// NetworkError wraps a transport failure, no response was received.
type NetworkError struct {
	Url string
	Err error
}

func (e *NetworkError) Error() string {
	return fmt.Sprintf("request %s: %s", e.Url, e.Err.Error())
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// HttpStatusError is returned for any non-200 response, the body is not
// interpreted.
type HttpStatusError struct {
	StatusCode int
}

func (e *HttpStatusError) Error() string {
	return fmt.Sprintf("unexpected status code: %d", e.StatusCode)
}

// ApiDomainError is returned when the upstream answered 200 but the body
// signals an error of its own.
type ApiDomainError struct {
	Code    int
	Message string
}

func (e *ApiDomainError) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("upstream error %d: %s", e.Code, e.Message)
	}
	return fmt.Sprintf("upstream error: %s", e.Message)
}

// CacheCorruptionError is returned when a cache entry exists but cannot be
// decoded.
type CacheCorruptionError struct {
	Key WeeklyKey
	Err error
}

func (e *CacheCorruptionError) Error() string {
	return fmt.Sprintf("cache entry %s is corrupt: %s", e.Key, e.Err.Error())
}

func (e *CacheCorruptionError) Unwrap() error {
	return e.Err
}

// Package domain provides shared domain-level sentinel errors.
package domain

import "errors"

// ErrNotFound indicates the requested entity does not exist.
var ErrNotFound = errors.New("not found")

// ErrConflict indicates a concurrent modification conflict.
var ErrConflict = errors.New("conflict: resource was modified by another request")

// ErrValidation indicates a malformed request or task payload.
var ErrValidation = errors.New("validation failed")

// ErrUnknownAgentType indicates a registry lookup for an unregistered type tag.
var ErrUnknownAgentType = errors.New("unknown agent type")

// ErrUnknownTaskType indicates a task dispatched with an unrecognized type.
var ErrUnknownTaskType = errors.New("unknown task type")

// ErrInitFailed indicates an agent's initialization did not complete.
var ErrInitFailed = errors.New("agent initialization failed")

// ErrInvalidTransition indicates an agent state change that the lifecycle
// state machine does not permit.
var ErrInvalidTransition = errors.New("invalid state transition")

// ErrUnauthorized indicates missing or invalid credentials.
var ErrUnauthorized = errors.New("unauthorized")

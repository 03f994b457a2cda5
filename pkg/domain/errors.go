package domain

import "errors"

// ErrSessionNotFound is returned when a conversation key cannot be found in the store.
var ErrSessionNotFound = errors.New("session not found")

// ErrNotFound is returned when a referenced record (category, game, view) does not exist.
var ErrNotFound = errors.New("record not found")

// ErrNoActiveScene is returned when an event requires an active scene but none is set.
var ErrNoActiveScene = errors.New("no active scene")

// ErrSceneNotRegistered is returned when entering a scene ID that was never registered.
var ErrSceneNotRegistered = errors.New("scene not registered")

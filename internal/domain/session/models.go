package session

import (
	"errors"

	"github.com/sahiltiwari-png/guccc-hrms/internal/domain/auth"
)

var ErrUnauthenticated = errors.New("not signed in")

// State is the hydrated session for one browser.
type State struct {
	SessionID     string
	Token         string
	User          auth.User
	Role          string
	Authenticated bool
}

type EventKind string

const (
	EventLogin       EventKind = "login"
	EventLogout      EventKind = "logout"
	EventInvalidated EventKind = "invalidated"
	EventUserUpdated EventKind = "user_updated"
)

type Event struct {
	Kind      EventKind
	SessionID string
}

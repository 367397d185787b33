package services

import "errors"

var (
	// ErrInvalidRequest means the request failed validation before any
	// external work was attempted.
	ErrInvalidRequest = errors.New("invalid request")

	// ErrUnroutableLocation means a coordinate could not be snapped onto the
	// street network: the fetched subgraph holds no node near it.
	ErrUnroutableLocation = errors.New("location cannot be snapped to the street network")

	// ErrNoPathFound means the street network holds no path between the two
	// snapped coordinates, even after widening the search area once.
	ErrNoPathFound = errors.New("no street-network path found")

	// ErrInvalidCredentials means the login identifier or password is wrong.
	// The two cases are deliberately indistinguishable.
	ErrInvalidCredentials = errors.New("username or email is incorrect")

	// ErrUserTaken means the username or email is already registered.
	ErrUserTaken = errors.New("username or email is already taken")

	// ErrInvalidToken means a presented token failed validation, whether
	// malformed, expired, or of the wrong type.
	ErrInvalidToken = errors.New("invalid or expired token")
)

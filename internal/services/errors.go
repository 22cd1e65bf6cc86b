// Package services defines the business logic for tickets and agents.
// This file centralizes service-level error values so that they can be
// consistently returned by service methods and checked by callers.
//
// Translation into HTTP status codes is performed at the handler layer.
package services

import "errors"

var (
	// ErrTicketNotFound indicates that no ticket has the requested id.
	ErrTicketNotFound = errors.New("ticket not found")

	// ErrAgentNotFound indicates that no agent has the requested id.
	ErrAgentNotFound = errors.New("agent not found")

	// ErrGroupMismatch is returned when an agent's group differs from the
	// ticket's group, or the agent has no group at all.
	ErrGroupMismatch = errors.New("agent and ticket belong to different groups")

	// ErrDuplicateAgent is returned when an agent name is already taken.
	ErrDuplicateAgent = errors.New("agent name already exists")

	// ErrEmptyAgentName is returned when an agent name is blank.
	ErrEmptyAgentName = errors.New("agent name is empty")
)

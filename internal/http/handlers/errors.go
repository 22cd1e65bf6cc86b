// Package handlers defines HTTP-layer error codes used across all API endpoints.
//
// Codes are lowercase snake_case and stable; clients branch on them instead
// of on message text. Generic codes mirror HTTP status semantics, the rest
// name a specific ticket or agent failure.
//
// Example response:
//
//	{
//	  "request_id": "e1b9be03-4999-4289-9f03-999b042d65d6",
//	  "code": "group_mismatch",
//	  "message": "agent and ticket belong to different groups"
//	}
package handlers

const (
	ErrCodeBadRequest       = "bad_request"
	ErrCodeNotFound         = "not_found"
	ErrCodeMethodNotAllowed = "method_not_allowed"
	ErrCodeInternal         = "internal_error"
	ErrCodeUnavailable      = "unavailable"

	// Domain-specific:
	ErrCodeTicketNotFound = "ticket_not_found"
	ErrCodeAgentNotFound  = "agent_not_found"
	ErrCodeGroupMismatch  = "group_mismatch"
	ErrCodeAgentExists    = "agent_exists"
	ErrCodeCreateFailed   = "create_failed"
	ErrCodeListFailed     = "list_failed"
	ErrCodeUpdateFailed   = "update_failed"
	ErrCodeAssignFailed   = "assign_failed"
)

// Messages returned verbatim in legacy mode, where business failures are
// reported as 200 responses carrying only a message.
const (
	msgAssignFailed = "Ticket or agent not found or they belong to different groups"
	msgAgentExists  = "Agent name already exists"
)

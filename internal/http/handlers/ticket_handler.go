// Ticket HTTP handlers.
//
// This file exposes REST endpoints for ticket resources:
//   - POST   /tickets                              (create)
//   - GET    /tickets                              (list, filters, optional paging, ETag)
//   - PUT    /tickets/{id}                         (status/remark update)
//   - GET    /tickets/{id}/assign/{agent_id}       (assign agent; POST alias)
package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ticket-backend/internal/domain"
	"github.com/tbourn/go-ticket-backend/internal/http/middleware"
	"github.com/tbourn/go-ticket-backend/internal/repo"
	"github.com/tbourn/go-ticket-backend/internal/services"
	"github.com/tbourn/go-ticket-backend/internal/utils"
)

//
// DTOs
//

// TicketIn is the JSON payload for creating a ticket. Every key must be
// present; empty strings are accepted.
type TicketIn struct {
	Email          *string `json:"email" binding:"required" example:"jo@example.com"`
	Description    *string `json:"description" binding:"required" example:"VPN drops every hour"`
	ToAssign       *string `json:"toassign" binding:"required" example:""`
	Status         *string `json:"status" binding:"required" example:"open"`
	TicketPriority *string `json:"ticket_priority" binding:"required" example:"high"`
	TicketGroup    *string `json:"ticket_group" binding:"required" example:"IT"`
	Remark         *string `json:"remark" binding:"required" example:""`
}

func (in TicketIn) ticket() domain.Ticket {
	return domain.Ticket{
		Email:          deref(in.Email),
		Description:    deref(in.Description),
		ToAssign:       deref(in.ToAssign),
		Status:         deref(in.Status),
		TicketPriority: deref(in.TicketPriority),
		TicketGroup:    deref(in.TicketGroup),
		Remark:         deref(in.Remark),
	}
}

// TicketUpdateIn is the JSON payload for updating a ticket. Only status
// and remark are applied; the other keys are accepted and ignored.
type TicketUpdateIn struct {
	Email          *string `json:"email,omitempty" example:"jo@example.com"`
	Description    *string `json:"description,omitempty" example:"VPN drops every hour"`
	ToAssign       *string `json:"toassign,omitempty" example:""`
	Status         *string `json:"status" binding:"required" example:"closed"`
	TicketPriority *string `json:"ticket_priority,omitempty" example:"high"`
	TicketGroup    *string `json:"ticket_group,omitempty" example:"IT"`
	Remark         *string `json:"remark" binding:"required" example:"router replaced"`
}

// TicketEcho is the legacy update response: the submitted fields plus id.
type TicketEcho struct {
	ID             int64  `json:"id" example:"1"`
	Email          string `json:"email"`
	Description    string `json:"description"`
	ToAssign       string `json:"toassign"`
	Status         string `json:"status"`
	TicketPriority string `json:"ticket_priority"`
	TicketGroup    string `json:"ticket_group"`
	Remark         string `json:"remark"`
}

// AssignResponse is returned after a successful assignment.
type AssignResponse struct {
	Message string         `json:"message" example:"Agent assigned to ticket successfully"`
	Ticket  *domain.Ticket `json:"ticket"`
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

//
// Helpers
//

// pathID parses a positive integer path parameter or writes 400.
func pathID(c *gin.Context, name string) (int64, bool) {
	id, err := utils.ParseID(c.Param(name))
	if err != nil {
		fail(c, http.StatusBadRequest, ErrCodeBadRequest, name+" must be a positive integer")
		return 0, false
	}
	return id, true
}

// notModified sets etag and reports whether If-None-Match already holds it.
func notModified(c *gin.Context, etag string) bool {
	c.Header("ETag", etag)
	inm := c.GetHeader("If-None-Match")
	return inm != "" && (inm == "*" || inm == etag)
}

// replayed serves a stored result for a replayed Idempotency-Key. load
// fetches the resource recorded for the key.
func (h *Handlers) replayed(c *gin.Context, load func(id int64) (any, error)) bool {
	if h.opts.Idem == nil || !middleware.IsReplay(c) {
		return false
	}
	key, _ := middleware.GetIdempotencyKey(c)
	rec, err := h.opts.Idem.Get(c.Request.Context(), middleware.IdempotencyScope(c), key, time.Now().UTC())
	if err != nil {
		return false
	}
	res, err := load(rec.ResourceID)
	if err != nil {
		return false
	}
	c.Header("Idempotent-Replayed", "true")
	ok(c, http.StatusOK, res)
	return true
}

// remember records a created resource under the request's Idempotency-Key.
func (h *Handlers) remember(c *gin.Context, id int64, status int) {
	key, has := middleware.GetIdempotencyKey(c)
	if h.opts.Idem == nil || !has {
		return
	}
	if err := h.opts.Idem.Put(c.Request.Context(), middleware.IdempotencyScope(c), key, id, status); err != nil {
		middleware.LoggerFrom(c).Warn().Err(err).Msg("idempotency record not stored")
	}
}

//
// Handlers
//

// CreateTicket godoc
// @ID          createTicket
// @Summary     Create a ticket
// @Description Stores a ticket. created_date is the server time and closing_time is 24h later. An Idempotency-Key replay returns the original ticket with 200.
// @Tags        Ticket Management
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string             false "Client key for safe retries"  example(create-7f3a)
// @Param       body             body    handlers.TicketIn  true  "Ticket payload"
//
// @Success     201  {object}  domain.Ticket
// @Success     200  {object}  domain.Ticket  "Replay, or legacy mode"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     429  {object}  handlers.ErrorResponse "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /tickets/ [post]
func (h *Handlers) CreateTicket(c *gin.Context) {
	ctx := c.Request.Context()
	if h.replayed(c, func(id int64) (any, error) { return h.tickets.Get(ctx, id) }) {
		return
	}

	var in TicketIn
	if !bindJSON(c, &in) {
		return
	}

	t, err := h.tickets.Create(ctx, in.ticket())
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create ticket")
		return
	}
	status := h.createdStatus()
	h.remember(c, t.ID, status)
	ok(c, status, t)
}

// ListTickets godoc
// @ID          listTickets
// @Summary     List tickets
// @Description Returns tickets in id order as an array. Filters and paging are optional; without page/page_size every match is returned. Supports weak ETag via If-None-Match.
// @Tags        Ticket Management
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"  example(W/\"tickets:3:1700000000\")
// @Param       status         query   string  false "Exact status match"          example(open)
// @Param       ticket_group   query   string  false "Exact group match"           example(IT)
// @Param       page           query   int     false "Page number"                 minimum(1)
// @Param       page_size      query   int     false "Items per page"              minimum(1) maximum(100)
//
// @Success     200  {array}   domain.Ticket
// @Header      200  {string}  ETag           "Weak ETag for current result"
// @Header      200  {integer} X-Total-Count  "Total matches (paged requests)"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /tickets/ [get]
func (h *Handlers) ListTickets(c *gin.Context) {
	ctx := c.Request.Context()
	f := repo.TicketFilter{
		Status: c.Query("status"),
		Group:  c.Query("ticket_group"),
	}
	page, pageSize, paged := utils.ParsePage(c.Query("page"), c.Query("page_size"))

	// ETag pre-check (best effort).
	if count, maxTS, err := h.tickets.Stats(ctx, f); err == nil {
		var ts int64
		if maxTS != nil {
			ts = maxTS.UnixNano()
		}
		etag := fmt.Sprintf(`W/"tickets:%s:%s:%d:%d:%d:%d"`, f.Status, f.Group, page, pageSize, count, ts)
		if notModified(c, etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	if !paged {
		items, err := h.tickets.List(ctx, f)
		if err != nil {
			fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list tickets")
			return
		}
		c.Header("X-Total-Count", strconv.Itoa(len(items)))
		ok(c, http.StatusOK, items)
		return
	}

	items, total, err := h.tickets.ListPage(ctx, f, page, pageSize)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list tickets")
		return
	}
	c.Header("X-Total-Count", strconv.FormatInt(total, 10))
	ok(c, http.StatusOK, items)
}

// UpdateTicket godoc
// @ID          updateTicket
// @Summary     Update ticket status and remark
// @Description Overwrites status and remark; other fields in the body are ignored. Returns the stored ticket. In legacy mode the submitted body plus id is echoed with 200 even when no ticket matched.
// @Tags        Ticket Management
// @Accept      json
// @Produce     json
//
// @Param       id    path  int                      true  "Ticket ID"  minimum(1) example(1)
// @Param       body  body  handlers.TicketUpdateIn  true  "Status and remark"
//
// @Success     200  {object}  domain.Ticket
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket not found"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /tickets/{id} [put]
func (h *Handlers) UpdateTicket(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	var in TicketUpdateIn
	if !bindJSON(c, &in) {
		return
	}

	t, err := h.tickets.UpdateStatus(c.Request.Context(), id, *in.Status, *in.Remark)
	if h.opts.Legacy && (err == nil || errors.Is(err, services.ErrTicketNotFound)) {
		ok(c, http.StatusOK, TicketEcho{
			ID:             id,
			Email:          deref(in.Email),
			Description:    deref(in.Description),
			ToAssign:       deref(in.ToAssign),
			Status:         *in.Status,
			TicketPriority: deref(in.TicketPriority),
			TicketGroup:    deref(in.TicketGroup),
			Remark:         *in.Remark,
		})
		return
	}
	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		fail(c, http.StatusNotFound, ErrCodeTicketNotFound, "ticket not found")
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeUpdateFailed, "could not update ticket")
	default:
		ok(c, http.StatusOK, t)
	}
}

// AssignAgent godoc
// @ID          assignAgent
// @Summary     Assign an agent to a ticket
// @Description Copies the agent's name into the ticket's toassign field when both exist and share a group. Repeating the call is harmless. In legacy mode every failure is a 200 with a message.
// @Tags        Ticket Management
// @Produce     json
//
// @Param       id        path  int  true  "Ticket ID"  minimum(1) example(1)
// @Param       agent_id  path  int  true  "Agent ID"   minimum(1) example(2)
//
// @Success     200  {object}  handlers.AssignResponse
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     404  {object}  handlers.ErrorResponse "Ticket or agent not found"
// @Failure     409  {object}  handlers.ErrorResponse "Group mismatch"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /tickets/{id}/assign/{agent_id} [get]
// @Router      /tickets/{id}/assign/{agent_id} [post]
func (h *Handlers) AssignAgent(c *gin.Context) {
	id, valid := pathID(c, "id")
	if !valid {
		return
	}
	agentID, valid := pathID(c, "agent_id")
	if !valid {
		return
	}

	t, err := h.tickets.Assign(c.Request.Context(), id, agentID)
	if err == nil {
		ok(c, http.StatusOK, AssignResponse{Message: services.AssignedMessage, Ticket: t})
		return
	}

	business := errors.Is(err, services.ErrTicketNotFound) ||
		errors.Is(err, services.ErrAgentNotFound) ||
		errors.Is(err, services.ErrGroupMismatch)
	if h.opts.Legacy && business {
		ok(c, http.StatusOK, MessageResponse{Message: msgAssignFailed})
		return
	}

	switch {
	case errors.Is(err, services.ErrTicketNotFound):
		fail(c, http.StatusNotFound, ErrCodeTicketNotFound, "ticket not found")
	case errors.Is(err, services.ErrAgentNotFound):
		fail(c, http.StatusNotFound, ErrCodeAgentNotFound, "agent not found")
	case errors.Is(err, services.ErrGroupMismatch):
		fail(c, http.StatusConflict, ErrCodeGroupMismatch, "agent and ticket belong to different groups")
	default:
		fail(c, http.StatusInternalServerError, ErrCodeAssignFailed, "could not assign agent")
	}
}

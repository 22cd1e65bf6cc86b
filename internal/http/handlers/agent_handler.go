package handlers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/tbourn/go-ticket-backend/internal/services"
)

// AgentIn is the JSON payload for registering an agent. agent_group may be
// omitted or null.
type AgentIn struct {
	AgentName  string  `json:"agent_name" binding:"required" example:"Alice"`
	AgentGroup *string `json:"agent_group,omitempty" example:"IT"`
}

// CreateAgent godoc
// @ID          createAgent
// @Summary     Register an agent
// @Description Stores an agent. Names are unique; a duplicate is rejected with 409, or 200 with a message in legacy mode.
// @Tags        Agent Management
// @Accept      json
// @Produce     json
//
// @Param       Idempotency-Key  header  string            false "Client key for safe retries"  example(agent-91c2)
// @Param       body             body    handlers.AgentIn  true  "Agent payload"
//
// @Success     201  {object}  domain.Agent
// @Success     200  {object}  domain.Agent  "Replay, or legacy mode"
// @Failure     400  {object}  handlers.ErrorResponse "Bad request"
// @Failure     409  {object}  handlers.ErrorResponse "Agent name exists"
// @Failure     429  {object}  handlers.ErrorResponse "Rate limited"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agents/ [post]
func (h *Handlers) CreateAgent(c *gin.Context) {
	ctx := c.Request.Context()
	if h.replayed(c, func(id int64) (any, error) { return h.agents.Get(ctx, id) }) {
		return
	}

	var in AgentIn
	if !bindJSON(c, &in) {
		return
	}

	a, err := h.agents.Create(ctx, in.AgentName, in.AgentGroup)
	switch {
	case errors.Is(err, services.ErrEmptyAgentName):
		failDetails(c, http.StatusBadRequest, ErrCodeBadRequest, "validation failed",
			map[string]string{"agent_name": "Agent Name is required"})
		return
	case errors.Is(err, services.ErrDuplicateAgent):
		if h.opts.Legacy {
			ok(c, http.StatusOK, MessageResponse{Message: msgAgentExists})
			return
		}
		fail(c, http.StatusConflict, ErrCodeAgentExists, "agent name already exists")
		return
	case err != nil:
		fail(c, http.StatusInternalServerError, ErrCodeCreateFailed, "could not create agent")
		return
	}

	status := h.createdStatus()
	h.remember(c, a.AgentID, status)
	ok(c, status, a)
}

// ListAgents godoc
// @ID          listAgents
// @Summary     List agents
// @Description Returns agents in agent_id order as an array, optionally filtered by agent_group. Supports weak ETag via If-None-Match.
// @Tags        Agent Management
// @Produce     json
//
// @Param       If-None-Match  header  string  false "Return 304 if ETag matches"
// @Param       agent_group    query   string  false "Exact group match"  example(IT)
//
// @Success     200  {array}   domain.Agent
// @Header      200  {string}  ETag           "Weak ETag for current result"
// @Header      200  {integer} X-Total-Count  "Number of agents returned"
// @Success     304  {string}  string "Not Modified"
// @Failure     500  {object}  handlers.ErrorResponse "Internal error"
// @Router      /agents/ [get]
func (h *Handlers) ListAgents(c *gin.Context) {
	ctx := c.Request.Context()
	group := strings.TrimSpace(c.Query("agent_group"))

	// Agents are never updated, so count and highest id identify the set.
	if count, maxID, err := h.agents.Stats(ctx, group); err == nil {
		etag := fmt.Sprintf(`W/"agents:%s:%d:%d"`, group, count, maxID)
		if notModified(c, etag) {
			c.Status(http.StatusNotModified)
			return
		}
	}

	items, err := h.agents.List(ctx, group)
	if err != nil {
		fail(c, http.StatusInternalServerError, ErrCodeListFailed, "could not list agents")
		return
	}
	c.Header("X-Total-Count", strconv.Itoa(len(items)))
	ok(c, http.StatusOK, items)
}

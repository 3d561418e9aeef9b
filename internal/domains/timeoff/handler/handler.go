// Package handler provides endpoints to interact with time off requests.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/domains/timeoff/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/errs"
	"github.com/KSx23/archer/internal/page"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	timeoffBus *bus.Bus
	tracer     trace.Tracer
}

func (h *handler) Submit(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "timeoff.handler.submit")
	defer span.End()

	usr, ok := contextUser(c)
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	var nr newRequest
	if err := c.ShouldBindJSON(&nr); err != nil {
		c.Error(err)
		return
	}

	req, err := h.timeoffBus.Submit(ctx, bus.NewRequest{
		UserID:    usr.ID,
		StartDate: nr.StartDate,
		EndDate:   nr.EndDate,
	})

	switch {
	case errors.Is(err, bus.ErrInvalidDateRange):
		c.Error(errs.Newf(http.StatusBadRequest, "submit: %s", err))
		return
	case errors.Is(err, bus.ErrUnknownUser):
		c.Error(errs.Newf(http.StatusBadRequest, "submit: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "submit: %s", err))
		return
	}

	c.JSON(http.StatusCreated, toAppRequest(req))
}

// Decide confirms or refuses a pending request. A request that has already
// been settled keeps its first decision.
func (h *handler) Decide(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "timeoff.handler.decide")
	defer span.End()

	p := c.Param("id")
	requestID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	var d decision
	if err := c.ShouldBindJSON(&d); err != nil {
		c.Error(err)
		return
	}

	status, err := bus.ParseStatus(d.Status)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "parseStatus: %s", err))
		return
	}

	req, err := h.timeoffBus.Decide(ctx, requestID, status)
	switch {
	case errors.Is(err, bus.ErrNotFound):
		c.Error(errs.Newf(http.StatusNotFound, "decide: %s", err))
		return
	case errors.Is(err, bus.ErrAlreadyDecided):
		c.Error(errs.Newf(http.StatusConflict, "decide: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "decide: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppRequest(req))
}

// Withdraw removes the caller's own pending request.
func (h *handler) Withdraw(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "timeoff.handler.withdraw")
	defer span.End()

	p := c.Param("id")
	requestID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	usr, ok := contextUser(c)
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	err = h.timeoffBus.Withdraw(ctx, requestID, usr.ID)
	switch {
	case errors.Is(err, bus.ErrNotFound):
		c.Error(errs.Newf(http.StatusNotFound, "withdraw: %s", err))
		return
	case errors.Is(err, bus.ErrNotRequester):
		c.Error(errs.Newf(http.StatusForbidden, "withdraw: %s", err))
		return
	case errors.Is(err, bus.ErrAlreadyDecided):
		c.Error(errs.Newf(http.StatusConflict, "withdraw: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "withdraw: %s", err))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) Query(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "timeoff.handler.query")
	defer span.End()

	page, err := page.Parse(c.Query("page"), c.Query("rows"))
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "parse pagination: %s", err))
		return
	}

	var filters Filters
	if err := c.ShouldBindQuery(&filters); err != nil {
		c.Error(err)
		return
	}

	busFilter, err := filters.ToBusQueryFilter()
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "toBusQueryFilter: %s", err))
		return
	}

	orderBy, err := bus.ParseOrderBy(c.Query("order_by"))
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "parse order_by query: %s", err))
		return
	}

	busReqs, err := h.timeoffBus.Query(ctx, busFilter, orderBy, page)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "query: %s", err))
		return
	}

	total, err := h.timeoffBus.Count(ctx, busFilter)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "count: %s", err))
		return
	}

	reqs := make([]request, len(busReqs))
	for i, r := range busReqs {
		reqs[i] = toAppRequest(r)
	}

	c.JSON(http.StatusOK, newQueryResult(reqs, total, page.Number, page.Rows))
}

// ==============================================================================

func contextUser(c *gin.Context) (userBus.User, bool) {
	val, ok := c.Get("user")
	if !ok {
		return userBus.User{}, false
	}

	usr, ok := val.(userBus.User)
	return usr, ok
}

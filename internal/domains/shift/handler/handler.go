// Package handler provides endpoints to interact with the shift booking
// engine.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/domains/shift/bus"
	userBus "github.com/KSx23/archer/internal/domains/user/bus"
	"github.com/KSx23/archer/internal/errs"
	"github.com/KSx23/archer/internal/page"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	shiftBus *bus.Bus
	tracer   trace.Tracer
}

func (h *handler) CreateShift(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.createShift")
	defer span.End()

	var ns newShift
	if err := c.ShouldBindJSON(&ns); err != nil {
		c.Error(err)
		return
	}

	sh, err := h.shiftBus.Create(ctx, toBusNewShift(ns))
	switch {
	case errors.Is(err, bus.ErrInvalidTimeRange):
		c.Error(errs.Newf(http.StatusBadRequest, "create: %s", err))
		return
	case errors.Is(err, bus.ErrUnknownReference):
		c.Error(errs.Newf(http.StatusBadRequest, "create: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "create: %s", err))
		return
	}

	c.JSON(http.StatusCreated, toAppShift(sh))
}

// Claim books the shift for the caller. Of two racing claims exactly one
// succeeds; the loser gets a conflict and the winning owner stands.
func (h *handler) Claim(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.claim")
	defer span.End()

	shiftID, err := paramID(c)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", c.Param("id")))
		return
	}

	usr, ok := contextUser(c)
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	sh, err := h.shiftBus.Claim(ctx, shiftID, usr.ID)
	switch {
	case errors.Is(err, bus.ErrNotFound):
		c.Error(errs.Newf(http.StatusNotFound, "claim: %s", err))
		return
	case errors.Is(err, bus.ErrAlreadyClaimed):
		c.Error(errs.Newf(http.StatusConflict, "claim: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "claim: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppShift(sh))
}

// Release hands the shift back. Only its current owner may do that.
func (h *handler) Release(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.release")
	defer span.End()

	shiftID, err := paramID(c)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", c.Param("id")))
		return
	}

	usr, ok := contextUser(c)
	if !ok {
		c.Error(errs.Newf(http.StatusUnauthorized, "%s", http.StatusText(http.StatusUnauthorized)))
		return
	}

	sh, err := h.shiftBus.Release(ctx, shiftID, usr.ID)
	switch {
	case errors.Is(err, bus.ErrNotFound):
		c.Error(errs.Newf(http.StatusNotFound, "release: %s", err))
		return
	case errors.Is(err, bus.ErrNotOwner):
		c.Error(errs.Newf(http.StatusForbidden, "release: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "release: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppShift(sh))
}

func (h *handler) DeleteShift(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.deleteShift")
	defer span.End()

	shiftID, err := paramID(c)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", c.Param("id")))
		return
	}

	err = h.shiftBus.Delete(ctx, shiftID)
	if errors.Is(err, bus.ErrNotFound) {
		c.Error(errs.Newf(http.StatusNotFound, "delete: %s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "delete: %s", err))
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *handler) Query(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.query")
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

	busShifts, err := h.shiftBus.Query(ctx, busFilter, orderBy, page)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "query: %s", err))
		return
	}

	total, err := h.shiftBus.Count(ctx, busFilter)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "count: %s", err))
		return
	}

	shifts := make([]shift, len(busShifts))
	for i, sh := range busShifts {
		shifts[i] = toAppShift(sh)
	}

	c.JSON(http.StatusOK, newQueryResult(shifts, total, page.Number, page.Rows))
}

func (h *handler) QueryShiftByID(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "shift.handler.queryByID")
	defer span.End()

	shiftID, err := paramID(c)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", c.Param("id")))
		return
	}

	sh, err := h.shiftBus.QueryByID(ctx, shiftID)
	if errors.Is(err, bus.ErrNotFound) {
		c.Error(errs.Newf(http.StatusNotFound, "queryByID: %s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "queryByID: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppShift(sh))
}

// ==============================================================================

func paramID(c *gin.Context) (int64, error) {
	return strconv.ParseInt(c.Param("id"), 10, 64)
}

func contextUser(c *gin.Context) (userBus.User, bool) {
	val, ok := c.Get("user")
	if !ok {
		return userBus.User{}, false
	}

	usr, ok := val.(userBus.User)
	return usr, ok
}

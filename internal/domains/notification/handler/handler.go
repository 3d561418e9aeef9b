// Package handler provides endpoints to interact with notifications.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/domains/notification/bus"
	"github.com/KSx23/archer/internal/errs"
	"github.com/KSx23/archer/internal/metrics"
	"github.com/KSx23/archer/internal/page"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	notificationBus *bus.Bus
	metrics         *metrics.Metrics
	tracer          trace.Tracer
}

// Dispatch creates a notification and pushes it through the delivery
// channels. A broadcast failure still leaves a persisted record, the client
// learns about the partial delivery through the status.
func (h *handler) Dispatch(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "notification.handler.dispatch")
	defer span.End()

	var nn newNotification
	if err := c.ShouldBindJSON(&nn); err != nil {
		c.Error(err)
		return
	}

	busNew, err := toBusNewNotification(nn)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "toBusNewNotification: %s", err))
		return
	}

	h.metrics.AddDispatch()

	n, err := h.notificationBus.Dispatch(ctx, busNew)
	switch {
	case errors.Is(err, bus.ErrUnknownUser):
		c.Error(errs.Newf(http.StatusBadRequest, "dispatch: %s", err))
		return
	case errors.Is(err, bus.ErrBroadcast):
		//the record is persisted and locally delivered, broadcast did not go out
		c.JSON(http.StatusBadGateway, toAppNotification(n))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "dispatch: %s", err))
		return
	}

	c.JSON(http.StatusCreated, toAppNotification(n))
}

func (h *handler) UpdateNotification(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "notification.handler.updateNotification")
	defer span.End()

	p := c.Param("id")
	notificationID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	var un updateNotification
	if err := c.ShouldBindJSON(&un); err != nil {
		c.Error(err)
		return
	}

	n, err := h.notificationBus.QueryByID(ctx, notificationID)
	if errors.Is(err, bus.ErrNotFound) {
		c.Error(errs.Newf(http.StatusNotFound, "queryByID: %s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "queryByID: %s", err))
		return
	}

	updated, err := h.notificationBus.Update(ctx, n, bus.UpdateNotification{Message: un.Message})
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "update: %s", err))
		return
	}

	c.JSON(http.StatusOK, toAppNotification(updated))
}

func (h *handler) DeleteNotification(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "notification.handler.deleteNotification")
	defer span.End()

	p := c.Param("id")
	notificationID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	err = h.notificationBus.Delete(ctx, notificationID)
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
	ctx, span := h.tracer.Start(c.Request.Context(), "notification.handler.query")
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

	busNotifications, err := h.notificationBus.Query(ctx, busFilter, orderBy, page)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "query: %s", err))
		return
	}

	total, err := h.notificationBus.Count(ctx, busFilter)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "count: %s", err))
		return
	}

	notifications := make([]notification, len(busNotifications))
	for i, n := range busNotifications {
		notifications[i] = toAppNotification(n)
	}

	c.JSON(http.StatusOK, newQueryResult(notifications, total, page.Number, page.Rows))
}

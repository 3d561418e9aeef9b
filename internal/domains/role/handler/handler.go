// Package handler provides endpoints to interact with the role domain.
package handler

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/KSx23/archer/internal/domains/role/bus"
	"github.com/KSx23/archer/internal/errs"
	"go.opentelemetry.io/otel/trace"
)

type handler struct {
	roleBus *bus.Bus
	tracer  trace.Tracer
}

func (h *handler) CreateRole(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "role.handler.createRole")
	defer span.End()

	var nr newRole
	if err := c.ShouldBindJSON(&nr); err != nil {
		c.Error(err)
		return
	}

	r, err := h.roleBus.Create(ctx, bus.NewRole{Name: nr.Name, Description: nr.Description})
	if errors.Is(err, bus.ErrDuplicatedName) {
		c.Error(errs.Newf(http.StatusConflict, "create: %s", err))
		return
	}

	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "create: %s", err))
		return
	}

	c.JSON(http.StatusCreated, toAppRole(r))
}

func (h *handler) Query(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "role.handler.query")
	defer span.End()

	busRoles, err := h.roleBus.Query(ctx)
	if err != nil {
		c.Error(errs.Newf(http.StatusInternalServerError, "query: %s", err))
		return
	}

	roles := make([]role, len(busRoles))
	for i, r := range busRoles {
		roles[i] = toAppRole(r)
	}

	c.JSON(http.StatusOK, roles)
}

func (h *handler) DeleteRole(c *gin.Context) {
	ctx, span := h.tracer.Start(c.Request.Context(), "role.handler.deleteRole")
	defer span.End()

	p := c.Param("id")

	roleID, err := strconv.ParseInt(p, 10, 64)
	if err != nil {
		c.Error(errs.Newf(http.StatusBadRequest, "invalid id: %s", p))
		return
	}

	err = h.roleBus.Delete(ctx, roleID)
	switch {
	case errors.Is(err, bus.ErrNotFound):
		c.Error(errs.Newf(http.StatusNotFound, "delete: %s", err))
		return
	case errors.Is(err, bus.ErrRoleInUse):
		//reassign users and shifts off the role first
		c.Error(errs.Newf(http.StatusConflict, "delete: %s", err))
		return
	case err != nil:
		c.Error(errs.Newf(http.StatusInternalServerError, "delete: %s", err))
		return
	}

	c.Status(http.StatusNoContent)
}

package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/service"
)

// TableHandler serves /table.
type TableHandler struct {
	service *service.TableService
}

// NewTableHandler constructs handler.
func NewTableHandler(tableService *service.TableService) *TableHandler {
	return &TableHandler{service: tableService}
}

// List GET /table.
func (h *TableHandler) List(c *fiber.Ctx) error {
	rows, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// Mini GET /table/mini.
func (h *TableHandler) Mini(c *fiber.Ctx) error {
	rows, err := h.service.ListMini(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(rows)
}

// Get GET /table/:id.
func (h *TableHandler) Get(c *fiber.Ctx) error {
	row, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(row)
}

// Create POST /table.
func (h *TableHandler) Create(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	in, err := dto.TableCreate(fields)
	if err != nil {
		return err
	}

	row, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(row)
}

// Update PUT /table/:id.
func (h *TableHandler) Update(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	patch, err := dto.TableUpdate(fields)
	if err != nil {
		return err
	}

	row, err := h.service.Update(c.UserContext(), c.Params("id"), patch)
	if err != nil {
		return err
	}
	return c.JSON(row)
}

// Delete DELETE /table/:id.
func (h *TableHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Team deleted"})
}

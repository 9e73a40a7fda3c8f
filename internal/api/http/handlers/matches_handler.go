package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/service"
)

// MatchesHandler serves /matches.
type MatchesHandler struct {
	service *service.MatchService
}

// NewMatchesHandler constructs handler.
func NewMatchesHandler(matchService *service.MatchService) *MatchesHandler {
	return &MatchesHandler{service: matchService}
}

// List GET /matches.
func (h *MatchesHandler) List(c *fiber.Ctx) error {
	matches, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(matches)
}

// Get GET /matches/:id.
func (h *MatchesHandler) Get(c *fiber.Ctx) error {
	match, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(match)
}

// Create POST /matches. The opponent logo arrives in the "logo" file field.
func (h *MatchesHandler) Create(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	in, err := dto.MatchCreate(fields)
	if err != nil {
		return err
	}
	if in.Logo, err = readFile(c, dto.MatchLogoField); err != nil {
		return err
	}

	match, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(match)
}

// Update PATCH /matches/:id.
func (h *MatchesHandler) Update(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	patch, err := dto.MatchUpdate(fields)
	if err != nil {
		return err
	}
	logo, err := readFile(c, dto.MatchLogoField)
	if err != nil {
		return err
	}

	match, err := h.service.Update(c.UserContext(), c.Params("id"), patch, logo)
	if err != nil {
		return err
	}
	return c.JSON(match)
}

// Delete DELETE /matches/:id.
func (h *MatchesHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Match deleted"})
}

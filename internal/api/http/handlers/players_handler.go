package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/service"
)

// PlayersHandler serves /players.
type PlayersHandler struct {
	service *service.PlayerService
}

// NewPlayersHandler constructs handler.
func NewPlayersHandler(playerService *service.PlayerService) *PlayersHandler {
	return &PlayersHandler{service: playerService}
}

// List GET /players.
func (h *PlayersHandler) List(c *fiber.Ctx) error {
	players, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(players)
}

// Get GET /players/:id.
func (h *PlayersHandler) Get(c *fiber.Ctx) error {
	player, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(player)
}

// Create POST /players.
func (h *PlayersHandler) Create(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	in, err := dto.PlayerCreate(fields)
	if err != nil {
		return err
	}
	if in.Image, err = readFile(c, dto.PlayerImageField); err != nil {
		return err
	}

	player, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(player)
}

// Update PUT /players/:id.
func (h *PlayersHandler) Update(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	patch, err := dto.PlayerUpdate(fields)
	if err != nil {
		return err
	}
	image, err := readFile(c, dto.PlayerImageField)
	if err != nil {
		return err
	}

	player, err := h.service.Update(c.UserContext(), c.Params("id"), patch, image)
	if err != nil {
		return err
	}
	return c.JSON(player)
}

// Delete DELETE /players/:id.
func (h *PlayersHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "Player deleted"})
}

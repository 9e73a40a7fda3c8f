package handlers

import (
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/clubhouse/club-cms/internal/api/dto"
	"github.com/clubhouse/club-cms/internal/service"
)

// NewsHandler serves /news.
type NewsHandler struct {
	service *service.NewsService
}

// NewNewsHandler constructs handler.
func NewNewsHandler(newsService *service.NewsService) *NewsHandler {
	return &NewsHandler{service: newsService}
}

// List GET /news.
func (h *NewsHandler) List(c *fiber.Ctx) error {
	articles, err := h.service.List(c.UserContext())
	if err != nil {
		return err
	}
	return c.JSON(articles)
}

// Get GET /news/:id.
func (h *NewsHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.Get(c.UserContext(), c.Params("id"))
	if err != nil {
		return err
	}
	return c.JSON(article)
}

// Create POST /news.
func (h *NewsHandler) Create(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	in, err := dto.NewsCreate(fields)
	if err != nil {
		return err
	}
	if in.Image, err = readFile(c, dto.NewsImageField); err != nil {
		return err
	}

	article, err := h.service.Create(c.UserContext(), in)
	if err != nil {
		return err
	}
	return c.Status(http.StatusCreated).JSON(article)
}

// Update PATCH /news/:id.
func (h *NewsHandler) Update(c *fiber.Ctx) error {
	fields, err := readFields(c)
	if err != nil {
		return err
	}
	patch, err := dto.NewsUpdate(fields)
	if err != nil {
		return err
	}
	image, err := readFile(c, dto.NewsImageField)
	if err != nil {
		return err
	}

	article, err := h.service.Update(c.UserContext(), c.Params("id"), patch, image)
	if err != nil {
		return err
	}
	return c.JSON(article)
}

// Delete DELETE /news/:id.
func (h *NewsHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("id")); err != nil {
		return err
	}
	return c.JSON(dto.MessageResponse{Message: "News deleted"})
}

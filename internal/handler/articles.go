package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/pkg/response"
)

type ArticleHandler struct {
	service   *service.ArticleService
	validator *validator.Validate
}

func NewArticleHandler(svc *service.ArticleService, v *validator.Validate) *ArticleHandler {
	return &ArticleHandler{
		service:   svc,
		validator: v,
	}
}

// List handles GET /api/articles
func (h *ArticleHandler) List(c *fiber.Ctx) error {
	articles, err := h.service.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, articles)
}

// Get handles GET /api/articles/:slug
func (h *ArticleHandler) Get(c *fiber.Ctx) error {
	article, err := h.service.Get(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, article)
}

// Update handles PUT /api/articles/:slug
func (h *ArticleHandler) Update(c *fiber.Ctx) error {
	var req model.UpdateArticleRequest
	if berr := bindJSON(c, h.validator, &req); berr != nil {
		return berr.write(c)
	}

	article, err := h.service.Update(c.UserContext(), c.Params("slug"), &req)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, article)
}

// Publish handles POST /api/articles/:slug/publish
func (h *ArticleHandler) Publish(c *fiber.Ctx) error {
	if err := h.service.Publish(c.UserContext(), c.Params("slug")); err != nil {
		return writeError(c, err)
	}
	return response.OKSuccess(c, "Article published successfully")
}

// Delete handles DELETE /api/articles/:slug
func (h *ArticleHandler) Delete(c *fiber.Ctx) error {
	if err := h.service.Delete(c.UserContext(), c.Params("slug")); err != nil {
		return writeError(c, err)
	}
	return response.OKSuccess(c, "")
}

// Undo handles POST /api/articles/:slug/undo
func (h *ArticleHandler) Undo(c *fiber.Ctx) error {
	result, err := h.service.Undo(c.UserContext(), c.Params("slug"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, result)
}

// RecordView handles POST /api/analytics/view
func (h *ArticleHandler) RecordView(c *fiber.Ctx) error {
	var req model.ViewArticleRequest
	if berr := bindJSON(c, h.validator, &req); berr != nil {
		return berr.write(c)
	}

	if err := h.service.RecordView(c.UserContext(), &req); err != nil {
		return writeError(c, err)
	}
	return response.OKSuccess(c, "")
}

// Stats handles GET /api/dashboard/stats
func (h *ArticleHandler) Stats(c *fiber.Ctx) error {
	stats, err := h.service.Stats(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, stats)
}

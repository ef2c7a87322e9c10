package handler

import (
	"strconv"

	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/pkg/response"
)

type KeywordHandler struct {
	service   *service.KeywordService
	validator *validator.Validate
}

func NewKeywordHandler(svc *service.KeywordService, v *validator.Validate) *KeywordHandler {
	return &KeywordHandler{
		service:   svc,
		validator: v,
	}
}

// List handles GET /api/keywords
func (h *KeywordHandler) List(c *fiber.Ctx) error {
	keywords, err := h.service.List(c.UserContext())
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, keywords)
}

// Save handles POST /api/keywords
func (h *KeywordHandler) Save(c *fiber.Ctx) error {
	var req model.SaveKeywordsRequest
	if berr := bindJSON(c, h.validator, &req); berr != nil {
		return berr.write(c)
	}

	keywords, err := h.service.Save(c.UserContext(), req.KeywordsList)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, fiber.Map{
		"success":  true,
		"count":    len(keywords),
		"keywords": keywords,
	})
}

// Delete handles DELETE /api/keywords/:id
func (h *KeywordHandler) Delete(c *fiber.Ctx) error {
	id, err := strconv.ParseUint(c.Params("id"), 10, 64)
	if err != nil || id == 0 {
		return response.ValidationError(c, "Invalid keyword ID", nil)
	}

	if err := h.service.Delete(c.UserContext(), uint(id)); err != nil {
		return writeError(c, err)
	}
	return response.OKSuccess(c, "")
}

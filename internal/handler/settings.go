package handler

import (
	"github.com/go-playground/validator/v10"
	"github.com/gofiber/fiber/v2"

	"github.com/artikelin/api/internal/model"
	"github.com/artikelin/api/internal/service"
	"github.com/artikelin/api/pkg/response"
)

type SettingsHandler struct {
	service   *service.SettingsService
	validator *validator.Validate
}

func NewSettingsHandler(svc *service.SettingsService, v *validator.Validate) *SettingsHandler {
	return &SettingsHandler{
		service:   svc,
		validator: v,
	}
}

// Get handles GET /api/settings/:key
func (h *SettingsHandler) Get(c *fiber.Ctx) error {
	setting, err := h.service.Get(c.UserContext(), c.Params("key"))
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, setting)
}

// Put handles PUT /api/settings/:key
func (h *SettingsHandler) Put(c *fiber.Ctx) error {
	var req model.UpdateSettingRequest
	if berr := bindJSON(c, h.validator, &req); berr != nil {
		return berr.write(c)
	}

	setting, err := h.service.Put(c.UserContext(), c.Params("key"), *req.Value)
	if err != nil {
		return writeError(c, err)
	}
	return response.OK(c, setting)
}

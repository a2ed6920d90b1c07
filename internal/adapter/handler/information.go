package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage"
)

type InformationHandler struct {
	Catalog *storage.CatalogRepository
}

func (h *InformationHandler) GetBanners(c *fiber.Ctx) error {
	banners, err := h.Catalog.Banners(c.Context())
	if err != nil {
		slog.Error("Failed to list banners", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	data := make([]fiber.Map, 0, len(banners))
	for _, b := range banners {
		data = append(data, fiber.Map{
			"banner_name":  b.Name,
			"banner_image": b.Image,
			"description":  b.Description,
		})
	}
	return c.JSON(envelope(codeOK, "Success", data))
}

func (h *InformationHandler) GetServices(c *fiber.Ctx) error {
	services, err := h.Catalog.List(c.Context())
	if err != nil {
		slog.Error("Failed to list services", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	data := make([]fiber.Map, 0, len(services))
	for _, svc := range services {
		data = append(data, fiber.Map{
			"service_code":      svc.Code,
			"service_name":      svc.Name,
			"service_icon":      svc.Icon,
			"service_tariff":    svc.Tariff,
			"service_type":      svc.Type,
			"service_type_name": svc.TypeName,
			"admin_fee":         svc.AdminFee,
		})
	}
	return c.JSON(envelope(codeOK, "Success", data))
}

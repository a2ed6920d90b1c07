package handler

import (
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage"
	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
)

type ProfileHandler struct {
	Users *storage.UserRepository
}

type UpdateProfileRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
}

func profileData(user *domain.User) fiber.Map {
	return fiber.Map{
		"email":         user.Email,
		"first_name":    user.FirstName,
		"last_name":     user.LastName,
		"profile_image": user.ProfileImage,
	}
}

func (h *ProfileHandler) GetProfile(c *fiber.Ctx) error {
	user := currentUser(c)
	return c.JSON(envelope(codeOK, "Success", profileData(user)))
}

func (h *ProfileHandler) UpdateProfile(c *fiber.Ctx) error {
	var req UpdateProfileRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Invalid request body", nil))
	}

	if req.FirstName == "" || req.LastName == "" {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Parameters first_name and last_name are required", nil))
	}

	user := currentUser(c)
	updated, err := h.Users.UpdateProfile(c.Context(), user.Email, req.FirstName, req.LastName)
	if err != nil {
		slog.Error("Failed to update profile", "error", err, "email", user.Email)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	return c.JSON(envelope(codeOK, "Profile updated successfully", profileData(updated)))
}

// currentUser reads the identity resolved by the auth middleware.
func currentUser(c *fiber.Ctx) *domain.User {
	return c.Locals("user").(*domain.User)
}

package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/gofiber/fiber/v2"

	"github.com/hizamruljaen123/ppob-backend/internal/adapter/storage"
	"github.com/hizamruljaen123/ppob-backend/internal/core/domain"
	"github.com/hizamruljaen123/ppob-backend/internal/core/security"
)

type AuthHandler struct {
	Users     *storage.UserRepository
	JWTSecret string
}

type RegisterRequest struct {
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Password  string `json:"password"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

func (h *AuthHandler) Register(c *fiber.Ctx) error {
	var req RegisterRequest
	if err := c.BodyParser(&req); err != nil {
		slog.Warn("Invalid registration body", "error", err)
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Invalid request body", nil))
	}

	if req.Email == "" || req.FirstName == "" || req.LastName == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid,
			"All parameters are required (email, first_name, last_name, password)", nil))
	}
	if !domain.ValidEmail(req.Email) {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Parameter email has an invalid format", nil))
	}
	if !domain.ValidPassword(req.Password) {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Parameter password must be at least 8 characters", nil))
	}

	hash, err := security.HashPassword(req.Password)
	if err != nil {
		slog.Error("Failed to hash password", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	_, err = h.Users.Create(c.Context(), req.Email, req.FirstName, req.LastName, hash)
	if errors.Is(err, domain.ErrEmailTaken) {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Email is already registered", nil))
	}
	if err != nil {
		slog.Error("Failed to create user", "error", err, "email", req.Email)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	slog.Info("User registered", "email", req.Email)
	return c.JSON(envelope(codeOK, "Registration successful, please login", nil))
}

func (h *AuthHandler) Login(c *fiber.Ctx) error {
	var req LoginRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Invalid request body", nil))
	}

	if req.Email == "" || req.Password == "" {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Email and password are required", nil))
	}
	if !domain.ValidEmail(req.Email) {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Parameter email has an invalid format", nil))
	}
	if !domain.ValidPassword(req.Password) {
		return c.Status(http.StatusBadRequest).JSON(envelope(codeInvalid, "Parameter password must be at least 8 characters", nil))
	}

	user, err := h.Users.FindByEmail(c.Context(), req.Email)
	if errors.Is(err, domain.ErrUserNotFound) {
		return c.Status(http.StatusUnauthorized).JSON(envelope(codeBadCredentials, "Wrong username or password", nil))
	}
	if err != nil {
		slog.Error("Failed to load user for login", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	if !security.CheckPassword(req.Password, user.PasswordHash) {
		return c.Status(http.StatusUnauthorized).JSON(envelope(codeBadCredentials, "Wrong username or password", nil))
	}

	token, err := security.GenerateToken(h.JWTSecret, user.Email)
	if err != nil {
		slog.Error("Failed to sign session token", "error", err)
		return c.Status(http.StatusInternalServerError).JSON(envelope(codeServerError, "Internal server error", nil))
	}

	return c.JSON(envelope(codeOK, "Login successful", fiber.Map{"token": token}))
}

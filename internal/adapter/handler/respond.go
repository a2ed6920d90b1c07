package handler

import "github.com/gofiber/fiber/v2"

// Client status codes, part of the wire contract: 0 success, 102
// validation failure, 103 bad credentials, 108 invalid or expired
// token, 500 server error.
const (
	codeOK             = 0
	codeInvalid        = 102
	codeBadCredentials = 103
	codeBadToken       = 108
	codeServerError    = 500
)

func envelope(code int, message string, data any) fiber.Map {
	return fiber.Map{
		"status":  code,
		"message": message,
		"data":    data,
	}
}

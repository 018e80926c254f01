package handler

import (
	"go-stock-api/internal/service"

	"github.com/gofiber/fiber/v2"
)

type UserHandler struct {
	userService service.UserService
}

func NewUserHandler(userService service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

// GET /api/v1/users
func (h *UserHandler) GetUsers(c *fiber.Ctx) error {
	users, err := h.userService.GetAllUsers()
	if err != nil {
		return respondError(c, err)
	}
	return c.JSON(users)
}

// PUT /api/v1/users/:username
func (h *UserHandler) UpdateUser(c *fiber.Ctx) error {
	username := paramName(c, "username")

	var req service.UpdateUserRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(400).JSON(fiber.Map{"error": "Invalid JSON"})
	}

	user, err := h.userService.UpdateUser(username, &req)
	if err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User updated", "data": user})
}

// DELETE /api/v1/users/:username
func (h *UserHandler) DeleteUser(c *fiber.Ctx) error {
	username := paramName(c, "username")

	if err := h.userService.DeleteUser(username); err != nil {
		return respondError(c, err)
	}

	return c.JSON(fiber.Map{"message": "User removed"})
}

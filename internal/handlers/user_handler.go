package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/dto"
	"github.com/yuanbopang/subscription-manager/internal/services"
)

type UserHandler struct {
	users *services.UserService
}

func NewUserHandler(users *services.UserService) *UserHandler {
	return &UserHandler{users: users}
}

func (h *UserHandler) Profile(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	return c.JSON(dto.UserProfileResponse{
		ID:          user.ID,
		Auth0UserID: user.Auth0UserID,
		Email:       user.Email,
		Name:        user.Name,
		Picture:     user.Picture,
		Nickname:    user.Nickname,
		LastLogin:   user.LastLogin,
		CreatedAt:   user.CreatedAt,
		UpdatedAt:   user.UpdatedAt,
	})
}

func (h *UserHandler) DeleteAccount(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	if err := h.users.Delete(user.ID); err != nil {
		return internalError(c, "Failed to delete account")
	}

	return c.JSON(fiber.Map{"message": "Account deleted successfully"})
}

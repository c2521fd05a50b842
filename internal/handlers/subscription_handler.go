package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/dto"
	"github.com/yuanbopang/subscription-manager/internal/models"
	"github.com/yuanbopang/subscription-manager/internal/services"
)

type SubscriptionHandler struct {
	subscriptions *services.SubscriptionService
}

func NewSubscriptionHandler(subscriptions *services.SubscriptionService) *SubscriptionHandler {
	return &SubscriptionHandler{subscriptions: subscriptions}
}

func (h *SubscriptionHandler) List(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}

	subs, err := h.subscriptions.List(user.ID)
	if err != nil {
		return internalError(c, "Failed to load subscriptions")
	}

	resp := make([]dto.SubscriptionResponse, 0, len(subs))
	for i := range subs {
		resp = append(resp, toSubscriptionResponse(&subs[i]))
	}
	return c.JSON(resp)
}

func (h *SubscriptionHandler) Get(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid subscription id",
		})
	}

	sub, err := h.subscriptions.Get(user.ID, id)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to load subscription")
	}

	return c.JSON(toSubscriptionResponse(sub))
}

func (h *SubscriptionHandler) Create(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.CreateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	sub, err := h.subscriptions.Create(user.ID, req)
	if err != nil {
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: verr.Error(),
			})
		}
		if errors.Is(err, services.ErrMissingService) {
			return c.Status(fiber.StatusUnprocessableEntity).JSON(dto.ErrorResponse{
				Error: true, Message: err.Error(),
			})
		}
		return internalError(c, "Failed to create subscription")
	}

	return c.Status(fiber.StatusCreated).JSON(toSubscriptionResponse(sub))
}

func (h *SubscriptionHandler) Update(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid subscription id",
		})
	}
	var req dto.UpdateSubscriptionRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}

	sub, err := h.subscriptions.Update(user.ID, id, req)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		var verr *services.ValidationError
		if errors.As(err, &verr) {
			return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
				Error: true, Message: verr.Error(),
			})
		}
		return internalError(c, "Failed to update subscription")
	}

	return c.JSON(toSubscriptionResponse(sub))
}

func (h *SubscriptionHandler) Delete(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	id, err := uuid.Parse(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid subscription id",
		})
	}

	if err := h.subscriptions.Delete(user.ID, id); err != nil {
		if errors.Is(err, services.ErrNotFound) {
			return notFound(c)
		}
		return internalError(c, "Failed to delete subscription")
	}

	return c.JSON(fiber.Map{"message": "Subscription deleted successfully"})
}

func toSubscriptionResponse(sub *models.Subscription) dto.SubscriptionResponse {
	resp := dto.SubscriptionResponse{
		ID:                sub.ID,
		ServiceID:         sub.ServiceID,
		Account:           sub.Account,
		PaymentDate:       sub.PaymentDate,
		Cost:              sub.Cost,
		BillingCycle:      sub.BillingCycle,
		MonthlyCost:       sub.MonthlyCost,
		IsTrial:           sub.IsTrial,
		TrialStartDate:    sub.TrialStartDate,
		TrialEndDate:      sub.TrialEndDate,
		TrialDurationDays: sub.TrialDurationDays,
		AutoPay:           sub.AutoPay,
		CreatedAt:         sub.CreatedAt,
		UpdatedAt:         sub.UpdatedAt,
	}
	if sub.Service.ID != uuid.Nil {
		resp.Service = &dto.ServiceResponse{
			ID:            sub.Service.ID,
			Name:          sub.Service.Name,
			IconURL:       sub.Service.IconURL,
			IconSourceURL: sub.Service.IconSourceURL,
			Category:      sub.Service.Category,
		}
	}
	return resp
}

func unauthorized(c *fiber.Ctx) error {
	return c.Status(fiber.StatusUnauthorized).JSON(dto.ErrorResponse{
		Error: true, Message: "Unauthorized",
	})
}

func notFound(c *fiber.Ctx) error {
	return c.Status(fiber.StatusNotFound).JSON(dto.ErrorResponse{
		Error: true, Message: services.ErrNotFound.Error(),
	})
}

func internalError(c *fiber.Ctx, msg string) error {
	return c.Status(fiber.StatusInternalServerError).JSON(dto.ErrorResponse{
		Error: true, Message: msg,
	})
}

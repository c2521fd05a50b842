package handlers

import (
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/yuanbopang/subscription-manager/internal/auth"
	"github.com/yuanbopang/subscription-manager/internal/dto"
	"github.com/yuanbopang/subscription-manager/internal/services"
)

type IngestHandler struct {
	ingest *services.IngestService
}

func NewIngestHandler(ingest *services.IngestService) *IngestHandler {
	return &IngestHandler{ingest: ingest}
}

// Create parses free-form text (optionally with a screenshot) into a
// subscription. Extraction failures come back as success=false in the
// envelope, not as HTTP errors, so clients can re-prompt the user.
func (h *IngestHandler) Create(c *fiber.Ctx) error {
	user, err := auth.CurrentUser(c)
	if err != nil {
		return unauthorized(c)
	}
	var req dto.IngestRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Invalid request body",
		})
	}
	if strings.TrimSpace(req.Text) == "" && req.ImageData == "" {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{
			Error: true, Message: "Text or image data is required",
		})
	}

	result, err := h.ingest.FromText(c.UserContext(), user.ID, req.Text, req.ImageData)
	if err != nil {
		return internalError(c, "Failed to create subscription")
	}

	if result.Failure != "" {
		return c.JSON(dto.IngestResponse{
			Success:    false,
			Message:    result.Failure,
			ParsedData: result.Draft,
		})
	}

	sub := toSubscriptionResponse(result.Subscription)
	return c.Status(fiber.StatusCreated).JSON(dto.IngestResponse{
		Success:      true,
		Message:      "Subscription created successfully",
		Subscription: &sub,
		ParsedData:   result.Draft,
	})
}

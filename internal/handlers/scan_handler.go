package handlers

import (
	"context"
	"errors"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/trabalhosites01-debug/FitBoostBack/internal/services"
)

type scanApplicationService interface {
	Create(mode string) (*services.ScanState, error)
	Acquire(id, slot, payload string) (*services.ScanState, error)
	AcquireFile(id, slot string, header *multipart.FileHeader) (*services.ScanState, error)
	Release(id, slot string)
	Get(id string) (*services.ScanState, error)
	Close(id string)
	Analyze(ctx context.Context, id string) (*services.AIResponse, error)
}

type ScanHandler struct {
	service scanApplicationService
}

func NewScanHandler(service scanApplicationService) *ScanHandler {
	return &ScanHandler{service: service}
}

type createScanRequest struct {
	Mode string `json:"mode"`
}

type uploadImageRequest struct {
	Slot  string `json:"slot"`
	Image string `json:"image"`
}

func (h *ScanHandler) CreateScan(c *fiber.Ctx) error {
	var req createScanRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	state, err := h.service.Create(req.Mode)
	if err != nil {
		return mapScanError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(fiber.Map{"scan": state})
}

func (h *ScanHandler) GetScan(c *fiber.Ctx) error {
	state, err := h.service.Get(c.Params("id"))
	if err != nil {
		return mapScanError(c, err)
	}
	return c.JSON(fiber.Map{"scan": state})
}

// UploadImage accepts either a multipart file upload (field "image", slot in
// field "slot") or a JSON body carrying an already-encoded payload.
func (h *ScanHandler) UploadImage(c *fiber.Ctx) error {
	id := c.Params("id")

	if header, err := c.FormFile("image"); err == nil {
		slot := c.FormValue("slot", services.SlotImage)
		state, err := h.service.AcquireFile(id, slot, header)
		if err != nil {
			return mapScanError(c, err)
		}
		return c.JSON(fiber.Map{"scan": state})
	}

	var req uploadImageRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if req.Slot == "" {
		req.Slot = services.SlotImage
	}

	state, err := h.service.Acquire(id, req.Slot, req.Image)
	if err != nil {
		return mapScanError(c, err)
	}
	return c.JSON(fiber.Map{"scan": state})
}

func (h *ScanHandler) DeleteImage(c *fiber.Ctx) error {
	h.service.Release(c.Params("id"), c.Params("slot"))
	state, err := h.service.Get(c.Params("id"))
	if err != nil {
		return mapScanError(c, err)
	}
	return c.JSON(fiber.Map{"scan": state})
}

func (h *ScanHandler) Analyze(c *fiber.Ctx) error {
	result, err := h.service.Analyze(c.Context(), c.Params("id"))
	if err != nil {
		return mapScanError(c, err)
	}
	return c.JSON(fiber.Map{"result": result})
}

func (h *ScanHandler) DeleteScan(c *fiber.Ctx) error {
	h.service.Close(c.Params("id"))
	return c.JSON(fiber.Map{"message": "Scan released"})
}

func mapScanError(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, services.ErrNotFound):
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Scan not found"})
	case errors.Is(err, services.ErrInvalidInput):
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid scan request"})
	default:
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Scan operation failed"})
	}
}

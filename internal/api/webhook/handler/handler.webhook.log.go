package webhookhdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"

	basehdl "meta_chat/internal/api/base/handler"
	webhookdto "meta_chat/internal/api/webhook/dto"
	webhookmodels "meta_chat/internal/api/webhook/models"
	webhooksvc "meta_chat/internal/api/webhook/service"
)

// WebhookLogHandler xử lý các route CRUD cho webhook log
type WebhookLogHandler struct {
	*basehdl.BaseHandler[webhookmodels.WebhookLog, webhookdto.WebhookLogCreateInput, webhookdto.WebhookLogUpdateInput]
	WebhookLogService *webhooksvc.WebhookLogService
}

// NewWebhookLogHandler tạo mới WebhookLogHandler
func NewWebhookLogHandler() (*WebhookLogHandler, error) {
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %w", err)
	}

	return &WebhookLogHandler{
		BaseHandler:       basehdl.NewBaseHandler[webhookmodels.WebhookLog, webhookdto.WebhookLogCreateInput, webhookdto.WebhookLogUpdateInput](webhookLogService.BaseServiceMongoImpl),
		WebhookLogService: webhookLogService,
	}, nil
}

// HandleFindRecentBySource liệt kê webhook log mới nhất, lọc theo nguồn qua
// tham số ?source=, phân trang bằng ?page= và ?limit=
func (h *WebhookLogHandler) HandleFindRecentBySource(c fiber.Ctx) error {
	page, limit := h.ParsePagination(c)
	result, err := h.WebhookLogService.FindRecentBySource(context.Background(), c.Query("source"), page, limit)
	h.HandleResponse(c, result, err)
	return nil
}

// WebhookDeadLetterHandler xử lý các route CRUD cho dead-letter
type WebhookDeadLetterHandler struct {
	*basehdl.BaseHandler[webhookmodels.WebhookDeadLetter, webhookdto.WebhookLogCreateInput, webhookdto.WebhookDeadLetterUpdateInput]
}

// NewWebhookDeadLetterHandler tạo mới WebhookDeadLetterHandler
func NewWebhookDeadLetterHandler() (*WebhookDeadLetterHandler, error) {
	deadLetterService, err := webhooksvc.NewWebhookDeadLetterService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook dead letter service: %w", err)
	}

	return &WebhookDeadLetterHandler{
		BaseHandler: basehdl.NewBaseHandler[webhookmodels.WebhookDeadLetter, webhookdto.WebhookLogCreateInput, webhookdto.WebhookDeadLetterUpdateInput](deadLetterService.BaseServiceMongoImpl),
	}, nil
}

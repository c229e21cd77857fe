// Package webhookhdl - handler webhook từ messaging gateway (message inbound, trạng thái giao nhận).
package webhookhdl

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"

	"meta_chat/config"
	basehdl "meta_chat/internal/api/base/handler"
	webhookdto "meta_chat/internal/api/webhook/dto"
	webhookmodels "meta_chat/internal/api/webhook/models"
	webhooksvc "meta_chat/internal/api/webhook/service"
	"meta_chat/internal/common"
	"meta_chat/internal/logger"
	"meta_chat/internal/realtime"
)

// GatewayWebhookHandler xử lý các webhook từ messaging gateway
type GatewayWebhookHandler struct {
	webhookLogService *webhooksvc.WebhookLogService
	deadLetterService *webhooksvc.WebhookDeadLetterService
	pipeline          *webhooksvc.WebhookPipeline
	cfg               *config.Configuration
}

// NewGatewayWebhookHandler tạo mới GatewayWebhookHandler
func NewGatewayWebhookHandler(hub *realtime.Hub, cfg *config.Configuration) (*GatewayWebhookHandler, error) {
	webhookLogService, err := webhooksvc.NewWebhookLogService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook log service: %v", err)
	}
	deadLetterService, err := webhooksvc.NewWebhookDeadLetterService()
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook dead letter service: %v", err)
	}
	pipeline, err := webhooksvc.NewWebhookPipeline(hub)
	if err != nil {
		return nil, fmt.Errorf("failed to create webhook pipeline: %v", err)
	}
	return &GatewayWebhookHandler{
		webhookLogService: webhookLogService,
		deadLetterService: deadLetterService,
		pipeline:          pipeline,
		cfg:               cfg,
	}, nil
}

// HandleGatewayWebhook xử lý webhook từ gateway. Luôn trả về 200 bất kể kết
// quả xử lý: gateway chỉ cần biết đã nhận, mọi thất bại transient được ghi
// vào dead-letter để worker retry, payload hỏng chỉ lưu log rồi bỏ qua.
func (h *GatewayWebhookHandler) HandleGatewayWebhook(c fiber.Ctx) error {
	return basehdl.SafeHandlerWrapper(c, func() error {
		log := logger.GetAppLogger()
		rawBody := string(c.Body())
		ctx := context.Background()

		var req webhookdto.GatewayWebhookRequest
		parseErr := c.Bind().Body(&req)

		webhookLog, logErr := h.saveWebhookLog(ctx, c, "gateway", req, rawBody, parseErr)
		if logErr != nil {
			log.WithError(logErr).Warn("🔔 [GATEWAY WEBHOOK] Không thể lưu webhook log")
		}

		if parseErr != nil {
			if webhookLog != nil {
				_ = h.webhookLogService.UpdateState(ctx, webhookLog.ID,
					webhookmodels.WebhookStateRejectedMalformed, false, fmt.Sprintf("Parse error: %v", parseErr))
			}
			return h.acknowledge(c)
		}

		outcome := h.pipeline.Process(ctx, &req)

		if webhookLog != nil {
			state := outcome.State
			errorMsg := ""
			if outcome.Err == nil {
				state = webhookmodels.WebhookStateAcknowledged
			} else {
				errorMsg = outcome.Err.Error()
			}
			_ = h.webhookLogService.UpdateState(ctx, webhookLog.ID, state, outcome.Err == nil, errorMsg)
		}

		if outcome.Err != nil {
			log.WithError(outcome.Err).WithFields(map[string]interface{}{
				"eventType": req.EventType,
				"eventId":   req.EventId,
				"failStage": outcome.State,
				"permanent": outcome.Permanent,
			}).Error("🔔 [GATEWAY WEBHOOK] Lỗi khi xử lý webhook")

			if !outcome.Permanent {
				h.recordDeadLetter(ctx, &req, rawBody, outcome)
			}
		}

		return h.acknowledge(c)
	})
}

// acknowledge trả về 200 cho gateway
func (h *GatewayWebhookHandler) acknowledge(c fiber.Ctx) error {
	c.Status(common.StatusOK).JSON(fiber.Map{
		"code": common.StatusOK, "message": "Webhook đã được nhận và lưu log", "status": "success",
	})
	return nil
}

// recordDeadLetter ghi dead-letter cho một webhook thất bại transient
func (h *GatewayWebhookHandler) recordDeadLetter(ctx context.Context, req *webhookdto.GatewayWebhookRequest, rawBody string, outcome webhooksvc.PipelineOutcome) {
	log := logger.GetAppLogger()

	payload := make(map[string]interface{})
	if err := json.Unmarshal([]byte(rawBody), &payload); err != nil {
		payload = map[string]interface{}{"raw": rawBody}
	}

	_, created, err := h.deadLetterService.Record(ctx, "gateway", req.EventId, req.EventType,
		payload, outcome.State, outcome.Err.Error(), h.cfg.WebhookRetryIntervalSec)
	if err != nil {
		log.WithError(err).WithField("eventId", req.EventId).
			Error("🔔 [GATEWAY WEBHOOK] Không thể ghi dead-letter")
		return
	}
	if created {
		log.WithFields(map[string]interface{}{
			"eventId":   req.EventId,
			"failStage": outcome.State,
		}).Warn("🔔 [GATEWAY WEBHOOK] Đã ghi dead-letter chờ retry")
	}
}

// saveWebhookLog lưu toàn bộ thông tin request webhook để truy vết
func (h *GatewayWebhookHandler) saveWebhookLog(ctx context.Context, c fiber.Ctx, source string, req webhookdto.GatewayWebhookRequest, rawBody string, parseErr error) (*webhookmodels.WebhookLog, error) {
	now := time.Now().UnixMilli()
	requestHeaders := make(map[string]string)
	c.Request().Header.VisitAll(func(key, value []byte) {
		requestHeaders[string(key)] = string(value)
	})
	requestBody := make(map[string]interface{})
	if parseErr == nil {
		if err := json.Unmarshal([]byte(rawBody), &requestBody); err != nil {
			requestBody = map[string]interface{}{"raw": rawBody}
		}
	} else {
		requestBody = map[string]interface{}{"raw": rawBody, "parseError": parseErr.Error()}
	}
	webhookLog := webhookmodels.WebhookLog{
		Source: source, EventType: req.EventType, EventId: req.EventId,
		RequestHeaders: requestHeaders, RequestBody: requestBody, RawBody: rawBody,
		State:     webhookmodels.WebhookStateReceived,
		Processed: false,
		ProcessError: func() string {
			if parseErr != nil {
				return fmt.Sprintf("Parse error: %v", parseErr)
			}
			return ""
		}(),
		IPAddress: c.IP(), UserAgent: c.Get("User-Agent"), ReceivedAt: now, CreatedAt: now, UpdatedAt: now,
	}
	return h.webhookLogService.CreateWebhookLog(ctx, webhookLog)
}

// Package worker chứa các background worker chạy định kỳ
package worker

import (
	"context"
	"encoding/json"
	"time"

	webhookdto "meta_chat/internal/api/webhook/dto"
	webhooksvc "meta_chat/internal/api/webhook/service"
	"meta_chat/internal/logger"
	"meta_chat/internal/realtime"
)

// WebhookRetryWorker worker retry các webhook dead-letter: đọc các bản ghi
// pending đã đến hạn, chạy lại pipeline xử lý, đánh dấu resolved khi thành
// công hoặc exhausted khi vượt số lần retry tối đa.
type WebhookRetryWorker struct {
	deadLetterService *webhooksvc.WebhookDeadLetterService
	pipeline          *webhooksvc.WebhookPipeline
	interval          time.Duration // Khoảng thời gian giữa các lần quét
	retryIntervalSec  int           // Bước backoff giữa các lượt retry (giây)
	maxRetry          int           // Số lượt retry tối đa cho một dead-letter
}

// NewWebhookRetryWorker tạo mới WebhookRetryWorker.
// Tham số:
//   - hub: hub realtime để pipeline fan-out khi retry thành công
//   - retryIntervalSec: bước backoff giữa các lượt retry (mặc định: 60 giây)
//   - maxRetry: số lượt retry tối đa (mặc định: 5)
func NewWebhookRetryWorker(hub *realtime.Hub, retryIntervalSec int, maxRetry int) (*WebhookRetryWorker, error) {
	deadLetterService, err := webhooksvc.NewWebhookDeadLetterService()
	if err != nil {
		return nil, err
	}
	pipeline, err := webhooksvc.NewWebhookPipeline(hub)
	if err != nil {
		return nil, err
	}
	if retryIntervalSec <= 0 {
		retryIntervalSec = 60
	}
	if maxRetry <= 0 {
		maxRetry = 5
	}
	return &WebhookRetryWorker{
		deadLetterService: deadLetterService,
		pipeline:          pipeline,
		interval:          time.Duration(retryIntervalSec) * time.Second,
		retryIntervalSec:  retryIntervalSec,
		maxRetry:          maxRetry,
	}, nil
}

// Start chạy worker trong vòng lặp: mỗi interval quét các dead-letter đến hạn và chạy lại pipeline.
func (w *WebhookRetryWorker) Start(ctx context.Context) {
	log := logger.GetAppLogger()

	ticker := time.NewTicker(w.interval)
	defer ticker.Stop()

	log.WithFields(map[string]interface{}{
		"interval": w.interval.String(),
		"maxRetry": w.maxRetry,
	}).Info("🔁 [WEBHOOK_RETRY] Starting Webhook Retry Worker...")

	for {
		select {
		case <-ctx.Done():
			log.Info("🔁 [WEBHOOK_RETRY] Webhook Retry Worker stopped")
			return
		case <-ticker.C:
			func() {
				defer func() {
					if r := recover(); r != nil {
						log.WithFields(map[string]interface{}{
							"panic": r,
						}).Error("🔁 [WEBHOOK_RETRY] Panic khi retry dead-letter, sẽ tiếp tục ở lần chạy tiếp theo")
					}
				}()
				w.runBatch(ctx)
			}()
		}
	}
}

// runBatch xử lý một lượt quét dead-letter
func (w *WebhookRetryWorker) runBatch(ctx context.Context) {
	log := logger.GetAppLogger()

	entries, err := w.deadLetterService.FindDue(ctx, time.Now().UnixMilli())
	if err != nil {
		log.WithError(err).Error("🔁 [WEBHOOK_RETRY] Lỗi lấy danh sách dead-letter đến hạn")
		return
	}
	if len(entries) == 0 {
		return
	}

	resolved := 0
	for _, entry := range entries {
		req, err := decodeRequest(entry.Payload)
		if err != nil {
			// Payload không dựng lại được request: coi như thất bại vĩnh viễn
			log.WithError(err).WithField("eventId", entry.EventId).
				Warn("🔁 [WEBHOOK_RETRY] Payload dead-letter không hợp lệ, dừng retry")
			_ = w.deadLetterService.MarkFailedAttempt(ctx, entry, err.Error(), w.retryIntervalSec, 0)
			continue
		}

		outcome := w.pipeline.Process(ctx, req)
		if outcome.Err == nil {
			if err := w.deadLetterService.MarkResolved(ctx, entry.ID); err != nil {
				log.WithError(err).WithField("eventId", entry.EventId).
					Warn("🔁 [WEBHOOK_RETRY] MarkResolved thất bại")
				continue
			}
			resolved++
			continue
		}

		if outcome.Permanent {
			// Lỗi đã thành vĩnh viễn: đóng luôn, không chờ hết lượt retry
			_ = w.deadLetterService.MarkFailedAttempt(ctx, entry, outcome.Err.Error(), w.retryIntervalSec, 0)
			log.WithError(outcome.Err).WithField("eventId", entry.EventId).
				Warn("🔁 [WEBHOOK_RETRY] Payload hỏng vĩnh viễn, chuyển exhausted")
			continue
		}

		if err := w.deadLetterService.MarkFailedAttempt(ctx, entry, outcome.Err.Error(), w.retryIntervalSec, w.maxRetry); err != nil {
			log.WithError(err).WithField("eventId", entry.EventId).
				Warn("🔁 [WEBHOOK_RETRY] MarkFailedAttempt thất bại")
		}
	}

	if resolved > 0 {
		log.WithFields(map[string]interface{}{
			"resolved": resolved,
			"total":    len(entries),
		}).Info("🔁 [WEBHOOK_RETRY] Đã retry thành công dead-letter")
	}
}

// decodeRequest dựng lại GatewayWebhookRequest từ payload gốc đã lưu
func decodeRequest(payload map[string]interface{}) (*webhookdto.GatewayWebhookRequest, error) {
	raw, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	req := &webhookdto.GatewayWebhookRequest{}
	if err := json.Unmarshal(raw, req); err != nil {
		return nil, err
	}
	return req, nil
}

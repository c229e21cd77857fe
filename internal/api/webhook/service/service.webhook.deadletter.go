package webhooksvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basesvc "meta_chat/internal/api/base/service"
	webhookmodels "meta_chat/internal/api/webhook/models"
	"meta_chat/internal/common"
	"meta_chat/internal/global"
)

// deadLetterBatchSize là số dead-letter tối đa mỗi lượt quét của worker
const deadLetterBatchSize = 50

// WebhookDeadLetterService là cấu trúc chứa các phương thức liên quan đến dead-letter
type WebhookDeadLetterService struct {
	*basesvc.BaseServiceMongoImpl[webhookmodels.WebhookDeadLetter]
}

// NewWebhookDeadLetterService tạo mới WebhookDeadLetterService
func NewWebhookDeadLetterService() (*WebhookDeadLetterService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.WebhookDeadLetters)
	if !exist {
		return nil, fmt.Errorf("failed to get webhook_dead_letters collection: %v", common.ErrNotFound)
	}
	return &WebhookDeadLetterService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[webhookmodels.WebhookDeadLetter](coll),
	}, nil
}

// Record ghi nhận một webhook thất bại để retry. Idempotent trên eventId:
// cùng eventId thất bại nhiều lần chỉ có một dead-letter đang pending.
func (s *WebhookDeadLetterService) Record(ctx context.Context, source string, eventId string, eventType string, payload map[string]interface{}, failStage string, failReason string, retryIntervalSec int) (webhookmodels.WebhookDeadLetter, bool, error) {
	now := time.Now().UnixMilli()
	entry := webhookmodels.WebhookDeadLetter{
		Source:      source,
		EventId:     eventId,
		EventType:   eventType,
		Payload:     payload,
		FailStage:   failStage,
		FailReason:  failReason,
		RetryCount:  0,
		NextRetryAt: now + int64(retryIntervalSec)*1000,
		Status:      webhookmodels.DeadLetterStatusPending,
	}
	filter := bson.M{"eventId": eventId, "status": webhookmodels.DeadLetterStatusPending}
	return s.InsertIfAbsent(ctx, filter, entry)
}

// FindDue tìm các dead-letter đang pending đã đến hạn retry
func (s *WebhookDeadLetterService) FindDue(ctx context.Context, now int64) ([]webhookmodels.WebhookDeadLetter, error) {
	filter := bson.M{
		"status":      webhookmodels.DeadLetterStatusPending,
		"nextRetryAt": bson.M{"$lte": now},
	}
	opts := options.Find().
		SetSort(bson.D{{Key: "nextRetryAt", Value: 1}}).
		SetLimit(deadLetterBatchSize)
	return s.Find(ctx, filter, opts)
}

// MarkResolved đánh dấu một dead-letter đã retry thành công
func (s *WebhookDeadLetterService) MarkResolved(ctx context.Context, id primitive.ObjectID) error {
	update := &basesvc.UpdateData{Set: map[string]interface{}{
		"status":    webhookmodels.DeadLetterStatusResolved,
		"updatedAt": time.Now().UnixMilli(),
	}}
	_, err := s.UpdateOne(ctx, bson.M{"_id": id}, update, nil)
	return err
}

// MarkFailedAttempt ghi nhận một lượt retry thất bại: tăng retryCount, lùi
// nextRetryAt theo backoff tuyến tính, chuyển exhausted khi vượt maxRetry.
func (s *WebhookDeadLetterService) MarkFailedAttempt(ctx context.Context, entry webhookmodels.WebhookDeadLetter, failReason string, retryIntervalSec int, maxRetry int) error {
	now := time.Now().UnixMilli()
	newCount := entry.RetryCount + 1

	set := map[string]interface{}{
		"failReason": failReason,
		"updatedAt":  now,
	}
	if newCount >= maxRetry {
		set["status"] = webhookmodels.DeadLetterStatusExhausted
	} else {
		// Backoff tuyến tính theo số lần đã thất bại
		set["nextRetryAt"] = now + int64(retryIntervalSec)*int64(newCount+1)*1000
	}

	update := &basesvc.UpdateData{
		Set: set,
		Inc: map[string]interface{}{"retryCount": 1},
	}
	_, err := s.UpdateOne(ctx, bson.M{"_id": entry.ID}, update, nil)
	return err
}

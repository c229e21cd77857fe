// Package webhooksvc chứa các service cho domain webhook
package webhooksvc

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "meta_chat/internal/api/base/models"
	basesvc "meta_chat/internal/api/base/service"
	webhookmodels "meta_chat/internal/api/webhook/models"
	"meta_chat/internal/common"
	"meta_chat/internal/global"
)

// WebhookLogService là cấu trúc chứa các phương thức liên quan đến webhook log
type WebhookLogService struct {
	*basesvc.BaseServiceMongoImpl[webhookmodels.WebhookLog]
}

// NewWebhookLogService tạo mới WebhookLogService
func NewWebhookLogService() (*WebhookLogService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.WebhookLogs)
	if !exist {
		return nil, fmt.Errorf("failed to get webhook_logs collection: %v", common.ErrNotFound)
	}
	return &WebhookLogService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[webhookmodels.WebhookLog](coll),
	}, nil
}

// CreateWebhookLog lưu một webhook log mới
func (s *WebhookLogService) CreateWebhookLog(ctx context.Context, webhookLog webhookmodels.WebhookLog) (*webhookmodels.WebhookLog, error) {
	created, err := s.InsertOne(ctx, webhookLog)
	if err != nil {
		return nil, err
	}
	return &created, nil
}

// UpdateState cập nhật trạng thái pipeline của một webhook log.
// processed=true khi pipeline chạy hết, errorMsg ghi lại lỗi nếu có.
func (s *WebhookLogService) UpdateState(ctx context.Context, id primitive.ObjectID, state string, processed bool, errorMsg string) error {
	set := map[string]interface{}{
		"state":     state,
		"processed": processed,
		"updatedAt": time.Now().UnixMilli(),
	}
	if processed || errorMsg != "" {
		set["processedAt"] = time.Now().UnixMilli()
	}
	if errorMsg != "" {
		set["processError"] = errorMsg
	}
	update := &basesvc.UpdateData{Set: set}
	_, err := s.UpdateOne(ctx, bson.M{"_id": id}, update, nil)
	return err
}

// FindRecentBySource liệt kê webhook log gần nhất theo nguồn (phục vụ debug)
func (s *WebhookLogService) FindRecentBySource(ctx context.Context, source string, page int64, limit int64) (*basemodels.PaginateResult[webhookmodels.WebhookLog], error) {
	filter := bson.M{}
	if source != "" {
		filter["source"] = source
	}
	opts := options.Find().SetSort(bson.D{{Key: "receivedAt", Value: -1}})
	return s.FindWithPagination(ctx, filter, page, limit, opts)
}

package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "meta_chat/internal/api/base/models"
	basesvc "meta_chat/internal/api/base/service"
	chatmodels "meta_chat/internal/api/chat/models"
	"meta_chat/internal/common"
	"meta_chat/internal/global"
)

// ChatConversationService là cấu trúc chứa các phương thức liên quan đến hội thoại
type ChatConversationService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatConversation]
}

// NewChatConversationService tạo mới ChatConversationService
func NewChatConversationService() (*ChatConversationService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatConversations)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_conversations collection: %v", common.ErrNotFound)
	}
	return &ChatConversationService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatConversation](coll),
	}, nil
}

// resolveUpsertUpdate dựng update document cho upsert tạo hội thoại.
// Toàn bộ field khởi tạo nằm trong $setOnInsert, và KHÔNG chứa updatedAt:
// FindOneAndUpdate của base service luôn ghi updatedAt qua $set, cùng một
// đường dẫn xuất hiện trong hai operator sẽ bị MongoDB từ chối
// (ConflictingUpdateOperators).
func resolveUpsertUpdate(conversationId string, a string, b string, now int64) *basesvc.UpdateData {
	return &basesvc.UpdateData{
		SetOnInsert: map[string]interface{}{
			"conversationId": conversationId,
			"participants":   []string{a, b},
			"status":         chatmodels.ConversationStatusOpen,
			"messageCount":   int64(0),
			"lastMessageAt":  int64(0),
			"createdAt":      now,
		},
	}
}

// Resolve tìm hoặc tạo hội thoại cho một cặp địa chỉ thô.
// Hai địa chỉ được chuẩn hóa, sắp xếp rồi suy ra conversationId; tạo mới bằng
// một FindOneAndUpdate(upsert, $setOnInsert) duy nhất trên unique index
// conversationId nên hai request đồng thời cho cùng cặp luôn hội tụ về
// đúng một document.
func (s *ChatConversationService) Resolve(ctx context.Context, rawA string, rawB string) (chatmodels.ChatConversation, error) {
	var zero chatmodels.ChatConversation

	a, b, err := NormalizePair(rawA, rawB)
	if err != nil {
		return zero, err
	}
	conversationId := BuildConversationId(a, b)

	filter := bson.M{"conversationId": conversationId}
	update := resolveUpsertUpdate(conversationId, a, b, time.Now().UnixMilli())
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)

	conversation, err := s.BaseServiceMongoImpl.FindOneAndUpdate(ctx, filter, update, opts)
	if err != nil {
		// Race hiếm: hai upsert đồng thời, một bên dính duplicate key trên unique index.
		// Document chắc chắn đã tồn tại, đọc lại là đủ.
		if mongo.IsDuplicateKeyError(err) {
			return s.FindOneByConversationId(ctx, conversationId)
		}
		return zero, common.ConvertMongoError(err)
	}
	return conversation, nil
}

// FindOneByConversationId tìm hội thoại theo conversationId
func (s *ChatConversationService) FindOneByConversationId(ctx context.Context, conversationId string) (chatmodels.ChatConversation, error) {
	var zero chatmodels.ChatConversation
	conversation, err := s.FindOne(ctx, bson.M{"conversationId": conversationId}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrConversationNotFound
		}
		return zero, err
	}
	return conversation, nil
}

// appendAggregatesUpdate dựng update document aggregate cho một append mới:
// messageCount tăng bằng $inc, lastMessageAt dùng $max (không phải $set) nên
// message đến trễ với timestamp cũ hơn không kéo lùi thời gian hoạt động.
func appendAggregatesUpdate(timestamp int64, now int64) *basesvc.UpdateData {
	return &basesvc.UpdateData{
		Inc: map[string]interface{}{"messageCount": int64(1)},
		Max: map[string]interface{}{"lastMessageAt": timestamp},
		Set: map[string]interface{}{"updatedAt": now},
	}
}

// UpdateAggregatesOnAppend cập nhật aggregate của hội thoại sau khi append một message MỚI.
// messageCount tăng atomic bằng $inc; lastMessageAt dùng $max nên message đến trễ
// (timestamp cũ hơn) không kéo lùi thời gian hoạt động. Preview chỉ được ghi khi
// timestamp của message vừa append đang là max — tránh preview bị message cũ ghi đè.
// Duplicate append không được gọi hàm này.
func (s *ChatConversationService) UpdateAggregatesOnAppend(ctx context.Context, conversationId string, timestamp int64, preview string) error {
	now := time.Now().UnixMilli()

	// UpdateData marshal trực tiếp thành update document nhờ bson tag ($inc/$max/$set)
	update := appendAggregatesUpdate(timestamp, now)
	_, err := s.Collection().UpdateOne(ctx, bson.M{"conversationId": conversationId}, update)
	if err != nil {
		return common.ConvertMongoError(err)
	}

	// Preview: chỉ ghi khi message này là mới nhất (lastMessageAt đã được $max về đúng timestamp).
	// Filter theo cặp (conversationId, lastMessageAt=timestamp) nên message cũ hơn không match.
	if preview != "" {
		previewFilter := bson.M{"conversationId": conversationId, "lastMessageAt": timestamp}
		previewUpdate := bson.M{"$set": bson.M{"lastMessagePreview": preview, "updatedAt": now}}
		if _, err := s.Collection().UpdateOne(ctx, previewFilter, previewUpdate); err != nil {
			return common.ConvertMongoError(err)
		}
	}
	return nil
}

// Assign gán một agent xử lý hội thoại
func (s *ChatConversationService) Assign(ctx context.Context, conversationId string, agentId string) (chatmodels.ChatConversation, error) {
	var zero chatmodels.ChatConversation
	if agentId == "" {
		return zero, common.ErrRequiredField
	}

	// Đảm bảo hội thoại tồn tại và còn mở trước khi gán
	conversation, err := s.FindOneByConversationId(ctx, conversationId)
	if err != nil {
		return zero, err
	}
	if conversation.Status == chatmodels.ConversationStatusClosed {
		return zero, common.ErrConversationClosed
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"assignedAgent": agentId,
			"updatedAt":     time.Now().UnixMilli(),
		},
	}
	return s.UpdateOne(ctx, bson.M{"conversationId": conversationId}, update, nil)
}

// Close đóng hội thoại (soft close, giữ nguyên message log).
// Đóng một hội thoại đã đóng là no-op.
func (s *ChatConversationService) Close(ctx context.Context, conversationId string) (chatmodels.ChatConversation, error) {
	var zero chatmodels.ChatConversation
	conversation, err := s.FindOneByConversationId(ctx, conversationId)
	if err != nil {
		return zero, err
	}
	if conversation.Status == chatmodels.ConversationStatusClosed {
		return conversation, nil
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status":    chatmodels.ConversationStatusClosed,
			"updatedAt": time.Now().UnixMilli(),
		},
	}
	return s.UpdateOne(ctx, bson.M{"conversationId": conversationId}, update, nil)
}

// FindAllSortByActivity tìm hội thoại với phân trang, sắp xếp theo lastMessageAt giảm dần.
// Dùng cho inbox của agent: hội thoại có hoạt động mới nhất lên đầu.
func (s *ChatConversationService) FindAllSortByActivity(ctx context.Context, page int64, limit int64, filter bson.M) (*basemodels.PaginateResult[chatmodels.ChatConversation], error) {
	opts := options.Find().SetSort(bson.D{{Key: "lastMessageAt", Value: -1}})
	return s.BaseServiceMongoImpl.FindWithPagination(ctx, filter, page, limit, opts)
}

// IsConversationIdExist kiểm tra conversationId có tồn tại hay không
func (s *ChatConversationService) IsConversationIdExist(ctx context.Context, conversationId string) (bool, error) {
	filter := bson.M{"conversationId": conversationId}
	var conversation chatmodels.ChatConversation
	err := s.Collection().FindOne(ctx, filter).Decode(&conversation)
	if err != nil {
		if err == mongo.ErrNoDocuments {
			return false, nil
		}
		return false, err
	}
	return true, nil
}

package chatsvc

import (
	"context"
	"errors"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"

	basemodels "meta_chat/internal/api/base/models"
	basesvc "meta_chat/internal/api/base/service"
	chatmodels "meta_chat/internal/api/chat/models"
	"meta_chat/internal/common"
	"meta_chat/internal/global"
	"meta_chat/internal/logger"
)

// MessageListFilter là điều kiện lọc tùy chọn khi liệt kê message log
type MessageListFilter struct {
	Direction     string // inbound | outbound, rỗng = tất cả
	Status        string // pending | sent | delivered | read | failed | received, rỗng = tất cả
	Type          string // text | media | location | sticker | system, rỗng = tất cả
	FromTimestamp int64  // Lọc timestamp >= (0 = bỏ qua)
	ToTimestamp   int64  // Lọc timestamp <= (0 = bỏ qua)
	IncludeDeleted bool  // Mặc định loại message đã xóa mềm
}

// maxMessagePageSize là giới hạn trên của limit khi liệt kê message
const maxMessagePageSize = 100

// messagePreviewLength là độ dài tối đa của preview ghi vào conversation
const messagePreviewLength = 120

// ChatMessageService là cấu trúc chứa các phương thức liên quan đến message log
type ChatMessageService struct {
	*basesvc.BaseServiceMongoImpl[chatmodels.ChatMessage]
	conversationService *ChatConversationService
}

// NewChatMessageService tạo mới ChatMessageService
func NewChatMessageService() (*ChatMessageService, error) {
	coll, exist := global.RegistryCollections.Get(global.MongoDB_ColNames.ChatMessages)
	if !exist {
		return nil, fmt.Errorf("failed to get chat_messages collection: %v", common.ErrNotFound)
	}
	conversationService, err := NewChatConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_conversation service: %v", err)
	}
	return &ChatMessageService{
		BaseServiceMongoImpl: basesvc.NewBaseServiceMongo[chatmodels.ChatMessage](coll),
		conversationService:  conversationService,
	}, nil
}

// ValidateMessage kiểm tra và hoàn thiện một message trước khi append.
// Quy tắc: phải có content hoặc mediaUrl (trừ type location/system); direction,
// type, status phải thuộc enum; location bắt buộc có tọa độ; type được suy ra
// là media khi chỉ có mediaUrl mà không khai báo type.
func ValidateMessage(msg *chatmodels.ChatMessage) error {
	if msg.MessageId == "" {
		return common.NewError(common.ErrCodeBusinessMessage, "Message phải có messageId", common.StatusBadRequest, nil)
	}

	switch msg.Direction {
	case chatmodels.MessageDirectionInbound, chatmodels.MessageDirectionOutbound:
	default:
		return common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Direction '%s' không hợp lệ", msg.Direction), common.StatusBadRequest, nil)
	}

	// Suy ra type khi không khai báo
	if msg.Type == "" {
		if msg.MediaUrl != "" && msg.Content == "" {
			msg.Type = chatmodels.MessageTypeMedia
		} else {
			msg.Type = chatmodels.MessageTypeText
		}
	}

	switch msg.Type {
	case chatmodels.MessageTypeText, chatmodels.MessageTypeMedia, chatmodels.MessageTypeSticker:
		if msg.Content == "" && msg.MediaUrl == "" {
			return common.ErrEmptyMessageBody
		}
	case chatmodels.MessageTypeLocation:
		if msg.Location == nil {
			return common.NewError(common.ErrCodeValidationInput,
				"Message loại location phải có tọa độ", common.StatusBadRequest, nil)
		}
	case chatmodels.MessageTypeSystem:
		if msg.Content == "" {
			return common.ErrEmptyMessageBody
		}
	default:
		return common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Loại message '%s' không hợp lệ", msg.Type), common.StatusBadRequest, nil)
	}

	switch msg.Status {
	case chatmodels.MessageStatusPending, chatmodels.MessageStatusSent, chatmodels.MessageStatusDelivered,
		chatmodels.MessageStatusRead, chatmodels.MessageStatusFailed, chatmodels.MessageStatusReceived:
	default:
		return common.NewError(common.ErrCodeValidationInput,
			fmt.Sprintf("Trạng thái message '%s' không hợp lệ", msg.Status), common.StatusBadRequest, nil)
	}

	if msg.Timestamp <= 0 {
		msg.Timestamp = time.Now().UnixMilli()
	}
	return nil
}

// IsValidationError cho biết một lỗi có thuộc nhóm lỗi xác thực dữ liệu hay không
func IsValidationError(err error) bool {
	var customErr *common.Error
	if errors.As(err, &customErr) {
		return customErr.Code.Category == "Validation"
	}
	return false
}

// BuildPreview cắt nội dung message thành preview ngắn cho conversation
func BuildPreview(msg *chatmodels.ChatMessage) string {
	preview := msg.Content
	if preview == "" && msg.MediaUrl != "" {
		preview = "[media]"
	}
	if preview == "" && msg.Type == chatmodels.MessageTypeLocation {
		preview = "[location]"
	}
	runes := []rune(preview)
	if len(runes) > messagePreviewLength {
		preview = string(runes[:messagePreviewLength])
	}
	return preview
}

// Append ghi một message vào log một cách idempotent trên cặp (conversationId, messageId).
// Append trùng messageId là no-op tuyệt đối: trả về document đã tồn tại, không merge
// field, không đụng tới aggregate, không fan-out (created=false để caller biết).
// Chỉ khi message thực sự mới: messageCount/lastMessageAt/preview của hội thoại
// được cập nhật atomic.
func (s *ChatMessageService) Append(ctx context.Context, conversationId string, msg chatmodels.ChatMessage) (chatmodels.ChatMessage, bool, error) {
	var zero chatmodels.ChatMessage

	// Hội thoại phải tồn tại trước khi append
	if _, err := s.conversationService.FindOneByConversationId(ctx, conversationId); err != nil {
		return zero, false, err
	}

	msg.ConversationId = conversationId
	if err := ValidateMessage(&msg); err != nil {
		return zero, false, err
	}

	filter := bson.M{"conversationId": conversationId, "messageId": msg.MessageId}
	saved, created, err := s.InsertIfAbsent(ctx, filter, msg)
	if err != nil {
		return zero, false, err
	}

	if created {
		if aggErr := s.conversationService.UpdateAggregatesOnAppend(ctx, conversationId, msg.Timestamp, BuildPreview(&msg)); aggErr != nil {
			// Message đã bền vững; aggregate lệch sẽ tự hội tụ ở lần append sau. Chỉ log.
			logger.GetErrorLogger().WithError(aggErr).
				WithField("conversationId", conversationId).
				Error("💬 [CHAT] Không thể cập nhật aggregate hội thoại sau khi append")
		}
	}

	return saved, created, nil
}

// List liệt kê message của một hội thoại theo thứ tự chính tắc (timestamp tăng dần,
// _id tăng dần để phá hòa). Phân trang bằng con trỏ vị trí nên trang kế tiếp ổn định
// kể cả khi có message mới append đồng thời. limit bị chặn trên 100.
func (s *ChatMessageService) List(ctx context.Context, conversationId string, filter MessageListFilter, cursorToken string, limit int64) (*basemodels.CursorResult[chatmodels.ChatMessage], error) {
	if limit <= 0 {
		limit = 50
	}
	if limit > maxMessagePageSize {
		limit = maxMessagePageSize
	}

	query, err := buildListQuery(conversationId, filter, cursorToken)
	if err != nil {
		return nil, err
	}

	// Lấy limit+1 để biết còn trang sau hay không mà không cần count
	items, err := s.findPage(ctx, query, limit+1)
	if err != nil {
		return nil, err
	}

	result := &basemodels.CursorResult[chatmodels.ChatMessage]{}
	if int64(len(items)) > limit {
		items = items[:limit]
		last := items[len(items)-1]
		result.NextCursor = EncodeCursor(last.Timestamp, last.ID)
		result.HasMore = true
	}
	result.Items = items
	result.ItemCount = int64(len(items))
	return result, nil
}

// buildListQuery dựng query document liệt kê message: lọc theo hội thoại,
// chiều, trạng thái, loại, khoảng thời gian; loại message đã xóa mềm trừ khi
// IncludeDeleted. Cursor dịch thành điều kiện vị trí "sau (timestamp, _id)"
// — $gt trên cặp sort key, không phải offset — nên message append sau khi
// lấy trang trước không làm trang kế tiếp lặp hay bỏ sót phần tử.
func buildListQuery(conversationId string, filter MessageListFilter, cursorToken string) (bson.M, error) {
	query := bson.M{"conversationId": conversationId}
	if !filter.IncludeDeleted {
		query["deleted"] = bson.M{"$ne": true}
	}
	if filter.Direction != "" {
		query["direction"] = filter.Direction
	}
	if filter.Status != "" {
		query["status"] = filter.Status
	}
	if filter.Type != "" {
		query["type"] = filter.Type
	}
	timeRange := bson.M{}
	if filter.FromTimestamp > 0 {
		timeRange["$gte"] = filter.FromTimestamp
	}
	if filter.ToTimestamp > 0 {
		timeRange["$lte"] = filter.ToTimestamp
	}
	if len(timeRange) > 0 {
		query["timestamp"] = timeRange
	}

	// Con trỏ: vị trí (timestamp, _id) của phần tử cuối trang trước
	if cursorToken != "" {
		ts, id, err := DecodeCursor(cursorToken)
		if err != nil {
			return nil, err
		}
		query["$or"] = []bson.M{
			{"timestamp": bson.M{"$gt": ts}},
			{"timestamp": ts, "_id": bson.M{"$gt": id}},
		}
	}
	return query, nil
}

// findPage chạy truy vấn trang với sort chính tắc (timestamp asc, _id asc)
func (s *ChatMessageService) findPage(ctx context.Context, query bson.M, limit int64) ([]chatmodels.ChatMessage, error) {
	opts := options.Find().
		SetSort(bson.D{{Key: "timestamp", Value: 1}, {Key: "_id", Value: 1}}).
		SetLimit(limit)
	cursor, err := s.Collection().Find(ctx, query, opts)
	if err != nil {
		return nil, common.ConvertMongoError(err)
	}
	defer cursor.Close(ctx)
	results := make([]chatmodels.ChatMessage, 0, limit)
	if err = cursor.All(ctx, &results); err != nil {
		return nil, common.ConvertMongoError(err)
	}
	return results, nil
}

// FindOneByMessageId tìm một message theo cặp (conversationId, messageId)
func (s *ChatMessageService) FindOneByMessageId(ctx context.Context, conversationId string, messageId string) (chatmodels.ChatMessage, error) {
	var zero chatmodels.ChatMessage
	msg, err := s.FindOne(ctx, bson.M{"conversationId": conversationId, "messageId": messageId}, nil)
	if err != nil {
		if errors.Is(err, common.ErrNotFound) {
			return zero, common.ErrMessageNotFound
		}
		return zero, err
	}
	return msg, nil
}

// MarkRead đánh dấu một message đã đọc, ghi kèm read receipt (ai đọc, lúc nào).
// Đánh dấu lại một message đã đọc là no-op.
func (s *ChatMessageService) MarkRead(ctx context.Context, conversationId string, messageId string, readerId string) (chatmodels.ChatMessage, error) {
	msg, err := s.FindOneByMessageId(ctx, conversationId, messageId)
	if err != nil {
		return msg, err
	}
	if msg.Status == chatmodels.MessageStatusRead {
		return msg, nil
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"status": chatmodels.MessageStatusRead,
			"readAt": time.Now().UnixMilli(),
			"readBy": readerId,
		},
	}
	return s.UpdateOne(ctx, bson.M{"conversationId": conversationId, "messageId": messageId}, update, nil)
}

// SoftDelete xóa mềm một message: chỉ gắn cờ kèm định danh người xóa,
// không bao giờ xóa vật lý. Message đã xóa bị loại khỏi List mặc định.
func (s *ChatMessageService) SoftDelete(ctx context.Context, conversationId string, messageId string, deleterId string) (chatmodels.ChatMessage, error) {
	msg, err := s.FindOneByMessageId(ctx, conversationId, messageId)
	if err != nil {
		return msg, err
	}
	if msg.Deleted {
		return msg, nil
	}

	update := &basesvc.UpdateData{
		Set: map[string]interface{}{
			"deleted":   true,
			"deletedAt": time.Now().UnixMilli(),
			"deletedBy": deleterId,
		},
	}
	return s.UpdateOne(ctx, bson.M{"conversationId": conversationId, "messageId": messageId}, update, nil)
}

// UpdateSendStatus cập nhật trạng thái gửi của một message outbound sau khi gọi gateway
func (s *ChatMessageService) UpdateSendStatus(ctx context.Context, conversationId string, messageId string, status string, gatewayMessageId string) (chatmodels.ChatMessage, error) {
	set := map[string]interface{}{"status": status}
	if gatewayMessageId != "" {
		set["gatewayMessageId"] = gatewayMessageId
	}
	update := &basesvc.UpdateData{Set: set}
	return s.UpdateOne(ctx, bson.M{"conversationId": conversationId, "messageId": messageId}, update, nil)
}

// CountByConversationId đếm số message của một hội thoại (không tính đã xóa mềm)
func (s *ChatMessageService) CountByConversationId(ctx context.Context, conversationId string) (int64, error) {
	return s.CountDocuments(ctx, bson.M{"conversationId": conversationId, "deleted": bson.M{"$ne": true}})
}

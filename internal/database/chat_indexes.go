// Package database - Index cho hệ thống chat (unique, compound) không thể định nghĩa qua model tags.
package database

import (
	"context"
	"strings"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"meta_chat/internal/global"
)

// CreateChatIndexes tạo các index cho các collection chat.
// Gọi một lần khi khởi động server, sau khi đăng ký collections.
func CreateChatIndexes(ctx context.Context, db *mongo.Database) error {
	// chat_conversations: conversationId unique — định danh suy ra từ cặp địa chỉ
	conversations := db.Collection(global.MongoDB_ColNames.ChatConversations)
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversationId", Value: 1},
		},
		Options: options.Index().SetName("chat_conversation_id_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_conversations: (status, lastMessageAt desc) — inbox sắp xếp theo hoạt động mới nhất
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "lastMessageAt", Value: -1},
		},
		Options: options.Index().SetName("chat_conversation_status_activity"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_conversations: participants multikey — tìm hội thoại theo địa chỉ tham gia
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "participants", Value: 1},
		},
		Options: options.Index().SetName("chat_conversation_participants"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_conversations: assignedAgent sparse — inbox theo người phụ trách
	if _, err := conversations.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "assignedAgent", Value: 1},
		},
		Options: options.Index().SetName("chat_conversation_assigned").SetSparse(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_messages: (conversationId, messageId) unique — chốt idempotency cho append
	messages := db.Collection(global.MongoDB_ColNames.ChatMessages)
	if _, err := messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversationId", Value: 1},
			{Key: "messageId", Value: 1},
		},
		Options: options.Index().SetName("chat_message_conversation_message_unique").SetUnique(true),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// chat_messages: (conversationId, timestamp, _id) — phân trang cursor theo thời gian
	if _, err := messages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "conversationId", Value: 1},
			{Key: "timestamp", Value: 1},
			{Key: "_id", Value: 1},
		},
		Options: options.Index().SetName("chat_message_conversation_timeline"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// webhook_logs: (source, receivedAt desc) — tra cứu log theo nguồn, mới nhất trước
	webhookLogs := db.Collection(global.MongoDB_ColNames.WebhookLogs)
	if _, err := webhookLogs.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "source", Value: 1},
			{Key: "receivedAt", Value: -1},
		},
		Options: options.Index().SetName("webhook_log_source_received"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	// webhook_dead_letters: (status, nextRetryAt) — worker retry quét theo lịch
	deadLetters := db.Collection(global.MongoDB_ColNames.WebhookDeadLetters)
	if _, err := deadLetters.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{
			{Key: "status", Value: 1},
			{Key: "nextRetryAt", Value: 1},
		},
		Options: options.Index().SetName("webhook_dead_letter_retry_schedule"),
	}); err != nil && !isIndexExistsError(err) {
		return err
	}

	return nil
}

func isIndexExistsError(err error) bool {
	if err == nil {
		return false
	}
	s := err.Error()
	return strings.Contains(s, "already exists") || strings.Contains(s, "duplicate")
}

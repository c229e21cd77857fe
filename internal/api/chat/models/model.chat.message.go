package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Chiều của message
const (
	MessageDirectionInbound  = "inbound"  // Từ khách gửi vào qua gateway
	MessageDirectionOutbound = "outbound" // Agent gửi ra qua gateway
)

// Loại message
const (
	MessageTypeText     = "text"
	MessageTypeMedia    = "media"
	MessageTypeLocation = "location"
	MessageTypeSticker  = "sticker"
	MessageTypeSystem   = "system"
)

// Trạng thái giao nhận của message
const (
	MessageStatusPending   = "pending"   // Outbound: đã ghi log, chưa gửi tới gateway
	MessageStatusSent      = "sent"      // Outbound: gateway đã nhận
	MessageStatusDelivered = "delivered" // Outbound: gateway báo đã giao
	MessageStatusRead      = "read"      // Người nhận đã đọc
	MessageStatusFailed    = "failed"    // Outbound: gửi thất bại
	MessageStatusReceived  = "received"  // Inbound: đã nhận từ gateway
)

// ChatLocation là tọa độ đính kèm message loại location
type ChatLocation struct {
	Latitude  float64 `json:"latitude" bson:"latitude"`                 // Vĩ độ
	Longitude float64 `json:"longitude" bson:"longitude"`               // Kinh độ
	Name      string  `json:"name,omitempty" bson:"name,omitempty"`     // Tên địa điểm (tùy chọn)
	Address   string  `json:"address,omitempty" bson:"address,omitempty"` // Địa chỉ mô tả (tùy chọn)
}

// ChatMessage đại diện cho một message trong collection chat_messages.
// Mỗi message là 1 document riêng để tránh document hội thoại quá lớn.
// Cặp (conversationId, messageId) là unique: append trùng messageId là no-op.
type ChatMessage struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`    // ID của document
	ConversationId string             `json:"conversationId" bson:"conversationId"` // ID hội thoại (nhiều messages cùng conversationId)
	MessageId      string             `json:"messageId" bson:"messageId"`           // ID message từ gateway hoặc idempotency key của agent

	Direction string `json:"direction" bson:"direction"` // inbound | outbound
	Type      string `json:"type" bson:"type"`           // text | media | location | sticker | system
	Status    string `json:"status" bson:"status"`       // pending | sent | delivered | read | failed | received

	SenderAddress    string `json:"senderAddress" bson:"senderAddress"`       // Địa chỉ người gửi (đã chuẩn hóa)
	RecipientAddress string `json:"recipientAddress" bson:"recipientAddress"` // Địa chỉ người nhận (đã chuẩn hóa)

	Content  string                 `json:"content,omitempty" bson:"content,omitempty"`   // Nội dung text
	MediaUrl string                 `json:"mediaUrl,omitempty" bson:"mediaUrl,omitempty"` // URL media đính kèm
	Location *ChatLocation          `json:"location,omitempty" bson:"location,omitempty"` // Tọa độ (bắt buộc khi type=location)
	Metadata map[string]interface{} `json:"metadata,omitempty" bson:"metadata,omitempty"` // Dữ liệu gốc từ gateway (để debug / đối soát)

	Timestamp int64 `json:"timestamp" bson:"timestamp"` // Thời điểm message xảy ra theo gateway (Unix milliseconds)

	// ===== READ RECEIPT =====
	ReadAt int64  `json:"readAt,omitempty" bson:"readAt,omitempty"` // Thời gian đánh dấu đã đọc
	ReadBy string `json:"readBy,omitempty" bson:"readBy,omitempty"` // Ai đánh dấu đã đọc

	// ===== SOFT DELETE =====
	Deleted   bool   `json:"deleted" bson:"deleted"`                         // Đã xóa mềm chưa (không bao giờ xóa vật lý)
	DeletedAt int64  `json:"deletedAt,omitempty" bson:"deletedAt,omitempty"` // Thời gian xóa mềm
	DeletedBy string `json:"deletedBy,omitempty" bson:"deletedBy,omitempty"` // Ai xóa

	// ===== GATEWAY =====
	GatewayMessageId string `json:"gatewayMessageId,omitempty" bson:"gatewayMessageId,omitempty"` // ID phía gateway trả về khi gửi outbound

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo document
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật document
}

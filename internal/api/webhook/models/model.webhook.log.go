// Package models chứa các model MongoDB cho domain webhook
package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái xử lý của một webhook trong pipeline
const (
	WebhookStateReceived             = "received"              // Đã nhận, chưa xử lý
	WebhookStateAddressValidated     = "address_validated"     // Địa chỉ hợp lệ
	WebhookStateConversationResolved = "conversation_resolved" // Đã resolve hội thoại
	WebhookStateMessagePersisted     = "message_persisted"     // Message đã bền vững
	WebhookStateFanOutPublished      = "fanout_published"      // Đã fan-out realtime
	WebhookStateAcknowledged         = "acknowledged"          // Hoàn tất
	WebhookStateRejectedMalformed    = "rejected_malformed"    // Payload hỏng, bỏ qua vĩnh viễn
)

// WebhookLog lưu log của tất cả webhook nhận được để truy vết và debug
type WebhookLog struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của log

	// ===== SOURCE INFO =====
	Source    string `json:"source" bson:"source" index:"single:1"`       // Nguồn webhook: "gateway"
	EventType string `json:"eventType" bson:"eventType" index:"single:1"` // Loại event: message.inbound, message.status, etc.
	EventId   string `json:"eventId,omitempty" bson:"eventId,omitempty" index:"single:1"` // ID sự kiện (trùng messageId với event message)

	// ===== REQUEST INFO =====
	RequestHeaders map[string]string      `json:"requestHeaders,omitempty" bson:"requestHeaders,omitempty"` // Headers của request
	RequestBody    map[string]interface{} `json:"requestBody" bson:"requestBody"`                           // Body của request (toàn bộ payload)
	RawBody        string                 `json:"rawBody,omitempty" bson:"rawBody,omitempty"`               // Raw body string (để debug)

	// ===== PROCESSING INFO =====
	State        string `json:"state" bson:"state" index:"single:1"`                  // Trạng thái pipeline cuối cùng
	Processed    bool   `json:"processed" bson:"processed" index:"single:1"`          // Đã xử lý thành công chưa
	ProcessError string `json:"processError,omitempty" bson:"processError,omitempty"` // Lỗi nếu có trong quá trình xử lý
	ProcessedAt  int64  `json:"processedAt,omitempty" bson:"processedAt,omitempty"`   // Thời gian xử lý

	// ===== METADATA =====
	IPAddress string `json:"ipAddress,omitempty" bson:"ipAddress,omitempty"` // IP address của request
	UserAgent string `json:"userAgent,omitempty" bson:"userAgent,omitempty"` // User agent của request

	// ===== TIMESTAMPS =====
	ReceivedAt int64 `json:"receivedAt" bson:"receivedAt" index:"single:-1"` // Thời gian nhận webhook (Unix timestamp milliseconds)
	CreatedAt  int64 `json:"createdAt" bson:"createdAt"`                     // Thời gian tạo log
	UpdatedAt  int64 `json:"updatedAt" bson:"updatedAt"`                     // Thời gian cập nhật log
}

// Package dto chứa các cấu trúc truyền dữ liệu cho domain webhook
package dto

// GatewayWebhookMessage là phần message trong payload webhook từ gateway
type GatewayWebhookMessage struct {
	Type     string                 `json:"type,omitempty"`     // text | media | location | sticker
	Content  string                 `json:"content,omitempty"`  // Nội dung văn bản
	MediaUrl string                 `json:"mediaUrl,omitempty"` // URL media đính kèm
	Location *GatewayWebhookLocation `json:"location,omitempty"` // Tọa độ với message location
	Metadata map[string]interface{} `json:"metadata,omitempty"` // Metadata tùy ý từ gateway
}

// GatewayWebhookLocation là tọa độ đính kèm message location
type GatewayWebhookLocation struct {
	Latitude  float64 `json:"latitude"`          // Vĩ độ
	Longitude float64 `json:"longitude"`         // Kinh độ
	Name      string  `json:"name,omitempty"`    // Tên địa điểm
	Address   string  `json:"address,omitempty"` // Địa chỉ địa điểm
}

// GatewayWebhookRequest là payload webhook nhận từ messaging gateway.
// EventId trùng với message id phía gateway và là khóa idempotency của
// toàn pipeline: cùng eventId giao nhiều lần chỉ tạo đúng một message.
type GatewayWebhookRequest struct {
	EventId   string                 `json:"eventId"`   // ID sự kiện, trùng message id
	EventType string                 `json:"eventType"` // message.inbound | message.status
	From      string                 `json:"from"`      // Địa chỉ gửi (chưa chuẩn hóa)
	To        string                 `json:"to"`        // Địa chỉ nhận (chưa chuẩn hóa)
	Timestamp int64                  `json:"timestamp"` // Thời điểm gateway nhận message (Unix ms)
	Message   *GatewayWebhookMessage `json:"message,omitempty"` // Nội dung message với event message.inbound
	Status    string                 `json:"status,omitempty"`  // Trạng thái mới với event message.status
	MessageId string                 `json:"messageId,omitempty"` // ID message đích với event message.status
}

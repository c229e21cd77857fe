package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Các trạng thái của một dead-letter
const (
	DeadLetterStatusPending   = "pending"   // Đang chờ retry
	DeadLetterStatusResolved  = "resolved"  // Retry thành công
	DeadLetterStatusExhausted = "exhausted" // Hết lượt retry, cần can thiệp thủ công
)

// WebhookDeadLetter lưu các webhook xử lý thất bại ở bước transient
// (resolve hội thoại, bền vững message) để worker retry lại theo chu kỳ.
// Payload hỏng không vào đây vì retry không thể cứu được.
type WebhookDeadLetter struct {
	ID primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"` // ID của dead-letter

	Source  string `json:"source" bson:"source"`                          // Nguồn webhook: "gateway"
	EventId string `json:"eventId" bson:"eventId" index:"single:1"`       // ID sự kiện gốc (khóa idempotency khi retry)
	EventType string `json:"eventType" bson:"eventType"`                  // Loại event gốc

	Payload map[string]interface{} `json:"payload" bson:"payload"` // Payload gốc để chạy lại pipeline

	FailStage  string `json:"failStage" bson:"failStage"`   // Bước pipeline thất bại
	FailReason string `json:"failReason" bson:"failReason"` // Lỗi lần thất bại gần nhất

	RetryCount  int    `json:"retryCount" bson:"retryCount"`                 // Số lần đã retry
	NextRetryAt int64  `json:"nextRetryAt" bson:"nextRetryAt" index:"single:1"` // Thời điểm retry kế tiếp (Unix ms)
	Status      string `json:"status" bson:"status" index:"single:1"`        // pending | resolved | exhausted

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

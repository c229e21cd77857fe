package models

import (
	"go.mongodb.org/mongo-driver/bson/primitive"
)

// Trạng thái hội thoại
const (
	ConversationStatusOpen   = "open"   // Hội thoại đang mở
	ConversationStatusClosed = "closed" // Hội thoại đã đóng (soft close, không xóa dữ liệu)
)

// ChatConversation đại diện cho một cuộc hội thoại giữa hai địa chỉ đã chuẩn hóa.
// conversationId được suy ra từ cặp địa chỉ (sắp xếp từ điển, nối bằng "|") nên
// hai chiều của cùng một cặp luôn trỏ về đúng một document.
type ChatConversation struct {
	ID             primitive.ObjectID `json:"id,omitempty" bson:"_id,omitempty"`             // ID của document
	ConversationId string             `json:"conversationId" bson:"conversationId"`          // ID hội thoại suy ra từ cặp địa chỉ (unique)
	Participants   []string           `json:"participants" bson:"participants"`              // Hai địa chỉ đã chuẩn hóa, theo thứ tự từ điển
	Status         string             `json:"status" bson:"status" default:"open"`           // Trạng thái: open | closed
	AssignedAgent  string             `json:"assignedAgent,omitempty" bson:"assignedAgent,omitempty"` // ID agent được gán xử lý hội thoại
	Priority       string             `json:"priority,omitempty" bson:"priority,omitempty"`  // Độ ưu tiên workflow (tùy chọn)
	Tags           []string           `json:"tags,omitempty" bson:"tags,omitempty"`          // Nhãn phân loại hội thoại

	// ===== AGGREGATES (cập nhật atomic khi append message) =====
	MessageCount       int64  `json:"messageCount" bson:"messageCount"`                                     // Tổng số message đã append (duplicate không tính)
	LastMessageAt      int64  `json:"lastMessageAt" bson:"lastMessageAt"`                                   // Timestamp message mới nhất ($max, an toàn với message đến trễ)
	LastMessagePreview string `json:"lastMessagePreview,omitempty" bson:"lastMessagePreview,omitempty"` // Preview nội dung message mới nhất

	CreatedAt int64 `json:"createdAt" bson:"createdAt"` // Thời gian tạo
	UpdatedAt int64 `json:"updatedAt" bson:"updatedAt"` // Thời gian cập nhật
}

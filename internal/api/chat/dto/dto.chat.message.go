package dto

// ChatMessageSendInput dữ liệu đầu vào khi agent gửi message outbound.
// ConversationId hoặc cặp (From, To) phải có ít nhất một; MessageId là
// khóa idempotency do client sinh, để trống sẽ được server tự cấp.
type ChatMessageSendInput struct {
	ConversationId string `json:"conversationId,omitempty"`                         // ID hội thoại đích
	From           string `json:"from,omitempty" validate:"omitempty,chat_address"` // Địa chỉ gửi (khi chưa có conversationId)
	To             string `json:"to,omitempty" validate:"omitempty,chat_address"`   // Địa chỉ nhận (khi chưa có conversationId)
	MessageId      string `json:"messageId,omitempty"`                              // Khóa idempotency do client sinh
	Type           string `json:"type,omitempty" validate:"omitempty,message_type"` // text | media | location | sticker
	Content        string `json:"content,omitempty" validate:"omitempty,no_xss"`    // Nội dung văn bản
	MediaUrl       string `json:"mediaUrl,omitempty"`                               // URL media đính kèm
}

// ChatMessageListQuery tham số truy vấn khi liệt kê message của hội thoại
type ChatMessageListQuery struct {
	Cursor        string `query:"cursor"`                                           // Con trỏ phân trang từ lần gọi trước
	Limit         int64  `query:"limit"`                                            // Số message tối đa mỗi trang (chặn trên 100)
	Direction     string `query:"direction" validate:"omitempty,message_direction"` // Lọc theo chiều inbound | outbound
	Status        string `query:"status" validate:"omitempty,message_status"`       // Lọc theo trạng thái
	Type          string `query:"type" validate:"omitempty,message_type"`           // Lọc theo loại message
	FromTimestamp int64  `query:"fromTimestamp"`                                    // Lọc timestamp >= (mili giây)
	ToTimestamp   int64  `query:"toTimestamp"`                                      // Lọc timestamp <= (mili giây)
}

// ChatMessageMarkReadInput dữ liệu đầu vào khi đánh dấu message đã đọc
type ChatMessageMarkReadInput struct {
	ReaderId string `json:"readerId,omitempty"` // Định danh người đọc (mặc định lấy từ token)
}

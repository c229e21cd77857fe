package dto

// WebhookLogCreateInput dữ liệu đầu vào để tạo webhook log (admin CRUD)
type WebhookLogCreateInput struct {
	Source      string                 `json:"source" validate:"required"` // Nguồn webhook
	EventType   string                 `json:"eventType,omitempty"`        // Loại event
	EventId     string                 `json:"eventId,omitempty"`          // ID sự kiện
	RequestBody map[string]interface{} `json:"requestBody,omitempty"`      // Body của request
	RawBody     string                 `json:"rawBody,omitempty"`          // Raw body string
	State       string                 `json:"state,omitempty"`            // Trạng thái pipeline
}

// WebhookLogUpdateInput dữ liệu đầu vào để cập nhật webhook log
type WebhookLogUpdateInput struct {
	State        string `json:"state,omitempty"`        // Trạng thái pipeline
	Processed    bool   `json:"processed,omitempty"`    // Đã xử lý thành công chưa
	ProcessError string `json:"processError,omitempty"` // Lỗi xử lý
}

// WebhookDeadLetterUpdateInput dữ liệu đầu vào để cập nhật dead-letter (admin)
type WebhookDeadLetterUpdateInput struct {
	Status      string `json:"status,omitempty"`      // pending | resolved | exhausted
	NextRetryAt int64  `json:"nextRetryAt,omitempty"` // Hẹn lại thời điểm retry
}

// Package dto chứa các cấu trúc truyền dữ liệu cho domain chat
package dto

// ChatConversationResolveInput dữ liệu đầu vào để resolve (tìm hoặc tạo) hội thoại theo cặp địa chỉ
type ChatConversationResolveInput struct {
	AddressA string `json:"addressA" validate:"required,chat_address"` // Địa chỉ thứ nhất (chưa chuẩn hóa)
	AddressB string `json:"addressB" validate:"required,chat_address"` // Địa chỉ thứ hai (chưa chuẩn hóa)
}

// ChatConversationAssignInput dữ liệu đầu vào để gán agent phụ trách hội thoại
type ChatConversationAssignInput struct {
	AgentId string `json:"agentId" validate:"required"` // Định danh agent được gán
}

// ChatConversationCreateInput dữ liệu đầu vào để tạo mới hội thoại (admin CRUD)
type ChatConversationCreateInput struct {
	ConversationId string   `json:"conversationId" validate:"required"` // ID hội thoại dẫn xuất từ cặp địa chỉ
	Participants   []string `json:"participants" validate:"required"`   // Hai địa chỉ đã chuẩn hóa, thứ tự từ điển
	Status         string   `json:"status,omitempty"`                   // Trạng thái hội thoại
	AssignedAgent  string   `json:"assignedAgent,omitempty"`            // Agent phụ trách
	Priority       string   `json:"priority,omitempty"`                 // Độ ưu tiên
	Tags           []string `json:"tags,omitempty"`                     // Nhãn phân loại
}

// ChatConversationUpdateInput dữ liệu đầu vào để cập nhật hội thoại
type ChatConversationUpdateInput struct {
	Status        string   `json:"status,omitempty"`        // Trạng thái hội thoại
	AssignedAgent string   `json:"assignedAgent,omitempty"` // Agent phụ trách
	Priority      string   `json:"priority,omitempty"`      // Độ ưu tiên
	Tags          []string `json:"tags,omitempty"`          // Nhãn phân loại
}

package global

import (
	"strings"

	"github.com/go-playground/validator/v10"
)

// InitValidator khởi tạo và đăng ký các custom validator
func InitValidator() {
	// Khởi tạo validator
	Validate = validator.New()

	// Đăng ký các custom validator
	_ = Validate.RegisterValidation("no_xss", validateNoXSS)
	_ = Validate.RegisterValidation("chat_address", validateChatAddress)
	_ = Validate.RegisterValidation("message_direction", validateMessageDirection)
	_ = Validate.RegisterValidation("message_status", validateMessageStatus)
	_ = Validate.RegisterValidation("message_type", validateMessageType)
}

// validateNoXSS kiểm tra XSS
func validateNoXSS(fl validator.FieldLevel) bool {
	value := fl.Field().String()
	dangerousPatterns := []string{
		"<script",
		"javascript:",
		"onerror=",
		"onload=",
		"onclick=",
		"onmouseover=",
		"eval(",
		"document.cookie",
		"document.write",
		"innerHTML",
		"fromCharCode",
		"window.location",
		"<iframe",
		"<object",
		"<embed",
	}

	value = strings.ToLower(value)
	for _, pattern := range dangerousPatterns {
		if strings.Contains(value, pattern) {
			return false
		}
	}
	return true
}

// validateChatAddress kiểm tra định danh địa chỉ hội thoại.
// Nhận hai dạng: số điện thoại (sau khi bỏ ký tự trình bày phải có tối thiểu
// 8 chữ số, cho phép một dấu + ở đầu) hoặc định danh agent dạng agent:<id>
// với id gồm chữ thường, số, gạch dưới, gạch nối.
func validateChatAddress(fl validator.FieldLevel) bool {
	value := strings.TrimSpace(fl.Field().String())
	if value == "" {
		return false
	}

	if strings.HasPrefix(strings.ToLower(value), "agent:") {
		id := strings.ToLower(value[len("agent:"):])
		if id == "" {
			return false
		}
		for _, r := range id {
			switch {
			case r >= 'a' && r <= 'z':
			case r >= '0' && r <= '9':
			case r == '_' || r == '-':
			default:
				return false
			}
		}
		return true
	}

	digits := 0
	for i, r := range value {
		switch {
		case r >= '0' && r <= '9':
			digits++
		case r == '+':
			if i != 0 {
				return false
			}
		case r == ' ' || r == '-' || r == '(' || r == ')' || r == '.':
			// Ký tự trình bày, bỏ qua
		default:
			return false
		}
	}
	return digits >= 8
}

// validateMessageDirection kiểm tra hướng tin nhắn
func validateMessageDirection(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "inbound", "outbound":
		return true
	}
	return false
}

// validateMessageStatus kiểm tra trạng thái tin nhắn
func validateMessageStatus(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "pending", "sent", "delivered", "read", "failed", "received":
		return true
	}
	return false
}

// validateMessageType kiểm tra loại tin nhắn
func validateMessageType(fl validator.FieldLevel) bool {
	switch fl.Field().String() {
	case "text", "media", "location", "sticker", "system":
		return true
	}
	return false
}

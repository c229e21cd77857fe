// Package worker - Test dựng lại request webhook từ payload dead-letter.
package worker

import (
	"testing"

	webhooksvc "meta_chat/internal/api/webhook/service"
)

func TestDecodeRequest_PayloadHopLe(t *testing.T) {
	payload := map[string]interface{}{
		"eventId":   "evt-123",
		"eventType": webhooksvc.EventTypeMessageInbound,
		"from":      "+84 912 345 678",
		"to":        "+1 (555) 012-3456",
		"timestamp": float64(1756600000000), // json.Unmarshal vào map cho số dạng float64
		"message": map[string]interface{}{
			"type":    "text",
			"content": "Xin chào",
		},
	}

	req, err := decodeRequest(payload)
	if err != nil {
		t.Fatalf("decodeRequest trả về lỗi: %v", err)
	}
	if req.EventId != "evt-123" {
		t.Errorf("EventId = %q, muốn evt-123", req.EventId)
	}
	if req.EventType != webhooksvc.EventTypeMessageInbound {
		t.Errorf("EventType = %q, muốn %q", req.EventType, webhooksvc.EventTypeMessageInbound)
	}
	if req.Timestamp != 1756600000000 {
		t.Errorf("Timestamp = %d, muốn 1756600000000", req.Timestamp)
	}
	if req.Message == nil || req.Message.Content != "Xin chào" {
		t.Error("Message không được dựng lại đầy đủ từ payload")
	}
}

func TestDecodeRequest_PayloadSaiKieu(t *testing.T) {
	// eventId sai kiểu: không dựng lại được request
	payload := map[string]interface{}{
		"eventId": 12345,
	}
	if _, err := decodeRequest(payload); err == nil {
		t.Fatal("decodeRequest phải trả về lỗi khi trường sai kiểu dữ liệu")
	}
}

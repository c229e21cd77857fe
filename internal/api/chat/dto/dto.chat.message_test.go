// Package dto - Test các tag validate trên DTO của domain chat.
package dto

import (
	"testing"

	"meta_chat/internal/global"
)

func khoiTaoValidator(t *testing.T) {
	t.Helper()
	if global.Validate == nil {
		global.InitValidator()
	}
}

func TestChatConversationResolveInput_DiaChi(t *testing.T) {
	khoiTaoValidator(t)

	hopLe := []ChatConversationResolveInput{
		{AddressA: "+84 912 345 678", AddressB: "(555) 012-3456"},
		{AddressA: "agent:support-01", AddressB: "+84912345678"},
	}
	for _, input := range hopLe {
		if err := global.Validate.Struct(input); err != nil {
			t.Errorf("Validate từ chối input hợp lệ %+v: %v", input, err)
		}
	}

	khongHopLe := []ChatConversationResolveInput{
		{AddressA: "", AddressB: "+84912345678"},
		{AddressA: "khong-phai-dia-chi", AddressB: "+84912345678"},
		{AddressA: "agent:", AddressB: "+84912345678"},
		{AddressA: "123", AddressB: "+84912345678"},
	}
	for _, input := range khongHopLe {
		if err := global.Validate.Struct(input); err == nil {
			t.Errorf("Validate phải từ chối input %+v", input)
		}
	}
}

func TestChatMessageSendInput_Tags(t *testing.T) {
	khoiTaoValidator(t)

	input := ChatMessageSendInput{
		ConversationId: "conv-1",
		Type:           "text",
		Content:        "Xin chào",
	}
	if err := global.Validate.Struct(input); err != nil {
		t.Errorf("Validate từ chối input hợp lệ: %v", err)
	}

	// Field để trống được bỏ qua nhờ omitempty
	if err := global.Validate.Struct(ChatMessageSendInput{ConversationId: "conv-1"}); err != nil {
		t.Errorf("Validate phải chấp nhận input chỉ có conversationId: %v", err)
	}

	input.Type = "hologram"
	if err := global.Validate.Struct(input); err == nil {
		t.Error("Validate phải từ chối type ngoài enum")
	}

	input.Type = "text"
	input.Content = "<script>alert(1)</script>"
	if err := global.Validate.Struct(input); err == nil {
		t.Error("Validate phải từ chối content chứa mẫu XSS")
	}

	input.Content = "Xin chào"
	input.From = "agent:NV 001"
	if err := global.Validate.Struct(input); err == nil {
		t.Error("Validate phải từ chối địa chỉ agent chứa khoảng trắng")
	}
}

func TestChatMessageListQuery_Tags(t *testing.T) {
	khoiTaoValidator(t)

	query := ChatMessageListQuery{Direction: "inbound", Status: "received", Type: "text", Limit: 50}
	if err := global.Validate.Struct(query); err != nil {
		t.Errorf("Validate từ chối query hợp lệ: %v", err)
	}

	if err := global.Validate.Struct(ChatMessageListQuery{}); err != nil {
		t.Errorf("Validate phải chấp nhận query rỗng: %v", err)
	}

	if err := global.Validate.Struct(ChatMessageListQuery{Direction: "sideways"}); err == nil {
		t.Error("Validate phải từ chối direction ngoài enum")
	}
	if err := global.Validate.Struct(ChatMessageListQuery{Status: "teleported"}); err == nil {
		t.Error("Validate phải từ chối status ngoài enum")
	}
}

// Package realtime - Test fan-out hub theo hội thoại.
package realtime

import (
	"testing"
	"time"
)

const testConversationId = "+15550123456|+84912345678"

func TestHub_PublishToiSubscriber(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(testConversationId)
	defer hub.Unsubscribe(sub)

	event := Event{
		ConversationId: testConversationId,
		Type:           "message.created",
		Data:           map[string]string{"content": "Xin chào"},
	}
	if delivered := hub.Publish(event); delivered != 1 {
		t.Fatalf("Publish giao tới %d subscriber, muốn 1", delivered)
	}

	select {
	case got := <-sub.C:
		if got.Type != "message.created" {
			t.Errorf("Sự kiện nhận được loại %q, muốn message.created", got.Type)
		}
		if got.ConversationId != testConversationId {
			t.Errorf("Sự kiện nhận được của hội thoại %q, muốn %q", got.ConversationId, testConversationId)
		}
	case <-time.After(time.Second):
		t.Fatal("Subscriber không nhận được sự kiện sau 1s")
	}
}

func TestHub_KhongGiaoSangHoiThoaiKhac(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(testConversationId)
	defer hub.Unsubscribe(sub)

	delivered := hub.Publish(Event{ConversationId: "agent:nv001|+84900000000", Type: "message.created"})
	if delivered != 0 {
		t.Errorf("Publish hội thoại khác giao tới %d subscriber, muốn 0", delivered)
	}
	select {
	case got := <-sub.C:
		t.Errorf("Subscriber nhận nhầm sự kiện của hội thoại %q", got.ConversationId)
	default:
	}
}

func TestHub_SubscriberChamBiDrop(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(testConversationId)
	defer hub.Unsubscribe(sub)

	// Lấp đầy buffer mà không đọc
	for i := 0; i < subscriberBufferSize; i++ {
		if delivered := hub.Publish(Event{ConversationId: testConversationId, Type: "message.created"}); delivered != 1 {
			t.Fatalf("Publish thứ %d giao tới %d subscriber, muốn 1", i, delivered)
		}
	}

	// Buffer đầy: sự kiện tiếp theo bị drop, Publish không chặn
	if delivered := hub.Publish(Event{ConversationId: testConversationId, Type: "message.created"}); delivered != 0 {
		t.Errorf("Publish khi buffer đầy giao tới %d subscriber, muốn 0 (drop)", delivered)
	}
}

func TestHub_UnsubscribeDongKenh(t *testing.T) {
	hub := NewHub()
	sub := hub.Subscribe(testConversationId)

	if got := hub.SubscriberCount(testConversationId); got != 1 {
		t.Fatalf("SubscriberCount = %d, muốn 1", got)
	}

	hub.Unsubscribe(sub)
	if got := hub.SubscriberCount(testConversationId); got != 0 {
		t.Errorf("SubscriberCount sau Unsubscribe = %d, muốn 0", got)
	}
	if _, open := <-sub.C; open {
		t.Error("Kênh subscription phải được đóng sau Unsubscribe")
	}

	// Unsubscribe lần hai là no-op, không panic
	hub.Unsubscribe(sub)

	// Publish sau khi hội thoại không còn subscriber nào
	if delivered := hub.Publish(Event{ConversationId: testConversationId, Type: "message.created"}); delivered != 0 {
		t.Errorf("Publish sau Unsubscribe giao tới %d subscriber, muốn 0", delivered)
	}
}

func TestHub_NhieuSubscriberCungHoiThoai(t *testing.T) {
	hub := NewHub()
	sub1 := hub.Subscribe(testConversationId)
	sub2 := hub.Subscribe(testConversationId)
	defer hub.Unsubscribe(sub1)
	defer hub.Unsubscribe(sub2)

	if delivered := hub.Publish(Event{ConversationId: testConversationId, Type: "message.read"}); delivered != 2 {
		t.Errorf("Publish giao tới %d subscriber, muốn 2", delivered)
	}
}

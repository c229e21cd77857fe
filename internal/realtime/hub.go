// Package realtime chứa hub fan-out message theo hội thoại cho các kết nối realtime
package realtime

import (
	"sync"

	"meta_chat/internal/logger"
)

// subscriberBufferSize là kích thước buffer kênh của mỗi subscriber.
// Subscriber chậm bị drop event thay vì chặn đường ghi message.
const subscriberBufferSize = 16

// Event là một sự kiện fan-out tới các subscriber của một hội thoại
type Event struct {
	ConversationId string      `json:"conversationId"` // Hội thoại phát sinh sự kiện
	Type           string      `json:"type"`           // Loại sự kiện: message.created | message.read | message.deleted
	Data           interface{} `json:"data"`           // Payload sự kiện (thường là ChatMessage)
}

// Subscription là một đăng ký nhận sự kiện của một hội thoại
type Subscription struct {
	ConversationId string
	C              chan Event // Kênh nhận sự kiện, đóng khi Unsubscribe
}

// Hub quản lý các subscriber theo conversationId và phát sự kiện best-effort.
// Publish không bao giờ chặn: subscriber đầy buffer sẽ bị bỏ qua sự kiện đó.
type Hub struct {
	mu          sync.RWMutex
	subscribers map[string]map[*Subscription]struct{}
}

// NewHub tạo mới Hub
func NewHub() *Hub {
	return &Hub{
		subscribers: make(map[string]map[*Subscription]struct{}),
	}
}

// Subscribe đăng ký nhận sự kiện của một hội thoại
func (h *Hub) Subscribe(conversationId string) *Subscription {
	sub := &Subscription{
		ConversationId: conversationId,
		C:              make(chan Event, subscriberBufferSize),
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	if h.subscribers[conversationId] == nil {
		h.subscribers[conversationId] = make(map[*Subscription]struct{})
	}
	h.subscribers[conversationId][sub] = struct{}{}
	return sub
}

// Unsubscribe hủy đăng ký và đóng kênh nhận.
// Unsubscribe hai lần trên cùng một subscription là no-op.
func (h *Hub) Unsubscribe(sub *Subscription) {
	h.mu.Lock()
	defer h.mu.Unlock()

	subs, exist := h.subscribers[sub.ConversationId]
	if !exist {
		return
	}
	if _, ok := subs[sub]; !ok {
		return
	}
	delete(subs, sub)
	if len(subs) == 0 {
		delete(h.subscribers, sub.ConversationId)
	}
	close(sub.C)
}

// Publish phát một sự kiện tới mọi subscriber của hội thoại.
// Không chặn: subscriber đầy buffer bị drop sự kiện và ghi nhận warning.
// Trả về số subscriber đã nhận được sự kiện.
func (h *Hub) Publish(event Event) int {
	h.mu.RLock()
	defer h.mu.RUnlock()

	delivered := 0
	for sub := range h.subscribers[event.ConversationId] {
		select {
		case sub.C <- event:
			delivered++
		default:
			logger.GetAppLogger().WithFields(map[string]interface{}{
				"conversationId": event.ConversationId,
				"eventType":      event.Type,
			}).Warn("📡 [REALTIME] Subscriber chậm, drop sự kiện")
		}
	}
	return delivered
}

// SubscriberCount trả về số subscriber hiện tại của một hội thoại
func (h *Hub) SubscriberCount(conversationId string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.subscribers[conversationId])
}

// Package chatsvc - Test các update document của conversation: upsert tạo mới
// và aggregate khi append message.
package chatsvc

import (
	"testing"
	"time"

	chatmodels "meta_chat/internal/api/chat/models"
)

func TestResolveUpsertUpdate_ToanBoTrongSetOnInsert(t *testing.T) {
	now := time.Now().UnixMilli()
	update := resolveUpsertUpdate("+15550123456|+84912345678", "+15550123456", "+84912345678", now)

	muon := []string{"conversationId", "participants", "status", "messageCount", "lastMessageAt", "createdAt"}
	for _, key := range muon {
		if _, ok := update.SetOnInsert[key]; !ok {
			t.Errorf("$setOnInsert thiếu field %q", key)
		}
	}
	if update.SetOnInsert["status"] != chatmodels.ConversationStatusOpen {
		t.Errorf("status khởi tạo = %v, muốn %q", update.SetOnInsert["status"], chatmodels.ConversationStatusOpen)
	}
	if len(update.Set) != 0 {
		t.Errorf("$set phải rỗng khi upsert tạo hội thoại, nhận %v", update.Set)
	}
}

func TestResolveUpsertUpdate_KhongXungDotVoiUpdatedAt(t *testing.T) {
	// FindOneAndUpdate của base service luôn chèn updatedAt vào $set. Nếu
	// update document của Resolve cũng mang updatedAt trong $setOnInsert,
	// MongoDB từ chối cả lệnh (ConflictingUpdateOperators). Tái hiện bước
	// chèn đó và kiểm tra hai operator không chạm cùng một đường dẫn.
	now := time.Now().UnixMilli()
	update := resolveUpsertUpdate("+15550123456|+84912345678", "+15550123456", "+84912345678", now)

	if update.Set == nil {
		update.Set = make(map[string]interface{})
	}
	update.Set["updatedAt"] = now

	for key := range update.Set {
		if _, ok := update.SetOnInsert[key]; ok {
			t.Errorf("Field %q xuất hiện trong cả $set và $setOnInsert, MongoDB sẽ từ chối update", key)
		}
	}
}

func TestAppendAggregatesUpdate(t *testing.T) {
	timestamp := int64(1756600000000)
	now := time.Now().UnixMilli()
	update := appendAggregatesUpdate(timestamp, now)

	if got, ok := update.Inc["messageCount"]; !ok || got != int64(1) {
		t.Errorf("$inc messageCount = %v, muốn int64(1)", got)
	}
	// lastMessageAt phải đi qua $max: message đến trễ với timestamp cũ hơn
	// không được kéo lùi thời gian hoạt động của hội thoại
	if got, ok := update.Max["lastMessageAt"]; !ok || got != timestamp {
		t.Errorf("$max lastMessageAt = %v, muốn %d", got, timestamp)
	}
	if _, ok := update.Set["lastMessageAt"]; ok {
		t.Error("lastMessageAt không được nằm trong $set")
	}
}

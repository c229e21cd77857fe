// Package basesvc - Test update document của InsertIfAbsent.
package basesvc

import (
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestInsertIfAbsentUpdate_ToanBoTrongSetOnInsert(t *testing.T) {
	now := int64(1756600000000)
	dataMap := map[string]interface{}{
		"conversationId": "conv-1",
		"messageId":      "evt-001",
		"content":        "Xin chào",
	}
	update := insertIfAbsentUpdate(dataMap, now)

	// Document đã tồn tại không được ghi đè field nào: mọi dữ liệu phải nằm
	// trong $setOnInsert, các operator khác rỗng
	if len(update.Set) != 0 {
		t.Errorf("$set phải rỗng, nhận %v", update.Set)
	}
	if len(update.Inc) != 0 || len(update.Max) != 0 {
		t.Error("InsertIfAbsent không được sinh $inc hay $max")
	}
	if update.SetOnInsert["conversationId"] != "conv-1" {
		t.Errorf("$setOnInsert thiếu dữ liệu gốc: %v", update.SetOnInsert)
	}
	if update.SetOnInsert["createdAt"] != now || update.SetOnInsert["updatedAt"] != now {
		t.Error("$setOnInsert phải chứa createdAt và updatedAt")
	}
}

func TestInsertIfAbsentUpdate_LoaiFieldRongVaId(t *testing.T) {
	dataMap := map[string]interface{}{
		"conversationId": "conv-1",
		"gatewayMsgId":   "",
		"_id":            primitive.NewObjectID(),
	}
	update := insertIfAbsentUpdate(dataMap, 1756600000000)

	// Field string rỗng bị loại để sparse unique index không đụng nhau
	if _, ok := update.SetOnInsert["gatewayMsgId"]; ok {
		t.Error("Field string rỗng phải bị loại khỏi $setOnInsert")
	}
	// _id bị loại để MongoDB tự sinh khi upsert tạo mới
	if _, ok := update.SetOnInsert["_id"]; ok {
		t.Error("_id phải bị loại khỏi $setOnInsert")
	}
	if _, ok := update.SetOnInsert["conversationId"]; !ok {
		t.Error("$setOnInsert phải giữ lại field có giá trị")
	}
}

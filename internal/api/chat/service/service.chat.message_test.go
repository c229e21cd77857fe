// Package chatsvc - Test xác thực message và dựng preview cho conversation.
package chatsvc

import (
	"errors"
	"reflect"
	"strings"
	"testing"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"

	chatmodels "meta_chat/internal/api/chat/models"
	"meta_chat/internal/common"
)

func hopLeMessage() chatmodels.ChatMessage {
	return chatmodels.ChatMessage{
		MessageId:        "evt-001",
		ConversationId:   "+15550123456|+84912345678",
		SenderAddress:    "+84912345678",
		RecipientAddress: "+15550123456",
		Direction:        chatmodels.MessageDirectionInbound,
		Type:             chatmodels.MessageTypeText,
		Content:          "Xin chào",
		Status:           chatmodels.MessageStatusReceived,
		Timestamp:        1756600000000,
	}
}

func TestValidateMessage_HopLe(t *testing.T) {
	msg := hopLeMessage()
	if err := ValidateMessage(&msg); err != nil {
		t.Fatalf("ValidateMessage trả về lỗi với message hợp lệ: %v", err)
	}
}

func TestValidateMessage_ThieuMessageId(t *testing.T) {
	msg := hopLeMessage()
	msg.MessageId = ""
	if err := ValidateMessage(&msg); err == nil {
		t.Fatal("ValidateMessage phải từ chối message thiếu messageId")
	}
}

func TestValidateMessage_DirectionSai(t *testing.T) {
	msg := hopLeMessage()
	msg.Direction = "sideways"
	err := ValidateMessage(&msg)
	if err == nil {
		t.Fatal("ValidateMessage phải từ chối direction ngoài enum")
	}
	if !IsValidationError(err) {
		t.Errorf("Lỗi direction phải thuộc nhóm Validation, nhận %v", err)
	}
}

func TestValidateMessage_SuyRaType(t *testing.T) {
	// Chỉ có mediaUrl, không khai báo type: suy ra media
	msg := hopLeMessage()
	msg.Type = ""
	msg.Content = ""
	msg.MediaUrl = "https://cdn.example.com/anh.jpg"
	if err := ValidateMessage(&msg); err != nil {
		t.Fatalf("ValidateMessage trả về lỗi: %v", err)
	}
	if msg.Type != chatmodels.MessageTypeMedia {
		t.Errorf("Type suy ra = %q, muốn %q", msg.Type, chatmodels.MessageTypeMedia)
	}

	// Có content: suy ra text
	msg2 := hopLeMessage()
	msg2.Type = ""
	if err := ValidateMessage(&msg2); err != nil {
		t.Fatalf("ValidateMessage trả về lỗi: %v", err)
	}
	if msg2.Type != chatmodels.MessageTypeText {
		t.Errorf("Type suy ra = %q, muốn %q", msg2.Type, chatmodels.MessageTypeText)
	}
}

func TestValidateMessage_ThieuNoiDung(t *testing.T) {
	msg := hopLeMessage()
	msg.Content = ""
	msg.MediaUrl = ""
	err := ValidateMessage(&msg)
	if !errors.Is(err, common.ErrEmptyMessageBody) {
		t.Errorf("ValidateMessage trả về %v, muốn ErrEmptyMessageBody", err)
	}
}

func TestValidateMessage_LocationThieuToaDo(t *testing.T) {
	msg := hopLeMessage()
	msg.Type = chatmodels.MessageTypeLocation
	msg.Location = nil
	if err := ValidateMessage(&msg); err == nil {
		t.Fatal("ValidateMessage phải từ chối message location không có tọa độ")
	}

	msg.Location = &chatmodels.ChatLocation{Latitude: 10.76, Longitude: 106.66}
	if err := ValidateMessage(&msg); err != nil {
		t.Errorf("ValidateMessage trả về lỗi với location hợp lệ: %v", err)
	}
}

func TestValidateMessage_StatusSai(t *testing.T) {
	msg := hopLeMessage()
	msg.Status = "teleported"
	if err := ValidateMessage(&msg); err == nil {
		t.Fatal("ValidateMessage phải từ chối status ngoài enum")
	}
}

func TestValidateMessage_TimestampMacDinh(t *testing.T) {
	msg := hopLeMessage()
	msg.Timestamp = 0
	if err := ValidateMessage(&msg); err != nil {
		t.Fatalf("ValidateMessage trả về lỗi: %v", err)
	}
	if msg.Timestamp <= 0 {
		t.Error("ValidateMessage phải gán timestamp hiện tại khi thiếu")
	}
}

func TestIsValidationError(t *testing.T) {
	if !IsValidationError(common.ErrEmptyMessageBody) {
		t.Error("ErrEmptyMessageBody phải thuộc nhóm Validation")
	}
	if IsValidationError(common.ErrMessageNotFound) {
		t.Error("ErrMessageNotFound không thuộc nhóm Validation")
	}
	if IsValidationError(errors.New("lỗi thường")) {
		t.Error("Lỗi thường không thuộc nhóm Validation")
	}
}

func TestBuildPreview(t *testing.T) {
	msg := hopLeMessage()
	if got := BuildPreview(&msg); got != "Xin chào" {
		t.Errorf("BuildPreview = %q, muốn nội dung gốc", got)
	}

	msg.Content = ""
	msg.MediaUrl = "https://cdn.example.com/anh.jpg"
	if got := BuildPreview(&msg); got != "[media]" {
		t.Errorf("BuildPreview media = %q, muốn [media]", got)
	}

	msg.MediaUrl = ""
	msg.Type = chatmodels.MessageTypeLocation
	if got := BuildPreview(&msg); got != "[location]" {
		t.Errorf("BuildPreview location = %q, muốn [location]", got)
	}
}

func TestBuildListQuery_MacDinh(t *testing.T) {
	query, err := buildListQuery("+15550123456|+84912345678", MessageListFilter{}, "")
	if err != nil {
		t.Fatalf("buildListQuery trả về lỗi: %v", err)
	}
	if query["conversationId"] != "+15550123456|+84912345678" {
		t.Errorf("conversationId = %v", query["conversationId"])
	}
	// Mặc định loại message đã xóa mềm
	if !reflect.DeepEqual(query["deleted"], bson.M{"$ne": true}) {
		t.Errorf("Điều kiện deleted = %v, muốn {$ne: true}", query["deleted"])
	}
	if _, ok := query["$or"]; ok {
		t.Error("Không có cursor thì query không được chứa $or")
	}
}

func TestBuildListQuery_BoLoc(t *testing.T) {
	filter := MessageListFilter{
		IncludeDeleted: true,
		Direction:      chatmodels.MessageDirectionInbound,
		Status:         chatmodels.MessageStatusReceived,
		Type:           chatmodels.MessageTypeText,
		FromTimestamp:  1756600000000,
		ToTimestamp:    1756700000000,
	}
	query, err := buildListQuery("conv-1", filter, "")
	if err != nil {
		t.Fatalf("buildListQuery trả về lỗi: %v", err)
	}
	if _, ok := query["deleted"]; ok {
		t.Error("IncludeDeleted phải bỏ điều kiện deleted")
	}
	if query["direction"] != chatmodels.MessageDirectionInbound {
		t.Errorf("direction = %v", query["direction"])
	}
	muon := bson.M{"$gte": int64(1756600000000), "$lte": int64(1756700000000)}
	if !reflect.DeepEqual(query["timestamp"], muon) {
		t.Errorf("Điều kiện timestamp = %v, muốn %v", query["timestamp"], muon)
	}
}

func TestBuildListQuery_Cursor(t *testing.T) {
	// Vị trí cursor là cặp (timestamp, _id): trang sau lấy message có timestamp
	// lớn hơn, hoặc cùng timestamp nhưng _id lớn hơn. Insert xen kẽ giữa hai
	// lần gọi không làm trượt vị trí vì điều kiện neo theo giá trị, không theo offset.
	ts := int64(1756600000000)
	id := primitive.NewObjectID()
	token := EncodeCursor(ts, id)

	query, err := buildListQuery("conv-1", MessageListFilter{}, token)
	if err != nil {
		t.Fatalf("buildListQuery trả về lỗi: %v", err)
	}
	muon := []bson.M{
		{"timestamp": bson.M{"$gt": ts}},
		{"timestamp": ts, "_id": bson.M{"$gt": id}},
	}
	if !reflect.DeepEqual(query["$or"], muon) {
		t.Errorf("Điều kiện $or = %v, muốn %v", query["$or"], muon)
	}
}

func TestBuildListQuery_CursorHong(t *testing.T) {
	_, err := buildListQuery("conv-1", MessageListFilter{}, "v1:khong-phai-base64!!!")
	if !errors.Is(err, common.ErrInvalidCursor) {
		t.Errorf("buildListQuery trả về %v, muốn ErrInvalidCursor", err)
	}
}

func TestBuildPreview_CatNgan(t *testing.T) {
	msg := hopLeMessage()
	msg.Content = strings.Repeat("à", messagePreviewLength+30)
	got := BuildPreview(&msg)
	if len([]rune(got)) != messagePreviewLength {
		t.Errorf("BuildPreview phải cắt về %d ký tự, nhận %d", messagePreviewLength, len([]rune(got)))
	}
	// Cắt theo rune, không được cắt giữa chừng một ký tự UTF-8
	if !strings.HasPrefix(msg.Content, got) {
		t.Error("Preview phải là tiền tố nguyên vẹn của nội dung gốc")
	}
}

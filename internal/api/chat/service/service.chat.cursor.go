package chatsvc

// File: service.chat.cursor.go — mã hóa/giải mã con trỏ phân trang cho message log.
// Con trỏ là vị trí (timestamp, _id) của phần tử cuối trang, không phải offset,
// nên trang kế tiếp ổn định kể cả khi có message mới được append đồng thời.

import (
	"encoding/base64"
	"fmt"
	"strconv"
	"strings"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"meta_chat/internal/common"
)

// cursorVersion là prefix phiên bản của token, cho phép đổi format về sau
const cursorVersion = "v1"

// EncodeCursor mã hóa vị trí (timestamp, objectID) thành token mờ cho client.
// Format: "v1:" + base64url("<timestamp>:<objectID hex>").
func EncodeCursor(timestamp int64, id primitive.ObjectID) string {
	raw := fmt.Sprintf("%d:%s", timestamp, id.Hex())
	return cursorVersion + ":" + base64.RawURLEncoding.EncodeToString([]byte(raw))
}

// DecodeCursor giải mã token con trỏ về vị trí (timestamp, objectID).
// Token sai phiên bản, sai base64 hoặc sai cấu trúc đều trả về ErrInvalidCursor.
func DecodeCursor(token string) (int64, primitive.ObjectID, error) {
	parts := strings.SplitN(token, ":", 2)
	if len(parts) != 2 || parts[0] != cursorVersion {
		return 0, primitive.NilObjectID, common.ErrInvalidCursor
	}

	raw, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return 0, primitive.NilObjectID, common.ErrInvalidCursor
	}

	fields := strings.SplitN(string(raw), ":", 2)
	if len(fields) != 2 {
		return 0, primitive.NilObjectID, common.ErrInvalidCursor
	}

	timestamp, err := strconv.ParseInt(fields[0], 10, 64)
	if err != nil {
		return 0, primitive.NilObjectID, common.ErrInvalidCursor
	}

	id, err := primitive.ObjectIDFromHex(fields[1])
	if err != nil {
		return 0, primitive.NilObjectID, common.ErrInvalidCursor
	}

	return timestamp, id, nil
}

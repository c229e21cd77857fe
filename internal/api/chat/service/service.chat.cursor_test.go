// Package chatsvc - Test mã hóa/giải mã con trỏ phân trang.
package chatsvc

import (
	"encoding/base64"
	"errors"
	"testing"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"meta_chat/internal/common"
)

func TestCursor_MaHoaGiaiMa(t *testing.T) {
	id := primitive.NewObjectID()
	ts := int64(1756600000123)

	token := EncodeCursor(ts, id)
	if token == "" {
		t.Fatal("EncodeCursor trả về token rỗng")
	}

	gotTs, gotId, err := DecodeCursor(token)
	if err != nil {
		t.Fatalf("DecodeCursor trả về lỗi: %v", err)
	}
	if gotTs != ts {
		t.Errorf("DecodeCursor timestamp = %d, muốn %d", gotTs, ts)
	}
	if gotId != id {
		t.Errorf("DecodeCursor id = %s, muốn %s", gotId.Hex(), id.Hex())
	}
}

func TestCursor_TokenHong(t *testing.T) {
	id := primitive.NewObjectID()
	cases := []struct {
		name  string
		token string
	}{
		{"rỗng", ""},
		{"thiếu phiên bản", base64.RawURLEncoding.EncodeToString([]byte("123:" + id.Hex()))},
		{"sai phiên bản", "v2:" + base64.RawURLEncoding.EncodeToString([]byte("123:"+id.Hex()))},
		{"sai base64", "v1:%%%không-phải-base64%%%"},
		{"thiếu objectID", "v1:" + base64.RawURLEncoding.EncodeToString([]byte("123"))},
		{"timestamp không phải số", "v1:" + base64.RawURLEncoding.EncodeToString([]byte("abc:"+id.Hex()))},
		{"objectID sai hex", "v1:" + base64.RawURLEncoding.EncodeToString([]byte("123:zzzz"))},
	}
	for _, tc := range cases {
		_, _, err := DecodeCursor(tc.token)
		if err == nil {
			t.Errorf("DecodeCursor(%s) phải trả về lỗi", tc.name)
			continue
		}
		if !errors.Is(err, common.ErrInvalidCursor) {
			t.Errorf("DecodeCursor(%s) trả về lỗi %v, muốn ErrInvalidCursor", tc.name, err)
		}
	}
}

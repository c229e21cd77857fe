// Package chatsvc - Test chuẩn hóa địa chỉ và dẫn xuất conversationId từ cặp địa chỉ.
package chatsvc

import (
	"errors"
	"testing"

	"meta_chat/internal/common"
)

func TestNormalizeAddress_HopLe(t *testing.T) {
	cases := []struct {
		raw  string
		want string
	}{
		{"+84 912 345 678", "+84912345678"},
		{"(84) 912-345-678", "84912345678"},
		{"84.912.345.678", "84912345678"},
		{"0912345678", "0912345678"},
		{"+1 (555) 012-3456", "+15550123456"},
		{"agent:NV001", "agent:nv001"},
		{"  agent:support-01  ", "agent:support-01"},
	}
	for _, tc := range cases {
		got, err := NormalizeAddress(tc.raw)
		if err != nil {
			t.Errorf("NormalizeAddress(%q) trả về lỗi: %v", tc.raw, err)
			continue
		}
		if got != tc.want {
			t.Errorf("NormalizeAddress(%q) = %q, muốn %q", tc.raw, got, tc.want)
		}
	}
}

func TestNormalizeAddress_KhongHopLe(t *testing.T) {
	cases := []string{
		"",              // rỗng
		"   ",           // chỉ khoảng trắng
		"12345",         // dưới 8 chữ số
		"+843abc123456", // chứa chữ cái
		"84+912345678",  // dấu + không ở đầu
		"++84912345678", // hai dấu +
		"+",             // chỉ có dấu +
		"agent:",        // định danh agent rỗng
		"agent:nv 001",  // định danh agent chứa khoảng trắng
	}
	for _, raw := range cases {
		if _, err := NormalizeAddress(raw); err == nil {
			t.Errorf("NormalizeAddress(%q) phải trả về lỗi", raw)
		}
	}
}

func TestClassifyAddress(t *testing.T) {
	if got := ClassifyAddress("agent:nv001"); got != AddressKindAgent {
		t.Errorf("ClassifyAddress(agent:nv001) = %q, muốn %q", got, AddressKindAgent)
	}
	if got := ClassifyAddress("+84912345678"); got != AddressKindPhone {
		t.Errorf("ClassifyAddress(+84912345678) = %q, muốn %q", got, AddressKindPhone)
	}
}

func TestBuildConversationId_GiaoHoan(t *testing.T) {
	a := "+84912345678"
	b := "+15550123456"
	id1 := BuildConversationId(a, b)
	id2 := BuildConversationId(b, a)
	if id1 != id2 {
		t.Errorf("BuildConversationId phải giao hoán: %q != %q", id1, id2)
	}
	if id1 != "+15550123456|+84912345678" {
		t.Errorf("BuildConversationId sai thứ tự từ điển: %q", id1)
	}
}

func TestNormalizePair_CungMotHoiThoai(t *testing.T) {
	// Cùng cặp địa chỉ với định dạng trình bày khác nhau phải cho cùng một cặp chuẩn hóa
	a1, b1, err := NormalizePair("+84 912 345 678", "+1 (555) 012-3456")
	if err != nil {
		t.Fatalf("NormalizePair trả về lỗi: %v", err)
	}
	a2, b2, err := NormalizePair("+1.555.012.3456", "+84912345678")
	if err != nil {
		t.Fatalf("NormalizePair trả về lỗi: %v", err)
	}
	if a1 != a2 || b1 != b2 {
		t.Errorf("NormalizePair không ổn định theo thứ tự: (%q,%q) != (%q,%q)", a1, b1, a2, b2)
	}
	if BuildConversationId(a1, b1) != BuildConversationId(a2, b2) {
		t.Error("Cùng cặp địa chỉ phải dẫn xuất cùng conversationId")
	}
}

func TestNormalizePair_TrungDiaChi(t *testing.T) {
	_, _, err := NormalizePair("+84 912 345 678", "+84912345678")
	if err == nil {
		t.Fatal("NormalizePair phải từ chối cặp địa chỉ trùng nhau")
	}
	if !errors.Is(err, common.ErrSamePairAddress) {
		t.Errorf("NormalizePair trả về lỗi %v, muốn ErrSamePairAddress", err)
	}
}

func TestNormalizePair_DiaChiHong(t *testing.T) {
	if _, _, err := NormalizePair("abc", "+84912345678"); err == nil {
		t.Error("NormalizePair phải từ chối địa chỉ không hợp lệ")
	}
}

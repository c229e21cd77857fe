// Package chatsvc chứa service cho domain Chat (conversation, message).
// File: service.chat.address.go — chuẩn hóa địa chỉ và suy ra ID hội thoại.
package chatsvc

import (
	"fmt"
	"sort"
	"strings"

	"meta_chat/internal/common"
)

// Phân loại địa chỉ sau chuẩn hóa
const (
	AddressKindPhone = "phone" // Địa chỉ dạng số điện thoại (qua gateway)
	AddressKindAgent = "agent" // Định danh nội bộ của agent
)

// Ký tự trình bày được phép xuất hiện trong địa chỉ thô, bị loại bỏ khi chuẩn hóa
func isPresentationChar(r rune) bool {
	switch r {
	case ' ', '-', '(', ')', '.':
		return true
	}
	return false
}

// NormalizeAddress chuẩn hóa một địa chỉ thô về dạng chính tắc.
// Địa chỉ dạng số: loại bỏ ký tự trình bày (khoảng trắng, gạch ngang, ngoặc,
// chấm), cho phép đúng một dấu "+" ở đầu, phần còn lại phải toàn chữ số và có
// ít nhất 8 chữ số. Định danh agent nội bộ giữ nguyên dạng "agent:<id>" với
// id viết thường. Hai địa chỉ thô khác nhau về trình bày luôn chuẩn hóa về
// cùng một chuỗi.
func NormalizeAddress(raw string) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return "", common.NewError(common.ErrCodeValidationAddress, "Địa chỉ không được để trống", common.StatusBadRequest, nil)
	}

	if strings.HasPrefix(raw, agentAddressPrefix) {
		return normalizeAgentAddress(raw)
	}

	var sb strings.Builder
	digits := 0
	for i, r := range raw {
		switch {
		case r == '+':
			// "+" chỉ hợp lệ khi là ký tự đầu tiên của chuỗi kết quả
			if sb.Len() != 0 || i != 0 {
				return "", common.NewError(common.ErrCodeValidationAddress,
					fmt.Sprintf("Địa chỉ '%s' có dấu '+' sai vị trí", raw), common.StatusBadRequest, nil)
			}
			sb.WriteRune(r)
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
			digits++
		case isPresentationChar(r):
			// Ký tự trình bày: bỏ qua
		default:
			return "", common.NewError(common.ErrCodeValidationAddress,
				fmt.Sprintf("Địa chỉ '%s' chứa ký tự không hợp lệ '%c'", raw, r), common.StatusBadRequest, nil)
		}
	}

	if digits < 8 {
		return "", common.NewError(common.ErrCodeValidationAddress,
			fmt.Sprintf("Địa chỉ '%s' chỉ có %d chữ số, cần tối thiểu 8", raw, digits), common.StatusBadRequest, nil)
	}

	return sb.String(), nil
}

// agentAddressPrefix đánh dấu địa chỉ là định danh agent nội bộ
const agentAddressPrefix = "agent:"

// normalizeAgentAddress chuẩn hóa định danh agent: phần id phải non-empty,
// chỉ gồm chữ cái, chữ số, gạch dưới, gạch ngang; viết thường toàn bộ
func normalizeAgentAddress(raw string) (string, error) {
	id := strings.ToLower(raw[len(agentAddressPrefix):])
	if id == "" {
		return "", common.NewError(common.ErrCodeValidationAddress,
			"Định danh agent không được để trống", common.StatusBadRequest, nil)
	}
	for _, r := range id {
		valid := (r >= 'a' && r <= 'z') || (r >= '0' && r <= '9') || r == '_' || r == '-'
		if !valid {
			return "", common.NewError(common.ErrCodeValidationAddress,
				fmt.Sprintf("Định danh agent '%s' chứa ký tự không hợp lệ '%c'", raw, r), common.StatusBadRequest, nil)
		}
	}
	return agentAddressPrefix + id, nil
}

// ClassifyAddress phân loại một địa chỉ đã chuẩn hóa tại thời điểm đọc.
// Phân loại không được lưu trong document; suy ra khi cần hiển thị.
func ClassifyAddress(addr string) string {
	if strings.HasPrefix(addr, agentAddressPrefix) {
		return AddressKindAgent
	}
	return AddressKindPhone
}

// BuildConversationId suy ra ID hội thoại từ hai địa chỉ đã chuẩn hóa.
// Hai địa chỉ được sắp xếp từ điển rồi nối bằng "|" nên kết quả giao hoán:
// BuildConversationId(a, b) == BuildConversationId(b, a).
func BuildConversationId(a string, b string) string {
	pair := []string{a, b}
	sort.Strings(pair)
	return pair[0] + "|" + pair[1]
}

// NormalizePair chuẩn hóa cả hai địa chỉ của một cặp hội thoại.
// Trả về hai địa chỉ đã chuẩn hóa theo thứ tự từ điển. Cặp trùng nhau bị từ chối.
func NormalizePair(rawA string, rawB string) (string, string, error) {
	a, err := NormalizeAddress(rawA)
	if err != nil {
		return "", "", err
	}
	b, err := NormalizeAddress(rawB)
	if err != nil {
		return "", "", err
	}
	if a == b {
		return "", "", common.ErrSamePairAddress
	}
	if a > b {
		a, b = b, a
	}
	return a, b, nil
}

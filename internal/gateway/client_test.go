// Package gateway - Test client gọi messaging gateway qua HTTP.
package gateway

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"meta_chat/config"
)

func newTestClient(baseURL string) *HTTPClient {
	return NewHTTPClient(&config.Configuration{
		GatewayBaseURL:   baseURL,
		GatewayAPIKey:    "test-api-key",
		GatewayTimeoutMs: 2000,
	})
}

func TestSendText_ThanhCong(t *testing.T) {
	var gotPath, gotAuth string
	var gotBody map[string]interface{}

	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		gotAuth = r.Header.Get("Authorization")
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(SendResult{GatewayMessageId: "gw-msg-001", Accepted: true})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.SendText(context.Background(), "agent:nv001", "+84912345678", "Xin chào")

	assert.NoError(t, err, "SendText không được trả về lỗi")
	assert.Equal(t, "/v1/messages", gotPath)
	assert.Equal(t, "Bearer test-api-key", gotAuth, "Request phải mang API key dạng Bearer")
	assert.Equal(t, "text", gotBody["type"])
	assert.Equal(t, "+84912345678", gotBody["to"])
	assert.Equal(t, "Xin chào", gotBody["content"])
	assert.True(t, result.Accepted)
	assert.Equal(t, "gw-msg-001", result.GatewayMessageId)
}

func TestSendMedia_CoCaption(t *testing.T) {
	var gotBody map[string]interface{}
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		json.NewDecoder(r.Body).Decode(&gotBody)
		json.NewEncoder(w).Encode(SendResult{GatewayMessageId: "gw-msg-002", Accepted: true})
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	_, err := client.SendMedia(context.Background(), "agent:nv001", "+84912345678", "https://cdn.example.com/anh.jpg", "Ảnh sản phẩm")

	assert.NoError(t, err)
	assert.Equal(t, "media", gotBody["type"])
	assert.Equal(t, "https://cdn.example.com/anh.jpg", gotBody["mediaUrl"])
	assert.Equal(t, "Ảnh sản phẩm", gotBody["content"])
}

func TestSendText_GatewayTraVeLoi(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadGateway)
		w.Write([]byte(`{"error":"upstream unavailable"}`))
	}))
	defer server.Close()

	client := newTestClient(server.URL)
	result, err := client.SendText(context.Background(), "agent:nv001", "+84912345678", "Xin chào")

	assert.Error(t, err, "Status ngoài 2xx phải trả về lỗi")
	assert.Nil(t, result)
	assert.Contains(t, err.Error(), "502")
}

func TestSendText_ChuaCauHinhBaseURL(t *testing.T) {
	client := newTestClient("")
	result, err := client.SendText(context.Background(), "agent:nv001", "+84912345678", "Xin chào")

	assert.Error(t, err, "Thiếu GATEWAY_BASE_URL phải trả về lỗi thay vì gọi ra ngoài")
	assert.Nil(t, result)
}

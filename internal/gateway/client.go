// Package gateway chứa client gọi messaging gateway bên ngoài để gửi message outbound
package gateway

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"meta_chat/config"
	"meta_chat/internal/logger"
)

// SendResult là kết quả trả về từ gateway sau khi gửi message
type SendResult struct {
	GatewayMessageId string `json:"gatewayMessageId"` // ID message phía gateway cấp
	Accepted         bool   `json:"accepted"`         // Gateway đã nhận message hay chưa
}

// Client là interface gửi message outbound qua messaging gateway
type Client interface {
	// SendText gửi message văn bản tới một địa chỉ
	SendText(ctx context.Context, from string, to string, content string) (*SendResult, error)
	// SendMedia gửi message media (kèm caption tùy chọn) tới một địa chỉ
	SendMedia(ctx context.Context, from string, to string, mediaUrl string, caption string) (*SendResult, error)
}

// HTTPClient là Client gọi gateway qua HTTP JSON API
type HTTPClient struct {
	baseURL string
	apiKey  string
	client  *http.Client
}

// NewHTTPClient tạo mới HTTPClient từ cấu hình server
func NewHTTPClient(cfg *config.Configuration) *HTTPClient {
	timeout := time.Duration(cfg.GatewayTimeoutMs) * time.Millisecond
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &HTTPClient{
		baseURL: cfg.GatewayBaseURL,
		apiKey:  cfg.GatewayAPIKey,
		client:  &http.Client{Timeout: timeout},
	}
}

// SendText gửi message văn bản qua gateway
func (c *HTTPClient) SendText(ctx context.Context, from string, to string, content string) (*SendResult, error) {
	payload := map[string]interface{}{
		"from":    from,
		"to":      to,
		"type":    "text",
		"content": content,
	}
	return c.post(ctx, "/v1/messages", payload)
}

// SendMedia gửi message media qua gateway
func (c *HTTPClient) SendMedia(ctx context.Context, from string, to string, mediaUrl string, caption string) (*SendResult, error) {
	payload := map[string]interface{}{
		"from":     from,
		"to":       to,
		"type":     "media",
		"mediaUrl": mediaUrl,
	}
	if caption != "" {
		payload["content"] = caption
	}
	return c.post(ctx, "/v1/messages", payload)
}

// post gọi gateway và giải mã kết quả
func (c *HTTPClient) post(ctx context.Context, path string, payload map[string]interface{}) (*SendResult, error) {
	log := logger.GetAppLogger()

	if c.baseURL == "" {
		return nil, fmt.Errorf("gateway chưa được cấu hình (GATEWAY_BASE_URL trống)")
	}

	jsonData, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}

	url := c.baseURL + path
	req, err := http.NewRequestWithContext(ctx, "POST", url, bytes.NewBuffer(jsonData))
	if err != nil {
		return nil, err
	}
	req.Header.Set("Content-Type", "application/json")
	if c.apiKey != "" {
		req.Header.Set("Authorization", "Bearer "+c.apiKey)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"url": url,
			"to":  payload["to"],
		}).Error("📤 [GATEWAY] Lỗi khi gọi messaging gateway")
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		bodyBytes, _ := io.ReadAll(resp.Body)
		log.WithFields(map[string]interface{}{
			"url":        url,
			"statusCode": resp.StatusCode,
			"response":   string(bodyBytes),
		}).Error("📤 [GATEWAY] Gateway trả về lỗi")
		return nil, fmt.Errorf("gateway returned status %d: %s", resp.StatusCode, string(bodyBytes))
	}

	result := &SendResult{}
	if err := json.NewDecoder(resp.Body).Decode(result); err != nil {
		return nil, fmt.Errorf("gateway trả về body không hợp lệ: %v", err)
	}

	log.WithFields(map[string]interface{}{
		"to":               payload["to"],
		"gatewayMessageId": result.GatewayMessageId,
	}).Info("📤 [GATEWAY] Gửi message qua gateway thành công")
	return result, nil
}

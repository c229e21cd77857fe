package realtime

import (
	"time"

	"github.com/fasthttp/websocket"
	"github.com/gofiber/fiber/v3"
	"github.com/valyala/fasthttp"

	"meta_chat/internal/logger"
)

// writeTimeout là thời gian tối đa cho một lần ghi xuống kết nối WebSocket
const writeTimeout = 10 * time.Second

var upgrader = websocket.FastHTTPUpgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 4096,
	CheckOrigin: func(ctx *fasthttp.RequestCtx) bool {
		return true
	},
}

// ServeConversationWS nâng cấp kết nối HTTP lên WebSocket và stream sự kiện
// của một hội thoại cho client. Client chỉ nhận, mọi frame client gửi lên bị
// bỏ qua (trừ close/ping do thư viện tự xử lý).
func ServeConversationWS(hub *Hub, conversationId string, c fiber.Ctx) error {
	log := logger.GetAppLogger()

	err := upgrader.Upgrade(c.RequestCtx(), func(conn *websocket.Conn) {
		defer conn.Close()

		sub := hub.Subscribe(conversationId)
		defer hub.Unsubscribe(sub)

		log.WithField("conversationId", conversationId).Info("📡 [REALTIME] Client kết nối WebSocket")

		// Đọc để phát hiện client đóng kết nối
		done := make(chan struct{})
		go func() {
			defer close(done)
			for {
				if _, _, readErr := conn.ReadMessage(); readErr != nil {
					return
				}
			}
		}()

		for {
			select {
			case event, ok := <-sub.C:
				if !ok {
					return
				}
				_ = conn.SetWriteDeadline(time.Now().Add(writeTimeout))
				if writeErr := conn.WriteJSON(event); writeErr != nil {
					log.WithError(writeErr).
						WithField("conversationId", conversationId).
						Debug("📡 [REALTIME] Lỗi ghi xuống WebSocket, đóng kết nối")
					return
				}
			case <-done:
				return
			}
		}
	})
	if err != nil {
		log.WithError(err).WithField("conversationId", conversationId).
			Warn("📡 [REALTIME] Không thể nâng cấp kết nối WebSocket")
		return err
	}
	return nil
}

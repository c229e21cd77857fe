// Package router đăng ký các route thuộc domain Chat: hội thoại, message log, WebSocket realtime.
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	chathdl "meta_chat/internal/api/chat/handler"
	"meta_chat/internal/api/middleware"
	apirouter "meta_chat/internal/api/router"
	"meta_chat/internal/gateway"
	"meta_chat/internal/realtime"
)

// NewRegister tạo hàm đăng ký route chat với các phụ thuộc runtime (gateway, hub)
func NewRegister(gatewayClient gateway.Client, hub *realtime.Hub) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		conversationHandler, err := chathdl.NewChatConversationHandler()
		if err != nil {
			return fmt.Errorf("create chat conversation handler: %w", err)
		}
		messageHandler, err := chathdl.NewChatMessageHandler(gatewayClient, hub)
		if err != nil {
			return fmt.Errorf("create chat message handler: %w", err)
		}

		authMiddleware := middleware.AuthMiddleware("")
		authAgentMiddleware := middleware.AuthMiddleware(middleware.RoleAgent)

		// Hội thoại
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "POST", "/resolve",
			[]fiber.Handler{authAgentMiddleware}, conversationHandler.HandleResolve)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "GET", "/",
			[]fiber.Handler{authMiddleware}, conversationHandler.HandleInbox)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "GET", "/:conversationId",
			[]fiber.Handler{authMiddleware}, conversationHandler.HandleFindByConversationId)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "PUT", "/:conversationId/assign",
			[]fiber.Handler{authAgentMiddleware}, conversationHandler.HandleAssign)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/conversation", "PUT", "/:conversationId/close",
			[]fiber.Handler{authAgentMiddleware}, conversationHandler.HandleClose)

		// Message log
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "POST", "/send",
			[]fiber.Handler{authAgentMiddleware}, messageHandler.HandleSend)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "GET", "/:conversationId",
			[]fiber.Handler{authMiddleware}, messageHandler.HandleList)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "GET", "/:conversationId/count",
			[]fiber.Handler{authMiddleware}, messageHandler.HandleCount)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "GET", "/:conversationId/:messageId",
			[]fiber.Handler{authMiddleware}, messageHandler.HandleFindByMessageId)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "PUT", "/:conversationId/:messageId/read",
			[]fiber.Handler{authAgentMiddleware}, messageHandler.HandleMarkRead)
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/message", "DELETE", "/:conversationId/:messageId",
			[]fiber.Handler{authAgentMiddleware}, messageHandler.HandleSoftDelete)

		// WebSocket realtime
		apirouter.RegisterRouteWithMiddleware(v1, "/chat/ws", "GET", "/:conversationId",
			[]fiber.Handler{authMiddleware}, messageHandler.HandleWebSocket)

		return nil
	}
}

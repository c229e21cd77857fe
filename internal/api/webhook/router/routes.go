// Package router đăng ký các route thuộc domain Webhook: gateway webhook (public), WebhookLog và DeadLetter (admin CRUD).
package router

import (
	"fmt"

	"github.com/gofiber/fiber/v3"

	"meta_chat/config"
	webhookhdl "meta_chat/internal/api/webhook/handler"
	"meta_chat/internal/api/middleware"
	apirouter "meta_chat/internal/api/router"
	"meta_chat/internal/realtime"
)

// NewRegister tạo hàm đăng ký route webhook với các phụ thuộc runtime (hub, config)
func NewRegister(hub *realtime.Hub, cfg *config.Configuration) apirouter.RegisterFunc {
	return func(v1 fiber.Router, r *apirouter.Router) error {
		gatewayWebhookHandler, err := webhookhdl.NewGatewayWebhookHandler(hub, cfg)
		if err != nil {
			return fmt.Errorf("create gateway webhook handler: %w", err)
		}
		// Webhook là endpoint public, gateway không đăng nhập
		v1.Post("/webhook/gateway", gatewayWebhookHandler.HandleGatewayWebhook)

		webhookLogHandler, err := webhookhdl.NewWebhookLogHandler()
		if err != nil {
			return fmt.Errorf("create webhook log handler: %w", err)
		}
		apirouter.RegisterRouteWithMiddleware(v1, "/webhook-log", "GET", "/recent",
			[]fiber.Handler{middleware.AuthMiddleware(middleware.RoleAdmin)}, webhookLogHandler.HandleFindRecentBySource)
		r.RegisterCRUDRoutes(v1, "/webhook-log", webhookLogHandler, apirouter.ReadWriteConfig, middleware.RoleAdmin)

		deadLetterHandler, err := webhookhdl.NewWebhookDeadLetterHandler()
		if err != nil {
			return fmt.Errorf("create webhook dead letter handler: %w", err)
		}
		r.RegisterCRUDRoutes(v1, "/webhook-dead-letter", deadLetterHandler, apirouter.ReadOnlyConfig, middleware.RoleAdmin)

		return nil
	}
}

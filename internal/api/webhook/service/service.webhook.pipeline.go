package webhooksvc

import (
	"context"
	"fmt"

	chatmodels "meta_chat/internal/api/chat/models"
	chatsvc "meta_chat/internal/api/chat/service"
	webhookdto "meta_chat/internal/api/webhook/dto"
	webhookmodels "meta_chat/internal/api/webhook/models"
	"meta_chat/internal/logger"
	"meta_chat/internal/realtime"
)

// Các loại event webhook từ gateway
const (
	EventTypeMessageInbound = "message.inbound"
	EventTypeMessageStatus  = "message.status"
)

// PipelineOutcome là kết quả chạy pipeline cho một webhook
type PipelineOutcome struct {
	State     string                  // Trạng thái pipeline cuối cùng
	Permanent bool                    // true = lỗi vĩnh viễn (payload hỏng), không retry
	Message   *chatmodels.ChatMessage // Message đã bền vững (nếu có)
	Created   bool                    // Message mới hay bị collapse do trùng eventId
	Err       error                   // Lỗi nếu pipeline không chạy hết
}

// WebhookPipeline chạy chuỗi xử lý webhook: kiểm tra địa chỉ, resolve hội
// thoại, bền vững message, fan-out realtime. Cùng một logic được dùng cho
// cả lần nhận đầu tiên lẫn các lượt retry dead-letter.
type WebhookPipeline struct {
	conversationService *chatsvc.ChatConversationService
	messageService      *chatsvc.ChatMessageService
	hub                 *realtime.Hub
}

// NewWebhookPipeline tạo mới WebhookPipeline
func NewWebhookPipeline(hub *realtime.Hub) (*WebhookPipeline, error) {
	conversationService, err := chatsvc.NewChatConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_conversation service: %v", err)
	}
	messageService, err := chatsvc.NewChatMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create chat_message service: %v", err)
	}
	return &WebhookPipeline{
		conversationService: conversationService,
		messageService:      messageService,
		hub:                 hub,
	}, nil
}

// Process chạy pipeline cho một webhook theo eventType
func (p *WebhookPipeline) Process(ctx context.Context, req *webhookdto.GatewayWebhookRequest) PipelineOutcome {
	switch req.EventType {
	case EventTypeMessageInbound:
		return p.processInbound(ctx, req)
	case EventTypeMessageStatus:
		return p.processStatus(ctx, req)
	default:
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       fmt.Errorf("eventType '%s' không được hỗ trợ", req.EventType),
		}
	}
}

// processInbound xử lý event message.inbound: message mới từ bên ngoài
func (p *WebhookPipeline) processInbound(ctx context.Context, req *webhookdto.GatewayWebhookRequest) PipelineOutcome {
	log := logger.GetAppLogger()

	// Bước 1: kiểm tra cấu trúc payload và địa chỉ
	if req.EventId == "" {
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       fmt.Errorf("thiếu eventId trong payload"),
		}
	}
	if req.Message == nil {
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       fmt.Errorf("thiếu message trong payload event message.inbound"),
		}
	}
	addrA, addrB, err := chatsvc.NormalizePair(req.From, req.To)
	if err != nil {
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       err,
		}
	}

	// Bước 2: resolve hội thoại cho cặp địa chỉ
	conversation, err := p.conversationService.Resolve(ctx, addrA, addrB)
	if err != nil {
		return PipelineOutcome{
			State: webhookmodels.WebhookStateAddressValidated,
			Err:   err,
		}
	}

	// Bước 3: bền vững message, idempotent trên eventId
	msg := chatmodels.ChatMessage{
		MessageId:        req.EventId,
		Direction:        chatmodels.MessageDirectionInbound,
		Type:             req.Message.Type,
		Status:           chatmodels.MessageStatusReceived,
		SenderAddress:    normalizeOrRaw(req.From),
		RecipientAddress: normalizeOrRaw(req.To),
		Content:          req.Message.Content,
		MediaUrl:         req.Message.MediaUrl,
		Metadata:         req.Message.Metadata,
		Timestamp:        req.Timestamp,
	}
	if req.Message.Location != nil {
		msg.Location = &chatmodels.ChatLocation{
			Latitude:  req.Message.Location.Latitude,
			Longitude: req.Message.Location.Longitude,
			Name:      req.Message.Location.Name,
			Address:   req.Message.Location.Address,
		}
	}

	saved, created, err := p.messageService.Append(ctx, conversation.ConversationId, msg)
	if err != nil {
		if chatsvc.IsValidationError(err) {
			// Nội dung message hỏng là lỗi vĩnh viễn, retry không cứu được
			return PipelineOutcome{
				State:     webhookmodels.WebhookStateRejectedMalformed,
				Permanent: true,
				Err:       err,
			}
		}
		return PipelineOutcome{
			State: webhookmodels.WebhookStateConversationResolved,
			Err:   err,
		}
	}

	// Bước 4: fan-out realtime, chỉ với message thực sự mới
	state := webhookmodels.WebhookStateMessagePersisted
	if created {
		p.hub.Publish(realtime.Event{
			ConversationId: conversation.ConversationId,
			Type:           "message.created",
			Data:           saved,
		})
		state = webhookmodels.WebhookStateFanOutPublished
	} else {
		log.WithFields(map[string]interface{}{
			"conversationId": conversation.ConversationId,
			"eventId":        req.EventId,
		}).Info("🔔 [GATEWAY WEBHOOK] Event trùng, collapse về message đã có")
	}

	return PipelineOutcome{
		State:   state,
		Message: &saved,
		Created: created,
	}
}

// processStatus xử lý event message.status: gateway báo trạng thái giao nhận
// (delivered/read/failed) của một message outbound đã gửi trước đó
func (p *WebhookPipeline) processStatus(ctx context.Context, req *webhookdto.GatewayWebhookRequest) PipelineOutcome {
	if req.MessageId == "" || req.Status == "" {
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       fmt.Errorf("event message.status thiếu messageId hoặc status"),
		}
	}
	switch req.Status {
	case chatmodels.MessageStatusDelivered, chatmodels.MessageStatusRead, chatmodels.MessageStatusFailed:
	default:
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       fmt.Errorf("trạng thái '%s' không hợp lệ cho event message.status", req.Status),
		}
	}

	addrA, addrB, err := chatsvc.NormalizePair(req.From, req.To)
	if err != nil {
		return PipelineOutcome{
			State:     webhookmodels.WebhookStateRejectedMalformed,
			Permanent: true,
			Err:       err,
		}
	}
	conversationId := chatsvc.BuildConversationId(addrA, addrB)

	updated, err := p.messageService.UpdateSendStatus(ctx, conversationId, req.MessageId, req.Status, "")
	if err != nil {
		return PipelineOutcome{
			State: webhookmodels.WebhookStateAddressValidated,
			Err:   err,
		}
	}

	p.hub.Publish(realtime.Event{
		ConversationId: conversationId,
		Type:           "message.status",
		Data:           updated,
	})

	return PipelineOutcome{
		State:   webhookmodels.WebhookStateFanOutPublished,
		Message: &updated,
		Created: false,
	}
}

// normalizeOrRaw chuẩn hóa một địa chỉ, trả lại nguyên bản nếu không hợp lệ.
// Chỉ dùng sau khi NormalizePair đã xác nhận cặp địa chỉ hợp lệ.
func normalizeOrRaw(address string) string {
	normalized, err := chatsvc.NormalizeAddress(address)
	if err != nil {
		return address
	}
	return normalized
}

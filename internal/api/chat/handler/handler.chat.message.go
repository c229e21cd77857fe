package chathdl

import (
	"context"
	"fmt"
	"time"

	"github.com/gofiber/fiber/v3"
	"github.com/google/uuid"

	basehdl "meta_chat/internal/api/base/handler"
	chatdto "meta_chat/internal/api/chat/dto"
	chatmodels "meta_chat/internal/api/chat/models"
	chatsvc "meta_chat/internal/api/chat/service"
	"meta_chat/internal/common"
	"meta_chat/internal/gateway"
	"meta_chat/internal/logger"
	"meta_chat/internal/realtime"
)

// ChatMessageHandler xử lý các route liên quan đến message log
type ChatMessageHandler struct {
	*basehdl.BaseHandler[chatmodels.ChatMessage, chatdto.ChatMessageSendInput, chatdto.ChatMessageSendInput]
	ChatMessageService      *chatsvc.ChatMessageService
	ChatConversationService *chatsvc.ChatConversationService
	GatewayClient           gateway.Client
	Hub                     *realtime.Hub
}

// NewChatMessageHandler tạo ChatMessageHandler mới
func NewChatMessageHandler(gatewayClient gateway.Client, hub *realtime.Hub) (*ChatMessageHandler, error) {
	messageService, err := chatsvc.NewChatMessageService()
	if err != nil {
		return nil, fmt.Errorf("failed to create message service: %v", err)
	}
	conversationService, err := chatsvc.NewChatConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	hdl := &ChatMessageHandler{
		ChatMessageService:      messageService,
		ChatConversationService: conversationService,
		GatewayClient:           gatewayClient,
		Hub:                     hub,
	}
	hdl.BaseHandler = basehdl.NewBaseHandler[chatmodels.ChatMessage, chatdto.ChatMessageSendInput, chatdto.ChatMessageSendInput](messageService.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleSend gửi message outbound: bền vững hóa với trạng thái pending trước,
// gọi gateway sau, rồi cập nhật sent/failed theo kết quả. MessageId do client
// gửi kèm là khóa idempotency: gửi lại cùng messageId không tạo bản ghi mới
// và không gọi gateway lần nữa.
func (h *ChatMessageHandler) HandleSend(c fiber.Ctx) error {
	ctx := context.Background()

	var input chatdto.ChatMessageSendInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	conversation, err := h.resolveTarget(ctx, &input)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	from, to := pickOutboundAddresses(conversation.Participants)
	if input.MessageId == "" {
		input.MessageId = uuid.NewString()
	}

	msg := chatmodels.ChatMessage{
		MessageId:        input.MessageId,
		Direction:        chatmodels.MessageDirectionOutbound,
		Type:             input.Type,
		Status:           chatmodels.MessageStatusPending,
		SenderAddress:    from,
		RecipientAddress: to,
		Content:          input.Content,
		MediaUrl:         input.MediaUrl,
		Timestamp:        time.Now().UnixMilli(),
	}

	saved, created, err := h.ChatMessageService.Append(ctx, conversation.ConversationId, msg)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if !created {
		// Append trùng messageId: trả lại bản ghi cũ, không gọi gateway lại
		h.HandleResponse(c, saved, nil)
		return nil
	}

	saved = h.dispatchToGateway(ctx, conversation.ConversationId, saved)

	h.Hub.Publish(realtime.Event{
		ConversationId: conversation.ConversationId,
		Type:           "message.created",
		Data:           saved,
	})

	h.HandleResponse(c, saved, nil)
	return nil
}

// resolveTarget xác định hội thoại đích của một lệnh gửi: ưu tiên conversationId,
// không có thì resolve từ cặp địa chỉ from/to
func (h *ChatMessageHandler) resolveTarget(ctx context.Context, input *chatdto.ChatMessageSendInput) (chatmodels.ChatConversation, error) {
	var zero chatmodels.ChatConversation
	if input.ConversationId != "" {
		return h.ChatConversationService.FindOneByConversationId(ctx, input.ConversationId)
	}
	if input.From == "" || input.To == "" {
		return zero, common.NewError(common.ErrCodeValidationInput,
			"Phải có conversationId hoặc cặp địa chỉ from/to", common.StatusBadRequest, nil)
	}
	return h.ChatConversationService.Resolve(ctx, input.From, input.To)
}

// dispatchToGateway gọi gateway gửi message và cập nhật trạng thái sent/failed
func (h *ChatMessageHandler) dispatchToGateway(ctx context.Context, conversationId string, msg chatmodels.ChatMessage) chatmodels.ChatMessage {
	log := logger.GetAppLogger()

	var result *gateway.SendResult
	var sendErr error
	if msg.MediaUrl != "" {
		result, sendErr = h.GatewayClient.SendMedia(ctx, msg.SenderAddress, msg.RecipientAddress, msg.MediaUrl, msg.Content)
	} else {
		result, sendErr = h.GatewayClient.SendText(ctx, msg.SenderAddress, msg.RecipientAddress, msg.Content)
	}

	status := chatmodels.MessageStatusSent
	gatewayMessageId := ""
	if sendErr != nil {
		status = chatmodels.MessageStatusFailed
		log.WithError(sendErr).WithFields(map[string]interface{}{
			"conversationId": conversationId,
			"messageId":      msg.MessageId,
		}).Error("💬 [CHAT] Gateway từ chối message outbound")
	} else if result != nil {
		gatewayMessageId = result.GatewayMessageId
	}

	updated, err := h.ChatMessageService.UpdateSendStatus(ctx, conversationId, msg.MessageId, status, gatewayMessageId)
	if err != nil {
		log.WithError(err).WithFields(map[string]interface{}{
			"conversationId": conversationId,
			"messageId":      msg.MessageId,
		}).Error("💬 [CHAT] Không thể cập nhật trạng thái gửi")
		msg.Status = status
		return msg
	}
	return updated
}

// pickOutboundAddresses chọn (from, to) cho chiều outbound: địa chỉ agent là
// bên gửi, địa chỉ còn lại là bên nhận. Hội thoại không có agent thì lấy theo
// thứ tự participants.
func pickOutboundAddresses(participants []string) (string, string) {
	if len(participants) < 2 {
		if len(participants) == 1 {
			return participants[0], ""
		}
		return "", ""
	}
	if chatsvc.ClassifyAddress(participants[1]) == chatsvc.AddressKindAgent {
		return participants[1], participants[0]
	}
	return participants[0], participants[1]
}

// HandleList liệt kê message của một hội thoại theo thứ tự thời gian,
// phân trang bằng cursor
func (h *ChatMessageHandler) HandleList(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")

	var query chatdto.ChatMessageListQuery
	if err := c.Bind().Query(&query); err != nil {
		h.HandleResponse(c, nil, common.NewError(common.ErrCodeValidationFormat,
			"Tham số truy vấn không hợp lệ", common.StatusBadRequest, err))
		return nil
	}
	if err := h.ValidateInput(&query); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	filter := chatsvc.MessageListFilter{
		Direction:     query.Direction,
		Status:        query.Status,
		Type:          query.Type,
		FromTimestamp: query.FromTimestamp,
		ToTimestamp:   query.ToTimestamp,
	}

	result, err := h.ChatMessageService.List(context.Background(), conversationId, filter, query.Cursor, query.Limit)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleCount đếm số message chưa xóa của một hội thoại
func (h *ChatMessageHandler) HandleCount(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	count, err := h.ChatMessageService.CountByConversationId(context.Background(), conversationId)
	h.HandleResponse(c, fiber.Map{"conversationId": conversationId, "count": count}, err)
	return nil
}

// HandleFindByMessageId tìm một message theo cặp (conversationId, messageId)
func (h *ChatMessageHandler) HandleFindByMessageId(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	messageId := c.Params("messageId")
	result, err := h.ChatMessageService.FindOneByMessageId(context.Background(), conversationId, messageId)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleMarkRead đánh dấu một message đã đọc và fan-out read receipt
func (h *ChatMessageHandler) HandleMarkRead(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	messageId := c.Params("messageId")

	var input chatdto.ChatMessageMarkReadInput
	_ = h.ParseRequestBody(c, &input) // body rỗng hợp lệ, readerId lấy từ token
	readerId := input.ReaderId
	if readerId == "" {
		if userId, ok := c.Locals("user_id").(string); ok {
			readerId = userId
		}
	}

	result, err := h.ChatMessageService.MarkRead(context.Background(), conversationId, messageId, readerId)
	if err == nil {
		h.Hub.Publish(realtime.Event{
			ConversationId: conversationId,
			Type:           "message.read",
			Data:           result,
		})
	}
	h.HandleResponse(c, result, err)
	return nil
}

// HandleSoftDelete xóa mềm một message và fan-out sự kiện xóa
func (h *ChatMessageHandler) HandleSoftDelete(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	messageId := c.Params("messageId")

	deleterId := ""
	if userId, ok := c.Locals("user_id").(string); ok {
		deleterId = userId
	}

	result, err := h.ChatMessageService.SoftDelete(context.Background(), conversationId, messageId, deleterId)
	if err == nil {
		h.Hub.Publish(realtime.Event{
			ConversationId: conversationId,
			Type:           "message.deleted",
			Data:           result,
		})
	}
	h.HandleResponse(c, result, err)
	return nil
}

// HandleWebSocket nâng cấp kết nối lên WebSocket để nhận sự kiện realtime
// của một hội thoại. Hội thoại phải tồn tại trước khi subscribe.
func (h *ChatMessageHandler) HandleWebSocket(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	exists, err := h.ChatConversationService.IsConversationIdExist(context.Background(), conversationId)
	if err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if !exists {
		h.HandleResponse(c, nil, common.ErrConversationNotFound)
		return nil
	}
	return realtime.ServeConversationWS(h.Hub, conversationId, c)
}

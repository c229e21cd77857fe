// Package chathdl chứa các handler HTTP cho domain chat
package chathdl

import (
	"context"
	"fmt"

	"github.com/gofiber/fiber/v3"
	"go.mongodb.org/mongo-driver/bson"

	basehdl "meta_chat/internal/api/base/handler"
	chatdto "meta_chat/internal/api/chat/dto"
	chatmodels "meta_chat/internal/api/chat/models"
	chatsvc "meta_chat/internal/api/chat/service"
)

// ChatConversationHandler xử lý các route liên quan đến hội thoại
type ChatConversationHandler struct {
	*basehdl.BaseHandler[chatmodels.ChatConversation, chatdto.ChatConversationCreateInput, chatdto.ChatConversationUpdateInput]
	ChatConversationService *chatsvc.ChatConversationService
}

// NewChatConversationHandler tạo ChatConversationHandler mới
func NewChatConversationHandler() (*ChatConversationHandler, error) {
	service, err := chatsvc.NewChatConversationService()
	if err != nil {
		return nil, fmt.Errorf("failed to create conversation service: %v", err)
	}
	hdl := &ChatConversationHandler{ChatConversationService: service}
	hdl.BaseHandler = basehdl.NewBaseHandler[chatmodels.ChatConversation, chatdto.ChatConversationCreateInput, chatdto.ChatConversationUpdateInput](service.BaseServiceMongoImpl)
	return hdl, nil
}

// HandleResolve tìm hoặc tạo hội thoại cho một cặp địa chỉ.
// Cùng một cặp địa chỉ (bất kể thứ tự, bất kể định dạng trình bày) luôn
// trả về đúng một hội thoại.
func (h *ChatConversationHandler) HandleResolve(c fiber.Ctx) error {
	var input chatdto.ChatConversationResolveInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	result, err := h.ChatConversationService.Resolve(context.Background(), input.AddressA, input.AddressB)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleFindByConversationId tìm một hội thoại theo conversationId
func (h *ChatConversationHandler) HandleFindByConversationId(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	result, err := h.ChatConversationService.FindOneByConversationId(context.Background(), conversationId)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleInbox liệt kê hội thoại theo hoạt động gần nhất (inbox của agent),
// lọc tùy chọn theo status / assignedAgent / tag
func (h *ChatConversationHandler) HandleInbox(c fiber.Ctx) error {
	page, limit := h.ParsePagination(c)

	filter := bson.M{}
	if status := c.Query("status"); status != "" {
		filter["status"] = status
	}
	if agent := c.Query("assignedAgent"); agent != "" {
		filter["assignedAgent"] = agent
	}
	if tag := c.Query("tag"); tag != "" {
		filter["tags"] = tag
	}

	result, err := h.ChatConversationService.FindAllSortByActivity(context.Background(), page, limit, filter)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleAssign gán agent phụ trách một hội thoại đang mở
func (h *ChatConversationHandler) HandleAssign(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")

	var input chatdto.ChatConversationAssignInput
	if err := h.ParseRequestBody(c, &input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}
	if err := h.ValidateInput(&input); err != nil {
		h.HandleResponse(c, nil, err)
		return nil
	}

	result, err := h.ChatConversationService.Assign(context.Background(), conversationId, input.AgentId)
	h.HandleResponse(c, result, err)
	return nil
}

// HandleClose đóng một hội thoại. Đóng hội thoại đã đóng là no-op.
func (h *ChatConversationHandler) HandleClose(c fiber.Ctx) error {
	conversationId := c.Params("conversationId")
	result, err := h.ChatConversationService.Close(context.Background(), conversationId)
	h.HandleResponse(c, result, err)
	return nil
}

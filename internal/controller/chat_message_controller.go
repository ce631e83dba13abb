package controller

import (
	"github.com/gofiber/fiber/v2"

	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/pkg/serverutils"
	"requirements-assistant-be/internal/service"
)

type IChatMessageController interface {
	RegisterRoutes(r fiber.Router)
	Send(ctx *fiber.Ctx) error
	ListByProject(ctx *fiber.Ctx) error
}

type chatMessageController struct {
	conversationService service.IConversationService
}

func NewChatMessageController(conversationService service.IConversationService) IChatMessageController {
	return &chatMessageController{
		conversationService: conversationService,
	}
}

func (c *chatMessageController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/chat-message/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("", c.Send)
	h.Get("project/:project_id", c.ListByProject)
}

func (c *chatMessageController) Send(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIDFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.SendChatMessageRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.SendMessage(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success send message", res))
}

func (c *chatMessageController) ListByProject(ctx *fiber.Ctx) error {
	projectId, err := serverutils.ProjectIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversationService.ListMessages(ctx.UserContext(), projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get messages", res))
}

package controller

import (
	"github.com/gofiber/fiber/v2"

	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/pkg/serverutils"
	"requirements-assistant-be/internal/service"
)

type IStateMachineController interface {
	RegisterRoutes(r fiber.Router)
	Show(ctx *fiber.Ctx) error
	Update(ctx *fiber.Ctx) error
}

type stateMachineController struct {
	conversationService service.IConversationService
}

func NewStateMachineController(conversationService service.IConversationService) IStateMachineController {
	return &stateMachineController{
		conversationService: conversationService,
	}
}

func (c *stateMachineController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/state-machine/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Get("project/:project_id", c.Show)
	h.Post("project/:project_id", c.Update)
}

func (c *stateMachineController) Show(ctx *fiber.Ctx) error {
	projectId, err := serverutils.ProjectIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.conversationService.GetState(ctx.UserContext(), projectId)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get state", res))
}

// Update opens an analysis round for "analyze_requisites" and records any
// other stage as a plain snapshot.
func (c *stateMachineController) Update(ctx *fiber.Ctx) error {
	projectId, err := serverutils.ProjectIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.UpdateStateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.conversationService.UpdateState(ctx.UserContext(), projectId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success update state", res))
}

package controller

import (
	"github.com/gofiber/fiber/v2"

	"requirements-assistant-be/internal/dto"
	"requirements-assistant-be/internal/pkg/serverutils"
	"requirements-assistant-be/internal/service"
)

type IRequirementController interface {
	RegisterRoutes(r fiber.Router)
	Generate(ctx *fiber.Ctx) error
	ListByProject(ctx *fiber.Ctx) error
	Create(ctx *fiber.Ctx) error
}

type requirementController struct {
	requirementService service.IRequirementService
}

func NewRequirementController(requirementService service.IRequirementService) IRequirementController {
	return &requirementController{
		requirementService: requirementService,
	}
}

func (c *requirementController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/requirement/v1")
	h.Use(serverutils.JwtMiddleware)
	h.Post("generate", c.Generate)
	h.Get("project/:project_id", c.ListByProject)
	h.Post("project/:project_id", c.Create)
}

func (c *requirementController) Generate(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIDFromContext(ctx)
	if err != nil {
		return err
	}

	var req dto.GenerateRequirementsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requirementService.GenerateForCategory(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success generate requirements", res))
}

func (c *requirementController) ListByProject(ctx *fiber.Ctx) error {
	projectId, err := serverutils.ProjectIDParam(ctx)
	if err != nil {
		return err
	}

	res, err := c.requirementService.List(ctx.UserContext(), projectId, ctx.Query("category"))
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success get requirements", res))
}

func (c *requirementController) Create(ctx *fiber.Ctx) error {
	userId, err := serverutils.UserIDFromContext(ctx)
	if err != nil {
		return err
	}

	projectId, err := serverutils.ProjectIDParam(ctx)
	if err != nil {
		return err
	}

	var req dto.CreateRequirementRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	req.ProjectId = projectId

	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.requirementService.Create(ctx.UserContext(), userId, &req)
	if err != nil {
		return err
	}

	return ctx.JSON(serverutils.SuccessResponse("Success create requirement", res))
}

package controller

import (
	"fmt"

	"docpanel-be/internal/docgen"
	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/service"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
)

type IDocumentSessionController interface {
	RegisterRoutes(r fiber.Router)
	Open(ctx *fiber.Ctx) error
	Show(ctx *fiber.Ctx) error
	PatchFields(ctx *fiber.Ctx) error
	SelectSubject(ctx *fiber.Ctx) error
	Preview(ctx *fiber.Ctx) error
	ClosePreview(ctx *fiber.Ctx) error
	Commit(ctx *fiber.Ctx) error
	Close(ctx *fiber.Ctx) error
	ServePreview(ctx *fiber.Ctx) error
}

type documentSessionController struct {
	sessionService service.IDocumentSessionService
}

func NewDocumentSessionController(sessionService service.IDocumentSessionService) IDocumentSessionController {
	return &documentSessionController{
		sessionService: sessionService,
	}
}

func (c *documentSessionController) RegisterRoutes(r fiber.Router) {
	h := r.Group("/document-sessions")
	h.Post("", c.Open)
	h.Get(":id", c.Show)
	h.Patch(":id/fields", c.PatchFields)
	h.Put(":id/subject", c.SelectSubject)
	h.Post(":id/preview", c.Preview)
	h.Delete(":id/preview", c.ClosePreview)
	h.Post(":id/commit", c.Commit)
	h.Delete(":id", c.Close)

	r.Get("/previews/:handle", c.ServePreview)
}

func (c *documentSessionController) Open(ctx *fiber.Ctx) error {
	var req dto.OpenSessionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Open(ctx.UserContext(), &req)
	if err != nil {
		return err
	}
	return ctx.Status(fiber.StatusCreated).JSON(serverutils.SuccessResponse("Session opened", res))
}

func (c *documentSessionController) Show(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	res, err := c.sessionService.Get(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get session", res))
}

func (c *documentSessionController) PatchFields(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var req dto.PatchFieldsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.Patch(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Fields updated", res))
}

func (c *documentSessionController) SelectSubject(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	var req dto.SelectSubjectRequest
	if err := ctx.BodyParser(&req); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "Invalid request body")
	}
	if err := serverutils.ValidateRequest(req); err != nil {
		return err
	}

	res, err := c.sessionService.SelectSubject(ctx.UserContext(), id, &req)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Subject selected", res))
}

func (c *documentSessionController) Preview(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	res, err := c.sessionService.Preview(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Preview ready", res))
}

func (c *documentSessionController) ClosePreview(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	res, err := c.sessionService.ClosePreview(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Preview closed", res))
}

// Commit answers with the PDF as an attachment for student documents and with
// the persisted record for institutional ones.
func (c *documentSessionController) Commit(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	res, err := c.sessionService.Commit(ctx.UserContext(), id)
	if err != nil {
		return err
	}

	if res.Download != nil {
		contentType := res.Download.ContentType
		if contentType == "" {
			contentType = "application/pdf"
		}
		ctx.Set(fiber.HeaderContentType, contentType)
		ctx.Set(fiber.HeaderContentDisposition, fmt.Sprintf("attachment; filename=%q", res.Download.Filename))
		return ctx.Send(res.Download.Content)
	}

	var record *dto.CommitRecordResponse
	if res.Record != nil {
		record = &dto.CommitRecordResponse{
			Id:           res.Record.ID,
			Title:        res.Record.Title,
			DocumentType: res.Record.DocumentType,
			CreatedAt:    res.Record.CreatedAt,
		}
	}
	return ctx.JSON(serverutils.SuccessResponse(commitMessage(res.Mode), record))
}

func (c *documentSessionController) Close(ctx *fiber.Ctx) error {
	id, err := sessionID(ctx)
	if err != nil {
		return err
	}
	if err := c.sessionService.Close(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Session closed", nil))
}

func (c *documentSessionController) ServePreview(ctx *fiber.Ctx) error {
	artifact, err := c.sessionService.OpenPreviewArtifact(ctx.UserContext(), ctx.Params("handle"))
	if err != nil {
		return err
	}
	ctx.Set(fiber.HeaderContentType, artifact.ContentType)
	ctx.Set(fiber.HeaderContentDisposition, "inline")
	ctx.Set(fiber.HeaderCacheControl, "no-store")
	return ctx.Send(artifact.Content)
}

func sessionID(ctx *fiber.Ctx) (uuid.UUID, error) {
	id, err := uuid.Parse(ctx.Params("id"))
	if err != nil {
		return uuid.Nil, fiber.NewError(fiber.StatusBadRequest, "Invalid session id")
	}
	return id, nil
}

func commitMessage(mode docgen.Mode) string {
	if mode == docgen.ModeInstitution {
		return "Documento institucional gerado e salvo com sucesso!"
	}
	return "Documento gerado com sucesso!"
}

package controller

import (
	"strconv"

	"docpanel-be/internal/dto"
	"docpanel-be/internal/pkg/serverutils"
	"docpanel-be/internal/service"

	"github.com/gofiber/fiber/v2"
)

type IDocumentArchiveController interface {
	RegisterRoutes(r fiber.Router)
	ListInstitutional(ctx *fiber.Ctx) error
	ShowInstitutional(ctx *fiber.Ctx) error
	DeleteInstitutional(ctx *fiber.Ctx) error
	ListStudentDocuments(ctx *fiber.Ctx) error
	ShowStudentDocument(ctx *fiber.Ctx) error
	DeleteStudentDocument(ctx *fiber.Ctx) error
}

type documentArchiveController struct {
	archiveService service.IDocumentArchiveService
}

func NewDocumentArchiveController(archiveService service.IDocumentArchiveService) IDocumentArchiveController {
	return &documentArchiveController{
		archiveService: archiveService,
	}
}

func (c *documentArchiveController) RegisterRoutes(r fiber.Router) {
	inst := r.Group("/institutional-documents")
	inst.Get("", c.ListInstitutional)
	inst.Get(":id", c.ShowInstitutional)
	inst.Delete(":id", c.DeleteInstitutional)

	r.Get("/students/:id/documents", c.ListStudentDocuments)

	student := r.Group("/student-documents")
	student.Get(":id", c.ShowStudentDocument)
	student.Delete(":id", c.DeleteStudentDocument)
}

func (c *documentArchiveController) ListInstitutional(ctx *fiber.Ctx) error {
	q, err := archiveQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.archiveService.ListInstitutional(ctx.UserContext(), q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list institutional documents", res))
}

func (c *documentArchiveController) ShowInstitutional(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}
	res, err := c.archiveService.GetInstitutional(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get institutional document", res))
}

func (c *documentArchiveController) DeleteInstitutional(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}
	if err := c.archiveService.DeleteInstitutional(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Documento excluído com sucesso!", nil))
}

func (c *documentArchiveController) ListStudentDocuments(ctx *fiber.Ctx) error {
	studentID, err := recordID(ctx)
	if err != nil {
		return err
	}
	q, err := archiveQuery(ctx)
	if err != nil {
		return err
	}
	res, err := c.archiveService.ListStudentDocuments(ctx.UserContext(), studentID, q)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success list student documents", res))
}

func (c *documentArchiveController) ShowStudentDocument(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}
	res, err := c.archiveService.GetStudentDocument(ctx.UserContext(), id)
	if err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse("Success get student document", res))
}

func (c *documentArchiveController) DeleteStudentDocument(ctx *fiber.Ctx) error {
	id, err := recordID(ctx)
	if err != nil {
		return err
	}
	if err := c.archiveService.DeleteStudentDocument(ctx.UserContext(), id); err != nil {
		return err
	}
	return ctx.JSON(serverutils.SuccessResponse[any]("Documento excluído com sucesso!", nil))
}

func archiveQuery(ctx *fiber.Ctx) (*dto.ArchiveListQuery, error) {
	var q dto.ArchiveListQuery
	if err := ctx.QueryParser(&q); err != nil {
		return nil, fiber.NewError(fiber.StatusBadRequest, "Invalid query")
	}
	if err := serverutils.ValidateRequest(q); err != nil {
		return nil, err
	}
	return &q, nil
}

func recordID(ctx *fiber.Ctx) (int64, error) {
	id, err := strconv.ParseInt(ctx.Params("id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, fiber.NewError(fiber.StatusBadRequest, "Invalid id")
	}
	return id, nil
}

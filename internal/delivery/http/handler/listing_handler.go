package handler

import (
	stderrors "errors"
	"mime/multipart"
	"strconv"
	"strings"

	"github.com/gofiber/fiber/v2"
	"github.com/listing-service/internal/delivery/http/middleware"
	"github.com/listing-service/internal/domain"
	"github.com/listing-service/internal/domain/repository"
	"github.com/listing-service/internal/pkg/errors"
	"github.com/listing-service/internal/pkg/utils"
	"github.com/listing-service/internal/usecase"
	"github.com/listing-service/internal/usecase/dto"
	"go.uber.org/zap"
)

// Имена multipart поля с изображением
const (
	imageField       = "image"
	legacyImageField = "listing[image]"
)

// ListingHandler - обработчик жизненного цикла объявлений
type ListingHandler struct {
	listingUC *usecase.ListingUseCase
	logger    *zap.Logger
}

// NewListingHandler - создание нового ListingHandler
func NewListingHandler(listingUC *usecase.ListingUseCase, logger *zap.Logger) *ListingHandler {
	return &ListingHandler{
		listingUC: listingUC,
		logger:    logger,
	}
}

// Index godoc
// @Summary Список объявлений
// @Description Возвращает все объявления или объявления одной категории. Неизвестная категория даёт пустой список.
// @Tags Listings
// @Produce json
// @Param category query string false "Категория (Rooms, Mountains, ...)"
// @Success 200 {object} utils.SuccessResponse{data=dto.IndexResult}
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/listings [get]
func (h *ListingHandler) Index(c *fiber.Ctx) error {
	result, err := h.listingUC.Index(c.Context(), strings.TrimSpace(c.Query("category")))
	if err != nil {
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result, &utils.Meta{
		Total:    len(result.Listings),
		Category: result.Category,
	})
}

// New godoc
// @Summary Данные формы создания
// @Description Перечень категорий для формы нового объявления
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Failure 401 {object} utils.ErrorResponse
// @Router /api/v1/listings/new [get]
func (h *ListingHandler) New(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.CategoriesResponse{Categories: domain.Categories()}, nil)
}

// Categories godoc
// @Summary Категории объявлений
// @Tags Listings
// @Produce json
// @Success 200 {object} utils.SuccessResponse{data=dto.CategoriesResponse}
// @Router /api/v1/categories [get]
func (h *ListingHandler) Categories(c *fiber.Ctx) error {
	return utils.SendSuccess(c, dto.CategoriesResponse{Categories: domain.Categories()}, nil)
}

// Show godoc
// @Summary Объявление
// @Description Объявление с владельцем, отзывами и авторами отзывов. Отсутствующее объявление - 303 на список.
// @Tags Listings
// @Produce json
// @Param id path string true "ID объявления"
// @Success 200 {object} utils.SuccessResponse{data=domain.Listing}
// @Failure 303 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/listings/{id} [get]
func (h *ListingHandler) Show(c *fiber.Ctx) error {
	listing, err := h.listingUC.Show(c.Context(), c.Params("id"))
	if err != nil {
		if stderrors.Is(err, errors.ErrListingNotFound) {
			return middleware.SendNotFoundRedirect(c)
		}
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, listing, nil)
}

// Create godoc
// @Summary Создание объявления
// @Description Принимает JSON или multipart/form-data (файл в поле image). Если геокодер недоступен, объявление сохраняется с точкой [0,0].
// @Tags Listings
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param request body dto.ListingInput true "Поля объявления"
// @Success 201 {object} utils.SuccessResponse{data=domain.Listing}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/listings [post]
func (h *ListingHandler) Create(c *fiber.Ctx) error {
	input, err := parseListingInput(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	upload, closeUpload, err := parseImageUpload(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	defer closeUpload()

	result, err := h.listingUC.Create(c.Context(), middleware.ActorFrom(c), input, upload)
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Location(middleware.ListingsPath + "/" + result.Listing.ID)
	return utils.SendCreated(c, result.Listing, result.Notices...)
}

// Edit godoc
// @Summary Данные формы редактирования
// @Description Объявление, уменьшенное изображение для превью и перечень категорий. Только владелец.
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Success 200 {object} utils.SuccessResponse{data=dto.EditFormResult}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Router /api/v1/listings/{id}/edit [get]
func (h *ListingHandler) Edit(c *fiber.Ctx) error {
	return utils.SendSuccess(c, h.listingUC.EditForm(middleware.ListingFrom(c)), nil)
}

// Update godoc
// @Summary Обновление объявления
// @Description Заменяет поля объявления. Изображение заменяется только при новой загрузке. Только владелец.
// @Tags Listings
// @Accept json,mpfd
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Param request body dto.ListingInput true "Поля объявления"
// @Success 200 {object} utils.SuccessResponse{data=domain.Listing}
// @Failure 400 {object} utils.ErrorResponse
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/listings/{id} [put]
func (h *ListingHandler) Update(c *fiber.Ctx) error {
	input, err := parseListingInput(c)
	if err != nil {
		return utils.SendError(c, err)
	}

	upload, closeUpload, err := parseImageUpload(c)
	if err != nil {
		return utils.SendError(c, err)
	}
	defer closeUpload()

	result, err := h.listingUC.Update(c.Context(), middleware.ListingFrom(c), input, upload)
	if err != nil {
		if stderrors.Is(err, errors.ErrListingNotFound) {
			return middleware.SendNotFoundRedirect(c)
		}
		return utils.SendError(c, err)
	}

	return utils.SendSuccess(c, result.Listing, nil, result.Notices...)
}

// Delete godoc
// @Summary Удаление объявления
// @Description Удаляет объявление, его отзывы и изображение. Только владелец.
// @Tags Listings
// @Produce json
// @Security BearerAuth
// @Param id path string true "ID объявления"
// @Success 200 {object} utils.SuccessResponse{data=dto.DeleteResult}
// @Failure 401 {object} utils.ErrorResponse
// @Failure 403 {object} utils.ErrorResponse
// @Failure 500 {object} utils.ErrorResponse
// @Router /api/v1/listings/{id} [delete]
func (h *ListingHandler) Delete(c *fiber.Ctx) error {
	result, err := h.listingUC.Delete(c.Context(), middleware.ListingFrom(c))
	if err != nil {
		return utils.SendError(c, err)
	}

	c.Location(middleware.ListingsPath)
	return utils.SendSuccess(c, result, nil, result.Notices...)
}

// parseListingInput читает поля из JSON или из формы (urlencoded/multipart).
// В форме поддерживаются имена вида "title" и "listing[title]".
func parseListingInput(c *fiber.Ctx) (dto.ListingInput, error) {
	var input dto.ListingInput

	if strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEApplicationJSON) {
		if err := c.BodyParser(&input); err != nil {
			return input, errors.ErrInvalidRequest.WithMessage("Invalid request body")
		}
		return input, nil
	}

	input.Title = formValue(c, "title")
	input.Description = formValue(c, "description")
	input.Location = formValue(c, "location")
	input.Country = formValue(c, "country")
	input.Category = formValue(c, "category")

	// неразбираемая цена уходит в PriceText, валидатор отклоняет ее как не число
	if raw := strings.TrimSpace(formValue(c, "price")); raw != "" {
		if price, err := strconv.ParseFloat(raw, 64); err == nil {
			input.Price = &price
		} else {
			input.PriceText = raw
		}
	}

	return input, nil
}

func formValue(c *fiber.Ctx, name string) string {
	if v := c.FormValue(name); v != "" {
		return v
	}
	return c.FormValue("listing[" + name + "]")
}

// parseImageUpload возвращает загруженный файл или nil, если файла нет
func parseImageUpload(c *fiber.Ctx) (*repository.ImageUpload, func(), error) {
	noop := func() {}

	if !strings.HasPrefix(c.Get(fiber.HeaderContentType), fiber.MIMEMultipartForm) {
		return nil, noop, nil
	}

	header, err := c.FormFile(imageField)
	if err != nil {
		header, err = c.FormFile(legacyImageField)
	}
	if err != nil {
		return nil, noop, nil
	}

	return openUpload(header)
}

func openUpload(header *multipart.FileHeader) (*repository.ImageUpload, func(), error) {
	file, err := header.Open()
	if err != nil {
		return nil, func() {}, errors.ErrInvalidRequest.WithMessage("Unable to read uploaded image")
	}

	upload := &repository.ImageUpload{
		Filename:    header.Filename,
		ContentType: header.Header.Get(fiber.HeaderContentType),
		Size:        header.Size,
		Reader:      file,
	}
	return upload, func() { _ = file.Close() }, nil
}

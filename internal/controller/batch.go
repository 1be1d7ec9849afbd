package controller

import (
	"net/http"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type batchRoutesHandler struct {
	batchService    service.Batch
	resolverService service.Resolver
	validate        *validator.Validate
}

func newBatchRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *batchRoutesHandler {
	h := &batchRoutesHandler{batchService: services.Batch, resolverService: services.Resolver, validate: v}
	outer.POST("/batches/new", h.PostBatch)
	outer.GET("/batches", h.GetPublishedBatches)
	outer.GET("/batches/my", h.GetUserBatches)
	outer.GET("/batches/:batchId", h.GetBatch)
	outer.PUT("/batches/:batchId/publish", h.PublishBatch)
	outer.DELETE("/batches/:batchId", h.DeleteBatch)
	outer.GET("/batches/:batchId/plan", h.GetAllocationPlan)

	return h
}

type batchMediumInput struct {
	Medium   string `json:"medium" validate:"required,max=50"`
	Quantity int    `json:"quantity" validate:"gte=0"`
}

type postBatchInput struct {
	Title             string             `json:"title" validate:"required,max=100"`
	Description       string             `json:"description" validate:"max=500"`
	Category          string             `json:"category" validate:"required,oneof=electronic paper plastic metal mixed"`
	EstimatedWeightKg string             `json:"estimatedWeightKg" validate:"omitempty,max=20"`
	StorageLocation   string             `json:"storageLocation" validate:"max=200"`
	CreatorId         string             `json:"creatorId" validate:"required,uuid"`
	Media             []batchMediumInput `json:"media" validate:"required,min=1,dive"`
}

// /batches/new
func (h *batchRoutesHandler) PostBatch(c echo.Context) error {
	var input postBatchInput
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateBatchInput{
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		StorageLocation: input.StorageLocation,
		CreatorId:       input.CreatorId,
	}
	for _, m := range input.Media {
		model.Media = append(model.Media, entity.BatchMedium{Medium: m.Medium, Quantity: m.Quantity})
	}

	if input.EstimatedWeightKg != "" {
		weight, err := decimal.NewFromString(input.EstimatedWeightKg)
		if err != nil || weight.IsNegative() {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"'estimatedWeightKg': should be a non-negative decimal number"}); e != nil {
				return e
			}

			return err
		}
		model.EstimatedWeight = weight
	}

	batch, err := h.batchService.CreateBatch(c.Request().Context(), model)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, batch); e != nil {
		return e
	}

	return nil
}

type getPublishedBatchesInput struct {
	Categories []string `query:"category" validate:"dive,oneof=electronic paper plastic metal mixed"`
	Limit      int32    `query:"limit" validate:"gte=0,lte=50"`
	Offset     int32    `query:"offset" validate:"gte=0"`
}

// /batches
func (h *batchRoutesHandler) GetPublishedBatches(c echo.Context) error {
	input := getPublishedBatchesInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	batches, err := h.batchService.GetPublishedBatches(c.Request().Context(), input.Categories, pg)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, batches); e != nil {
		return e
	}

	return nil
}

type getUserBatchesInput struct {
	CreatorId string `query:"creatorId" validate:"required,uuid"`
	Limit     int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset    int32  `query:"offset" validate:"gte=0"`
}

// /batches/my
func (h *batchRoutesHandler) GetUserBatches(c echo.Context) error {
	input := getUserBatchesInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	batches, err := h.batchService.GetUserBatches(c.Request().Context(), input.CreatorId, pg)
	if err != nil {
		if e := c.JSON(http.StatusInternalServerError, errorResponse{"Error"}); e != nil {
			return e
		}

		return err
	}

	if e := c.JSON(http.StatusOK, batches); e != nil {
		return e
	}

	return nil
}

// /batches/:batchId
func (h *batchRoutesHandler) GetBatch(c echo.Context) error {
	batch, err := h.batchService.GetBatchById(c.Request().Context(), c.Param("batchId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, batch); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBatchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no batch with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /batches/:batchId/publish
func (h *batchRoutesHandler) PublishBatch(c echo.Context) error {
	batch, err := h.batchService.PublishBatch(c.Request().Context(), c.Param("batchId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, batch); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBatchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no batch with given id"}); e != nil {
			return e
		}
	case service.ErrInvalidStatusChange:
		if e := c.JSON(http.StatusConflict, errorResponse{"Only a draft batch can be published"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /batches/:batchId
func (h *batchRoutesHandler) DeleteBatch(c echo.Context) error {
	err := h.batchService.DeleteBatch(c.Request().Context(), c.Param("batchId"))
	if err == nil {
		if e := c.NoContent(http.StatusNoContent); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBatchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no batch with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /batches/:batchId/plan
func (h *batchRoutesHandler) GetAllocationPlan(c echo.Context) error {
	plan, err := h.resolverService.GetAllocationPlan(c.Request().Context(), c.Param("batchId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, plan); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBatchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no batch with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

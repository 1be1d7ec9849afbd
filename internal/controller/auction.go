package controller

import (
	"net/http"
	"time"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type auctionRoutesHandler struct {
	auctionService  service.Auction
	resolverService service.Resolver
	validate        *validator.Validate
}

func newAuctionRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *auctionRoutesHandler {
	h := &auctionRoutesHandler{auctionService: services.Auction, resolverService: services.Resolver, validate: v}
	outer.POST("/auctions/new", h.PostAuction)
	outer.GET("/auctions/:auctionId", h.GetAuction)
	outer.GET("/auctions/batch/:batchId", h.GetBatchAuctions)
	outer.PUT("/auctions/:auctionId/cancel", h.CancelAuction)
	outer.POST("/auctions/:auctionId/resolve", h.ResolveAuction)

	return h
}

type postAuctionInput struct {
	BatchId      string `json:"batchId" validate:"required,uuid"`
	LotMedium    string `json:"lotMedium" validate:"max=50"`
	StartTime    string `json:"startTime" validate:"required"`
	EndTime      string `json:"endTime" validate:"required"`
	BasePrice    string `json:"basePrice" validate:"required,max=20"`
	ReservePrice string `json:"reservePrice" validate:"omitempty,max=20"`
}

// /auctions/new
func (h *auctionRoutesHandler) PostAuction(c echo.Context) error {
	var input postAuctionInput
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

	startTime, err := time.Parse(time.RFC3339, input.StartTime)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'startTime': should be an RFC3339 timestamp"}); e != nil {
			return e
		}

		return err
	}

	endTime, err := time.Parse(time.RFC3339, input.EndTime)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'endTime': should be an RFC3339 timestamp"}); e != nil {
			return e
		}

		return err
	}

	basePrice, err := decimal.NewFromString(input.BasePrice)
	if err != nil || !basePrice.IsPositive() {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'basePrice': should be a positive decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.CreateAuctionInput{
		BatchId:   input.BatchId,
		LotMedium: input.LotMedium,
		StartTime: startTime,
		EndTime:   endTime,
		BasePrice: basePrice,
	}

	if input.ReservePrice != "" {
		reserve, err := decimal.NewFromString(input.ReservePrice)
		if err != nil || !reserve.IsPositive() {
			if e := c.JSON(http.StatusBadRequest, errorResponse{"'reservePrice': should be a positive decimal number"}); e != nil {
				return e
			}

			return err
		}
		model.ReservePrice = reserve
		model.HasReserve = true
	}

	auction, err := h.auctionService.CreateAuction(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBatchNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no batch with given id"}); e != nil {
			return e
		}
	case service.ErrInvalidAuctionWindow:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Auction end time must be strictly after start time"}); e != nil {
			return e
		}
	case service.ErrBatchNotPublished:
		if e := c.JSON(http.StatusConflict, errorResponse{"Batch must be published before auctioning"}); e != nil {
			return e
		}
	case service.ErrBatchAllocated:
		if e := c.JSON(http.StatusConflict, errorResponse{"Batch is already allocated"}); e != nil {
			return e
		}
	case service.ErrLotNotInBatch:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Lot medium is not part of the batch composition"}); e != nil {
			return e
		}
	case service.ErrLotAlreadyOnOffer:
		if e := c.JSON(http.StatusConflict, errorResponse{"An open auction for this lot already exists"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auctions/:auctionId
func (h *auctionRoutesHandler) GetAuction(c echo.Context) error {
	auction, err := h.auctionService.GetAuctionById(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auctions/batch/:batchId
func (h *auctionRoutesHandler) GetBatchAuctions(c echo.Context) error {
	auctions, err := h.auctionService.GetBatchAuctions(c.Request().Context(), c.Param("batchId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, auctions); e != nil {
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

// /auctions/:auctionId/cancel
func (h *auctionRoutesHandler) CancelAuction(c echo.Context) error {
	auction, err := h.auctionService.CancelAuction(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, auction); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrInvalidStatusChange:
		if e := c.JSON(http.StatusConflict, errorResponse{"Only a pending or active auction can be cancelled"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

// /auctions/:auctionId/resolve
func (h *auctionRoutesHandler) ResolveAuction(c echo.Context) error {
	result, err := h.resolverService.ResolveAuction(c.Request().Context(), c.Param("auctionId"))
	if err == nil {
		if e := c.JSON(http.StatusOK, result); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrAuctionNotEnded:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction has not ended yet"}); e != nil {
			return e
		}
	case service.ErrAuctionCancelled:
		if e := c.JSON(http.StatusConflict, errorResponse{"Cancelled auction cannot be resolved"}); e != nil {
			return e
		}
	case service.ErrBatchAuctionsStillOpen:
		if e := c.JSON(http.StatusConflict, errorResponse{"Other auctions of the batch are still open"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

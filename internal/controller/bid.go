package controller

import (
	"errors"
	"net/http"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
	"github.com/shopspring/decimal"
)

type bidRoutesHandler struct {
	bidService service.Bid
	validate   *validator.Validate
}

func newBidRoutesHandler(outer *echo.Group, services *service.Services, v *validator.Validate) *bidRoutesHandler {
	h := &bidRoutesHandler{bidService: services.Bid, validate: v}
	outer.POST("/bids/new", h.PostBid)
	outer.GET("/bids/my", h.GetUserBids)
	outer.GET("/bids/auction/:auctionId", h.GetAuctionBids)

	return h
}

type postBidInput struct {
	AuctionId string `json:"auctionId" validate:"required,uuid"`
	BidderId  string `json:"bidderId" validate:"required,uuid"`
	Amount    string `json:"amount" validate:"required,max=20"`
	Note      string `json:"note" validate:"max=500"`
}

// /bids/new
func (h *bidRoutesHandler) PostBid(c echo.Context) error {
	var input postBidInput
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

	amount, err := decimal.NewFromString(input.Amount)
	if err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"'amount': should be a decimal number"}); e != nil {
			return e
		}

		return err
	}

	model := &entity.PlaceBidInput{
		AuctionId: input.AuctionId,
		BidderId:  input.BidderId,
		Amount:    amount,
		Note:      input.Note,
	}

	bid, err := h.bidService.PlaceBid(c.Request().Context(), model)
	if err == nil {
		if e := c.JSON(http.StatusOK, bid); e != nil {
			return e
		}

		return nil
	}

	var tooLow *service.BidTooLowError
	if errors.As(err, &tooLow) {
		if e := c.JSON(http.StatusUnprocessableEntity, errorResponse{"Bid amount is below the auction base price, minimum bid is " + tooLow.Minimum.String()}); e != nil {
			return e
		}

		return err
	}

	switch err {
	case service.ErrAuctionNotFound:
		if e := c.JSON(http.StatusNotFound, errorResponse{"There is no auction with given id"}); e != nil {
			return e
		}
	case service.ErrBidderNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no bidder with given id"}); e != nil {
			return e
		}
	case service.ErrBidderNotApproved:
		if e := c.JSON(http.StatusForbidden, errorResponse{"Bidder is not approved for bidding"}); e != nil {
			return e
		}
	case service.ErrInvalidBidAmount:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Bid amount must be a positive number"}); e != nil {
			return e
		}
	case service.ErrAuctionNotActive:
		if e := c.JSON(http.StatusConflict, errorResponse{"Auction is not accepting bids"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getUserBidsInput struct {
	BidderId string `query:"bidderId" validate:"required,uuid"`
	Limit    int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset   int32  `query:"offset" validate:"gte=0"`
}

// /bids/my
func (h *bidRoutesHandler) GetUserBids(c echo.Context) error {
	input := getUserBidsInput{Limit: defaultLimit, Offset: defaultOffset}
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
	bids, err := h.bidService.GetUserBids(c.Request().Context(), input.BidderId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
			return e
		}

		return nil
	}

	switch err {
	case service.ErrBidderNotFound:
		if e := c.JSON(http.StatusUnauthorized, errorResponse{"There is no bidder with given id"}); e != nil {
			return e
		}
	default:
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Error"}); e != nil {
			return e
		}
	}

	return err
}

type getAuctionBidsInput struct {
	AuctionId string `param:"auctionId" validate:"required,uuid"`
	Limit     int32  `query:"limit" validate:"gte=0,lte=50"`
	Offset    int32  `query:"offset" validate:"gte=0"`
}

// /bids/auction/:auctionId
func (h *bidRoutesHandler) GetAuctionBids(c echo.Context) error {
	input := getAuctionBidsInput{Limit: defaultLimit, Offset: defaultOffset}
	if err := c.Bind(&input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{"Input data is not formed correctly"}); e != nil {
			return e
		}

		return err
	}

	input.AuctionId = c.Param("auctionId")
	if err := h.validate.Struct(input); err != nil {
		if e := c.JSON(http.StatusBadRequest, errorResponse{getAllErrorMessages(err)}); e != nil {
			return e
		}

		return err
	}

	pg := entity.NewPaginationInput(int(input.Limit), int(input.Offset))
	bids, err := h.bidService.GetAuctionBids(c.Request().Context(), input.AuctionId, pg)
	if err == nil {
		if e := c.JSON(http.StatusOK, bids); e != nil {
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

package controller

import (
	"waste-auction-api/internal/service"

	"github.com/go-playground/validator/v10"
	"github.com/labstack/echo"
)

func SetupRoutesHandlers(handler *echo.Echo, services *service.Services) {
	validate := validator.New(validator.WithRequiredStructEnabled())
	api := handler.Group("/api")
	newDiagnosticRoutesHandler(api, services)
	newBatchRoutesHandler(api, services, validate)
	newAuctionRoutesHandler(api, services, validate)
	newBidRoutesHandler(api, services, validate)
}

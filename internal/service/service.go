package service

import (
	"context"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
)

type Diagnostics interface {
	Ping() error
}

type Batch interface {
	CreateBatch(ctx context.Context, input *entity.CreateBatchInput) (*entity.BatchOutputModel, error)
	PublishBatch(ctx context.Context, batchId string) (*entity.BatchOutputModel, error)

	GetBatchById(ctx context.Context, batchId string) (*entity.BatchOutputModel, error)
	GetPublishedBatches(ctx context.Context, categories []string, pg *entity.PaginationInput) ([]entity.BatchOutputModel, error)
	GetUserBatches(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.BatchOutputModel, error)

	DeleteBatch(ctx context.Context, batchId string) error
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error)
	GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error)
	GetBatchAuctions(ctx context.Context, batchId string) ([]entity.AuctionOutputModel, error)
	CancelAuction(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error)
}

type Bid interface {
	PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error)
	GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
	GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error)
}

type Resolver interface {
	ResolveAuction(ctx context.Context, auctionId string) (*entity.ResolutionOutputModel, error)
	GetAllocationPlan(ctx context.Context, batchId string) (*entity.AllocationPlanOutputModel, error)
}

type Services struct {
	Diagnostics Diagnostics
	Batch       Batch
	Auction     Auction
	Bid         Bid
	Resolver    Resolver
}

func NewServices(repos *repo.Repositories) *Services {
	return &Services{
		Diagnostics: NewDiagnosticsService(repos),
		Batch:       NewBatchService(repos),
		Auction:     NewAuctionService(repos),
		Bid:         NewBidService(repos),
		Resolver:    NewResolverService(repos),
	}
}

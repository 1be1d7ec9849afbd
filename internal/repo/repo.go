package repo

import (
	"context"
	"time"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo/pgdb"
	"waste-auction-api/pkg/postgres"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type Diagnostics interface {
	Ping() error
}

type Bidder interface {
	GetBidderById(ctx context.Context, id string) (*entity.Bidder, error)
}

type Batch interface {
	CreateBatch(ctx context.Context, input *entity.CreateBatchInput) (uuid.UUID, error)
	GetBatchById(ctx context.Context, id string) (*entity.Batch, error)
	GetPublishedBatches(ctx context.Context, categories []string, pg *entity.PaginationInput) ([]entity.Batch, error)
	GetBatchesByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Batch, error)
	UpdateBatchStatusById(ctx context.Context, id string, newStatus string) error
	SoftDeleteBatchById(ctx context.Context, id string) error
}

type Auction interface {
	CreateAuction(ctx context.Context, input *entity.CreateAuctionInput, status string) (uuid.UUID, error)
	GetAuctionById(ctx context.Context, id string) (*entity.Auction, error)
	GetAuctionsByBatchId(ctx context.Context, batchId string) ([]entity.Auction, error)
	UpdateAuctionStatusById(ctx context.Context, id string, newStatus string) error
	CancelAuction(ctx context.Context, id string, now time.Time) error
	// FinalizeAuction records the terminal result behind a compare-and-set on
	// resolved_at and flips the auction's bid rows in the same transaction.
	// A nil winnerBidId finalizes with no winner (all active bids outbid).
	FinalizeAuction(ctx context.Context, id string, winnerBidId *uuid.UUID, winnerId *uuid.UUID, amount decimal.Decimal, now time.Time) error
}

type Bid interface {
	// PlaceBid locks the auction row, re-derives its status against now,
	// supersedes the bidder's previous active bid and inserts the new one,
	// all in one transaction.
	PlaceBid(ctx context.Context, input *entity.PlaceBidInput, now time.Time) (uuid.UUID, error)
	GetBidById(ctx context.Context, id string) (*entity.Bid, error)
	GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error)
	GetActiveBids(ctx context.Context, auctionId string) ([]entity.Bid, error)
	GetBidderBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error)
}

type Repositories struct {
	Diagnostics
	Bidder
	Batch
	Auction
	Bid
}

func NewRepositories(p *postgres.Postgres) *Repositories {
	return &Repositories{
		Diagnostics: pgdb.NewDiagnosticsRepo(p),
		Bidder:      pgdb.NewBidderRepo(p),
		Batch:       pgdb.NewBatchRepo(p),
		Auction:     pgdb.NewAuctionRepo(p),
		Bid:         pgdb.NewBidRepo(p),
	}
}

package service

import (
	"context"
	"errors"
	"time"

	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/repo/repo_errors"
)

type AuctionService struct {
	auctionRepo repo.Auction
	batchRepo   repo.Batch
	bidRepo     repo.Bid
	now         func() time.Time
}

func NewAuctionService(repos *repo.Repositories) *AuctionService {
	return &AuctionService{
		auctionRepo: repos.Auction,
		batchRepo:   repos.Batch,
		bidRepo:     repos.Bid,
		now:         time.Now,
	}
}

func (s *AuctionService) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput) (*entity.AuctionOutputModel, error) {
	if !input.EndTime.After(input.StartTime) {
		return nil, ErrInvalidAuctionWindow
	}

	batch, err := s.batchRepo.GetBatchById(ctx, input.BatchId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBatchNotFound
		}

		return nil, err
	}

	switch batch.Status {
	case common.BatchPublished, common.BatchAuctionInProgress:
	case common.BatchAllocated:
		return nil, ErrBatchAllocated
	default:
		return nil, ErrBatchNotPublished
	}

	if input.LotMedium != common.WholeBatchLot && !batchHasMedium(batch, input.LotMedium) {
		return nil, ErrLotNotInBatch
	}

	existing, err := s.auctionRepo.GetAuctionsByBatchId(ctx, input.BatchId)
	if err != nil {
		return nil, err
	}

	now := s.now()
	for i := range existing {
		if existing[i].LotMedium != input.LotMedium {
			continue
		}
		switch existing[i].DerivedStatus(now) {
		case common.AuctionPending, common.AuctionActive:
			return nil, ErrLotAlreadyOnOffer
		}
	}

	status := entity.DeriveAuctionStatus(now, input.StartTime, input.EndTime, "")
	id, err := s.auctionRepo.CreateAuction(ctx, input, status)
	if err != nil {
		return nil, err
	}

	if batch.Status != common.BatchAuctionInProgress {
		if err = s.batchRepo.UpdateBatchStatusById(ctx, input.BatchId, common.BatchAuctionInProgress); err != nil {
			return nil, err
		}
	}

	auction, err := s.auctionRepo.GetAuctionById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return s.withSummary(ctx, auction)
}

func (s *AuctionService) GetAuctionById(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	// Best-effort cache refresh. The derived value is authoritative either way.
	derived := auction.DerivedStatus(s.now())
	if derived != auction.Status {
		if err = s.auctionRepo.UpdateAuctionStatusById(ctx, auctionId, derived); err != nil {
			return nil, err
		}
	}

	return s.withSummary(ctx, auction)
}

func (s *AuctionService) GetBatchAuctions(ctx context.Context, batchId string) ([]entity.AuctionOutputModel, error) {
	if _, err := s.batchRepo.GetBatchById(ctx, batchId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBatchNotFound
		}

		return nil, err
	}

	auctions, err := s.auctionRepo.GetAuctionsByBatchId(ctx, batchId)
	if err != nil {
		return nil, err
	}

	models := make([]entity.AuctionOutputModel, 0)
	for i := range auctions {
		model, err := s.withSummary(ctx, &auctions[i])
		if err != nil {
			return nil, err
		}
		models = append(models, *model)
	}

	return models, nil
}

func (s *AuctionService) CancelAuction(ctx context.Context, auctionId string) (*entity.AuctionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	switch auction.DerivedStatus(s.now()) {
	case common.AuctionPending, common.AuctionActive:
	default:
		// Ended and already-cancelled auctions are past the point of cancel.
		return nil, ErrInvalidStatusChange
	}

	if err = s.auctionRepo.CancelAuction(ctx, auctionId, s.now()); err != nil {
		if errors.Is(err, repo_errors.ErrNotCancellable) {
			return nil, ErrInvalidStatusChange
		}

		return nil, err
	}

	auction, err = s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		return nil, err
	}

	return s.withSummary(ctx, auction)
}

// withSummary decorates an auction with its derived status, the time left
// on the clock and the active-bid display aggregate.
func (s *AuctionService) withSummary(ctx context.Context, auction *entity.Auction) (*entity.AuctionOutputModel, error) {
	activeBids, err := s.bidRepo.GetActiveBids(ctx, auction.Id.String())
	if err != nil {
		return nil, err
	}

	return mapAuction(auction, summarizeBids(activeBids), s.now()), nil
}

func batchHasMedium(batch *entity.Batch, medium string) bool {
	for _, m := range batch.Media {
		if m.Medium == medium {
			return true
		}
	}

	return false
}

// summarizeBids reduces currently-active bids to the display aggregate:
// max amount with ties broken by earliest bid time, plus the active count.
func summarizeBids(activeBids []entity.Bid) *entity.BidSummary {
	summary := &entity.BidSummary{ActiveCount: len(activeBids)}
	for i := range activeBids {
		bid := &activeBids[i]
		if !summary.HasBids || bid.Amount.GreaterThan(summary.HighestAmount) {
			summary.HighestAmount = bid.Amount
			summary.HasBids = true
		}
	}

	return summary
}

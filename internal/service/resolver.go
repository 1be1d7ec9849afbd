package service

import (
	"context"
	"errors"
	"time"

	"waste-auction-api/internal/allocation"
	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type ResolverService struct {
	auctionRepo repo.Auction
	batchRepo   repo.Batch
	bidRepo     repo.Bid
	now         func() time.Time
}

func NewResolverService(repos *repo.Repositories) *ResolverService {
	return &ResolverService{
		auctionRepo: repos.Auction,
		batchRepo:   repos.Batch,
		bidRepo:     repos.Bid,
		now:         time.Now,
	}
}

// ResolveAuction finalizes an ended auction: the batch-wide allocation plan
// decides whether this lot is awarded, the award is checked against the lot's
// reserve price, bid rows are flipped to winning/outbid and the batch is
// advanced once every lot of the batch has a terminal result. Calling it
// again on a resolved auction returns the recorded result without mutating
// anything.
func (s *ResolverService) ResolveAuction(ctx context.Context, auctionId string) (*entity.ResolutionOutputModel, error) {
	auction, err := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	if auction.Resolved {
		return s.recordedResult(ctx, auction)
	}

	now := s.now()
	switch auction.DerivedStatus(now) {
	case common.AuctionEnded:
	case common.AuctionCancelled:
		return nil, ErrAuctionCancelled
	default:
		return nil, ErrAuctionNotEnded
	}

	batch, err := s.batchRepo.GetBatchById(ctx, auction.BatchId.String())
	if err != nil {
		return nil, err
	}

	siblings, err := s.auctionRepo.GetAuctionsByBatchId(ctx, auction.BatchId.String())
	if err != nil {
		return nil, err
	}

	// The itemized-vs-bundled comparison is only meaningful over the final
	// bid set, so every lot of the batch has to be off the clock first.
	for i := range siblings {
		switch siblings[i].DerivedStatus(now) {
		case common.AuctionEnded, common.AuctionCancelled:
		default:
			return nil, ErrBatchAuctionsStillOpen
		}
	}

	plan, bidAuctions, err := s.buildPlan(ctx, batch, siblings, now)
	if err != nil {
		return nil, err
	}

	award := awardForAuction(plan, bidAuctions, auction.Id)

	if award == nil || belowReserve(auction, award) {
		if err = s.finalize(ctx, auction, nil, now); err != nil {
			return s.resultAfterRace(ctx, auctionId, err)
		}

		batchStatus, err := s.advanceBatch(ctx, auction.BatchId.String())
		if err != nil {
			return nil, err
		}

		return &entity.ResolutionOutputModel{
			AuctionId:   auction.Id.String(),
			Outcome:     common.OutcomeNoWinner,
			Strategy:    plan.Strategy,
			BatchStatus: batchStatus,
		}, nil
	}

	if err = s.finalize(ctx, auction, award, now); err != nil {
		return s.resultAfterRace(ctx, auctionId, err)
	}

	batchStatus, err := s.advanceBatch(ctx, auction.BatchId.String())
	if err != nil {
		return nil, err
	}

	return &entity.ResolutionOutputModel{
		AuctionId:     auction.Id.String(),
		Outcome:       common.OutcomeAllocated,
		Strategy:      plan.Strategy,
		WinnerId:      award.BidderId.String(),
		WinningAmount: award.Amount.String(),
		BatchStatus:   batchStatus,
	}, nil
}

// GetAllocationPlan exposes the advisory "current best disposal plan" for
// operator display; it is re-derived from the standing bids on every call.
func (s *ResolverService) GetAllocationPlan(ctx context.Context, batchId string) (*entity.AllocationPlanOutputModel, error) {
	batch, err := s.batchRepo.GetBatchById(ctx, batchId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBatchNotFound
		}

		return nil, err
	}

	auctions, err := s.auctionRepo.GetAuctionsByBatchId(ctx, batchId)
	if err != nil {
		return nil, err
	}

	plan, _, err := s.buildPlan(ctx, batch, auctions, s.now())
	if err != nil {
		return nil, err
	}

	return mapPlan(batch.Id, plan), nil
}

// buildPlan assembles the optimizer input from the standing bids of the
// batch's non-cancelled auctions. Every medium of the batch gets a category
// entry, bid or not, so single-category coverage detection works off the
// composition rather than off whichever lots happened to attract bids.
// The returned map resolves a bid id back to its auction.
func (s *ResolverService) buildPlan(ctx context.Context, batch *entity.Batch, auctions []entity.Auction, now time.Time) (*allocation.Plan, map[uuid.UUID]uuid.UUID, error) {
	input := allocation.Input{Categories: make(map[string][]allocation.CategoryBid)}
	for _, m := range batch.Media {
		input.Categories[m.Medium] = nil
	}

	bidAuctions := make(map[uuid.UUID]uuid.UUID)
	for i := range auctions {
		auction := &auctions[i]
		if auction.DerivedStatus(now) == common.AuctionCancelled {
			continue
		}

		bids, err := s.bidRepo.GetActiveBids(ctx, auction.Id.String())
		if err != nil {
			return nil, nil, err
		}

		for j := range bids {
			bid := &bids[j]
			bidAuctions[bid.Id] = auction.Id
			categoryBid := allocation.CategoryBid{
				BidId:    bid.Id,
				BidderId: bid.BidderId,
				Amount:   bid.Amount,
				BidTime:  bid.BidTime,
			}

			if auction.LotMedium == common.WholeBatchLot {
				input.WholeBatch = append(input.WholeBatch, categoryBid)
			} else {
				input.Categories[auction.LotMedium] = append(input.Categories[auction.LotMedium], categoryBid)
			}
		}
	}

	return allocation.Optimize(input), bidAuctions, nil
}

func (s *ResolverService) finalize(ctx context.Context, auction *entity.Auction, award *allocation.Award, now time.Time) error {
	if award == nil {
		return s.auctionRepo.FinalizeAuction(ctx, auction.Id.String(), nil, nil, decimal.Zero, now)
	}

	return s.auctionRepo.FinalizeAuction(ctx, auction.Id.String(), &award.BidId, &award.BidderId, award.Amount, now)
}

// resultAfterRace turns a lost finalize compare-and-set into the winning
// resolver's recorded result, keeping the operation idempotent under
// concurrent invocation.
func (s *ResolverService) resultAfterRace(ctx context.Context, auctionId string, err error) (*entity.ResolutionOutputModel, error) {
	if !errors.Is(err, repo_errors.ErrAlreadyResolved) {
		return nil, err
	}

	auction, getErr := s.auctionRepo.GetAuctionById(ctx, auctionId)
	if getErr != nil {
		return nil, getErr
	}

	return s.recordedResult(ctx, auction)
}

func (s *ResolverService) recordedResult(ctx context.Context, auction *entity.Auction) (*entity.ResolutionOutputModel, error) {
	batch, err := s.batchRepo.GetBatchById(ctx, auction.BatchId.String())
	if err != nil {
		return nil, err
	}

	result := &entity.ResolutionOutputModel{
		AuctionId:   auction.Id.String(),
		Outcome:     common.OutcomeAlreadyResolved,
		BatchStatus: batch.Status,
	}
	if auction.WinnerId != uuid.Nil {
		result.WinnerId = auction.WinnerId.String()
		result.WinningAmount = auction.WinningAmount.String()
	}

	return result, nil
}

// advanceBatch moves the batch forward once every non-cancelled lot carries
// a terminal result: allocated when at least one lot was awarded, otherwise
// auction_ended. A batch whose lots all closed without a winner never
// reaches allocated.
func (s *ResolverService) advanceBatch(ctx context.Context, batchId string) (string, error) {
	auctions, err := s.auctionRepo.GetAuctionsByBatchId(ctx, batchId)
	if err != nil {
		return "", err
	}

	anyWinner := false
	for i := range auctions {
		if auctions[i].Status == common.AuctionCancelled {
			continue
		}
		if !auctions[i].Resolved {
			batch, err := s.batchRepo.GetBatchById(ctx, batchId)
			if err != nil {
				return "", err
			}

			return batch.Status, nil
		}
		if auctions[i].WinnerId != uuid.Nil {
			anyWinner = true
		}
	}

	newStatus := common.BatchAuctionEnded
	if anyWinner {
		newStatus = common.BatchAllocated
	}

	if err = s.batchRepo.UpdateBatchStatusById(ctx, batchId, newStatus); err != nil {
		return "", err
	}

	return newStatus, nil
}

// awardForAuction finds the chosen plan's award belonging to this auction's
// lot, if any. Under a bundled plan a category lot gets no award; under an
// itemized plan the whole-batch lot gets none.
func awardForAuction(plan *allocation.Plan, bidAuctions map[uuid.UUID]uuid.UUID, auctionId uuid.UUID) *allocation.Award {
	for i := range plan.Awards {
		if bidAuctions[plan.Awards[i].BidId] == auctionId {
			return &plan.Awards[i]
		}
	}

	return nil
}

func belowReserve(auction *entity.Auction, award *allocation.Award) bool {
	return auction.HasReserve && award.Amount.LessThan(auction.ReservePrice)
}

package service

import (
	"context"
	"errors"
	"time"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/repo/repo_errors"
)

type BidService struct {
	bidRepo     repo.Bid
	auctionRepo repo.Auction
	bidderRepo  repo.Bidder
	now         func() time.Time
}

func NewBidService(repos *repo.Repositories) *BidService {
	return &BidService{
		bidRepo:     repos.Bid,
		auctionRepo: repos.Auction,
		bidderRepo:  repos.Bidder,
		now:         time.Now,
	}
}

// PlaceBid validates the bidder and the amount, then delegates admission to
// the repository, whose transaction re-derives the auction status and
// supersedes the bidder's previous active bid atomically with the insert.
// The new amount does not have to beat the current highest bid: a bidder may
// always revise their own standing bid, and a non-improving revision simply
// never becomes the aggregate maximum.
func (s *BidService) PlaceBid(ctx context.Context, input *entity.PlaceBidInput) (*entity.BidOutputModel, error) {
	if !input.Amount.IsPositive() {
		return nil, ErrInvalidBidAmount
	}

	bidder, err := s.bidderRepo.GetBidderById(ctx, input.BidderId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidderNotFound
		}

		return nil, err
	}
	if !bidder.Approved {
		return nil, ErrBidderNotApproved
	}

	id, err := s.bidRepo.PlaceBid(ctx, input, s.now())
	if err != nil {
		switch {
		case errors.Is(err, repo_errors.ErrNotFound):
			return nil, ErrAuctionNotFound
		case errors.Is(err, repo_errors.ErrAuctionNotActive):
			return nil, ErrAuctionNotActive
		case errors.Is(err, repo_errors.ErrBidTooLow):
			auction, getErr := s.auctionRepo.GetAuctionById(ctx, input.AuctionId)
			if getErr != nil {
				return nil, getErr
			}

			return nil, &BidTooLowError{Minimum: auction.BasePrice}
		}

		return nil, err
	}

	bid, err := s.bidRepo.GetBidById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBid(bid), nil
}

func (s *BidService) GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if _, err := s.auctionRepo.GetAuctionById(ctx, auctionId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrAuctionNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetAuctionBids(ctx, auctionId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

func (s *BidService) GetUserBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.BidOutputModel, error) {
	if _, err := s.bidderRepo.GetBidderById(ctx, bidderId); err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBidderNotFound
		}

		return nil, err
	}

	bids, err := s.bidRepo.GetBidderBids(ctx, bidderId, pg)
	if err != nil {
		return nil, err
	}

	return mapBids(bids), nil
}

package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"

	"github.com/peterldowns/testy/check"
	"github.com/shopspring/decimal"
)

// A bidder revising their offer replaces their previous bid: exactly one
// active bid per (auction, bidder) survives, the older one turns outbid.
func TestPlaceBid_SupersedesOwnPreviousBid(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(true)

	first := f.placeBid(t, auctionId, bidderId, 200)
	f.advance(time.Minute)
	second := f.placeBid(t, auctionId, bidderId, 350)

	check.NotEqual(t, first.Id, second.Id)
	check.Equal(t, common.BidActive, second.Status)

	active := f.store.activeBidsOf(auctionId, bidderId)
	check.Equal(t, 1, len(active))
	check.True(t, active[0].Amount.Equal(decimal.NewFromInt(350)))

	old, err := f.store.GetBidById(context.Background(), first.Id)
	check.NoError(t, err)
	check.Equal(t, common.BidOutbid, old.Status)
}

// A revision does not have to improve on the previous amount.
func TestPlaceBid_DownwardRevisionAccepted(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(true)

	f.placeBid(t, auctionId, bidderId, 500)
	f.advance(time.Minute)
	f.placeBid(t, auctionId, bidderId, 300)

	active := f.store.activeBidsOf(auctionId, bidderId)
	check.Equal(t, 1, len(active))
	check.True(t, active[0].Amount.Equal(decimal.NewFromInt(300)))
}

func TestPlaceBid_BeforeStartRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.windowedAuction(t, batchId, common.CategoryPaper, 100,
		f.clock.Add(time.Hour), f.clock.Add(2*time.Hour))
	bidderId := f.store.addBidder(true)

	_, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(200),
	})
	check.True(t, errors.Is(err, ErrAuctionNotActive))
}

// The window closes on the wall clock even when the cached status row still
// says active.
func TestPlaceBid_AfterEndRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(true)

	f.advance(2 * time.Hour)

	_, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(200),
	})
	check.True(t, errors.Is(err, ErrAuctionNotActive))
}

func TestPlaceBid_BelowBasePriceRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryMetal)
	auctionId := f.openAuction(t, batchId, common.CategoryMetal, 500)
	bidderId := f.store.addBidder(true)

	_, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(499),
	})
	check.True(t, errors.Is(err, ErrBidTooLow))

	// The rejection tells the bidder the minimum acceptable amount.
	var tooLow *BidTooLowError
	check.True(t, errors.As(err, &tooLow))
	check.True(t, tooLow.Minimum.Equal(decimal.NewFromInt(500)))

	// Meeting the base price exactly is enough.
	f.placeBid(t, auctionId, bidderId, 500)
}

func TestPlaceBid_UnapprovedBidderRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(false)

	_, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(200),
	})
	check.True(t, errors.Is(err, ErrBidderNotApproved))
}

func TestPlaceBid_NonPositiveAmountRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(true)

	_, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.Zero,
	})
	check.True(t, errors.Is(err, ErrInvalidBidAmount))
}

func TestPlaceBid_CancelledAuctionRejected(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderId := f.store.addBidder(true)

	_, err := f.auctions.CancelAuction(context.Background(), auctionId.String())
	check.NoError(t, err)

	_, err = f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(200),
	})
	check.True(t, errors.Is(err, ErrAuctionNotActive))
}

// The display aggregate tracks supersession: the highest bid is computed over
// active rows only, so revising down also moves the shown maximum down.
func TestGetAuctionById_SummaryFollowsActiveBids(t *testing.T) {
	f := newFixture()
	batchId := f.publishedBatch(t, common.CategoryPaper)
	auctionId := f.openAuction(t, batchId, common.CategoryPaper, 100)
	bidderA := f.store.addBidder(true)
	bidderB := f.store.addBidder(true)

	f.placeBid(t, auctionId, bidderA, 800)
	f.advance(time.Minute)
	f.placeBid(t, auctionId, bidderB, 300)
	f.advance(time.Minute)
	f.placeBid(t, auctionId, bidderA, 400)

	out, err := f.auctions.GetAuctionById(context.Background(), auctionId.String())
	check.NoError(t, err)
	check.Equal(t, common.AuctionActive, out.Status)
	check.Equal(t, 2, out.ActiveBidCount)
	check.Equal(t, "400", out.HighestBid)
}

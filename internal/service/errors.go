package service

import (
	"errors"

	"github.com/shopspring/decimal"
)

var (
	ErrBatchNotFound   = errors.New("batch not found")
	ErrAuctionNotFound = errors.New("auction not found")
	ErrBidderNotFound  = errors.New("bidder with given id not found")

	ErrBidderNotApproved = errors.New("bidder is not approved for bidding")

	ErrBatchNotPublished    = errors.New("batch is not open for auctioning")
	ErrBatchAllocated       = errors.New("batch is already allocated and immutable")
	ErrLotNotInBatch        = errors.New("lot medium is not part of the batch composition")
	ErrLotAlreadyOnOffer    = errors.New("an open auction for this lot already exists")
	ErrInvalidAuctionWindow = errors.New("auction must have a strictly positive duration")
	ErrInvalidBidAmount     = errors.New("bid amount must be a positive number")

	ErrAuctionNotActive = errors.New("auction is not accepting bids")
	ErrBidTooLow        = errors.New("bid amount is below the auction base price")

	ErrAuctionNotEnded        = errors.New("auction has not ended yet")
	ErrAuctionCancelled       = errors.New("auction was cancelled")
	ErrBatchAuctionsStillOpen = errors.New("other auctions of the batch are still open")
	ErrInvalidStatusChange    = errors.New("status change is not allowed")
)

// BidTooLowError carries the minimum acceptable amount so the caller can
// correct the bid. errors.Is matches it against ErrBidTooLow.
type BidTooLowError struct {
	Minimum decimal.Decimal
}

func (e *BidTooLowError) Error() string {
	return "bid amount is below the auction base price, minimum bid is " + e.Minimum.String()
}

func (e *BidTooLowError) Is(target error) bool {
	return target == ErrBidTooLow
}

package repo_errors

import "errors"

var (
	ErrNotFound         = errors.New("record not found")
	ErrAuctionNotActive = errors.New("auction is not accepting bids")
	ErrBidTooLow        = errors.New("bid amount is below the base price")
	ErrAlreadyResolved  = errors.New("auction is already resolved")
	ErrNotCancellable   = errors.New("auction can no longer be cancelled")
)

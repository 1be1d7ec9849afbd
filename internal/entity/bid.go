package entity

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Bid struct {
	Id        uuid.UUID       `json:"id" db:"id"`
	AuctionId uuid.UUID       `json:"auctionId" db:"auction_id"`
	BidderId  uuid.UUID       `json:"bidderId" db:"bidder_id"`
	Amount    decimal.Decimal `json:"amount" db:"amount"`
	BidTime   time.Time       `json:"bidTime" db:"bid_time"`
	Note      string          `json:"note" db:"note"`
	Status    string          `json:"status" db:"status"`
}

// service + repo input model
type PlaceBidInput struct {
	AuctionId string
	BidderId  string
	Amount    decimal.Decimal
	Note      string
	// Id UUID sets automatically
	// BidTime is set at acceptance
	// Status starts as "active"; the bidder's previous active bid, if any,
	// turns "outbid" in the same transaction
}

// controller model
type BidOutputModel struct {
	Id        string `json:"id"`
	AuctionId string `json:"auctionId"`
	BidderId  string `json:"bidderId"`
	Amount    string `json:"amount"`
	BidTime   string `json:"bidTime"`
	Note      string `json:"note,omitempty"`
	Status    string `json:"status"`
}

// BidSummary is the display aggregate over an auction's active bids.
type BidSummary struct {
	HighestAmount decimal.Decimal
	HasBids       bool
	ActiveCount   int
}

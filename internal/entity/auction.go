package entity

import (
	"time"

	"waste-auction-api/internal/common"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// db model
type Auction struct {
	Id            uuid.UUID       `json:"id" db:"id"`
	BatchId       uuid.UUID       `json:"batchId" db:"batch_id"`
	LotMedium     string          `json:"lotMedium" db:"lot_medium"`
	StartTime     time.Time       `json:"startTime" db:"start_time"`
	EndTime       time.Time       `json:"endTime" db:"end_time"`
	BasePrice     decimal.Decimal `json:"basePrice" db:"base_price"`
	ReservePrice  decimal.Decimal `json:"reservePrice" db:"reserve_price"`
	HasReserve    bool            `json:"hasReserve"`
	Status        string          `json:"status" db:"status"`
	WinnerId      uuid.UUID       `json:"winnerId" db:"winner_id"`
	WinningAmount decimal.Decimal `json:"winningAmount" db:"winning_amount"`
	Resolved      bool            `json:"resolved"`
	ResolvedAt    string          `json:"resolvedAt" db:"resolved_at"`
	CreatedAt     string          `json:"createdAt" db:"created_at"`
}

// DeriveAuctionStatus computes the live status of an auction from the clock.
// The persisted status is only consulted for the terminal cancelled override;
// everything else is re-derived so a stale cache can never admit a bid.
func DeriveAuctionStatus(now, startTime, endTime time.Time, persistedStatus string) string {
	if persistedStatus == common.AuctionCancelled {
		return common.AuctionCancelled
	}

	if now.Before(startTime) {
		return common.AuctionPending
	}

	if now.Before(endTime) {
		return common.AuctionActive
	}

	return common.AuctionEnded
}

// DerivedStatus applies DeriveAuctionStatus to the auction's own window.
func (a *Auction) DerivedStatus(now time.Time) string {
	return DeriveAuctionStatus(now, a.StartTime, a.EndTime, a.Status)
}

// service + repo input model
type CreateAuctionInput struct {
	BatchId      string
	LotMedium    string
	StartTime    time.Time
	EndTime      time.Time
	BasePrice    decimal.Decimal
	ReservePrice decimal.Decimal
	HasReserve   bool
	// Id UUID sets automatically
	// Status starts derived from the window
}

// controller model
type AuctionOutputModel struct {
	Id               string `json:"id"`
	BatchId          string `json:"batchId"`
	LotMedium        string `json:"lotMedium,omitempty"`
	StartTime        string `json:"startTime"`
	EndTime          string `json:"endTime"`
	BasePrice        string `json:"basePrice"`
	ReservePrice     string `json:"reservePrice,omitempty"`
	Status           string `json:"status"`
	SecondsRemaining int64  `json:"secondsRemaining"`
	HighestBid       string `json:"highestBid,omitempty"`
	ActiveBidCount   int    `json:"activeBidCount"`
	WinnerId         string `json:"winnerId,omitempty"`
	WinningAmount    string `json:"winningAmount,omitempty"`
	CreatedAt        string `json:"createdAt"`
}

package common

// Batch lifecycle statuses. Advisory metadata only: whether bidding is open
// is always decided from the auction window, never from this field.
const (
	BatchDraft             = "draft"
	BatchPublished         = "published"
	BatchAuctionInProgress = "auction_in_progress"
	BatchAuctionEnded      = "auction_ended"
	BatchAllocated         = "allocated"
)

// Auction statuses. Pending/active/ended are derived from the clock;
// cancelled is a terminal administrative override.
const (
	AuctionPending   = "pending"
	AuctionActive    = "active"
	AuctionEnded     = "ended"
	AuctionCancelled = "cancelled"
)

// Bid statuses.
const (
	BidActive    = "active"
	BidOutbid    = "outbid"
	BidWinning   = "winning"
	BidCancelled = "cancelled"
)

// Disposal strategies chosen by the allocation optimizer.
const (
	StrategyItemized = "itemized"
	StrategyBundled  = "bundled"
	StrategyNone     = "none"
)

// Resolution outcomes.
const (
	OutcomeAllocated       = "allocated"
	OutcomeNoWinner        = "no_winner"
	OutcomeAlreadyResolved = "already_resolved"
)

// Waste category tags on a batch.
const (
	CategoryElectronic = "electronic"
	CategoryPaper      = "paper"
	CategoryPlastic    = "plastic"
	CategoryMetal      = "metal"
	CategoryMixed      = "mixed"
)

// WholeBatchLot marks an auction that covers every medium of its batch
// instead of a single medium-category lot.
const WholeBatchLot = ""

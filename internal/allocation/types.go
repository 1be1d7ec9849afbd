package allocation

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// CategoryBid is one bidder's best standing bid for a single lot.
type CategoryBid struct {
	BidId    uuid.UUID
	BidderId uuid.UUID
	Amount   decimal.Decimal
	BidTime  time.Time
}

// Input carries, for every medium category present in the batch, each
// bidder's best bid restricted to that category, plus the bids that cover
// the whole batch at once.
type Input struct {
	// Categories maps a medium category to the best bid per bidder on that
	// category's lot. A category with no bids may be present with an empty
	// slice or absent entirely; both mean the same thing.
	Categories map[string][]CategoryBid

	// WholeBatch holds bids covering every category in the batch.
	WholeBatch []CategoryBid
}

// Award assigns one lot to one bidder. Medium is empty for a whole-batch
// (bundled) award.
type Award struct {
	Medium   string
	BidId    uuid.UUID
	BidderId uuid.UUID
	Amount   decimal.Decimal
}

// Plan is the net-revenue comparison between the itemized and bundled
// strategies, plus the chosen assignment.
type Plan struct {
	Strategy string

	ItemizedGross  decimal.Decimal
	ItemizedNet    decimal.Decimal
	ItemizedAwards []Award

	BundledAvailable bool
	BundledNet       decimal.Decimal
	BundledAward     *Award

	// Awards is the assignment under the chosen strategy.
	Awards []Award
}

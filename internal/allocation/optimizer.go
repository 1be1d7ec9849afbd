package allocation

import (
	"sort"

	"waste-auction-api/internal/common"

	"github.com/shopspring/decimal"
)

// VendorAdminFee is the fixed administrative overhead, in currency units,
// of contracting one distinct disposal vendor. It is charged once per vendor
// no matter how many categories that vendor wins.
var VendorAdminFee = decimal.NewFromInt(600)

// Optimize decides the net-revenue-maximizing disposal assignment for a
// batch: award each category to its own best bidder (itemized) or award the
// whole batch to a single full-coverage bidder (bundled), each net of the
// per-vendor admin fee. Ties between bids are broken by earliest BidTime;
// an exact tie between the two strategies prefers bundled, which leaves
// fewer vendor relationships to administer.
func Optimize(in Input) *Plan {
	plan := &Plan{
		Strategy:      common.StrategyNone,
		ItemizedGross: decimal.Zero,
		ItemizedNet:   decimal.Zero,
	}

	// Itemized: per-category max, fee counted once per distinct vendor.
	winningVendors := make(map[string]bool)
	for _, medium := range sortedCategories(in.Categories) {
		best := bestBid(in.Categories[medium])
		if best == nil {
			continue
		}

		plan.ItemizedGross = plan.ItemizedGross.Add(best.Amount)
		winningVendors[best.BidderId.String()] = true
		plan.ItemizedAwards = append(plan.ItemizedAwards, Award{
			Medium:   medium,
			BidId:    best.BidId,
			BidderId: best.BidderId,
			Amount:   best.Amount,
		})
	}

	vendorCount := decimal.NewFromInt(int64(len(winningVendors)))
	plan.ItemizedNet = plan.ItemizedGross.Sub(VendorAdminFee.Mul(vendorCount))

	// Bundled: best bid covering every category. A single-category batch is
	// fully covered by its own lot's bids.
	coverage := in.WholeBatch
	if len(in.Categories) == 1 {
		for _, bids := range in.Categories {
			coverage = append(coverage, bids...)
		}
	}

	if best := bestBid(coverage); best != nil {
		plan.BundledAvailable = true
		plan.BundledNet = best.Amount.Sub(VendorAdminFee)
		plan.BundledAward = &Award{
			BidId:    best.BidId,
			BidderId: best.BidderId,
			Amount:   best.Amount,
		}
	}

	switch {
	case plan.BundledAvailable && len(plan.ItemizedAwards) == 0:
		plan.Strategy = common.StrategyBundled
	case !plan.BundledAvailable && len(plan.ItemizedAwards) > 0:
		plan.Strategy = common.StrategyItemized
	case plan.BundledAvailable:
		// Tie resolves toward bundled.
		if plan.ItemizedNet.GreaterThan(plan.BundledNet) {
			plan.Strategy = common.StrategyItemized
		} else {
			plan.Strategy = common.StrategyBundled
		}
	}

	switch plan.Strategy {
	case common.StrategyItemized:
		plan.Awards = plan.ItemizedAwards
	case common.StrategyBundled:
		plan.Awards = []Award{*plan.BundledAward}
	}

	return plan
}

// bestBid picks the highest bid; on equal amounts the earliest one wins.
func bestBid(bids []CategoryBid) *CategoryBid {
	var best *CategoryBid
	for i := range bids {
		b := &bids[i]
		if best == nil {
			best = b
			continue
		}

		if b.Amount.GreaterThan(best.Amount) {
			best = b
			continue
		}

		if b.Amount.Equal(best.Amount) && b.BidTime.Before(best.BidTime) {
			best = b
		}
	}

	return best
}

// sortedCategories keeps the itemized award order deterministic.
func sortedCategories(categories map[string][]CategoryBid) []string {
	names := make([]string, 0, len(categories))
	for medium := range categories {
		names = append(names, medium)
	}
	sort.Strings(names)

	return names
}

package service

import (
	"time"

	"waste-auction-api/internal/allocation"
	"waste-auction-api/internal/entity"

	"github.com/google/uuid"
)

func mapBatch(b *entity.Batch) *entity.BatchOutputModel {
	model := &entity.BatchOutputModel{
		Id:              b.Id.String(),
		BatchNumber:     b.BatchNumber,
		Title:           b.Title,
		Description:     b.Description,
		Category:        b.Category,
		StorageLocation: b.StorageLocation,
		Status:          b.Status,
		CreatorId:       b.CreatorId.String(),
		CreatedAt:       b.CreatedAt,
		Media:           b.Media,
	}
	if !b.EstimatedWeight.IsZero() {
		model.EstimatedWeight = b.EstimatedWeight.String()
	}

	return model
}

func mapBatches(batches []entity.Batch) []entity.BatchOutputModel {
	s := make([]entity.BatchOutputModel, 0)
	for i := range batches {
		s = append(s, *mapBatch(&batches[i]))
	}

	return s
}

func mapAuction(a *entity.Auction, summary *entity.BidSummary, now time.Time) *entity.AuctionOutputModel {
	model := &entity.AuctionOutputModel{
		Id:        a.Id.String(),
		BatchId:   a.BatchId.String(),
		LotMedium: a.LotMedium,
		StartTime: a.StartTime.Format(time.RFC3339),
		EndTime:   a.EndTime.Format(time.RFC3339),
		BasePrice: a.BasePrice.String(),
		Status:    a.DerivedStatus(now),
		CreatedAt: a.CreatedAt,
	}

	if a.HasReserve {
		model.ReservePrice = a.ReservePrice.String()
	}
	if remaining := a.EndTime.Sub(now); remaining > 0 && !now.Before(a.StartTime) {
		model.SecondsRemaining = int64(remaining.Seconds())
	}
	if summary != nil {
		model.ActiveBidCount = summary.ActiveCount
		if summary.HasBids {
			model.HighestBid = summary.HighestAmount.String()
		}
	}
	if a.WinnerId != uuid.Nil {
		model.WinnerId = a.WinnerId.String()
		model.WinningAmount = a.WinningAmount.String()
	}

	return model
}

func mapBid(b *entity.Bid) *entity.BidOutputModel {
	return &entity.BidOutputModel{
		Id:        b.Id.String(),
		AuctionId: b.AuctionId.String(),
		BidderId:  b.BidderId.String(),
		Amount:    b.Amount.String(),
		BidTime:   b.BidTime.Format(time.RFC3339),
		Note:      b.Note,
		Status:    b.Status,
	}
}

func mapBids(bids []entity.Bid) []entity.BidOutputModel {
	s := make([]entity.BidOutputModel, 0)
	for i := range bids {
		s = append(s, *mapBid(&bids[i]))
	}

	return s
}

func mapPlan(batchId uuid.UUID, plan *allocation.Plan) *entity.AllocationPlanOutputModel {
	model := &entity.AllocationPlanOutputModel{
		BatchId:          batchId.String(),
		Strategy:         plan.Strategy,
		ItemizedGross:    plan.ItemizedGross.String(),
		ItemizedNet:      plan.ItemizedNet.String(),
		BundledAvailable: plan.BundledAvailable,
		Awards:           make([]entity.AllocationAwardOutput, 0),
	}
	if plan.BundledAvailable {
		model.BundledNet = plan.BundledNet.String()
	}

	for _, award := range plan.Awards {
		model.Awards = append(model.Awards, entity.AllocationAwardOutput{
			Medium:   award.Medium,
			BidderId: award.BidderId.String(),
			BidId:    award.BidId.String(),
			Amount:   award.Amount.String(),
		})
	}

	return model
}

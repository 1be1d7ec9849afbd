package entity

// controller model, advisory allocation plan for a batch before close
type AllocationPlanOutputModel struct {
	BatchId          string                  `json:"batchId"`
	Strategy         string                  `json:"strategy"`
	ItemizedGross    string                  `json:"itemizedGross"`
	ItemizedNet      string                  `json:"itemizedNet"`
	BundledAvailable bool                    `json:"bundledAvailable"`
	BundledNet       string                  `json:"bundledNet,omitempty"`
	Awards           []AllocationAwardOutput `json:"awards"`
}

type AllocationAwardOutput struct {
	Medium   string `json:"medium,omitempty"`
	BidderId string `json:"bidderId"`
	BidId    string `json:"bidId"`
	Amount   string `json:"amount"`
}

// controller model, the result of resolving an auction
type ResolutionOutputModel struct {
	AuctionId     string `json:"auctionId"`
	Outcome       string `json:"outcome"`
	Strategy      string `json:"strategy,omitempty"`
	WinnerId      string `json:"winnerId,omitempty"`
	WinningAmount string `json:"winningAmount,omitempty"`
	BatchStatus   string `json:"batchStatus"`
}

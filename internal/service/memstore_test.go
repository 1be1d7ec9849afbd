package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/repo/repo_errors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// memStore backs every repository interface with in-process maps, mirroring
// the transactional behavior of the pgdb implementations closely enough to
// exercise the services: supersede-then-insert is one critical section, and
// finalization is a compare-and-set on the resolved flag.
type memStore struct {
	mu       sync.Mutex
	batches  map[uuid.UUID]*entity.Batch
	auctions map[uuid.UUID]*entity.Auction
	bids     map[uuid.UUID]*entity.Bid
	bidders  map[uuid.UUID]*entity.Bidder

	// beforeFinalize, when set, runs once at the top of the next
	// FinalizeAuction call, interleaving a competing writer ahead of it.
	beforeFinalize func()
}

func newMemStore() *memStore {
	return &memStore{
		batches:  make(map[uuid.UUID]*entity.Batch),
		auctions: make(map[uuid.UUID]*entity.Auction),
		bids:     make(map[uuid.UUID]*entity.Bid),
		bidders:  make(map[uuid.UUID]*entity.Bidder),
	}
}

func (m *memStore) repositories() *repo.Repositories {
	return &repo.Repositories{
		Diagnostics: m,
		Bidder:      m,
		Batch:       m,
		Auction:     m,
		Bid:         m,
	}
}

func (m *memStore) Ping() error { return nil }

func (m *memStore) GetBidderById(ctx context.Context, id string) (*entity.Bidder, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bidder, ok := m.bidders[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *bidder

	return &copied, nil
}

func (m *memStore) CreateBatch(ctx context.Context, input *entity.CreateBatchInput) (uuid.UUID, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	creator, err := uuid.Parse(input.CreatorId)
	if err != nil {
		return uuid.Nil, err
	}

	m.batches[id] = &entity.Batch{
		Id:              id,
		BatchNumber:     input.BatchNumber,
		Title:           input.Title,
		Description:     input.Description,
		Category:        input.Category,
		EstimatedWeight: input.EstimatedWeight,
		StorageLocation: input.StorageLocation,
		Status:          common.BatchDraft,
		CreatorId:       creator,
		CreatedAt:       time.Now().Format(time.RFC3339),
		Media:           append([]entity.BatchMedium(nil), input.Media...),
	}

	return id, nil
}

func (m *memStore) GetBatchById(ctx context.Context, id string) (*entity.Batch, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batch, ok := m.batches[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *batch

	return &copied, nil
}

func (m *memStore) GetPublishedBatches(ctx context.Context, categories []string, pg *entity.PaginationInput) ([]entity.Batch, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	batches := make([]entity.Batch, 0)
	for _, batch := range m.batches {
		if batch.Status == common.BatchPublished {
			batches = append(batches, *batch)
		}
	}

	return batches, nil
}

func (m *memStore) GetBatchesByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Batch, error) {
	uuidForm, err := uuid.Parse(creatorId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batches := make([]entity.Batch, 0)
	for _, batch := range m.batches {
		if batch.CreatorId == uuidForm {
			batches = append(batches, *batch)
		}
	}

	return batches, nil
}

func (m *memStore) UpdateBatchStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	batch, ok := m.batches[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	batch.Status = newStatus

	return nil
}

func (m *memStore) SoftDeleteBatchById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if _, ok := m.batches[uuidForm]; !ok {
		return repo_errors.ErrNotFound
	}
	delete(m.batches, uuidForm)

	return nil
}

func (m *memStore) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput, status string) (uuid.UUID, error) {
	batchId, err := uuid.Parse(input.BatchId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.auctions[id] = &entity.Auction{
		Id:           id,
		BatchId:      batchId,
		LotMedium:    input.LotMedium,
		StartTime:    input.StartTime,
		EndTime:      input.EndTime,
		BasePrice:    input.BasePrice,
		ReservePrice: input.ReservePrice,
		HasReserve:   input.HasReserve,
		Status:       status,
		CreatedAt:    time.Now().Format(time.RFC3339),
	}

	return id, nil
}

func (m *memStore) GetAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *auction

	return &copied, nil
}

func (m *memStore) GetAuctionsByBatchId(ctx context.Context, batchId string) ([]entity.Auction, error) {
	uuidForm, err := uuid.Parse(batchId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auctions := make([]entity.Auction, 0)
	for _, auction := range m.auctions {
		if auction.BatchId == uuidForm {
			auctions = append(auctions, *auction)
		}
	}

	return auctions, nil
}

func (m *memStore) UpdateAuctionStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if auction.Status == common.AuctionCancelled || auction.Resolved {
		return nil
	}
	auction.Status = newStatus

	return nil
}

func (m *memStore) CancelAuction(ctx context.Context, id string, now time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if auction.Status == common.AuctionCancelled || auction.Resolved || !auction.EndTime.After(now) {
		return repo_errors.ErrNotCancellable
	}
	auction.Status = common.AuctionCancelled

	return nil
}

func (m *memStore) FinalizeAuction(ctx context.Context, id string, winnerBidId *uuid.UUID, winnerId *uuid.UUID, amount decimal.Decimal, now time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	m.mu.Lock()
	hook := m.beforeFinalize
	m.beforeFinalize = nil
	m.mu.Unlock()
	if hook != nil {
		hook()
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[uuidForm]
	if !ok {
		return repo_errors.ErrNotFound
	}
	if auction.Resolved {
		return repo_errors.ErrAlreadyResolved
	}

	auction.Resolved = true
	auction.ResolvedAt = now.Format(time.RFC3339)
	auction.Status = common.AuctionEnded
	if winnerBidId != nil {
		auction.WinnerId = *winnerId
		auction.WinningAmount = amount
		m.bids[*winnerBidId].Status = common.BidWinning
	}

	for _, b := range m.bids {
		if b.AuctionId == uuidForm && b.Status == common.BidActive {
			b.Status = common.BidOutbid
		}
	}

	return nil
}

func (m *memStore) PlaceBid(ctx context.Context, input *entity.PlaceBidInput, now time.Time) (uuid.UUID, error) {
	auctionId, err := uuid.Parse(input.AuctionId)
	if err != nil {
		return uuid.Nil, err
	}

	bidderId, err := uuid.Parse(input.BidderId)
	if err != nil {
		return uuid.Nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	auction, ok := m.auctions[auctionId]
	if !ok {
		return uuid.Nil, repo_errors.ErrNotFound
	}

	if entity.DeriveAuctionStatus(now, auction.StartTime, auction.EndTime, auction.Status) != common.AuctionActive {
		return uuid.Nil, repo_errors.ErrAuctionNotActive
	}

	if input.Amount.LessThan(auction.BasePrice) {
		return uuid.Nil, repo_errors.ErrBidTooLow
	}

	for _, b := range m.bids {
		if b.AuctionId == auctionId && b.BidderId == bidderId && b.Status == common.BidActive {
			b.Status = common.BidOutbid
		}
	}

	id := uuid.New()
	m.bids[id] = &entity.Bid{
		Id:        id,
		AuctionId: auctionId,
		BidderId:  bidderId,
		Amount:    input.Amount,
		BidTime:   now,
		Note:      input.Note,
		Status:    common.BidActive,
	}

	return id, nil
}

func (m *memStore) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bid, ok := m.bids[uuidForm]
	if !ok {
		return nil, repo_errors.ErrNotFound
	}
	copied := *bid

	return &copied, nil
}

func (m *memStore) GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, b := range m.bids {
		if b.AuctionId == uuidForm {
			bids = append(bids, *b)
		}
	}

	return bids, nil
}

func (m *memStore) GetActiveBids(ctx context.Context, auctionId string) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, b := range m.bids {
		if b.AuctionId == uuidForm && b.Status == common.BidActive {
			bids = append(bids, *b)
		}
	}

	return bids, nil
}

func (m *memStore) GetBidderBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, b := range m.bids {
		if b.BidderId == uuidForm {
			bids = append(bids, *b)
		}
	}

	return bids, nil
}

func (m *memStore) addBidder(approved bool) uuid.UUID {
	m.mu.Lock()
	defer m.mu.Unlock()

	id := uuid.New()
	m.bidders[id] = &entity.Bidder{Id: id, DisplayName: "vendor " + id.String()[:8], Approved: approved}

	return id
}

// fixture wires every service onto one memStore behind a settable clock.
type fixture struct {
	store    *memStore
	clock    time.Time
	batches  *BatchService
	auctions *AuctionService
	bids     *BidService
	resolver *ResolverService
}

func newFixture() *fixture {
	store := newMemStore()
	repos := store.repositories()

	f := &fixture{
		store:    store,
		clock:    time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
		batches:  NewBatchService(repos),
		auctions: NewAuctionService(repos),
		bids:     NewBidService(repos),
		resolver: NewResolverService(repos),
	}

	tick := func() time.Time { return f.clock }
	f.batches.now = tick
	f.auctions.now = tick
	f.bids.now = tick
	f.resolver.now = tick

	return f
}

func (f *fixture) advance(d time.Duration) {
	f.clock = f.clock.Add(d)
}

// publishedBatch seeds a published batch composed of the given media.
func (f *fixture) publishedBatch(t *testing.T, media ...string) uuid.UUID {
	t.Helper()

	ms := make([]entity.BatchMedium, 0, len(media))
	for _, m := range media {
		ms = append(ms, entity.BatchMedium{Medium: m, Quantity: 1})
	}

	id, err := f.store.CreateBatch(context.Background(), &entity.CreateBatchInput{
		Title:       "march pickup",
		Category:    common.CategoryMixed,
		CreatorId:   uuid.New().String(),
		Media:       ms,
		BatchNumber: "WB-20260301-" + id4(),
	})
	if err != nil {
		t.Fatal(err)
	}
	if err := f.store.UpdateBatchStatusById(context.Background(), id.String(), common.BatchPublished); err != nil {
		t.Fatal(err)
	}

	return id
}

// openAuction seeds an auction whose window straddles the fixture clock.
func (f *fixture) openAuction(t *testing.T, batchId uuid.UUID, medium string, base int64) uuid.UUID {
	t.Helper()

	return f.windowedAuction(t, batchId, medium, base, f.clock.Add(-time.Hour), f.clock.Add(time.Hour))
}

func (f *fixture) windowedAuction(t *testing.T, batchId uuid.UUID, medium string, base int64, start, end time.Time) uuid.UUID {
	t.Helper()

	id, err := f.store.CreateAuction(context.Background(), &entity.CreateAuctionInput{
		BatchId:   batchId.String(),
		LotMedium: medium,
		StartTime: start,
		EndTime:   end,
		BasePrice: decimal.NewFromInt(base),
	}, entity.DeriveAuctionStatus(f.clock, start, end, ""))
	if err != nil {
		t.Fatal(err)
	}

	return id
}

func (f *fixture) placeBid(t *testing.T, auctionId, bidderId uuid.UUID, amount int64) *entity.BidOutputModel {
	t.Helper()

	out, err := f.bids.PlaceBid(context.Background(), &entity.PlaceBidInput{
		AuctionId: auctionId.String(),
		BidderId:  bidderId.String(),
		Amount:    decimal.NewFromInt(amount),
	})
	if err != nil {
		t.Fatal(err)
	}

	return out
}

func id4() string {
	return uuid.New().String()[:8]
}

func (m *memStore) activeBidsOf(auctionId, bidderId uuid.UUID) []entity.Bid {
	m.mu.Lock()
	defer m.mu.Unlock()

	bids := make([]entity.Bid, 0)
	for _, b := range m.bids {
		if b.AuctionId == auctionId && b.BidderId == bidderId && b.Status == common.BidActive {
			bids = append(bids, *b)
		}
	}

	return bids
}

package pgdb

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo/repo_errors"
	"waste-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type BidRepo struct {
	*postgres.Postgres
}

func NewBidRepo(pgdb *postgres.Postgres) *BidRepo {
	return &BidRepo{pgdb}
}

const bidColumns = "id, auction_id, bidder_id, amount, bid_time, note, status"

// PlaceBid admits a bid atomically: the auction row is locked, its status is
// re-derived against now inside the same transaction that supersedes the
// bidder's previous active bid and inserts the new one. No interleaving can
// observe two active bids from one bidder, and a concurrent cancel commits
// either strictly before this transaction (bid rejected) or after it.
func (r *BidRepo) PlaceBid(ctx context.Context, input *entity.PlaceBidInput, now time.Time) (uuid.UUID, error) {
	auctionUuid, err := uuid.Parse(input.AuctionId)
	if err != nil {
		return uuid.Nil, err
	}

	bidderUuid, err := uuid.Parse(input.BidderId)
	if err != nil {
		return uuid.Nil, err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	lockAuctionSql, args, _ := r.SqlBuilder.
		Select("start_time", "end_time", "status", "base_price").
		From("waste_auction").
		Where("id = ?", auctionUuid).
		Suffix("FOR UPDATE").
		RunWith(tx).
		ToSql()

	var auction entity.Auction
	err = tx.QueryRow(lockAuctionSql, args...).
		Scan(&auction.StartTime, &auction.EndTime, &auction.Status, &auction.BasePrice)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		if errors.Is(err, sql.ErrNoRows) {
			return uuid.Nil, repo_errors.ErrNotFound
		}

		return uuid.Nil, err
	}

	if entity.DeriveAuctionStatus(now, auction.StartTime, auction.EndTime, auction.Status) != common.AuctionActive {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repo_errors.ErrAuctionNotActive
	}

	if input.Amount.LessThan(auction.BasePrice) {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, repo_errors.ErrBidTooLow
	}

	supersedeSql, args, _ := r.SqlBuilder.
		Update("waste_bid").
		Set("status", common.BidOutbid).
		Where("auction_id = ?", auctionUuid).
		Where("bidder_id = ?", bidderUuid).
		Where("status = ?", common.BidActive).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(supersedeSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	insertBidSql, args, _ := r.SqlBuilder.
		Insert("waste_bid").
		Columns("auction_id", "bidder_id", "amount", "bid_time", "note", "status").
		Values(auctionUuid, bidderUuid, input.Amount, now, input.Note, common.BidActive).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var bidId uuid.UUID
	if err = tx.QueryRow(insertBidSql, args...).Scan(&bidId); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	// Refresh the status cache while the row is locked anyway.
	cacheStatusSql, args, _ := r.SqlBuilder.
		Update("waste_auction").
		Set("status", common.AuctionActive).
		Where("id = ?", auctionUuid).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(cacheStatusSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return bidId, nil
}

func (r *BidRepo) GetBidById(ctx context.Context, id string) (*entity.Bid, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getBidSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("waste_bid").
		Where("id = ?", uuidForm).
		ToSql()

	return scanBid(r.Database.QueryRow(getBidSql, args...))
}

// GetAuctionBids returns a snapshot of the auction's full bid history,
// ordered by amount descending then bid time descending.
func (r *BidRepo) GetAuctionBids(ctx context.Context, auctionId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	getBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("waste_bid").
		Where("auction_id = ?", uuidForm).
		OrderBy("amount DESC", "bid_time DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getBidsSql, args)
}

func (r *BidRepo) GetActiveBids(ctx context.Context, auctionId string) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(auctionId)
	if err != nil {
		return nil, err
	}

	getBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("waste_bid").
		Where("auction_id = ?", uuidForm).
		Where("status = ?", common.BidActive).
		OrderBy("amount DESC", "bid_time ASC").
		ToSql()

	return r.queryBids(ctx, getBidsSql, args)
}

func (r *BidRepo) GetBidderBids(ctx context.Context, bidderId string, pg *entity.PaginationInput) ([]entity.Bid, error) {
	uuidForm, err := uuid.Parse(bidderId)
	if err != nil {
		return nil, err
	}

	getBidsSql, args, _ := r.SqlBuilder.
		Select(bidColumns).
		From("waste_bid").
		Where("bidder_id = ?", uuidForm).
		OrderBy("bid_time DESC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBids(ctx, getBidsSql, args)
}

func (r *BidRepo) queryBids(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Bid, error) {
	rows, err := r.Database.Query(sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	bids := make([]entity.Bid, 0)
	for rows.Next() {
		bid, err := scanBid(rows)
		if err != nil {
			return bids, err
		}
		bids = append(bids, *bid)
	}
	if err = rows.Err(); err != nil {
		return bids, err
	}

	return bids, nil
}

func scanBid(row rowScanner) (*entity.Bid, error) {
	var bid entity.Bid
	var note sql.NullString

	err := row.Scan(&bid.Id, &bid.AuctionId, &bid.BidderId, &bid.Amount,
		&bid.BidTime, &note, &bid.Status)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if note.Valid {
		bid.Note = note.String
	}

	return &bid, nil
}

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
	"github.com/shopspring/decimal"
)

type AuctionRepo struct {
	*postgres.Postgres
}

func NewAuctionRepo(pgdb *postgres.Postgres) *AuctionRepo {
	return &AuctionRepo{pgdb}
}

const auctionColumns = "id, batch_id, lot_medium, start_time, end_time, base_price, " +
	"reserve_price, status, winner_id, winning_amount, resolved_at, created_at"

func (r *AuctionRepo) CreateAuction(ctx context.Context, input *entity.CreateAuctionInput, status string) (uuid.UUID, error) {
	var reserve interface{}
	if input.HasReserve {
		reserve = input.ReservePrice
	}

	createAuctionSql, args, _ := r.SqlBuilder.
		Insert("waste_auction").
		Columns("batch_id", "lot_medium", "start_time", "end_time",
			"base_price", "reserve_price", "status").
		Values(input.BatchId, input.LotMedium, input.StartTime, input.EndTime,
			input.BasePrice, reserve, status).
		Suffix("RETURNING id").
		ToSql()

	var auctionId uuid.UUID
	err := r.Database.QueryRow(createAuctionSql, args...).Scan(&auctionId)
	if err != nil {
		return uuid.Nil, err
	}

	return auctionId, nil
}

func (r *AuctionRepo) GetAuctionById(ctx context.Context, id string) (*entity.Auction, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getAuctionSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("waste_auction").
		Where("id = ?", uuidForm).
		ToSql()

	return scanAuction(r.Database.QueryRow(getAuctionSql, args...))
}

func (r *AuctionRepo) GetAuctionsByBatchId(ctx context.Context, batchId string) ([]entity.Auction, error) {
	uuidForm, err := uuid.Parse(batchId)
	if err != nil {
		return nil, err
	}

	getAuctionsSql, args, _ := r.SqlBuilder.
		Select(auctionColumns).
		From("waste_auction").
		Where("batch_id = ?", uuidForm).
		OrderBy("created_at ASC").
		ToSql()

	rows, err := r.Database.Query(getAuctionsSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	auctions := make([]entity.Auction, 0)
	for rows.Next() {
		auction, err := scanAuction(rows)
		if err != nil {
			return auctions, err
		}
		auctions = append(auctions, *auction)
	}
	if err = rows.Err(); err != nil {
		return auctions, err
	}

	return auctions, nil
}

// UpdateAuctionStatusById refreshes the persisted status cache. The cached
// value is never consulted for admission decisions, so a lost update here is
// harmless.
func (r *AuctionRepo) UpdateAuctionStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("waste_auction").
		Set("status", newStatus).
		Where("id = ?", uuidForm).
		Where("status <> ?", common.AuctionCancelled).
		Where("resolved_at IS NULL").
		ToSql()

	_, err = r.Database.Exec(updateStatusSql, args...)
	if err != nil {
		return err
	}

	return nil
}

// CancelAuction is a compare-and-set: the window condition keeps an ended
// auction from being cancelled even when its cached status lags.
func (r *AuctionRepo) CancelAuction(ctx context.Context, id string, now time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	cancelSql, args, _ := r.SqlBuilder.
		Update("waste_auction").
		Set("status", common.AuctionCancelled).
		Where("id = ?", uuidForm).
		Where("status <> ?", common.AuctionCancelled).
		Where("end_time > ?", now).
		Where("resolved_at IS NULL").
		ToSql()

	res, err := r.Database.Exec(cancelSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotCancellable
	}

	return nil
}

func (r *AuctionRepo) FinalizeAuction(ctx context.Context, id string, winnerBidId *uuid.UUID, winnerId *uuid.UUID, amount decimal.Decimal, now time.Time) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return err
	}

	var winnerArg, amountArg interface{}
	if winnerBidId != nil {
		winnerArg = *winnerId
		amountArg = amount
	}

	// CAS on resolved_at: only one resolver can pass this update.
	finalizeSql, args, _ := r.SqlBuilder.
		Update("waste_auction").
		Set("winner_id", winnerArg).
		Set("winning_amount", amountArg).
		Set("resolved_at", now).
		Set("status", common.AuctionEnded).
		Where("id = ?", uuidForm).
		Where("resolved_at IS NULL").
		RunWith(tx).
		ToSql()

	res, err := tx.Exec(finalizeSql, args...)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}
	if affected == 0 {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return repo_errors.ErrAlreadyResolved
	}

	if winnerBidId != nil {
		markWinnerSql, args, _ := r.SqlBuilder.
			Update("waste_bid").
			Set("status", common.BidWinning).
			Where("id = ?", *winnerBidId).
			RunWith(tx).
			ToSql()

		if _, err = tx.Exec(markWinnerSql, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return e
			}

			return err
		}
	}

	demoteSql, args, _ := r.SqlBuilder.
		Update("waste_bid").
		Set("status", common.BidOutbid).
		Where("auction_id = ?", uuidForm).
		Where("status = ?", common.BidActive).
		RunWith(tx).
		ToSql()

	if _, err = tx.Exec(demoteSql, args...); err != nil {
		if e := tx.Rollback(); e != nil {
			return e
		}

		return err
	}

	if err = tx.Commit(); err != nil {
		return err
	}

	return nil
}

func scanAuction(row rowScanner) (*entity.Auction, error) {
	var auction entity.Auction
	var reserve sql.NullString
	var winnerId uuid.NullUUID
	var winningAmount sql.NullString
	var resolvedAt sql.NullTime
	var createdAt time.Time

	err := row.Scan(&auction.Id, &auction.BatchId, &auction.LotMedium,
		&auction.StartTime, &auction.EndTime, &auction.BasePrice, &reserve,
		&auction.Status, &winnerId, &winningAmount, &resolvedAt, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if reserve.Valid {
		auction.ReservePrice, err = decimal.NewFromString(reserve.String)
		if err != nil {
			return nil, err
		}
		auction.HasReserve = true
	}
	if winnerId.Valid {
		auction.WinnerId = winnerId.UUID
	}
	if winningAmount.Valid {
		auction.WinningAmount, err = decimal.NewFromString(winningAmount.String)
		if err != nil {
			return nil, err
		}
	}
	if resolvedAt.Valid {
		auction.Resolved = true
		auction.ResolvedAt = resolvedAt.Time.Format(time.RFC3339)
	}
	auction.CreatedAt = createdAt.Format(time.RFC3339)

	return &auction, nil
}

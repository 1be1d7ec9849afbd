package pgdb

import (
	"context"
	"database/sql"
	"errors"

	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo/repo_errors"
	"waste-auction-api/pkg/postgres"

	"github.com/google/uuid"
)

type BidderRepo struct {
	*postgres.Postgres
}

func NewBidderRepo(pgdb *postgres.Postgres) *BidderRepo {
	return &BidderRepo{pgdb}
}

func (r *BidderRepo) GetBidderById(ctx context.Context, id string) (*entity.Bidder, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id", "display_name", "approved").
		From("bidder").
		Where("id = ?", uuidForm).
		ToSql()

	var bidder entity.Bidder
	err = r.Database.QueryRow(sqlReq, args...).Scan(&bidder.Id, &bidder.DisplayName, &bidder.Approved)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	return &bidder, nil
}

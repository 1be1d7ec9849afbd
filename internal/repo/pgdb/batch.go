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

	"github.com/Masterminds/squirrel"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

type BatchRepo struct {
	*postgres.Postgres
}

func NewBatchRepo(pgdb *postgres.Postgres) *BatchRepo {
	return &BatchRepo{pgdb}
}

func (r *BatchRepo) CreateBatch(ctx context.Context, input *entity.CreateBatchInput) (uuid.UUID, error) {
	tx, err := r.Database.BeginTx(ctx, nil)
	if err != nil {
		return uuid.Nil, err
	}

	// Optional columns stay NULL rather than zero-valued.
	var weight interface{}
	if !input.EstimatedWeight.IsZero() {
		weight = input.EstimatedWeight
	}
	var location interface{}
	if input.StorageLocation != "" {
		location = input.StorageLocation
	}

	createBatchSql, args, _ := r.SqlBuilder.
		Insert("waste_batch").
		Columns("batch_number", "title", "description", "category",
			"estimated_weight_kg", "storage_location", "status", "creator_id").
		Values(input.BatchNumber, input.Title, input.Description, input.Category,
			weight, location, common.BatchDraft, input.CreatorId).
		Suffix("RETURNING id").
		RunWith(tx).
		ToSql()

	var batchId uuid.UUID
	err = tx.QueryRow(createBatchSql, args...).Scan(&batchId)
	if err != nil {
		if e := tx.Rollback(); e != nil {
			return uuid.Nil, e
		}

		return uuid.Nil, err
	}

	for _, medium := range input.Media {
		createMediumSql, args, _ := r.SqlBuilder.
			Insert("waste_batch_medium").
			Columns("batch_id", "medium", "quantity").
			Values(batchId, medium.Medium, medium.Quantity).
			RunWith(tx).
			ToSql()

		if _, err = tx.Exec(createMediumSql, args...); err != nil {
			if e := tx.Rollback(); e != nil {
				return uuid.Nil, e
			}

			return uuid.Nil, err
		}
	}

	if err = tx.Commit(); err != nil {
		return uuid.Nil, err
	}

	return batchId, nil
}

func (r *BatchRepo) GetBatchById(ctx context.Context, id string) (*entity.Batch, error) {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return nil, err
	}

	getBatchSql, args, _ := r.SqlBuilder.
		Select("id", "batch_number", "title", "description", "category",
			"estimated_weight_kg", "storage_location", "status", "creator_id", "created_at").
		From("waste_batch").
		Where("id = ?", uuidForm).
		Where("deleted_at IS NULL").
		ToSql()

	batch, err := scanBatch(r.Database.QueryRow(getBatchSql, args...))
	if err != nil {
		return nil, err
	}

	media, err := r.getBatchMedia(ctx, uuidForm)
	if err != nil {
		return nil, err
	}
	batch.Media = media

	return batch, nil
}

func (r *BatchRepo) GetPublishedBatches(ctx context.Context, categories []string, pg *entity.PaginationInput) ([]entity.Batch, error) {
	builder := r.SqlBuilder.
		Select("id", "batch_number", "title", "description", "category",
			"estimated_weight_kg", "storage_location", "status", "creator_id", "created_at").
		From("waste_batch").
		Where("status = ?", common.BatchPublished).
		Where("deleted_at IS NULL")

	if len(categories) > 0 {
		builder = builder.Where(squirrel.Eq{"category": categories})
	}

	sqlReq, args, _ := builder.
		OrderBy("batch_number ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBatches(ctx, sqlReq, args)
}

func (r *BatchRepo) GetBatchesByCreatorId(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.Batch, error) {
	uuidForm, err := uuid.Parse(creatorId)
	if err != nil {
		return nil, err
	}

	sqlReq, args, _ := r.SqlBuilder.
		Select("id", "batch_number", "title", "description", "category",
			"estimated_weight_kg", "storage_location", "status", "creator_id", "created_at").
		From("waste_batch").
		Where("creator_id = ?", uuidForm).
		Where("deleted_at IS NULL").
		OrderBy("batch_number ASC").
		Offset(uint64(pg.Offset)).
		Limit(uint64(pg.Limit)).
		ToSql()

	return r.queryBatches(ctx, sqlReq, args)
}

func (r *BatchRepo) UpdateBatchStatusById(ctx context.Context, id string, newStatus string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	updateStatusSql, args, _ := r.SqlBuilder.
		Update("waste_batch").
		Set("status", newStatus).
		Where("id = ?", uuidForm).
		Where("deleted_at IS NULL").
		ToSql()

	_, err = r.Database.Exec(updateStatusSql, args...)
	if err != nil {
		return err
	}

	return nil
}

func (r *BatchRepo) SoftDeleteBatchById(ctx context.Context, id string) error {
	uuidForm, err := uuid.Parse(id)
	if err != nil {
		return err
	}

	deleteSql, args, _ := r.SqlBuilder.
		Update("waste_batch").
		Set("deleted_at", squirrel.Expr("now()")).
		Where("id = ?", uuidForm).
		Where("deleted_at IS NULL").
		ToSql()

	res, err := r.Database.Exec(deleteSql, args...)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return repo_errors.ErrNotFound
	}

	return nil
}

func (r *BatchRepo) getBatchMedia(ctx context.Context, batchId uuid.UUID) ([]entity.BatchMedium, error) {
	getMediaSql, args, _ := r.SqlBuilder.
		Select("medium", "quantity").
		From("waste_batch_medium").
		Where("batch_id = ?", batchId).
		OrderBy("medium ASC").
		ToSql()

	rows, err := r.Database.Query(getMediaSql, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	media := make([]entity.BatchMedium, 0)
	for rows.Next() {
		var m entity.BatchMedium
		if err := rows.Scan(&m.Medium, &m.Quantity); err != nil {
			return media, err
		}
		media = append(media, m)
	}
	if err = rows.Err(); err != nil {
		return media, err
	}

	return media, nil
}

func (r *BatchRepo) queryBatches(ctx context.Context, sqlReq string, args []interface{}) ([]entity.Batch, error) {
	rows, err := r.Database.Query(sqlReq, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	batches := make([]entity.Batch, 0)
	for rows.Next() {
		batch, err := scanBatch(rows)
		if err != nil {
			return batches, err
		}
		batches = append(batches, *batch)
	}
	if err = rows.Err(); err != nil {
		return batches, err
	}

	for i := range batches {
		media, err := r.getBatchMedia(ctx, batches[i].Id)
		if err != nil {
			return batches, err
		}
		batches[i].Media = media
	}

	return batches, nil
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanBatch(row rowScanner) (*entity.Batch, error) {
	var batch entity.Batch
	var createdAt time.Time
	var weight sql.NullString
	var location sql.NullString

	err := row.Scan(&batch.Id, &batch.BatchNumber, &batch.Title, &batch.Description,
		&batch.Category, &weight, &location, &batch.Status, &batch.CreatorId, &createdAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, repo_errors.ErrNotFound
		}

		return nil, err
	}

	if weight.Valid {
		batch.EstimatedWeight, err = decimal.NewFromString(weight.String)
		if err != nil {
			return nil, err
		}
	}
	if location.Valid {
		batch.StorageLocation = location.String
	}
	batch.CreatedAt = createdAt.Format(time.RFC3339)

	return &batch, nil
}

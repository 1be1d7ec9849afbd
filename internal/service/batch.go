package service

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"time"

	"waste-auction-api/internal/common"
	"waste-auction-api/internal/entity"
	"waste-auction-api/internal/repo"
	"waste-auction-api/internal/repo/repo_errors"
)

type BatchService struct {
	batchRepo repo.Batch
	now       func() time.Time
}

func NewBatchService(repos *repo.Repositories) *BatchService {
	return &BatchService{
		batchRepo: repos.Batch,
		now:       time.Now,
	}
}

func (s *BatchService) CreateBatch(ctx context.Context, input *entity.CreateBatchInput) (*entity.BatchOutputModel, error) {
	number, err := s.newBatchNumber()
	if err != nil {
		return nil, err
	}
	input.BatchNumber = number

	id, err := s.batchRepo.CreateBatch(ctx, input)
	if err != nil {
		return nil, err
	}

	batch, err := s.batchRepo.GetBatchById(ctx, id.String())
	if err != nil {
		return nil, err
	}

	return mapBatch(batch), nil
}

func (s *BatchService) PublishBatch(ctx context.Context, batchId string) (*entity.BatchOutputModel, error) {
	batch, err := s.batchRepo.GetBatchById(ctx, batchId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBatchNotFound
		}

		return nil, err
	}

	if batch.Status != common.BatchDraft {
		return nil, ErrInvalidStatusChange
	}

	if err = s.batchRepo.UpdateBatchStatusById(ctx, batchId, common.BatchPublished); err != nil {
		return nil, err
	}

	batch, err = s.batchRepo.GetBatchById(ctx, batchId)
	if err != nil {
		return nil, err
	}

	return mapBatch(batch), nil
}

func (s *BatchService) GetBatchById(ctx context.Context, batchId string) (*entity.BatchOutputModel, error) {
	batch, err := s.batchRepo.GetBatchById(ctx, batchId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return nil, ErrBatchNotFound
		}

		return nil, err
	}

	return mapBatch(batch), nil
}

func (s *BatchService) GetPublishedBatches(ctx context.Context, categories []string, pg *entity.PaginationInput) ([]entity.BatchOutputModel, error) {
	batches, err := s.batchRepo.GetPublishedBatches(ctx, categories, pg)
	if err != nil {
		return nil, err
	}

	return mapBatches(batches), nil
}

func (s *BatchService) GetUserBatches(ctx context.Context, creatorId string, pg *entity.PaginationInput) ([]entity.BatchOutputModel, error) {
	batches, err := s.batchRepo.GetBatchesByCreatorId(ctx, creatorId, pg)
	if err != nil {
		return nil, err
	}

	return mapBatches(batches), nil
}

func (s *BatchService) DeleteBatch(ctx context.Context, batchId string) error {
	err := s.batchRepo.SoftDeleteBatchById(ctx, batchId)
	if err != nil {
		if errors.Is(err, repo_errors.ErrNotFound) {
			return ErrBatchNotFound
		}

		return err
	}

	return nil
}

// newBatchNumber builds the stable human-referenceable identifier,
// e.g. WB-20260830-1f3a9c2e.
func (s *BatchService) newBatchNumber() (string, error) {
	suffix := make([]byte, 4)
	if _, err := rand.Read(suffix); err != nil {
		return "", err
	}

	return fmt.Sprintf("WB-%s-%s", s.now().UTC().Format("20060102"), hex.EncodeToString(suffix)), nil
}

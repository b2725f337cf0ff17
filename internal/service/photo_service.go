package service

import (
	"context"
	"fmt"
	"time"

	"rentalhub/internal/model"
	"rentalhub/internal/repository"
	"rentalhub/pkg/apperr"
)

type UploadPhotoRequest struct {
	MeterStateID uint
	Category     string
	FileName     string
	Image        []byte
	TakenAt      *time.Time
}

type PhotoResponse struct {
	ID           uint    `json:"id"`
	MeterStateID uint    `json:"meter_state_id"`
	Category     string  `json:"category"`
	FileName     string  `json:"file_name"`
	SizeBytes    int     `json:"size_bytes"`
	TakenAt      *string `json:"taken_at"`
	CreatedAt    string  `json:"created_at"`
}

type PhotoService interface {
	UploadPhoto(ctx context.Context, req UploadPhotoRequest) (PhotoResponse, error)
	GetPhoto(ctx context.Context, id uint) (PhotoResponse, error)
	GetPhotoImage(ctx context.Context, id uint) (string, []byte, error)
	ListPhotosByState(ctx context.Context, stateID uint) ([]PhotoResponse, error)
	DeletePhoto(ctx context.Context, id uint) error
}

type photoService struct {
	photoRepo repository.PhotoRepository
	stateRepo repository.MeterStateRepository
}

func NewPhotoService(photoRepo repository.PhotoRepository, stateRepo repository.MeterStateRepository) PhotoService {
	return &photoService{photoRepo: photoRepo, stateRepo: stateRepo}
}

func (s *photoService) UploadPhoto(ctx context.Context, req UploadPhotoRequest) (PhotoResponse, error) {
	category := model.UtilityCategory(req.Category)
	if !category.Valid() {
		return PhotoResponse{}, apperr.Validationf("unknown utility category %q", req.Category)
	}
	if len(req.Image) == 0 {
		return PhotoResponse{}, apperr.Validationf("image payload is empty")
	}
	if req.FileName == "" {
		return PhotoResponse{}, apperr.Validationf("file name is required")
	}

	if _, err := s.stateRepo.FindByID(ctx, req.MeterStateID); err != nil {
		return PhotoResponse{}, apperr.FromDB(err, fmt.Sprintf("meter state %d", req.MeterStateID))
	}

	photo := &model.Photo{
		MeterStateID: req.MeterStateID,
		Category:     category,
		FileName:     req.FileName,
		Image:        req.Image,
		TakenAt:      req.TakenAt,
	}
	if err := s.photoRepo.Create(ctx, photo); err != nil {
		return PhotoResponse{}, fmt.Errorf("failed to store photo: %w", err)
	}

	return toPhotoResponse(*photo), nil
}

func (s *photoService) GetPhoto(ctx context.Context, id uint) (PhotoResponse, error) {
	photo, err := s.photoRepo.FindByID(ctx, id)
	if err != nil {
		return PhotoResponse{}, apperr.FromDB(err, fmt.Sprintf("photo %d", id))
	}
	return toPhotoResponse(*photo), nil
}

func (s *photoService) GetPhotoImage(ctx context.Context, id uint) (string, []byte, error) {
	photo, err := s.photoRepo.FindByID(ctx, id)
	if err != nil {
		return "", nil, apperr.FromDB(err, fmt.Sprintf("photo %d", id))
	}
	return photo.FileName, photo.Image, nil
}

func (s *photoService) ListPhotosByState(ctx context.Context, stateID uint) ([]PhotoResponse, error) {
	photos, err := s.photoRepo.ListByState(ctx, stateID)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch photos: %w", err)
	}

	res := make([]PhotoResponse, 0, len(photos))
	for _, p := range photos {
		res = append(res, toPhotoResponse(p))
	}
	return res, nil
}

func (s *photoService) DeletePhoto(ctx context.Context, id uint) error {
	if _, err := s.photoRepo.FindByID(ctx, id); err != nil {
		return apperr.FromDB(err, fmt.Sprintf("photo %d", id))
	}
	return s.photoRepo.Delete(ctx, id)
}

func toPhotoResponse(p model.Photo) PhotoResponse {
	var takenAt *string
	if p.TakenAt != nil {
		v := p.TakenAt.Format(time.RFC3339)
		takenAt = &v
	}
	return PhotoResponse{
		ID:           p.ID,
		MeterStateID: p.MeterStateID,
		Category:     string(p.Category),
		FileName:     p.FileName,
		SizeBytes:    len(p.Image),
		TakenAt:      takenAt,
		CreatedAt:    p.CreatedAt.Format(time.RFC3339),
	}
}

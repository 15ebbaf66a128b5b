package service

import (
	"context"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/validation"
)

type BreedService struct {
	repo       repository.BreedRepository
	animalRepo repository.AnimalRepository
}

func NewBreedService(repo repository.BreedRepository, animalRepo repository.AnimalRepository) *BreedService {
	return &BreedService{repo: repo, animalRepo: animalRepo}
}

func (s *BreedService) Create(ctx context.Context, breed *model.Breed) (validation.Violations, error) {
	violations := validation.Violations{}
	if breed.Name == "" {
		violations.Add("Nome", "name is required")
	}
	if !violations.Empty() {
		return violations, nil
	}
	return nil, s.repo.Create(ctx, breed)
}

func (s *BreedService) ByID(ctx context.Context, id int64) (*model.Breed, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BreedService) Breeds(ctx context.Context) ([]*model.Breed, error) {
	return s.repo.Breeds(ctx)
}

func (s *BreedService) Update(ctx context.Context, breed *model.Breed) (validation.Violations, error) {
	violations := validation.Violations{}
	if breed.Name == "" {
		violations.Add("Nome", "name is required")
	}
	if !violations.Empty() {
		return violations, nil
	}

	_, err := s.repo.ByID(ctx, breed.ID)
	if err != nil {
		return nil, err
	}

	return nil, s.repo.Update(ctx, breed)
}

// Delete refuses to remove a breed that animals still reference.
func (s *BreedService) Delete(ctx context.Context, id int64) (validation.Violations, error) {
	count, err := s.animalRepo.CountByBreed(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		violations := validation.Violations{}
		violations.Add("", "cannot delete a breed that animals still reference")
		return violations, nil
	}

	return nil, s.repo.Delete(ctx, id)
}

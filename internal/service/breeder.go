package service

import (
	"context"

	"github.com/kennelworks/kennelbook/internal/model"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/validation"
)

type BreederService struct {
	repo       repository.BreederRepository
	animalRepo repository.AnimalRepository
}

func NewBreederService(repo repository.BreederRepository, animalRepo repository.AnimalRepository) *BreederService {
	return &BreederService{repo: repo, animalRepo: animalRepo}
}

func (s *BreederService) validate(breeder *model.Breeder) validation.Violations {
	violations := validation.Violations{}
	if breeder.Name == "" {
		violations.Add("Nome", "name is required")
	}
	if breeder.Address == "" {
		violations.Add("Morada", "address is required")
	}
	if breeder.Email == "" {
		violations.Add("Email", "email is required")
	}
	return violations
}

func (s *BreederService) Create(ctx context.Context, breeder *model.Breeder) (validation.Violations, error) {
	violations := s.validate(breeder)
	if !violations.Empty() {
		return violations, nil
	}
	return nil, s.repo.Create(ctx, breeder)
}

func (s *BreederService) ByID(ctx context.Context, id int64) (*model.Breeder, error) {
	return s.repo.ByID(ctx, id)
}

func (s *BreederService) Breeders(ctx context.Context) ([]*model.Breeder, error) {
	return s.repo.Breeders(ctx)
}

func (s *BreederService) Update(ctx context.Context, breeder *model.Breeder) (validation.Violations, error) {
	violations := s.validate(breeder)
	if !violations.Empty() {
		return violations, nil
	}

	_, err := s.repo.ByID(ctx, breeder.ID)
	if err != nil {
		return nil, err
	}

	return nil, s.repo.Update(ctx, breeder)
}

// Delete refuses to remove a breeder that still has animals registered;
// the animal rows reference the breeder and would be orphaned.
func (s *BreederService) Delete(ctx context.Context, id int64) (validation.Violations, error) {
	count, err := s.animalRepo.CountByBreeder(ctx, id)
	if err != nil {
		return nil, err
	}
	if count > 0 {
		violations := validation.Violations{}
		violations.Add("", "cannot delete a breeder that still has animals registered")
		return violations, nil
	}

	return nil, s.repo.Delete(ctx, id)
}

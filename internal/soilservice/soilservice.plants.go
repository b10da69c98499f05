// FilePath: internal/soilservice/soilservice.plants.go
package soilservice

import (
	"context"
	"strings"

	"github.com/hitarthombre/SoilSageServer/internal/errors"
	"github.com/hitarthombre/SoilSageServer/internal/models"
	"github.com/hitarthombre/SoilSageServer/internal/repository"
)

// ListPlants returns all known plant names.
func (s *SoilService) ListPlants(ctx context.Context) ([]string, error) {
	return s.Plants.ListNames(ctx)
}

// GetPlantStages returns the ordered growth stages for a plant.
func (s *SoilService) GetPlantStages(ctx context.Context, name string) (models.GrowthStages, error) {
	profile, err := s.Plants.GetByName(ctx, name)
	if err == repository.ErrNotFound {
		return nil, errors.NewNotFoundError("plant not found", err)
	}
	if err != nil {
		return nil, err
	}
	return profile.Stages, nil
}

// GetPlantStage returns one named growth stage of a plant.
func (s *SoilService) GetPlantStage(ctx context.Context, name, stage string) (*models.GrowthStage, error) {
	stages, err := s.GetPlantStages(ctx, name)
	if err != nil {
		return nil, err
	}
	for i := range stages {
		if strings.EqualFold(stages[i].Name, stage) {
			return &stages[i], nil
		}
	}
	return nil, errors.NewNotFoundError("growth stage not found", nil)
}

// UpsertPlant creates or replaces a plant profile.
func (s *SoilService) UpsertPlant(ctx context.Context, profile *models.PlantProfile) error {
	if profile.Name == "" {
		return errors.NewValidationError("plant name is required", nil)
	}
	return s.Plants.Upsert(ctx, profile)
}

package app

import (
	"fmt"

	"github.com/jmoiron/sqlx"
	"github.com/kennelworks/kennelbook/internal/config"
	"github.com/kennelworks/kennelbook/internal/db"
	"github.com/kennelworks/kennelbook/internal/repository"
	"github.com/kennelworks/kennelbook/internal/service"
	"github.com/kennelworks/kennelbook/internal/storage"
)

type App struct {
	Cfg            *config.Config
	DB             *sqlx.DB
	Storage        storage.Storage
	AnimalService  *service.AnimalService
	BreederService *service.BreederService
	BreedService   *service.BreedService
}

func New(cfg *config.Config) (*App, error) {
	// Initialize database
	database, err := db.Init(cfg.DBDriver, cfg.DBConnection)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize database: %v", err)
	}

	// Run database migrations
	err = db.RunMigrations(database.DB, cfg.DBDriver)
	if err != nil {
		return nil, fmt.Errorf("failed to run migrations: %v", err)
	}

	// Repositories
	animalRepository := repository.NewAnimalRepository(database)
	breederRepository := repository.NewBreederRepository(database)
	breedRepository := repository.NewBreedRepository(database)

	// Storage
	blobStorage, err := storage.New(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to initialize storage: %v", err)
	}

	// Services
	animalService := service.NewAnimalService(
		animalRepository,
		breederRepository,
		breedRepository,
		blobStorage,
		cfg.BlobWriteTimeout,
	)
	breederService := service.NewBreederService(breederRepository, animalRepository)
	breedService := service.NewBreedService(breedRepository, animalRepository)

	return &App{
		Cfg:            cfg,
		DB:             database,
		Storage:        blobStorage,
		AnimalService:  animalService,
		BreederService: breederService,
		BreedService:   breedService,
	}, nil
}

func (a *App) Close() error {
	return db.Close(a.DB)
}

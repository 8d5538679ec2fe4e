package db

import (
	"context"

	"github.com/rs/zerolog"

	infraRepo "github.com/BruksfildServices01/findcut/internal/infra/repository"
)

// NewDB abre o armazenamento em memória da API stub e, se seed=true,
// carrega as barbearias de demonstração.
func NewDB(log zerolog.Logger, seed bool, opts ...infraRepo.MemoryOption) *infraRepo.Memory {
	repo := infraRepo.NewMemory(opts...)
	if !seed {
		return repo
	}

	if err := Seed(context.Background(), repo); err != nil {
		log.Fatal().Err(err).Msg("failed to seed stub database")
	}

	log.Info().
		Int("barbershops", len(seedShops)).
		Msg("stub database seeded")

	return repo
}

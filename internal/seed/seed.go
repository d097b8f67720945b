package seed

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"

	"meridian/internal/auth"
	"meridian/internal/domain"
	"meridian/internal/domain/models"
	"meridian/internal/domain/repositories"
)

// Seeder populates a fresh database with a demo user, sequence, blocks
// and variables for local development (§9 Design Notes), grounded on
// the teacher's internal/seed.LLMSeeder shape generalized from raw SQL
// inserts to the repository layer.
type Seeder struct {
	users       repositories.UserRepository
	sequences   repositories.SequenceRepository
	blocks      repositories.BlockRepository
	variables   repositories.VariableRepository
	globalLists repositories.GlobalListRepository
	logger      *slog.Logger
}

func NewSeeder(
	users repositories.UserRepository,
	sequences repositories.SequenceRepository,
	blocks repositories.BlockRepository,
	variables repositories.VariableRepository,
	globalLists repositories.GlobalListRepository,
	logger *slog.Logger,
) *Seeder {
	return &Seeder{
		users:       users,
		sequences:   sequences,
		blocks:      blocks,
		variables:   variables,
		globalLists: globalLists,
		logger:      logger,
	}
}

// Run seeds f into the database. A demo user already found by email is
// reused; a global list or sequence whose Create reports
// domain.ErrConflict is treated as "already seeded" and skipped.
func (s *Seeder) Run(ctx context.Context, f *Fixture) error {
	owner, err := s.ensureUser(ctx, f.User.Email, f.User.Password)
	if err != nil {
		return fmt.Errorf("seed user: %w", err)
	}

	for _, gl := range f.GlobalLists {
		items := make([]models.GlobalListItem, len(gl.Items))
		for i, v := range gl.Items {
			items[i] = models.GlobalListItem{Value: v, Order: i}
		}
		list := &models.GlobalList{OwnerID: owner.ID, Name: gl.Name, Items: items}
		if err := s.globalLists.Create(ctx, list); err != nil && !errors.Is(err, domain.ErrConflict) {
			return fmt.Errorf("seed global list %q: %w", gl.Name, err)
		}
		s.logger.Info("seeded global list", "name", gl.Name)
	}

	for _, sf := range f.Sequences {
		seq := &models.Sequence{OwnerID: owner.ID, Name: sf.Name, Description: sf.Description}
		if err := s.sequences.Create(ctx, seq); err != nil {
			if errors.Is(err, domain.ErrConflict) {
				s.logger.Info("sequence already seeded", "name", sf.Name)
				continue
			}
			return fmt.Errorf("seed sequence %q: %w", sf.Name, err)
		}

		for _, vf := range sf.Variables {
			v := &models.Variable{
				SequenceID: seq.ID,
				Name:       vf.Name,
				Type:       models.VariableType(vf.Type),
				Value:      vf.Value,
				Default:    vf.Default,
				TypeHint:   vf.TypeHint,
			}
			if err := s.variables.Create(ctx, owner.ID, v); err != nil {
				return fmt.Errorf("seed variable %q: %w", vf.Name, err)
			}
		}

		for _, bf := range sf.Blocks {
			raw, err := json.Marshal(bf.Config)
			if err != nil {
				return fmt.Errorf("encode block config %q: %w", bf.Name, err)
			}
			cfg, err := models.DecodeConfig(models.BlockType(bf.Type), raw)
			if err != nil {
				return fmt.Errorf("decode block config %q: %w", bf.Name, err)
			}
			block := &models.Block{
				SequenceID: seq.ID,
				Name:       bf.Name,
				Type:       models.BlockType(bf.Type),
				Order:      bf.Order,
				Config:     cfg,
			}
			if err := s.blocks.Create(ctx, owner.ID, block); err != nil {
				return fmt.Errorf("seed block %q: %w", bf.Name, err)
			}
		}

		s.logger.Info("seeded sequence", "name", sf.Name, "blocks", len(sf.Blocks), "variables", len(sf.Variables))
	}

	return nil
}

func (s *Seeder) ensureUser(ctx context.Context, email, password string) (*models.User, error) {
	if existing, err := s.users.GetByEmail(ctx, email); err == nil {
		return existing, nil
	}

	hashed, err := auth.HashPassword(password)
	if err != nil {
		return nil, fmt.Errorf("hash seed password: %w", err)
	}

	user := &models.User{Email: email, HashedSecret: hashed, IsActive: true}
	if err := s.users.Create(ctx, user); err != nil {
		return nil, err
	}
	s.logger.Info("seeded user", "email", email)
	return user, nil
}

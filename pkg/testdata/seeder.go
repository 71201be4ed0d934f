package testdata

import (
	"context"
	"fmt"

	"github.com/jordanlanch/leadcrm/pkg/auth"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/models"
)

// UserCreator creates staff accounts on behalf of a Team Leader
type UserCreator interface {
	Signup(ctx context.Context, actor auth.Identity, req models.SignupRequest) (*models.User, error)
}

// LeadWriter drives leads through the workflow
type LeadWriter interface {
	Create(ctx context.Context, actor auth.Identity, req models.CreateLeadRequest) (*models.Lead, error)
	Assign(ctx context.Context, actor auth.Identity, id string, target *string, version *int64) (*models.Lead, error)
	SetDisposition(ctx context.Context, actor auth.Identity, id string, d models.Disposition, version *int64) (*models.Lead, error)
}

// SeedConfig sizes a demo data set
type SeedConfig struct {
	LeadGenerators int
	Telemarketers  int
	Leads          int
	Region         string
	// AssignRatio is the share of leads handed to a telemarketer
	AssignRatio float64
	// DispositionRatio is the share of assigned leads that get called
	DispositionRatio float64
}

// SeedResult summarizes a seeding run
type SeedResult struct {
	Users        []*models.User
	Leads        []*models.Lead
	Assigned     int
	Dispositions int
}

// Seeder fills an empty system with demo staff and leads
type Seeder struct {
	users  UserCreator
	leads  LeadWriter
	gen    *Generator
	logger logger.Logger
}

// NewSeeder creates a seeder
func NewSeeder(users UserCreator, leads LeadWriter, gen *Generator, log logger.Logger) *Seeder {
	if log == nil {
		log = logger.Nop()
	}
	return &Seeder{users: users, leads: leads, gen: gen, logger: log}
}

// Seed creates staff and leads as admin, then assigns a share of the
// leads round-robin and records dispositions on some of them
func (s *Seeder) Seed(ctx context.Context, admin auth.Identity, cfg SeedConfig) (*SeedResult, error) {
	result := &SeedResult{}

	var generators, telemarketers []*models.User
	for i := 0; i < cfg.LeadGenerators; i++ {
		u, err := s.users.Signup(ctx, admin, s.gen.Signup(auth.RoleLeadGeneration, admin.Team))
		if err != nil {
			return result, fmt.Errorf("failed to create lead generator: %w", err)
		}
		generators = append(generators, u)
	}
	for i := 0; i < cfg.Telemarketers; i++ {
		u, err := s.users.Signup(ctx, admin, s.gen.Signup(auth.RoleTelemarketer, admin.Team))
		if err != nil {
			return result, fmt.Errorf("failed to create telemarketer: %w", err)
		}
		telemarketers = append(telemarketers, u)
	}
	result.Users = append(generators, telemarketers...)

	leadCfg := DefaultLeadConfig(cfg.Leads)
	if cfg.Region != "" {
		leadCfg.Region = cfg.Region
	}

	for i, req := range s.gen.Leads(leadCfg) {
		creator := admin
		if len(generators) > 0 {
			creator = generators[i%len(generators)].Identity()
		}
		lead, err := s.leads.Create(ctx, creator, req)
		if err != nil {
			return result, fmt.Errorf("failed to create lead %d: %w", i, err)
		}

		if len(telemarketers) > 0 && s.gen.Chance(cfg.AssignRatio) {
			tm := telemarketers[result.Assigned%len(telemarketers)]
			target, id := tm.ID.Hex(), lead.ID.Hex()
			lead, err = s.leads.Assign(ctx, admin, id, &target, nil)
			if err != nil {
				return result, fmt.Errorf("failed to assign lead %s: %w", id, err)
			}
			result.Assigned++

			if s.gen.Chance(cfg.DispositionRatio) {
				lead, err = s.leads.SetDisposition(ctx, tm.Identity(), id, s.gen.Disposition(), nil)
				if err != nil {
					return result, fmt.Errorf("failed to disposition lead %s: %w", id, err)
				}
				result.Dispositions++
			}
		}
		result.Leads = append(result.Leads, lead)
	}

	s.logger.Info("seed complete",
		"users", len(result.Users),
		"leads", len(result.Leads),
		"assigned", result.Assigned,
		"dispositions", result.Dispositions,
	)
	return result, nil
}

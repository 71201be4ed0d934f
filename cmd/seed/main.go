// Command seed fills an empty database with demo staff and leads.
//
//	ADMIN_EMAIL=tl@example.com ADMIN_PASSWORD=secret123 go run ./cmd/seed -leads 200
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"time"

	"github.com/jordanlanch/leadcrm/config"
	"github.com/jordanlanch/leadcrm/pkg/database"
	"github.com/jordanlanch/leadcrm/pkg/leadassignment"
	"github.com/jordanlanch/leadcrm/pkg/leads"
	"github.com/jordanlanch/leadcrm/pkg/logger"
	"github.com/jordanlanch/leadcrm/pkg/phone"
	"github.com/jordanlanch/leadcrm/pkg/testdata"
	"github.com/jordanlanch/leadcrm/pkg/users"
)

func main() {
	var (
		seed        = flag.Int64("seed", time.Now().UnixNano(), "random seed")
		lgs         = flag.Int("lead-generators", 2, "number of Lead Generation users")
		tms         = flag.Int("telemarketers", 4, "number of Telemarketers")
		leadCount   = flag.Int("leads", 100, "number of leads")
		region      = flag.String("region", "", "US or AU, defaults to DEFAULT_PHONE_REGION")
		assign      = flag.Float64("assign", 0.6, "share of leads assigned to a telemarketer")
		disposition = flag.Float64("disposition", 0.5, "share of assigned leads with a call outcome")
	)
	flag.Parse()

	cfg := config.Load()
	log := logger.New(cfg.LogBackend, cfg.LogLevel)
	if *region == "" {
		*region = cfg.DefaultPhoneRegion
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := run(ctx, cfg, log, *seed, testdata.SeedConfig{
		LeadGenerators:   *lgs,
		Telemarketers:    *tms,
		Leads:            *leadCount,
		Region:           *region,
		AssignRatio:      *assign,
		DispositionRatio: *disposition,
	}); err != nil {
		log.Error("seeding failed", "error", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, cfg *config.Config, log logger.Logger, seed int64, seedCfg testdata.SeedConfig) error {
	db, err := database.NewClient(ctx, cfg.MongoURI, cfg.MongoDatabase)
	if err != nil {
		return err
	}
	defer db.Close(context.Background())

	userRepo := users.NewMongoRepository(db.DB)
	leadRepo := leads.NewMongoRepository(db.DB)
	historyStore := leadassignment.NewMongoHistoryStore(db.DB)
	if err := database.EnsureIndexes(ctx, userRepo, leadRepo, historyStore); err != nil {
		return err
	}

	userService := users.NewService(userRepo, users.TokenConfig{Secret: cfg.JWTSecret, ExpirationHours: cfg.JWTExpirationHours})
	leadService := leads.NewService(leadRepo,
		leadassignment.NewService(userRepo, historyStore),
		leads.WithPhoneNormalizer(phone.NewNormalizer(seedCfg.Region)),
	)

	admin, created, err := userService.Bootstrap(ctx, cfg.AdminName, cfg.AdminEmail, cfg.AdminPassword)
	if err != nil {
		return err
	}
	if !created {
		return fmt.Errorf("database %q already has users, seed only runs on an empty directory with ADMIN_EMAIL and ADMIN_PASSWORD set", cfg.MongoDatabase)
	}

	seeder := testdata.NewSeeder(userService, leadService, testdata.NewGenerator(seed), log)
	result, err := seeder.Seed(ctx, admin.Identity(), seedCfg)
	if err != nil {
		return err
	}

	log.Info("seeded demo data",
		"seed", seed,
		"users", len(result.Users),
		"leads", len(result.Leads),
		"assigned", result.Assigned,
		"dispositions", result.Dispositions,
	)
	return nil
}

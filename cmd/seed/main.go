package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/oggyb/matchmaker/internal/auth"
	"github.com/oggyb/matchmaker/internal/config"
	"github.com/oggyb/matchmaker/internal/db"
	"github.com/oggyb/matchmaker/internal/logger"
)

func main() {
	users := flag.Int("users", 30, "number of demo users to create")
	flag.Parse()

	// Load configuration
	cfg := config.New()
	logger.InitFromConfig(cfg)
	log := logger.L()

	if err := cfg.Validate(); err != nil {
		log.Error("invalid configuration", "err", err)
		os.Exit(1)
	}

	database, err := db.NewDB(cfg)
	if err != nil {
		log.Error("failed to init db", "err", err)
		os.Exit(1)
	}

	// replaces any previous demo data
	seeded, err := db.SeedTestData(database, *users)
	if err != nil {
		log.Error("failed to seed", "err", err)
		os.Exit(1)
	}

	issuer := auth.NewIssuer(cfg.JWT.Secret, cfg.JWT.AccessTTL)
	for _, u := range seeded {
		tok, err := issuer.Issue(u.ID)
		if err != nil {
			log.Error("failed to issue token", "user", u.ID, "err", err)
			os.Exit(1)
		}
		fmt.Printf("%s\t%s\tBearer %s\n", u.Email, u.ID, tok)
	}

	log.Info("seeding completed", "users", len(seeded), "password", db.DemoPassword)
}

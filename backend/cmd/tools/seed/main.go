package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"strconv"
	"strings"
	"time"

	"github.com/teamdash/teamdash/backend/internal/seed"
	"github.com/teamdash/teamdash/backend/internal/storage/mongodb"
	"github.com/teamdash/teamdash/shared/config"
	"github.com/teamdash/teamdash/shared/domain"
	internal_errors "github.com/teamdash/teamdash/shared/errors"
	"github.com/teamdash/teamdash/shared/logger"
	"golang.org/x/crypto/bcrypt"
)

func main() {
	var (
		configFolder string
		companies    int
		incidents    int
		dev          int
		seedValue    uint64
		members      int
		staff        bool
		accountPass  string
		reset        bool
		backfill     bool
		globalIndex  bool
	)
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.IntVar(&companies, "companies", 0, "number of companies to generate")
	flag.IntVar(&incidents, "incidents", 0, "number of security incidents to generate")
	flag.IntVar(&dev, "dev", 0, "number of dev projects to generate")
	flag.IntVar(&members, "members", 0, "number of customer accounts to generate")
	flag.BoolVar(&staff, "staff", false, "generate the default staff roster (10 management, 20 security, 20 development)")
	flag.StringVar(&accountPass, "password", "test1234", "password given to every generated account")
	flag.Uint64Var(&seedValue, "seed", uint64(time.Now().UnixNano()), "random seed")
	flag.BoolVar(&reset, "reset", false, "empty the collections that are about to be generated")
	flag.BoolVar(&backfill, "backfill", false, "write company_name onto incidents and dev projects")
	flag.BoolVar(&globalIndex, "global_index", false, "replace the GCI rankings and risky country alerts")
	flag.Parse()

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	storage, err := mongodb.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer storage.Cleanup()

	if reset {
		for kind, n := range map[domain.RecordKind]int{domain.KindBiz: companies, domain.KindSecurity: incidents, domain.KindDev: dev} {
			if n == 0 {
				continue
			}
			deleted, err := storage.Reset(kind)
			if err != nil {
				log.Fatalf("Failed to reset %s: %v", kind, err)
			}
			fmt.Printf("reset %s: %d documents removed\n", kind, deleted)
		}
	}

	gen := seed.New(seedValue, time.Now())
	fmt.Printf("seed: %d\n", seedValue)

	if companies > 0 {
		generated, err := gen.Companies(companies, companySeq(storage))
		if err != nil {
			log.Fatalf("Failed to generate companies: %v", err)
		}
		n, err := storage.InsertCompanies(generated)
		if err != nil {
			log.Fatalf("Failed to insert companies: %v", err)
		}
		fmt.Printf("companies: %d inserted\n", n)
	}

	if staff || members > 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(accountPass), bcrypt.DefaultCost)
		if err != nil {
			log.Fatalf("Failed to hash password: %v", err)
		}
		var accounts []domain.Account
		if staff {
			accounts = append(accounts, gen.Staff(seed.DefaultRoster)...)
		}
		if members > 0 {
			existing, err := storage.Companies()
			if err != nil {
				log.Fatalf("Failed to load companies: %v", err)
			}
			accounts = append(accounts, gen.Members(members, existing)...)
		}
		inserted, skipped := insertAccounts(storage, accounts, string(hash))
		fmt.Printf("accounts: %d inserted, %d skipped as duplicates\n", inserted, skipped)
	}

	if incidents > 0 || dev > 0 {
		existing, err := storage.Companies()
		if err != nil {
			log.Fatalf("Failed to load companies: %v", err)
		}

		if incidents > 0 {
			generated, err := gen.Incidents(incidents, existing, storage.MaxIncidentSeq)
			if err != nil {
				log.Fatalf("Failed to generate incidents: %v", err)
			}
			n, err := storage.InsertIncidents(generated)
			if err != nil {
				log.Fatalf("Failed to insert incidents: %v", err)
			}
			fmt.Printf("incidents: %d inserted\n", n)
		}

		if dev > 0 {
			generated, err := gen.DevProjects(dev, existing)
			if err != nil {
				log.Fatalf("Failed to generate dev projects: %v", err)
			}
			n, err := storage.InsertDevProjects(generated)
			if err != nil {
				log.Fatalf("Failed to insert dev projects: %v", err)
			}
			fmt.Printf("dev projects: %d inserted\n", n)
		}
	}

	if globalIndex {
		rankings, alerts := gen.GlobalIndex(time.Now())
		n, err := storage.ReplaceGlobalIndex(rankings, alerts)
		if err != nil {
			log.Fatalf("Failed to replace global index: %v", err)
		}
		fmt.Printf("global index: %d documents written\n", n)
	}

	if backfill {
		names, err := storage.CompanyNames()
		if err != nil {
			log.Fatalf("Failed to load company names: %v", err)
		}
		modified, err := storage.BackfillCompanyNames(names)
		if err != nil {
			log.Fatalf("Failed to backfill company names: %v", err)
		}
		fmt.Printf("backfill: %d documents updated\n", modified)
	}
}

// insertAccounts stores accounts one by one. Accounts whose user id or
// nickname is taken are skipped so the tool can be re-run.
func insertAccounts(storage *mongodb.Storage, accounts []domain.Account, passHash string) (inserted, skipped int) {
	for _, acc := range accounts {
		acc.PassHash = passHash
		if _, err := storage.SaveAccount(acc.Type, acc); err != nil {
			if internal_errors.IsConflict(err) {
				skipped++
				continue
			}
			log.Fatalf("Failed to insert account %s: %v", acc.UserId, err)
		}
		inserted++
	}
	return inserted, skipped
}

// companySeq turns the highest stored company id of an industry into its number.
func companySeq(storage *mongodb.Storage) seed.SeqLookup {
	return func(prefix string) (int, error) {
		maxId, err := storage.MaxCompanyId(prefix)
		if err != nil || maxId == "" {
			return 0, err
		}
		seq, err := strconv.Atoi(strings.TrimPrefix(maxId, prefix))
		if err != nil {
			return 0, fmt.Errorf("company id %q has no numeric sequence", maxId)
		}
		return seq, nil
	}
}

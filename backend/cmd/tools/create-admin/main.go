package main

import (
	"context"
	"flag"
	"fmt"
	"log"

	"github.com/sethvargo/go-password/password"
	"github.com/teamdash/teamdash/backend/internal/service"
	"github.com/teamdash/teamdash/backend/internal/storage/mongodb"
	"github.com/teamdash/teamdash/backend/internal/utils/email"
	"github.com/teamdash/teamdash/shared/config"
	"github.com/teamdash/teamdash/shared/domain"
	"github.com/teamdash/teamdash/shared/logger"
)

func main() {
	var configFolder, userId, pass, nickname, team, phone string
	flag.StringVar(&configFolder, "config_folder", "backend/config", "path to folder with configs")
	flag.StringVar(&userId, "user", "", "staff user id (required)")
	flag.StringVar(&pass, "password", "", "password; generated when empty")
	flag.StringVar(&nickname, "nickname", "", "nickname; defaults to the user id")
	flag.StringVar(&team, "team", string(domain.TeamManagement), "management, business, security or development")
	flag.StringVar(&phone, "phone", "", "contact phone")
	flag.Parse()

	if userId == "" {
		log.Fatal("-user is required")
	}
	if nickname == "" {
		nickname = userId
	}
	generated := pass == ""
	if generated {
		var err error
		if pass, err = password.Generate(16, 4, 0, false, true); err != nil {
			log.Fatalf("Failed to generate password: %v", err)
		}
	}

	cfg := config.MustLoad(configFolder)
	logger.Initialize(cfg.Public.Log.Level, cfg.Public.Log.JSON)

	storage, err := mongodb.New(context.Background(), cfg)
	if err != nil {
		log.Fatalf("Failed to connect to mongodb: %v", err)
	}
	defer storage.Cleanup()

	accounts := service.NewAccount(storage, email.New(&cfg.Private.Email), service.NewCompanyDirectory(storage), nil)
	acc, err := accounts.AdminJoin(domain.Account{
		UserId:   userId,
		Nickname: nickname,
		Team:     domain.Team(team),
		Phone:    phone,
	}, pass)
	if err != nil {
		log.Fatalf("Failed to create admin: %v", err)
	}

	fmt.Printf("created admin %q (%s team, id %s)\n", acc.UserId, acc.Team, acc.Id.Hex())
	if generated {
		fmt.Printf("password: %s\n", pass)
	}
}

package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"syscall"

	"golang.org/x/term"

	"github.com/stemsi/academic-records/internal/config"
	"github.com/stemsi/academic-records/internal/database"
	"github.com/stemsi/academic-records/internal/logger"
	"github.com/stemsi/academic-records/internal/model"
	"github.com/stemsi/academic-records/internal/repository/postgres"
	"github.com/stemsi/academic-records/internal/service"
)

func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx := context.Background()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	store := postgres.NewStore(pool)
	authService := service.NewAuthService(cfg, store, service.NewRoleResolver(store), nil, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Staff Account ===")

	var req model.AccountRequest
	for _, f := range []struct {
		label string
		dst   *string
	}{
		{"Username", &req.Username},
		{"Email", &req.Email},
		{"First name", &req.FirstName},
		{"Last name", &req.LastName},
	} {
		fmt.Printf("Enter %s: ", f.label)
		v, _ := reader.ReadString('\n')
		*f.dst = strings.TrimSpace(v)
		if *f.dst == "" {
			fmt.Printf("Error: %s is required\n", f.label)
			return
		}
	}

	req.Password = readPassword("Enter Password: ")
	if len(req.Password) < 8 {
		fmt.Println("Error: Password must be at least 8 characters")
		return
	}
	req.PasswordConfirm = readPassword("Confirm Password: ")

	fmt.Print("Grant superuser? [y/N]: ")
	answer, _ := reader.ReadString('\n')
	superuser := strings.EqualFold(strings.TrimSpace(answer), "y")

	// ─── Logic ─────────────────────────────────────────────────────────
	acc, err := authService.CreateStaff(ctx, req, superuser)
	var verr *service.ValidationError
	if errors.As(err, &verr) {
		for field, msg := range verr.Fields {
			fmt.Printf("Error: %s: %s\n", field, msg)
		}
		return
	}
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create staff account")
	}

	fmt.Printf("\nSuccess! Staff account '%s' (%s) created with ID: %d\n", acc.Username, acc.Email, acc.ID)
}

func readPassword(prompt string) string {
	fmt.Print(prompt)
	b, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		os.Exit(1)
	}
	return string(b)
}

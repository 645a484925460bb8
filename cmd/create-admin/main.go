package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/database"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/logger"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/service"
	"golang.org/x/term"
)

// create-admin provisions a SUPER_ADMIN. Public registration cannot grant
// that role safely on a fresh install.
func main() {
	// ─── Load Configuration ────────────────────────────────────────────
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		fmt.Fprintln(os.Stderr, "Invalid configuration:", err)
		os.Exit(1)
	}

	// ─── Initialize Logger ─────────────────────────────────────────────
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, cancel := context.WithTimeout(context.Background(), 2*time.Minute)
	defer cancel()

	// ─── Connect to PostgreSQL ─────────────────────────────────────────
	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	// ─── Initialize Service ────────────────────────────────────────────
	users := repository.NewUserRepository(pool)
	tokens := service.NewTokenService(cfg.JWTSecret, cfg.AccessTokenTTL, cfg.RefreshTokenTTL)
	authService := service.NewAuthService(users, tokens, cfg.BcryptCost, log)

	// ─── CLI Input ─────────────────────────────────────────────────────
	reader := bufio.NewReader(os.Stdin)

	fmt.Println("=== Create Super Admin ===")

	firstName := prompt(reader, "First name: ")
	lastName := prompt(reader, "Last name: ")
	email := prompt(reader, "Email: ")
	if firstName == "" || lastName == "" || email == "" {
		fmt.Println("Error: first name, last name and email are required")
		return
	}

	fmt.Print("Password: ")
	bytePassword, err := term.ReadPassword(int(os.Stdin.Fd()))
	fmt.Println()
	if err != nil {
		fmt.Println("Error reading password")
		return
	}
	password := string(bytePassword)
	if len(password) < 6 || len(password) > 72 {
		fmt.Println("Error: password must be 6 to 72 characters")
		return
	}

	// ─── Logic ─────────────────────────────────────────────────────────
	res, err := authService.Register(ctx, model.RegisterRequest{
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      model.RoleSuperAdmin,
	})
	if err != nil {
		if errors.Is(err, service.ErrEmailTaken) {
			fmt.Printf("Error: a user with email %s already exists\n", email)
			return
		}
		log.Fatal().Err(err).Msg("Failed to create super admin")
	}

	fmt.Printf("\nSuccess! Super admin %s %s (%s) created with ID: %s\n",
		res.User.FirstName, res.User.LastName, res.User.Email, res.User.ID)
}

func prompt(r *bufio.Reader, label string) string {
	fmt.Print(label)
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}

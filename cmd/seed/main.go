package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"time"

	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/config"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/database"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/logger"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/model"
	"github.com/ayoubkhyati22/saas-school-management-sub002/internal/repository"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"golang.org/x/crypto/bcrypt"
)

const seedPassword = "school123"

func main() {
	var schoolCode string
	var studentCount int
	flag.StringVar(&schoolCode, "school", "DEMO-01", "Code of the demo school to create")
	flag.IntVar(&studentCount, "students", 30, "Number of students to create")
	flag.Parse()

	cfg := config.Load()
	log := logger.Setup(cfg.LogLevel, cfg.LogFormat)
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Minute)
	defer cancel()

	pool, err := database.NewPostgresPool(ctx, cfg, log)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to PostgreSQL")
	}
	defer pool.Close()

	schools := repository.NewSchoolRepository(pool)
	users := repository.NewUserRepository(pool)
	students := repository.NewStudentRepository(pool)
	notifications := repository.NewNotificationRepository(pool)

	var existing uuid.UUID
	err = pool.QueryRow(ctx, `SELECT id FROM schools WHERE code = $1`, schoolCode).Scan(&existing)
	switch {
	case err == nil:
		fmt.Printf("School %s already exists (%s); nothing to do.\n", schoolCode, existing)
		return
	case !errors.Is(err, pgx.ErrNoRows):
		log.Fatal().Err(err).Msg("Failed to check existing school")
	}

	fmt.Printf("=== Seeding school %s ===\n", schoolCode)

	city := "Casablanca"
	school := &model.School{Name: "Demo School " + schoolCode, Code: schoolCode, City: &city, Active: true}
	if err := schools.Create(ctx, school); err != nil {
		log.Fatal().Err(err).Msg("Failed to create school")
	}

	_, err = pool.Exec(ctx,
		`INSERT INTO subscriptions (school_id, plan, status, starts_at, ends_at, amount)
		 VALUES ($1, 'STANDARD', $2, NOW(), NOW() + INTERVAL '1 year', 0)`,
		school.ID, model.SubscriptionTrial,
	)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create subscription")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(seedPassword), cfg.BcryptCost)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to hash password")
	}

	newUser := func(email, first, last string, role model.Role) *model.User {
		u := &model.User{
			Email:        email,
			PasswordHash: string(hash),
			FirstName:    first,
			LastName:     last,
			Role:         role,
			SchoolID:     &school.ID,
			Enabled:      true,
		}
		if err := users.Create(ctx, u); err != nil {
			log.Fatal().Err(err).Str("email", email).Msg("Failed to create user")
		}
		return u
	}

	admin := newUser(fmt.Sprintf("admin@%s.test", schoolCode), "School", "Admin", model.RoleSchoolAdmin)
	for i := 1; i <= 3; i++ {
		newUser(fmt.Sprintf("teacher%d@%s.test", i, schoolCode), "Teacher", fmt.Sprint(i), model.RoleTeacher)
		newUser(fmt.Sprintf("parent%d@%s.test", i, schoolCode), "Parent", fmt.Sprint(i), model.RoleParent)
	}

	grades := []string{"CP", "CE1", "CE2", "CM1", "CM2", "6EME"}
	enrolled := time.Date(time.Now().Year(), time.September, 1, 0, 0, 0, 0, time.UTC)
	created := 0
	for i := 0; i < studentCount; i++ {
		u := newUser(fmt.Sprintf("student%d@%s.test", i+1, schoolCode), "Student", fmt.Sprint(i+1), model.RoleStudent)
		grade := grades[i%len(grades)]
		s := &model.Student{
			UserID:        u.ID,
			SchoolID:      school.ID,
			StudentNumber: fmt.Sprintf("%s-%04d", schoolCode, i+1),
			GradeLevel:    &grade,
			EnrolledAt:    &enrolled,
		}
		if err := students.Create(ctx, s); err != nil {
			fmt.Printf("Error creating student %s: %v\n", s.StudentNumber, err)
			continue
		}
		created++
		if created%10 == 0 {
			fmt.Printf("Created %d students...\n", created)
		}
	}

	welcome := []struct {
		title string
		kind  model.NotificationType
	}{
		{"Welcome to your school workspace", model.NotificationInfo},
		{"Trial subscription started", model.NotificationSuccess},
		{"Complete your school profile", model.NotificationWarning},
	}
	for _, w := range welcome {
		n := &model.Notification{UserID: admin.ID, Title: w.title, Message: w.title + ".", Type: w.kind}
		if err := notifications.Create(ctx, n); err != nil {
			log.Fatal().Err(err).Msg("Failed to create notification")
		}
	}

	fmt.Printf("\nSeed completed! School %s with %d/%d students. Admin login: %s / %s\n",
		school.ID, created, studentCount, admin.Email, seedPassword)
}

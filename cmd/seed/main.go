package main

import (
	"context"
	"errors"
	"log"
	"os"
	"time"

	"lodgecred/internal/config"
	"lodgecred/internal/database"
	"lodgecred/internal/database/schema"
	"lodgecred/internal/domain/auth"
	"lodgecred/internal/domain/lodge"
	"lodgecred/internal/domain/profile"

	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

var grandLodges = []lodge.GrandLodge{
	{Name: "Grand Lodge of British Columbia and Yukon", State: "British Columbia", Abbreviation: "GLBCY"},
	{Name: "Grand Lodge of Alberta", State: "Alberta", Abbreviation: "GLA"},
	{Name: "Grand Lodge of Saskatchewan", State: "Saskatchewan", Abbreviation: "GLS"},
	{Name: "Grand Lodge of Manitoba", State: "Manitoba", Abbreviation: "GLM"},
	{Name: "Grand Lodge of Canada in the Province of Ontario", State: "Ontario", Abbreviation: "GLCPO"},
	{Name: "Grand Lodge of Quebec", State: "Quebec", Abbreviation: "GLQ"},
	{Name: "Grand Lodge of New Brunswick", State: "New Brunswick", Abbreviation: "GLNB"},
	{Name: "Grand Lodge of Nova Scotia", State: "Nova Scotia", Abbreviation: "GLNS"},
	{Name: "Grand Lodge of Prince Edward Island", State: "Prince Edward Island", Abbreviation: "GLPEI"},
	{Name: "Grand Lodge of Newfoundland and Labrador", State: "Newfoundland and Labrador", Abbreviation: "GLNL"},
	{Name: "Grand Lodge of Yukon", State: "Yukon", Abbreviation: "GLY"},
	{Name: "Grand Lodge of the Northwest Territories", State: "Northwest Territories", Abbreviation: "GLNWT"},
	{Name: "Grand Lodge of Nunavut", State: "Nunavut", Abbreviation: "GLNU"},
}

type demoMember struct {
	email  string
	name   string
	lodge  string
	number string
	grand  string
	status profile.Status
}

var demoMembers = []demoMember{
	{"pending@lodgecred.local", "Thomas Reid", "St. Andrew's Lodge", "16", "Grand Lodge of Manitoba", profile.StatusPending},
	{"verified@lodgecred.local", "William Hart", "Harmony Lodge", "438", "Grand Lodge of Canada in the Province of Ontario", profile.StatusVerified},
	{"rejected@lodgecred.local", "George Lane", "Acacia Lodge", "11", "Grand Lodge of Alberta", profile.StatusRejected},
}

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	db, err := database.Connect(cfg.DatabaseURL)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := schema.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	ctx := context.Background()

	// ================== GRAND LODGES ==================
	lodges := lodge.NewRepository(db)
	for i := range grandLodges {
		if err := lodges.Ensure(ctx, &grandLodges[i]); err != nil {
			log.Fatalf("seed grand lodge %q: %v", grandLodges[i].Name, err)
		}
	}
	log.Printf("Grand lodges: %d", len(grandLodges))

	// ================== ADMIN ==================
	adminEmail := getEnv("SEED_ADMIN_EMAIL", "admin@lodgecred.local")
	adminPassword := getEnv("SEED_ADMIN_PASSWORD", "admin12345")
	admin, err := ensureUser(db, adminEmail, adminPassword, "Administrator", auth.RoleAdmin)
	if err != nil {
		log.Fatalf("seed admin: %v", err)
	}
	log.Printf("Admin: %s", admin.Email)

	// ================== DEMO MEMBERS ==================
	profiles := profile.NewRepository(db)
	now := time.Now().UTC()
	for _, m := range demoMembers {
		u, err := ensureUser(db, m.email, "member12345", m.name, auth.RoleMember)
		if err != nil {
			log.Fatalf("seed member %s: %v", m.email, err)
		}
		if _, err := profiles.GetByUserID(ctx, u.ID); err == nil {
			continue
		}

		p := &profile.Profile{
			UserID:         u.ID,
			FullName:       m.name,
			LodgeName:      m.lodge,
			LodgeNumber:    m.number,
			GrandLodge:     m.grand,
			RitualWorkText: "Canadian Work",
			Status:         m.status,
		}
		switch m.status {
		case profile.StatusVerified:
			p.VerifiedAt = &now
			p.VerifiedBy = &admin.ID
		case profile.StatusRejected:
			note := "Dues card photo is unreadable, please upload a clearer copy."
			p.AdminNote = &note
		}
		if err := profiles.Create(ctx, p); err != nil {
			log.Fatalf("seed profile %s: %v", m.email, err)
		}
		log.Printf("Member %s (%s): /credentials/%s", m.email, m.status, p.ID)
	}

	log.Println("Seed completed")
}

// ensureUser returns the identity for email, creating it confirmed when missing.
func ensureUser(db *gorm.DB, email, password, name string, role auth.Role) (*auth.User, error) {
	email = auth.NormalizeEmail(email)
	var u auth.User
	err := db.Where("email = ?", email).First(&u).Error
	if err == nil {
		return &u, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	hash, err := auth.HashPassword(password)
	if err != nil {
		return nil, err
	}
	now := time.Now().UTC()
	u = auth.User{
		Email:            email,
		PasswordHash:     hash,
		Role:             role,
		FullName:         name,
		EmailConfirmedAt: &now,
	}
	if err := db.Create(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func getEnv(name, fallback string) string {
	if v := os.Getenv(name); v != "" {
		return v
	}
	return fallback
}

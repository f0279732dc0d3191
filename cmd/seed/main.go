package main

import (
	"log"
	"time"

	"ticket-marketplace/internal/config"
	"ticket-marketplace/internal/database"
	"ticket-marketplace/internal/repositories"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatal("Failed to load configuration:", err)
	}

	db, err := database.NewConnection(database.Config{
		URL:      cfg.Database.URL,
		Host:     cfg.Database.Host,
		Port:     cfg.Database.Port,
		User:     cfg.Database.User,
		Password: cfg.Database.Password,
		DBName:   cfg.Database.DBName,
		SSLMode:  cfg.Database.SSLMode,
	})
	if err != nil {
		log.Fatal("Failed to connect to database:", err)
	}
	defer db.Close()

	if err := db.RunMigrations(); err != nil {
		log.Fatal("Failed to run migrations:", err)
	}

	accountRepo := repositories.NewAccountRepository(db.DB)
	eventRepo := repositories.NewEventRepository(db.DB)

	accounts := []struct {
		name    string
		email   string
		balance int64
	}{
		{"Ada Lovelace", "ada@example.com", 50000},
		{"Grace Hopper", "grace@example.com", 25000},
		{"Alan Turing", "alan@example.com", 10000},
	}

	for _, a := range accounts {
		account, err := accountRepo.Create(a.name, a.email, a.balance)
		if err != nil {
			log.Printf("Warning: failed to seed account %s: %v", a.email, err)
			continue
		}
		log.Printf("Seeded account %d: %s (%d cents)", account.ID, account.Email, account.Balance)
	}

	now := time.Now()
	events := []struct {
		title  string
		venue  string
		price  int
		starts time.Time
	}{
		{"Jazz Night", "Blue Note Hall", 2500, now.AddDate(0, 0, 7)},
		{"Indie Film Premiere", "Grand Cinema", 1500, now.AddDate(0, 0, 14)},
		{"Symphony No. 9", "City Concert Hall", 4000, now.AddDate(0, 1, 0)},
		{"Open Mic", "Corner Cafe", 0, now.AddDate(0, 0, 3)},
	}

	for _, e := range events {
		event, err := eventRepo.Create(e.title, e.venue, e.price, e.starts)
		if err != nil {
			log.Printf("Warning: failed to seed event %s: %v", e.title, err)
			continue
		}
		log.Printf("Seeded event %d: %s (%d cents)", event.ID, event.Title, event.Price)
	}

	log.Println("Seeding completed")
}

package main

import (
	"database/sql"
	"log"
	"os"
	"time"

	"github.com/google/uuid"
	_ "github.com/lib/pq"
	"golang.org/x/crypto/bcrypt"
)

// Seeds demo operators (one per role) and two funded accounts so the
// service can be exercised locally.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		log.Fatal("DATABASE_URL environment variable is required")
	}

	password := getenvDefault("SEED_OPERATOR_PASSWORD", "Demo1234!")

	db, err := sql.Open("postgres", dsn)
	if err != nil {
		log.Fatalf("failed to connect db: %v", err)
	}
	defer db.Close()

	if err := db.Ping(); err != nil {
		log.Fatalf("failed to ping db: %v", err)
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), 10)
	if err != nil {
		log.Fatalf("failed to hash password: %v", err)
	}

	operators := []struct {
		email string
		name  string
		role  string
	}{
		{"controller@fundbridge.local", "Demo Controller", "CONTROLLER"},
		{"admin@fundbridge.local", "Demo Admin", "ADMIN"},
		{"audit@fundbridge.local", "Demo Auditor", "AUDIT"},
	}

	now := time.Now().UTC()
	for _, op := range operators {
		_, err := db.Exec(`
			INSERT INTO operators (id, email, name, role, password_hash, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
			ON CONFLICT (email) DO NOTHING`,
			uuid.NewString(), op.email, op.name, op.role, string(hash), now,
		)
		if err != nil {
			log.Fatalf("failed to seed operator %s: %v", op.email, err)
		}
		log.Printf("seeded operator %s (%s)", op.email, op.role)
	}

	accounts := []struct {
		number  string
		name    string
		balance string
		minimum string
	}{
		{"FB-0001", "Operating Account", "2500000.0000", "100.0000"},
		{"FB-0002", "Reserve Account", "500000.0000", "0.0000"},
	}

	for _, acc := range accounts {
		_, err := db.Exec(`
			INSERT INTO accounts (id, account_number, name, balance, minimum_balance, active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, TRUE, $6, $6)
			ON CONFLICT (account_number) DO NOTHING`,
			uuid.NewString(), acc.number, acc.name, acc.balance, acc.minimum, now,
		)
		if err != nil {
			log.Fatalf("failed to seed account %s: %v", acc.number, err)
		}
		log.Printf("seeded account %s (%s)", acc.number, acc.name)
	}

	log.Println("seed completed")
}

func getenvDefault(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

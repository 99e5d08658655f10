package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"khedma/internal/database"
	"khedma/internal/domain"
	jwtsvc "khedma/internal/pkg/jwt"
)

// Seeds a local database with demo actors and a card, and prints a bearer
// token per actor so the API can be exercised without the identity provider.
func main() {
	dsn := os.Getenv("DATABASE_URL")
	if dsn == "" {
		dsn = "khedma.db"
	}
	secret := os.Getenv("JWT_SECRET")
	if secret == "" {
		secret = "dev-secret"
	}

	db, err := database.Connect(dsn)
	if err != nil {
		log.Fatal("DB connection failed:", err)
	}

	log.Println("Running AutoMigrate...")
	if err := database.Migrate(db); err != nil {
		log.Fatal("AutoMigrate failed:", err)
	}

	log.Println("Cleaning old data...")
	db.Exec("DELETE FROM notifications")
	db.Exec("DELETE FROM messages")
	db.Exec("DELETE FROM payment_instruments")
	db.Exec("DELETE FROM bookings")
	db.Exec("DELETE FROM actors")

	log.Println("Creating actors...")

	hash, err := bcrypt.GenerateFromPassword([]byte("demo123"), bcrypt.DefaultCost)
	if err != nil {
		log.Fatal(err)
	}

	clients := []domain.Actor{
		{Name: "Yasmine Alaoui", Phone: "+212600000001", Email: "yasmine@khedma.ma", Role: domain.RoleClient, SecretHash: string(hash)},
		{Name: "Omar Benali", Phone: "+212600000002", Email: "omar@khedma.ma", Role: domain.RoleClient, SecretHash: string(hash)},
	}
	for i := range clients {
		if err := db.Create(&clients[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	providers := []domain.Actor{
		{Name: "Hassan Tazi", Phone: "+212600000101", Role: domain.RoleProvider, Trade: "plombier", HourlyRate: 10000, Available: true, SecretHash: string(hash)},
		{Name: "Karim Idrissi", Phone: "+212600000102", Role: domain.RoleProvider, Trade: "plombier", HourlyRate: 12000, Available: true, SecretHash: string(hash)},
		{Name: "Samira Chraibi", Phone: "+212600000103", Role: domain.RoleProvider, Trade: "electricien", HourlyRate: 15000, Available: true, SecretHash: string(hash)},
	}
	for i := range providers {
		if err := db.Create(&providers[i]).Error; err != nil {
			log.Fatal(err)
		}
	}

	// first client gets a card so booking works out of the box
	card := domain.PaymentInstrument{
		OwnerID: clients[0].ID,
		Brand:   "visa",
		Last4:   "4242",
		Expiry:  "12/27",
	}
	if err := db.Create(&card).Error; err != nil {
		log.Fatal(err)
	}
	if err := db.Model(&domain.Actor{}).Where("id = ?", clients[0].ID).Update("has_payment_method", true).Error; err != nil {
		log.Fatal(err)
	}

	j := jwtsvc.New(secret, 168*time.Hour)
	for _, a := range append(clients, providers...) {
		token, err := j.GenerateToken(a.ID, string(a.Role))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Printf("%-16s %-9s id=%d token=%s\n", a.Name, a.Role, a.ID, token)
	}

	log.Println("Seed complete (password for all demo accounts: demo123)")
}

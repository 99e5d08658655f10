package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"time"

	"golang.org/x/crypto/bcrypt"

	"khedma/internal/database"
	"khedma/internal/domain"
	jwtsvc "khedma/internal/pkg/jwt"
)

// Dev stand-in for the external identity resolver: verifies a demo actor's
// password and mints the bearer token the API expects. Production tokens
// come from the real identity provider, never from this tool.
func main() {
	phone := flag.String("phone", "", "actor phone number")
	password := flag.String("password", "", "actor password")
	flag.Parse()

	if *phone == "" || *password == "" {
		log.Fatal("usage: identity -phone <phone> -password <password>")
	}

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
		log.Fatal(err)
	}

	var a domain.Actor
	if err := db.Where("phone = ?", *phone).First(&a).Error; err != nil {
		log.Fatal("actor not found")
	}

	if err := bcrypt.CompareHashAndPassword([]byte(a.SecretHash), []byte(*password)); err != nil {
		log.Fatal("invalid credentials")
	}

	j := jwtsvc.New(secret, 24*time.Hour)
	token, err := j.GenerateToken(a.ID, string(a.Role))
	if err != nil {
		log.Fatal(err)
	}

	fmt.Println(token)
}

package db

import (
	"context"
	"fmt"
	"log"
	"os"

	"golang.org/x/crypto/bcrypt"
)

// InitAdmin seeds the first employee account so the pickup point can log in
// on a fresh database.
func InitAdmin(database *Database) {
	adminPhone := os.Getenv("ADMIN_PHONE")
	adminName := os.Getenv("ADMIN_NAME")
	adminPassword := os.Getenv("ADMIN_PASSWORD")
	if adminPhone == "" || adminPassword == "" {
		log.Println("ADMIN_PHONE or ADMIN_PASSWORD not set, skipping admin seed")
		return
	}
	if adminName == "" {
		adminName = "Administrator"
	}

	var count int
	err := database.ExecQueryRow(context.Background(), "SELECT COUNT(*) FROM users WHERE phone = $1", adminPhone).Scan(&count)
	if err != nil {
		log.Fatal(err)
	}

	if count == 0 {
		hash, err := bcrypt.GenerateFromPassword([]byte(adminPassword), bcrypt.DefaultCost)
		if err != nil {
			log.Fatal(err)
		}
		_, err = database.Exec(context.Background(),
			"INSERT INTO users (phone, full_name, role, password_hash) VALUES ($1, $2, 'EMPLOYEE', $3)",
			adminPhone, adminName, string(hash))
		if err != nil {
			log.Fatal(err)
		}
		fmt.Println("Admin user created successfully.")
	} else {
		fmt.Println("Admin user already exists.")
	}
}

// Command token mints an admin bearer token from the configured JWT
// secret, or hashes an admin password for the config file.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/joho/godotenv"

	"docquery/internal/app"
	"docquery/internal/config"
	"docquery/internal/pkg/jwtutil"
)

func main() {
	hashPassword := flag.String("hash", "", "print a bcrypt hash for the given admin password and exit")
	ttl := flag.Duration("ttl", 2*time.Hour, "token lifetime")
	flag.Parse()

	if *hashPassword != "" {
		hash, err := app.HashPassword(*hashPassword)
		if err != nil {
			log.Fatalf("hash password failed: %v", err)
		}
		fmt.Println(hash)
		return
	}

	_ = godotenv.Load()
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config failed: %v", err)
	}

	token, err := jwtutil.GenerateToken(cfg.Auth.JWTSecret, *ttl, "admin")
	if err != nil {
		log.Fatalf("generate token failed: %v", err)
	}
	fmt.Println(token)
}

// Command issuetoken prints a bearer token for the history endpoint.
package main

import (
	"fmt"
	"log"
	"os"
	"time"

	"github.com/joho/godotenv"

	jwtmw "logo_backend/internal/platform/jwt"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("[INFO] .env not found; using system environment variables")
	}

	subject := os.Getenv("JWT_SUBJECT")
	if subject == "" {
		subject = "operator"
	}

	token, err := jwtmw.NewGenerator(os.Getenv(jwtmw.EnvKeyJWTSecret), 24*time.Hour).GenerateToken(subject)
	if err != nil {
		log.Fatal(err)
	}
	fmt.Println(token)
}

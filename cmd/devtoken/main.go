// Command devtoken mints identity tokens for local development, signed with
// the same secret the API verifies.
package main

import (
	"flag"
	"fmt"
	"log"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"karaoke-events/kjhub/internal/auth"
	"karaoke-events/kjhub/internal/config"
)

func main() {
	subject := flag.String("sub", "dev-user", "identity subject")
	email := flag.String("email", "dev@example.test", "email claim")
	first := flag.String("first", "Dev", "given name claim")
	last := flag.String("last", "User", "family name claim")
	ttl := flag.Duration("ttl", 24*time.Hour, "token lifetime")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("load config: %v", err)
	}

	token, err := auth.SignIdentityToken(cfg.Identity.JWTSecret, auth.IdentityClaims{
		RegisteredClaims: jwt.RegisteredClaims{
			Subject: *subject,
			Issuer:  cfg.Identity.Issuer,
		},
		Email:     *email,
		FirstName: *first,
		LastName:  *last,
	}, *ttl)
	if err != nil {
		log.Fatalf("sign token: %v", err)
	}

	fmt.Println(token)
}

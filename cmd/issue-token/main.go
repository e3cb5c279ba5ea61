package main

import (
	"flag"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"
	"github.com/travelhub/seatmap-service/internal/config"
	"github.com/travelhub/seatmap-service/internal/utils"
	"github.com/travelhub/seatmap-service/pkg/jwt"
)

func main() {
	name := flag.String("name", "cli-operator", "operator name embedded in the token")
	roles := flag.String("roles", jwt.RoleOperator, "comma separated roles (operator, admin, viewer)")
	secretOnly := flag.Bool("secret-only", false, "print a fresh JWT_SECRET and exit")
	flag.Parse()

	if *secretOnly {
		secret, err := utils.GenerateSecret(64)
		if err != nil {
			log.Fatalf("Failed to generate secret: %v", err)
		}
		fmt.Println("Add this to your .env file:")
		fmt.Println()
		fmt.Printf("JWT_SECRET=%s\n", secret)
		return
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	jwtService := jwt.NewService(cfg.JWT.Secret, cfg.JWT.AccessTokenExpiry)
	operatorID := uuid.New()
	token, err := jwtService.GenerateAccessToken(operatorID, *name, strings.Split(*roles, ","))
	if err != nil {
		log.Fatalf("Failed to issue token: %v", err)
	}

	fmt.Printf("operator_id: %s\n", operatorID)
	fmt.Printf("expires_in:  %s\n", cfg.JWT.AccessTokenExpiry)
	fmt.Println()
	fmt.Println(token)
}

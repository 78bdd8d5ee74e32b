// Command stafftoken mints a staff bearer token signed with JWT_SECRET.
//
//	stafftoken -sub sam -role staff -ttl 12h
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/sandwichshop/ordering-api/config"
	"github.com/sandwichshop/ordering-api/utils"
)

func main() {
	sub := flag.String("sub", "", "staff member the token is issued to")
	role := flag.String("role", "staff", "role: staff, chef, manager or admin")
	ttl := flag.Duration("ttl", 12*time.Hour, "token lifetime")
	flag.Parse()

	if *sub == "" {
		fmt.Fprintln(os.Stderr, "-sub is required")
		os.Exit(2)
	}
	switch *role {
	case "staff", "chef", "manager", "admin":
	default:
		fmt.Fprintf(os.Stderr, "unknown role %q\n", *role)
		os.Exit(2)
	}

	cfg, err := config.Load()
	if err != nil {
		utils.ErrorLogger.Fatalf("Invalid configuration: %v", err)
	}

	token, err := utils.GenerateToken([]byte(cfg.JWTSecret), *sub, *role, *ttl)
	if err != nil {
		utils.ErrorLogger.Fatalf("Failed to sign token: %v", err)
	}
	fmt.Println(token)
}

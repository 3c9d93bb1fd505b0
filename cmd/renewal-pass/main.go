package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"time"

	"github.com/joho/godotenv"

	"github.com/bskmt/club-api/internal/config"
	"github.com/bskmt/club-api/internal/database"
	"github.com/bskmt/club-api/internal/repository"
	"github.com/bskmt/club-api/internal/service"
)

func main() {
	// Flags for customization
	listOnly := flag.Bool("list", false, "List memberships due for renewal without processing")
	outputJSON := flag.Bool("json", false, "Output as JSON")
	timeout := flag.Duration("timeout", 10*time.Minute, "Overall timeout for the pass")

	flag.Parse()

	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}
	if err := cfg.Validate(); err != nil {
		fmt.Fprintf(os.Stderr, "Invalid configuration: %v\n", err)
		os.Exit(1)
	}

	db := database.NewSurrealDB(database.Config{
		Host:      cfg.Database.Host,
		Port:      cfg.Database.Port,
		User:      cfg.Database.User,
		Password:  cfg.Database.Password,
		Namespace: cfg.Database.Namespace,
		Database:  cfg.Database.Database,
	})

	ctx, cancel := context.WithTimeout(context.Background(), *timeout)
	defer cancel()

	if err := db.Connect(ctx); err != nil {
		fmt.Fprintf(os.Stderr, "Error connecting to database: %v\n", err)
		os.Exit(1)
	}
	defer func() { _ = db.Close() }()

	renewalService := service.NewRenewalService(service.RenewalServiceConfig{
		Memberships: repository.NewMembershipRepository(db),
		Users:       repository.NewUserRepository(db),
		Sender:      service.NewLogSender(),
	})

	now := time.Now()

	if *listOnly {
		due, err := renewalService.ListDue(ctx, now)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error listing due memberships: %v\n", err)
			os.Exit(1)
		}

		if *outputJSON {
			enc := json.NewEncoder(os.Stdout)
			enc.SetIndent("", "  ")
			_ = enc.Encode(due)
			return
		}

		fmt.Printf("Memberships Due for Renewal (%d)\n", len(due))
		fmt.Println("================================")
		for _, m := range due {
			fmt.Printf("%-30s %-10s deadline: %s\n",
				m.Name, m.RenewalType, m.Period.RenewalDeadline.Format("2006-01-02"))
		}
		return
	}

	result, err := renewalService.RunRenewalPass(ctx, now)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error running renewal pass: %v\n", err)
		os.Exit(1)
	}

	if *outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(result)
		return
	}

	fmt.Println("Renewal Pass Complete")
	fmt.Println("=====================")
	fmt.Printf("Processed:     %d\n", result.RenewalsProcessed)
	fmt.Printf("Notifications: %d\n", result.NotificationsSent)
	fmt.Printf("Success:       %t\n", result.Success)
	for _, e := range result.Errors {
		fmt.Printf("Error: %s\n", e)
	}
	if !result.Success {
		os.Exit(1)
	}
}

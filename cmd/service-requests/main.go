package main

import (
	"context"
	"flag"
	"fmt"
	"os"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/config"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/api"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/client"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/session"
)

func main() {
	var create bool
	var requestType, details, purpose string

	flag.BoolVar(&create, "create", false, "Create a new service request instead of listing")
	flag.StringVar(&requestType, "type", "", "Request type (e.g. BARANGAY_CLEARANCE)")
	flag.StringVar(&details, "details", "", "Request details")
	flag.StringVar(&purpose, "purpose", "", "Request purpose")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	encryptionKey, err := session.DeriveKey(cfg.TokenKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error deriving encryption key: %v\n", err)
		os.Exit(1)
	}

	store, err := session.NewSQLiteStore(cfg.DBPath, encryptionKey)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error opening database at %s: %v\n", cfg.DBPath, err)
		os.Exit(1)
	}
	defer store.Close()

	if !store.IsLoggedIn() {
		fmt.Fprintln(os.Stderr, "No session found; run login-test first")
		os.Exit(1)
	}

	user, ok := store.User()
	if !ok {
		fmt.Fprintln(os.Stderr, "No profile in session store; run login-test again")
		os.Exit(1)
	}

	c := client.New(client.Opts{
		BaseURL: cfg.APIBaseURL,
		Store:   store,
		Debug:   cfg.Debug,
	})
	ctx := context.Background()

	if create {
		if requestType == "" || details == "" {
			fmt.Fprintln(os.Stderr, "--type and --details are required with --create")
			os.Exit(1)
		}
		req, err := c.CreateServiceRequest(ctx, api.NewServiceRequest{
			UserID:      user.ID,
			RequestType: requestType,
			Details:     details,
			Purpose:     purpose,
		})
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error creating service request: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Created service request %d (%s), status %s\n", req.ID, req.RequestType, req.Status)
		return
	}

	requests, err := c.ListServiceRequests(ctx, user.ID)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error fetching service requests: %v\n", err)
		os.Exit(1)
	}

	if len(requests) == 0 {
		fmt.Println("No service requests found")
		return
	}

	fmt.Printf("Found %d service requests:\n\n", len(requests))
	for _, r := range requests {
		fmt.Printf("ID: %d\n", r.ID)
		fmt.Printf("  Type: %s\n", r.RequestType)
		fmt.Printf("  Status: %s\n", r.Status)
		fmt.Printf("  Details: %s\n", r.Details)
		if r.Purpose != "" {
			fmt.Printf("  Purpose: %s\n", r.Purpose)
		}
		if r.CreatedAt != nil {
			fmt.Printf("  Created: %s\n", r.CreatedAt.Format("2006-01-02 15:04"))
		}
		fmt.Println()
	}
}

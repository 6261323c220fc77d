package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"strings"

	"github.com/karl2522/IT342-G2-Barangay360-sub001/config"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/client"
	"github.com/karl2522/IT342-G2-Barangay360-sub001/internal/session"
)

func main() {
	var username, password string
	flag.StringVar(&username, "username", "", "Account username")
	flag.StringVar(&password, "password", "", "Account password")
	flag.Parse()

	cfg, err := config.Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if username == "" {
		username = os.Getenv("BARANGAY360_USERNAME")
	}
	if password == "" {
		password = os.Getenv("BARANGAY360_PASSWORD")
	}
	if username == "" || password == "" {
		fmt.Fprintln(os.Stderr, "Username and password required (flags or BARANGAY360_USERNAME/BARANGAY360_PASSWORD)")
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

	c := client.New(client.Opts{
		BaseURL: cfg.APIBaseURL,
		Store:   store,
		Debug:   cfg.Debug,
	})
	manager := session.NewManager(c, store)

	user, err := manager.Login(context.Background(), username, password)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Login failed: %v\n", err)
		os.Exit(1)
	}

	fmt.Printf("Signed in as %s %s (user ID %d)\n", user.FirstName, user.LastName, user.ID)
	fmt.Printf("  Email: %s\n", user.Email)
	if user.Address != "" {
		fmt.Printf("  Address: %s\n", user.Address)
	}
	if user.Phone != "" {
		fmt.Printf("  Phone: %s\n", user.Phone)
	}
	fmt.Printf("  Roles: %s\n", strings.Join(user.Roles, ", "))
	fmt.Printf("  Active: %v, warnings: %d\n", user.IsActive(), user.Warnings)
	fmt.Printf("\nSession persisted to %s\n", cfg.DBPath)
}

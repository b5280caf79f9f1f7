package main

import (
	"flag"
	"fmt"
	"os"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	// Global flags
	apiURL := "http://localhost:8080"
	if envURL := os.Getenv("API_URL"); envURL != "" {
		apiURL = envURL
	}

	command := os.Args[1]
	args := os.Args[2:]

	switch command {
	case "register":
		registerCmd(apiURL, args)
	case "batch":
		batchCmd(apiURL, args)
	case "help", "-h", "--help":
		printUsage()
	default:
		fmt.Printf("Unknown command: %s\n\n", command)
		printUsage()
		os.Exit(1)
	}
}

func printUsage() {
	fmt.Println(`Progress Simulator - Development tool for exercising the progress batch API

USAGE:
  simulator <command> [options]

COMMANDS:
  register  Register a throwaway parent account (check server logs for the verification link)
  batch     Log in, pick or create a child profile, and submit a progress batch twice
            (the second submission demonstrates idempotent duplicate handling)
  help      Show this help message

ENVIRONMENT:
  API_URL   Backend API URL (default: http://localhost:8080)

EXAMPLES:
  # Register an account, then verify it via the logged link
  simulator register --email=dev@example.com --password=password123

  # Submit a 5-item batch and replay it to see duplicate statuses
  simulator batch --email=dev@example.com --password=password123 --count=5`)
}

func registerCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("register", flag.ExitOnError)
	email := fs.String("email", "dev@example.com", "Email for the new account")
	password := fs.String("password", "password123", "Password for the new account")
	fs.Parse(args)

	client := NewAPIClient(apiURL)
	if err := client.Register(*email, *password); err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Registered %s — verification link is in the server log\n", *email)
}

func batchCmd(apiURL string, args []string) {
	fs := flag.NewFlagSet("batch", flag.ExitOnError)
	email := fs.String("email", "dev@example.com", "Account email (must be verified)")
	password := fs.String("password", "password123", "Account password")
	count := fs.Int("count", 5, "Number of items in the batch")
	fs.Parse(args)

	client := NewAPIClient(apiURL)

	user, err := client.Login(*email, *password)
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Logged in as %s\n", user.Email)

	profiles, err := client.ListProfiles()
	if err != nil {
		fmt.Printf("Error: %v\n", err)
		os.Exit(1)
	}

	var profile *Profile
	if len(profiles) > 0 {
		profile = &profiles[0]
	} else {
		profile, err = client.CreateProfile("Simulator Child")
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
	}
	fmt.Printf("Using profile %q (%s)\n", profile.Name, profile.ID)

	letters := "ABCDEFGHIJKLMNOPQRSTUVWXYZ"
	items := make([]BatchItem, 0, *count)
	for i := 0; i < *count; i++ {
		items = append(items, BatchItem{
			IdempotencyKey: fmt.Sprintf("sim-%s-%d", profile.ID[:8], i),
			ActivityType:   "letter_tracing",
			ContentID:      string(letters[i%len(letters)]),
			Score:          60 + (i*7)%41,
			Duration:       20 + i,
		})
	}

	for attempt := 1; attempt <= 2; attempt++ {
		resp, err := client.SubmitBatch(profile.ID, items)
		if err != nil {
			fmt.Printf("Error: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Attempt %d:\n", attempt)
		for i, result := range resp.Results {
			fmt.Printf("  [%d] %-9s %s\n", i, result.Status, result.ServerID)
		}
	}
	fmt.Println("Second attempt should be all duplicates — at-most-once persistence held.")
}

// gatewayctl signs in against a running gateway and prints the session the
// client would mirror: identity, landing page and navigation menu.
//
//	gatewayctl --url http://localhost:8080 --email admin@example.com --password secret
package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/pflag"

	"github.com/spec-kit/access-gateway/internal/client"
	"github.com/spec-kit/access-gateway/internal/mirror"
)

func main() {
	if err := run(os.Args[1:]); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string) error {
	var (
		baseURL  string
		email    string
		password string
		timeout  time.Duration
		asJSON   bool
		logout   bool
	)

	flagSet := pflag.NewFlagSet("gatewayctl", pflag.ContinueOnError)
	flagSet.StringVar(&baseURL, "url", envOr("GATEWAY_URL", "http://localhost:8080"), "gateway base URL")
	flagSet.StringVarP(&email, "email", "e", "", "account email")
	flagSet.StringVarP(&password, "password", "p", os.Getenv("GATEWAY_PASSWORD"), "account password (or GATEWAY_PASSWORD)")
	flagSet.DurationVar(&timeout, "timeout", 10*time.Second, "per-request timeout")
	flagSet.BoolVar(&asJSON, "json", false, "print the session as JSON")
	flagSet.BoolVar(&logout, "logout", false, "sign out again after printing the session")

	if err := flagSet.Parse(args); err != nil {
		if errors.Is(err, pflag.ErrHelp) {
			return nil
		}
		return err
	}
	if email == "" || password == "" {
		return errors.New("--email and --password are required")
	}

	c, err := client.New(baseURL, mirror.New(), client.WithTimeout(timeout))
	if err != nil {
		return err
	}
	if _, err := c.Login(email, password); err != nil {
		return err
	}

	snap := c.Session().Current()
	if asJSON {
		if err := printJSON(snap); err != nil {
			return err
		}
	} else {
		printText(snap)
	}

	if logout {
		return c.Logout()
	}
	return nil
}

func printText(snap mirror.Snapshot) {
	fmt.Printf("user:    %s (id %d)\n", snap.Identity.Email, snap.Identity.ID)
	fmt.Printf("name:    %s\n", snap.Identity.Name)
	fmt.Printf("role:    %s\n", snap.Role)
	fmt.Printf("landing: %s\n", snap.LandingPath())
	fmt.Println("menu:")
	for _, item := range snap.Navigation() {
		fmt.Printf("  %-24s %s\n", item.Name, item.To)
	}
}

func printJSON(snap mirror.Snapshot) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(map[string]any{
		"user":    snap.Identity,
		"role":    snap.Role,
		"landing": snap.LandingPath(),
		"menu":    snap.Navigation(),
	})
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// Command synkro serves synkro's access decisions over HTTP.
//
// With -token, synkro instead prints a bearer token for the caller ID given,
// signed with JWT_SECRET, and exits.
package main

import (
	"flag"
	"fmt"
	"os"
	"time"

	_ "github.com/joho/godotenv/autoload"
	"github.com/xy-planning-network/synkro/app"
	"github.com/xy-planning-network/synkro/auth"
)

// Set with -ldflags "-X main.version=... -X main.commit=...".
var (
	version = "dev"
	commit  = "none"
)

func main() {
	callerID := flag.String("token", "", "print a bearer token for this caller ID and exit")
	email := flag.String("email", "", "email to carry in the token")
	ttl := flag.Duration("ttl", 24*time.Hour, "how long the token is valid for; 0 never expires")
	flag.Parse()

	if *callerID != "" {
		if err := printToken(*callerID, *email, *ttl); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}

		return
	}

	a, err := app.New(app.WithBuildInfo(version, commit))
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}

	if err := a.Serve(); err != nil {
		a.Logger().Fatal(err.Error(), nil)
		os.Exit(1)
	}
}

func printToken(callerID, email string, ttl time.Duration) error {
	s, err := auth.NewService(os.Getenv("JWT_SECRET"))
	if err != nil {
		return err
	}

	token, err := s.Issue(callerID, email, ttl)
	if err != nil {
		return err
	}

	fmt.Println(token)
	return nil
}

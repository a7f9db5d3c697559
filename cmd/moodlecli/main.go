package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/m2v/moodle-scraper/internal/config"
	"github.com/m2v/moodle-scraper/internal/di"
	"github.com/m2v/moodle-scraper/internal/session"
	"github.com/m2v/moodle-scraper/internal/usecase/portal"
)

var (
	flagEmail    string
	flagPassword string
	flagHeadless bool
	flagTimeout  time.Duration
)

func main() {
	root := &cobra.Command{
		Use:   "moodlecli",
		Short: "Fetch courses and deadlines from the De Vinci Moodle portal",
		Long: "moodlecli drives a real browser through the De Vinci Moodle portal " +
			"and prints the requested listing. Credentials come from flags, " +
			"MOODLE_EMAIL/MOODLE_PASSWORD, or a previously authenticated browser profile.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&flagEmail, "email", "", "portal login email")
	root.PersistentFlags().StringVar(&flagPassword, "password", "", "portal login password")
	root.PersistentFlags().BoolVar(&flagHeadless, "headless", true, "run the browser headless")
	root.PersistentFlags().DurationVar(&flagTimeout, "timeout", 3*time.Minute, "overall time budget for one fetch")

	root.AddCommand(
		newFetchCommand("courses", "List enrolled courses",
			func(ctx context.Context, svc *portal.Service, creds *session.Credentials) string {
				return svc.GetCourses(ctx, creds)
			}),
		newFetchCommand("deadlines", "List upcoming deadlines",
			func(ctx context.Context, svc *portal.Service, creds *session.Credentials) string {
				return svc.GetDeadlines(ctx, creds)
			}),
	)

	if err := root.Execute(); err != nil {
		os.Exit(1)
	}
}

func newFetchCommand(use, short string, fetch func(context.Context, *portal.Service, *session.Credentials) string) *cobra.Command {
	return &cobra.Command{
		Use:   use,
		Short: short,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := config.Load()
			cfg.Browser.Headless = flagHeadless

			container := di.NewContainer(cfg)
			defer container.Close()

			ctx, cancel := context.WithTimeout(cmd.Context(), flagTimeout)
			defer cancel()

			// Sentinel and error strings are results too; the fetch itself
			// never fails the command.
			fmt.Println(fetch(ctx, container.Portal, credentials()))
			return nil
		},
	}
}

// credentials resolves the login from flags first, then the environment.
// Nil is fine as long as the browser profile is already authenticated.
func credentials() *session.Credentials {
	email := flagEmail
	password := flagPassword
	if email == "" {
		email = os.Getenv("MOODLE_EMAIL")
	}
	if password == "" {
		password = os.Getenv("MOODLE_PASSWORD")
	}
	if email == "" || password == "" {
		return nil
	}
	return &session.Credentials{Email: email, Password: password}
}

package main

import (
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"
	"text/tabwriter"

	"github.com/joho/godotenv"
	"github.com/klokku/eventroster/internal/app"
	"github.com/klokku/eventroster/pkg/event_roster"
	log "github.com/sirupsen/logrus"
	"github.com/urfave/cli/v2"
)

const defaultConfigPath = "./config/application.yaml"

func init() {
	// .env is optional
	_ = godotenv.Load()

	level := os.Getenv("LOG_LEVEL")
	if level != "" {
		logrusLevel, err := log.ParseLevel(level)
		if err != nil {
			log.Fatal(err)
		}
		log.SetLevel(logrusLevel)
	} else {
		log.SetLevel(log.InfoLevel)
	}
}

func main() {
	cliApp := &cli.App{
		Name:  "eventroster",
		Usage: "Manage events and their participants against the event backend.",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Value:   defaultConfigPath,
				Usage:   "path to the YAML configuration file",
				EnvVars: []string{"ROSTER_CONFIG"},
			},
		},
		Commands: []*cli.Command{
			serveCommand(),
			eventsCommand(),
		},
		Action: serve,
	}

	if err := cliApp.Run(os.Args); err != nil {
		log.Fatalf("application failed: %v", err)
	}
}

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:   "serve",
		Usage:  "Serve the roster API.",
		Action: serve,
	}
}

func serve(c *cli.Context) error {
	ctx, stop := signal.NotifyContext(c.Context, os.Interrupt, syscall.SIGTERM)
	defer stop()

	application, err := app.NewApplication(ctx, c.String("config"))
	if err != nil {
		return fmt.Errorf("failed to initialize application: %w", err)
	}
	return application.Run(ctx)
}

func eventsCommand() *cli.Command {
	return &cli.Command{
		Name:  "events",
		Usage: "Load the roster and print the event list.",
		Action: func(c *cli.Context) error {
			application, err := app.NewApplication(c.Context, c.String("config"))
			if err != nil {
				return fmt.Errorf("failed to initialize application: %w", err)
			}
			controller := application.Dependencies().RosterController
			controller.Init(c.Context)
			return printEvents(os.Stdout, controller)
		},
	}
}

func printEvents(out io.Writer, controller *event_roster.Controller) error {
	w := tabwriter.NewWriter(out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "#\tNAME\tADDRESS\tSCHEDULE\tPARTICIPANTS")
	for _, e := range controller.View().Events {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n", e.Index, e.Name, e.Address, e.Schedule, e.Participants)
	}
	return w.Flush()
}

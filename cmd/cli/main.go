package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/httplog"
	"github.com/marcelsud/webhook-notifier/config"
	"github.com/marcelsud/webhook-notifier/event"
	eventredis "github.com/marcelsud/webhook-notifier/event/redis"
	"github.com/marcelsud/webhook-notifier/history"
	"github.com/marcelsud/webhook-notifier/internal/app"
	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/rs/zerolog"
	"github.com/spf13/cobra"
)

// eventFlags describes one event on the command line
type eventFlags struct {
	kind          string
	projectID     string
	buildID       string
	buildName     string
	buildTypeID   string
	buildTypeName string
	branch        string
	branchBuild   bool
	successful    bool
	previous      string
}

func (f *eventFlags) register(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.kind, "kind", "k", event.BuildStarted.String(), "event kind")
	cmd.Flags().StringVarP(&f.projectID, "project", "p", "", "project id the event belongs to")
	cmd.Flags().StringVar(&f.buildID, "build-id", "1", "build id")
	cmd.Flags().StringVar(&f.buildName, "build-name", "", "build display name")
	cmd.Flags().StringVar(&f.buildTypeID, "build-type", "", "build type id")
	cmd.Flags().StringVar(&f.buildTypeName, "build-type-name", "", "build type name")
	cmd.Flags().StringVar(&f.branch, "branch", "", "branch name")
	cmd.Flags().BoolVar(&f.branchBuild, "branch-build", false, "build ran on a non default branch")
	cmd.Flags().BoolVar(&f.successful, "successful", true, "finished build succeeded")
	cmd.Flags().StringVar(&f.previous, "previous", "", "outcome of the previous build: success or failure")
	_ = cmd.MarkFlagRequired("project")
}

func (f *eventFlags) event() (event.Event, error) {
	kind := event.NewKind(f.kind)
	if err := kind.Validate(); err != nil {
		return event.Event{}, err
	}
	ev := event.Event{
		Kind:        kind,
		ProjectID:   f.projectID,
		BranchBuild: f.branchBuild,
		UserAction:  true,
		OccurredAt:  time.Now().UTC(),
		Entity: event.Entity{
			Type:          event.EntityBuild,
			ID:            f.buildID,
			Name:          f.buildName,
			BuildTypeID:   f.buildTypeID,
			BuildTypeName: f.buildTypeName,
			BranchName:    f.branch,
			Successful:    f.successful,
			FinishedAt:    time.Now().UTC(),
		},
	}
	switch f.previous {
	case "":
	case "success", "failure":
		prev := f.previous == "success"
		ev.Entity.PreviousSuccessful = &prev
	default:
		return event.Event{}, fmt.Errorf("previous must be success or failure")
	}
	return ev, ev.Validate()
}

func newSendCmd() *cobra.Command {
	var (
		flags eventFlags
		force bool
	)
	cmd := &cobra.Command{
		Use:   "send",
		Short: "dispatch one event in process and print the recorded history",
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := flags.event()
			if err != nil {
				return err
			}
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			override := payload.NoOverride
			if force {
				override = payload.ForceEnable
			}
			results, err := a.Dispatcher.DispatchWithOverride(cmd.Context(), ev, override)
			if err != nil {
				return err
			}

			items := make([]history.Item, 0, len(results))
			for _, r := range results {
				items = append(items, r.Item)
			}
			return printJSON(items)
		},
	}
	flags.register(cmd)
	cmd.Flags().BoolVar(&force, "force", false, "send regardless of configured states and build types")
	return cmd
}

func newPublishCmd() *cobra.Command {
	var flags eventFlags
	cmd := &cobra.Command{
		Use:   "publish",
		Short: "publish one event to the Redis event stream",
		RunE: func(cmd *cobra.Command, args []string) error {
			ev, err := flags.event()
			if err != nil {
				return err
			}
			cfg, err := config.GetConfig()
			if err != nil {
				return err
			}
			a, err := app.New(cfg, logger(), app.WithRedis())
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			feed := eventredis.NewFeed(a.Redis, cfg.EventStream, cfg.ConsumerGroup, "cli", logger())
			id, err := feed.Publish(cmd.Context(), ev)
			if err != nil {
				return err
			}
			fmt.Printf("Published %s to %s as %s\n", ev.Kind, cfg.EventStream, id)
			return nil
		},
	}
	flags.register(cmd)
	return cmd
}

func newHistoryCmd() *cobra.Command {
	var (
		configID  string
		projectID string
		limit     int
	)
	cmd := &cobra.Command{
		Use:   "history",
		Short: "list recorded deliveries, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := newApp()
			if err != nil {
				return err
			}
			defer a.Close(context.Background())

			var items []history.Item
			switch {
			case configID != "":
				items, err = a.History.ListByConfig(cmd.Context(), configID, limit)
			case projectID != "":
				items, err = a.History.ListByProject(cmd.Context(), projectID, limit)
			default:
				return fmt.Errorf("--config or --project is required")
			}
			if err != nil {
				return err
			}
			return printJSON(items)
		},
	}
	cmd.Flags().StringVar(&configID, "config", "", "webhook config id")
	cmd.Flags().StringVar(&projectID, "project", "", "owning project id")
	cmd.Flags().IntVar(&limit, "limit", 20, "maximum number of items, 0 for all")
	return cmd
}

func newApp() (*app.App, error) {
	cfg, err := config.GetConfig()
	if err != nil {
		return nil, err
	}
	return app.New(cfg, logger())
}

func logger() zerolog.Logger {
	return httplog.NewLogger("webhook-notifier-cli", httplog.Options{
		LogLevel: "warn",
	})
}

func printJSON(v any) error {
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func main() {
	root := &cobra.Command{
		Use:          "notifier",
		Short:        "Send build events through the webhook notifier",
		SilenceUsage: true,
	}
	root.AddCommand(newSendCmd(), newPublishCmd(), newHistoryCmd())

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := root.ExecuteContext(ctx); err != nil {
		os.Exit(1)
	}
}

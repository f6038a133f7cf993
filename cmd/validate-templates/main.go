package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/marcelsud/webhook-notifier/payload"
	"github.com/marcelsud/webhook-notifier/settings"
	"github.com/marcelsud/webhook-notifier/template"
)

/* validate-templates - Standalone CLI tool to validate templates.yaml and settings.yaml
 * Usage: go run cmd/validate-templates/main.go [templates.yaml] [settings.yaml]
 * Exit codes: 0 = valid, 1 = invalid
 */

func main() {
	templatesFile := "templates.yaml"
	settingsFile := "settings.yaml"
	if len(os.Args) > 1 {
		templatesFile = os.Args[1]
	}
	if len(os.Args) > 2 {
		settingsFile = os.Args[2]
	}

	fmt.Printf("Validating templates file: %s\n", templatesFile)
	fmt.Println(strings.Repeat("-", 50))

	registry := template.NewRegistry()
	if err := registry.Load(templatesFile); err != nil {
		fail(err)
	}

	fmt.Printf("✓ TEMPLATES VALID\n\n")
	fmt.Printf("Loaded %d template(s):\n", registry.Len())
	for i, t := range registry.List() {
		fmt.Printf("\n%d. Template: %s\n", i+1, t.ID)
		if t.Name != "" {
			fmt.Printf("   Name:          %s\n", t.Name)
		}
		fmt.Printf("   Rank:          %d\n", t.Rank)
		fmt.Printf("   Formats:       %s\n", strings.Join(t.Formats, ", "))
		fmt.Printf("   States:        %s\n", joinKinds(t))
		if branch := t.BranchStates(); len(branch) > 0 {
			fmt.Printf("   Branch states: %d\n", len(branch))
		}
	}

	if _, err := os.Stat(settingsFile); errors.Is(err, os.ErrNotExist) {
		fmt.Printf("\nNo settings file at %s, skipping\n", settingsFile)
		os.Exit(0)
	}

	fmt.Printf("\nValidating settings file: %s\n", settingsFile)
	fmt.Println(strings.Repeat("-", 50))

	store := settings.NewFileStore()
	if err := store.Load(settingsFile); err != nil {
		fail(err)
	}
	formats, err := payload.NewManager(payload.DefaultFormats()...)
	if err != nil {
		fail(err)
	}

	var problems []string
	for _, project := range store.Projects() {
		ps, err := store.ProjectSettings(context.Background(), project.ID)
		if err != nil {
			fail(err)
		}
		for _, cfg := range ps.Configs {
			if !formats.IsRegistered(cfg.Format) {
				problems = append(problems, fmt.Sprintf("webhook %s on %s: unknown format %s", cfg.ID, project.ID, cfg.Format))
			}
			if cfg.Template != "" && cfg.InlineTemplate == "" {
				if _, err := registry.Lookup(cfg.Template); err != nil {
					problems = append(problems, fmt.Sprintf("webhook %s on %s: %v", cfg.ID, project.ID, err))
				}
			}
		}
		fmt.Printf("   Project %-20s %d webhook(s)\n", project.ExternalID, len(ps.Configs))
	}

	if len(problems) > 0 {
		fail(errors.New(strings.Join(problems, "\n")))
	}

	fmt.Printf("\n✓ All templates and settings are valid!\n")
	os.Exit(0)
}

func joinKinds(t template.Template) string {
	names := make([]string, 0, len(t.States()))
	for _, k := range t.States() {
		names = append(names, k.String())
	}
	return strings.Join(names, ", ")
}

func fail(err error) {
	fmt.Fprintf(os.Stderr, "❌ VALIDATION FAILED\n\n")
	fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	os.Exit(1)
}

// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/company-research/internal/batch"
	"github.com/pdiddy/company-research/internal/directory"
	"github.com/pdiddy/company-research/internal/research"
	"github.com/pdiddy/company-research/internal/scrape"
	"github.com/pdiddy/company-research/internal/sink"
	"github.com/pdiddy/company-research/internal/source"
	"github.com/pdiddy/company-research/internal/synthesis"
	"github.com/pdiddy/company-research/internal/validate"
	"github.com/pdiddy/company-research/internal/vault"
	"github.com/pdiddy/company-research/pkg/types"
)

var researchCmd = &cobra.Command{
	Use:   "research",
	Short: "Research one or more organizations and print the report",
	Long: `Research gathers information about an organization from its official
website and a professional-network directory, then synthesizes a structured
report. Use --org for a single organization or --orgs-file for a batch with
one name per line.`,
	RunE: runResearch,
}

func init() {
	researchCmd.Flags().String("org", "", "organization name to research")
	researchCmd.Flags().String("context", "", "additional research guidance")
	researchCmd.Flags().String("orgs-file", "", "file with one organization name per line")
	researchCmd.Flags().Int("parallel", 2, "concurrent research passes for batch runs")
	researchCmd.Flags().String("output", "yaml", "report output format: yaml or json")
	researchCmd.Flags().StringSlice("export", nil, "export destinations: notion, sqlite")
	researchCmd.Flags().String("backend", "", "synthesis backend: claude or gemini")
	researchCmd.Flags().String("model", "", "synthesis model identifier")
	researchCmd.Flags().String("db", "", "report database path for the sqlite sink (default reports.db)")

	rootCmd.AddCommand(researchCmd)
}

func runResearch(cmd *cobra.Command, args []string) error {
	org, _ := cmd.Flags().GetString("org")
	orgsFile, _ := cmd.Flags().GetString("orgs-file")
	if org == "" && orgsFile == "" {
		return fmt.Errorf("provide --org or --orgs-file")
	}
	if org != "" && orgsFile != "" {
		return fmt.Errorf("--org and --orgs-file are mutually exclusive")
	}

	format, _ := cmd.Flags().GetString("output")
	if format != "yaml" && format != "json" {
		return fmt.Errorf("unknown output format %q (yaml or json)", format)
	}

	log, err := buildLogger(cmd)
	if err != nil {
		return err
	}
	defer log.Sync()

	cfg := engineConfig()
	if v, _ := cmd.Flags().GetString("backend"); v != "" {
		cfg.Synthesis.Backend = types.SynthesisBackend(v)
	}
	if v, _ := cmd.Flags().GetString("model"); v != "" {
		cfg.Synthesis.Model = v
	}
	if v, _ := cmd.Flags().GetString("db"); v != "" {
		cfg.Sink.SQLitePath = v
	}
	resolveSynthesis(&cfg.Synthesis)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	engine, err := buildEngine(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer engine.Close()

	exports, _ := cmd.Flags().GetStringSlice("export")
	sinks, closeSinks, err := buildSinks(exports, cfg.Sink)
	if err != nil {
		return err
	}
	defer closeSinks()

	var items []batch.Item
	if org != "" {
		additional, _ := cmd.Flags().GetString("context")
		req := types.ResearchRequest{OrganizationName: org, AdditionalContext: additional}
		report, err := engine.Research(ctx, req)
		items = []batch.Item{{Request: req, Report: report, Err: err}}
	} else {
		reqs, err := batch.ReadRequestsFile(orgsFile)
		if err != nil {
			return err
		}
		parallel, _ := cmd.Flags().GetInt("parallel")
		items = batch.Run(ctx, engine, reqs, parallel, log)
	}

	failed := 0
	for _, it := range items {
		if it.Err != nil {
			failed++
			fmt.Fprintf(os.Stderr, "research failed for %s: %v\n",
				it.Request.OrganizationName, it.Err)
			continue
		}
		if err := writeReport(os.Stdout, it.Report, format); err != nil {
			return err
		}
		exportReport(ctx, sinks, it.Report, log)
	}

	if failed == len(items) {
		return fmt.Errorf("all %d research pass(es) failed", failed)
	}
	return nil
}

// buildEngine wires the full component graph from configuration.
func buildEngine(ctx context.Context, cfg types.EngineConfig, log *zap.Logger) (*research.Engine, error) {
	synth, err := synthesis.New(ctx, cfg.Synthesis)
	if err != nil {
		return nil, err
	}

	pages := scrape.NewClient(cfg.Fetch, log)
	validator := validate.New(pages, log)
	dirClient := directory.NewClient(cfg.Directory)

	var prompter vault.Prompter
	if loadedSecrets.Has("directory-identity") && loadedSecrets.Has("directory-secret") {
		prompter = vault.StaticPrompter{
			Identity: loadedSecrets.Get("directory-identity"),
			Secret:   loadedSecrets.Get("directory-secret"),
		}
	} else {
		prompter = vault.TerminalPrompter{In: os.Stdin, Out: os.Stderr}
	}
	credVault := vault.New(cfg.Directory.CredentialTTL, prompter, dirClient, log)

	fetchers := []source.Fetcher{
		source.NewWebsiteFetcher(synth, validator, pages, log),
		source.NewDirectoryFetcher(credVault, dirClient, cfg.Directory.SearchLimit, log),
	}

	engine := research.New(cfg, synth, fetchers, log)
	engine.OnClose(credVault.Clear)
	engine.OnClose(pages.Close)
	engine.OnClose(dirClient.Close)
	return engine, nil
}

// buildSinks constructs the requested export destinations.
func buildSinks(names []string, cfg types.SinkConfig) ([]sink.Sink, func(), error) {
	var sinks []sink.Sink
	var closers []func() error

	for _, name := range names {
		switch name {
		case "notion":
			sinks = append(sinks, sink.NewNotionSink(cfg))
		case "sqlite":
			path := cfg.SQLitePath
			if path == "" {
				path = "reports.db"
			}
			s, err := sink.NewSQLiteSink(path)
			if err != nil {
				return nil, nil, err
			}
			sinks = append(sinks, s)
			closers = append(closers, s.Close)
		default:
			return nil, nil, fmt.Errorf("unknown export destination %q (notion or sqlite)", name)
		}
	}

	closeAll := func() {
		for _, c := range closers {
			c()
		}
	}
	return sinks, closeAll, nil
}

func exportReport(ctx context.Context, sinks []sink.Sink, report types.ResearchReport, log *zap.Logger) {
	for _, s := range sinks {
		ref, err := s.Export(ctx, report)
		if err != nil {
			log.Warn("export failed",
				zap.String("sink", s.Name()),
				zap.String("organization", report.OrganizationName),
				zap.Error(err))
			continue
		}
		fmt.Fprintf(os.Stderr, "exported %s to %s (%s)\n",
			report.OrganizationName, s.Name(), ref)
	}
}

// writeReport encodes one report to w in the requested format.
func writeReport(w io.Writer, report types.ResearchReport, format string) error {
	if format == "json" {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}

	fmt.Fprintln(w, "---")
	enc := yaml.NewEncoder(w)
	enc.SetIndent(2)
	if err := enc.Encode(report); err != nil {
		return err
	}
	return enc.Close()
}

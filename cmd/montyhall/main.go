package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"os/signal"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"golang.org/x/text/language"

	"github.com/boristopalov/montyhall/pkg/agent"
	"github.com/boristopalov/montyhall/pkg/config"
	"github.com/boristopalov/montyhall/pkg/experiment"
	"github.com/boristopalov/montyhall/pkg/messaging"
	"github.com/boristopalov/montyhall/pkg/providers"
	"github.com/boristopalov/montyhall/pkg/telemetry"
)

func main() {
	rootCmd := &cobra.Command{
		Use:   "montyhall",
		Short: "Montyhall simulates the Monty Hall game with N doors and compares door-switching strategies.",
	}

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "Play every selected agent for a number of games and report win rates",
		RunE:  runExperiment,
	}
	flags := runCmd.Flags()
	flags.Int("doors", 0, "number of doors (default from MONTY_DOORS, 3)")
	flags.Int("trials", 0, "games per agent (default from MONTY_TRIALS, 1000)")
	flags.StringSlice("agents", nil, "comma-separated agent names (see 'montyhall agents')")
	flags.Int64("seed", 0, "random seed; 0 draws one")
	flags.String("out", "", "markdown results file")
	flags.Bool("append", false, "append to the results file instead of overwriting it")
	flags.String("csv", "", "also write per-agent statistics as CSV")
	flags.String("lua", "", "script for the lua agent")
	flags.String("provider", "", "LLM provider for the llm agent (openai, gemini)")
	flags.String("model", "", "model for the llm agent (default depends on the provider)")
	flags.Bool("progress", false, "log progress every 10% of each agent's games")

	agentsCmd := &cobra.Command{
		Use:   "agents",
		Short: "List the available agents",
		Run: func(cmd *cobra.Command, args []string) {
			defaults := make(map[string]bool)
			for _, name := range agent.DefaultNames() {
				defaults[name] = true
			}
			for _, name := range agent.Names() {
				marker := ""
				if defaults[name] {
					marker = " (default)"
				}
				fmt.Fprintf(cmd.OutOrStdout(), "%s%s\n", name, marker)
			}
		},
	}

	for _, envFile := range []string{
		".env",
		"../../.env",
		"../../../.env",
	} {
		if err := godotenv.Load(envFile); err == nil {
			break
		}
	}

	rootCmd.AddCommand(runCmd, agentsCmd)
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

func runExperiment(cmd *cobra.Command, args []string) error {
	cfg, err := config.FromEnv()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}
	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("invalid config: %w", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt)
	go func() {
		<-sigChan
		cancel()
	}()

	shutdown, err := telemetry.Setup(ctx, "montyhall", cfg.OTelEndpoint)
	if err != nil {
		return fmt.Errorf("failed to set up tracing: %w", err)
	}
	defer func() {
		if err := shutdown(context.Background()); err != nil {
			log.Printf("Warning: failed to flush traces: %v", err)
		}
	}()

	broker := messaging.NewBroker()
	defer broker.Reset()

	opts := []experiment.ExperimentOption{experiment.WithBroker(broker)}
	if cfg.UsesAgent(agent.NameLLM) {
		var popts []providers.ProviderOption
		if cfg.LLM.BaseURL != "" {
			popts = append(popts, providers.WithBaseURL(cfg.LLM.BaseURL))
		}
		client, err := providers.New(ctx, cfg.LLM.Provider, popts...)
		if err != nil {
			return fmt.Errorf("failed to create %s client: %w", cfg.LLM.Provider, err)
		}
		opts = append(opts, experiment.WithAgentOptions(
			agent.WithProvider(client),
			agent.WithModel(agent.ModelInfo{Id: cfg.LLM.ModelID()}),
		))
	}

	progress, _ := cmd.Flags().GetBool("progress")
	if progress {
		events := make(chan messaging.Message, 4096)
		if err := broker.Subscribe("progress", events); err != nil {
			return err
		}
		done := make(chan struct{})
		go logProgress(events, cfg.Trials, done)
		defer func() {
			broker.Unsubscribe("progress")
			close(events)
			<-done
		}()
	}

	exp, err := experiment.NewMontyHallExperiment(cfg, opts...)
	if err != nil {
		return fmt.Errorf("failed to create experiment: %w", err)
	}
	if err := exp.Run(ctx); err != nil {
		return fmt.Errorf("experiment failed: %w", err)
	}

	report := exp.Report()
	fmt.Fprint(cmd.OutOrStdout(), experiment.FormatText(report, language.English))
	fmt.Fprintln(cmd.OutOrStdout(), experiment.AsciiBarChart(report))

	if cfg.ResultsPath != "" {
		if err := experiment.WriteMarkdownFile(cfg.ResultsPath, report, cfg.AppendResults); err != nil {
			return err
		}
		log.Printf("Results written to %s", cfg.ResultsPath)
	}
	if cfg.CSVPath != "" {
		if err := experiment.WriteCSVFile(cfg.CSVPath, report); err != nil {
			return err
		}
		log.Printf("Statistics written to %s", cfg.CSVPath)
	}
	return nil
}

// applyFlags overrides environment configuration with explicitly set flags.
func applyFlags(cmd *cobra.Command, cfg *config.ExperimentConfig) error {
	f := cmd.Flags()
	var err error
	if f.Changed("doors") {
		cfg.DoorCount, err = f.GetInt("doors")
	}
	if err == nil && f.Changed("trials") {
		cfg.Trials, err = f.GetInt("trials")
	}
	if err == nil && f.Changed("agents") {
		var names []string
		names, err = f.GetStringSlice("agents")
		cfg.Agents = names[:0]
		for _, n := range names {
			if n = strings.TrimSpace(n); n != "" {
				cfg.Agents = append(cfg.Agents, n)
			}
		}
	}
	if err == nil && f.Changed("seed") {
		cfg.Seed, err = f.GetInt64("seed")
	}
	if err == nil && f.Changed("out") {
		cfg.ResultsPath, err = f.GetString("out")
	}
	if err == nil && f.Changed("append") {
		cfg.AppendResults, err = f.GetBool("append")
	}
	if err == nil && f.Changed("csv") {
		cfg.CSVPath, err = f.GetString("csv")
	}
	if err == nil && f.Changed("lua") {
		cfg.LuaScript, err = f.GetString("lua")
	}
	if err == nil && f.Changed("provider") {
		cfg.LLM.Provider, err = f.GetString("provider")
	}
	if err == nil && f.Changed("model") {
		cfg.LLM.Model, err = f.GetString("model")
	}
	if err != nil {
		return fmt.Errorf("invalid flag: %w", err)
	}
	return nil
}

func logProgress(events <-chan messaging.Message, trials int, done chan<- struct{}) {
	defer close(done)
	step := trials / 10
	if step == 0 {
		step = 1
	}
	for msg := range events {
		switch c := msg.Content.(type) {
		case messaging.TrialOutcome:
			if c.Trial%step == 0 {
				log.Printf("%s: %d/%d games played", c.Agent, c.Trial, trials)
			}
		case messaging.BatchDone:
			log.Printf("%s: finished %d games, win rate %.2f%%", c.Agent, c.Trials, c.WinRate*100)
		}
	}
}

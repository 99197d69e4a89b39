// Package cmd implements the CLI application to mirror bank data locally.
package cmd

import (
	"context"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/charmbracelet/glamour"
	"github.com/etnz/finsync"
	"github.com/etnz/finsync/categorize"
	"github.com/etnz/finsync/config"
	"github.com/etnz/finsync/powens"
	"github.com/etnz/finsync/store"
	"github.com/google/subcommands"
	"google.golang.org/genai"
)

// Commands are all the subcommands of the application.
var Commands = []subcommands.Command{
	&serveCmd{},
	&fetchCmd{},
	&enrichCmd{},
	&exportCmd{},
	&listCmd{},
	&summaryCmd{},
	&guessCmd{},
}

// as a CLI application, it has a very short lived lifecycle, so it is ok to use global variables.

var dataDir = flag.String("data-dir", "", "Folder of the collection files. Defaults to $FINSYNC_DATA_DIR or 'db'.")
var Verbose = flag.Bool("v", false, "Log collection files and remote calls.")

// stdout is where commands print their result.
var stdout io.Writer = os.Stdout

// loadConfig reads the environment, then applies the global flags.
func loadConfig() (*config.Config, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	if *dataDir != "" {
		cfg.DataDir = *dataDir
	}
	if !*Verbose {
		log.SetOutput(io.Discard)
	}
	return cfg, nil
}

// openDB opens the collections of the data folder.
func openDB(cfg *config.Config) (*finsync.DB, error) {
	return finsync.OpenDB(cfg.DataDir, store.WithLogger(log.Default()))
}

// newSource returns the bank aggregator client.
func newSource(cfg *config.Config) (*powens.Client, error) {
	if err := cfg.CheckPowens(); err != nil {
		return nil, err
	}
	return powens.New(cfg.PowensDomain, cfg.PowensToken, nil), nil
}

// newGuesser returns the transaction categorizer.
func newGuesser(ctx context.Context, cfg *config.Config) (*categorize.Guesser, error) {
	if err := cfg.CheckGemini(); err != nil {
		return nil, err
	}
	client, err := genai.NewClient(ctx, &genai.ClientConfig{
		APIKey:  cfg.GeminiAPIKey,
		Backend: genai.BackendGeminiAPI,
	})
	if err != nil {
		return nil, fmt.Errorf("gemini error: %w", err)
	}
	income, expenses, err := categorize.LoadCategories(cfg.PromptsDir)
	if err != nil {
		return nil, err
	}
	return categorize.New(client.Models, cfg.GeminiModel, income, expenses), nil
}

// printMarkdown renders markdown for the terminal, or prints it raw if it
// cannot.
func printMarkdown(md string) {
	r, err := glamour.NewTermRenderer(glamour.WithAutoStyle(), glamour.WithWordWrap(120))
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	out, err := r.Render(md)
	if err != nil {
		fmt.Fprint(stdout, md)
		return
	}
	fmt.Fprint(stdout, out)
}

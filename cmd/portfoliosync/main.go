package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/victorebouvie/portfoliosync/internal/app"
	"github.com/victorebouvie/portfoliosync/internal/config"
	"github.com/victorebouvie/portfoliosync/internal/utils"
	"github.com/victorebouvie/portfoliosync/pkg/version"
)

var (
	cfgFile string
	verbose bool
	log     *utils.Logger
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "portfoliosync [project-url]",
	Short: "Publish a project's README metadata to the portfolio API",
	Long: `portfoliosync clones a project repository, extracts its name,
description and technology badges from the README, and records the project
in the portfolio API's JSON database via a commit to its repository.

Re-running for an already registered project is a no-op.`,
	Version: version.Short(),
	Args:    cobra.MaximumNArgs(1),
	RunE:    run,
}

func init() {
	cobra.OnInitialize(initConfig)

	// Global flags
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.portfoliosync/config.yaml)")
	rootCmd.PersistentFlags().String("api-url", config.DefaultAPIRepoURL, "Portfolio API repository URL (use an SSH URL for key-based auth)")
	rootCmd.PersistentFlags().String("json-file", config.DefaultJSONFile, "JSON file to update in the API repository")
	rootCmd.PersistentFlags().Bool("dry-run", false, "Merge locally without committing or pushing")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output")

	// Bind flags to viper
	_ = viper.BindPFlag("api.repo_url", rootCmd.PersistentFlags().Lookup("api-url"))
	_ = viper.BindPFlag("api.json_file", rootCmd.PersistentFlags().Lookup("json-file"))

	// Add subcommands
	configCmd.AddCommand(configInitCmd)
	rootCmd.AddCommand(configCmd)
	rootCmd.AddCommand(doctorCmd)
	rootCmd.AddCommand(versionCmd)
}

func initConfig() {
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	}
}

func run(cmd *cobra.Command, args []string) error {
	// Initialize logger
	logLevel := "info"
	if verbose {
		logLevel = "debug"
	}
	log = utils.NewLogger(utils.LoggerOptions{
		Level:   logLevel,
		Format:  "pretty",
		Verbose: verbose,
	})

	// Load configuration
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Check if a project URL was provided
	if len(args) == 0 {
		return cmd.Help()
	}
	projectURL := args[0]

	dryRun, _ := cmd.Flags().GetBool("dry-run")

	// Create context with cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Handle graceful shutdown; workspace cleanup still runs on the way out
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		log.Info().Msg("Shutting down gracefully...")
		cancel()
	}()

	updater, err := app.NewUpdater(app.UpdaterOptions{
		Config:  cfg,
		Logger:  log,
		Verbose: verbose,
	})
	if err != nil {
		return fmt.Errorf("failed to create updater: %w", err)
	}

	return updater.Run(ctx, projectURL, dryRun)
}

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Write a default config file",
	Long:  "Creates ~/.portfoliosync/config.yaml populated with the default settings.",
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.WriteDefault()
		if errors.Is(err, os.ErrExist) {
			fmt.Printf("Config file already exists: %s\n", path)
			return nil
		}
		if err != nil {
			return fmt.Errorf("failed to write config: %w", err)
		}
		fmt.Printf("Config file created: %s\n", path)
		return nil
	},
}

var doctorCmd = &cobra.Command{
	Use:   "doctor",
	Short: "Check system dependencies",
	Long:  "Verifies that the environment is ready to clone and push repositories.",
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Println("Checking environment...")
		allPassed := true

		// Check 1: Internet connection
		fmt.Print("  Internet connection: ")
		if checkInternet() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 2: ssh-agent for key-based push auth
		fmt.Print("  ssh-agent: ")
		if os.Getenv("SSH_AUTH_SOCK") != "" {
			fmt.Println("OK")
		} else {
			fmt.Println("NOT FOUND (pushes to SSH remotes will fail)")
		}

		// Check 3: scratch directory write permissions
		fmt.Print("  Scratch directory: ")
		if checkScratchDir() {
			fmt.Println("OK")
		} else {
			fmt.Println("FAILED")
			allPassed = false
		}

		// Check 4: Config file
		fmt.Print("  Config file: ")
		cfg, err := config.Load()
		if err != nil {
			fmt.Printf("WARN (%v)\n", err)
		} else {
			fmt.Printf("OK (api: %s)\n", cfg.API.RepoURL)
		}

		fmt.Println()
		if allPassed {
			fmt.Println("All critical checks passed!")
		} else {
			fmt.Println("Some checks failed. Please resolve the issues above.")
		}
		return nil
	},
}

// checkInternet checks if there's an internet connection
func checkInternet() bool {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodHead, "https://github.com", nil)
	if err != nil {
		return false
	}

	client := &http.Client{Timeout: 5 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return false
	}
	resp.Body.Close()
	return resp.StatusCode < 400
}

// checkScratchDir checks that a temp directory can be created and removed
func checkScratchDir() bool {
	dir, err := os.MkdirTemp("", "portfoliosync-doctor-*")
	if err != nil {
		return false
	}
	return os.RemoveAll(dir) == nil
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Println(version.Full())
	},
}

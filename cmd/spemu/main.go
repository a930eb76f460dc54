package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"

	"github.com/isabella232/cloud-spanner-emulator/internal/app"
	"github.com/isabella232/cloud-spanner-emulator/internal/config"
	"github.com/isabella232/cloud-spanner-emulator/internal/profiles"
)

const appName = "Cloud Spanner Schema Emulator"

var rootCmd = &cobra.Command{
	Use:   "spemu",
	Short: "Schema emulator for the Cloud Spanner DDL dialect",
	Long:  `Apply, validate, dump and explore Cloud Spanner schemas without a real instance.`,
	RunE:  runInteractive,
}

var applyCmd = &cobra.Command{
	Use:   "apply [schema files...]",
	Short: "Apply DDL files to a fresh database and run index backfills",
	RunE:  runApply,
}

var validateCmd = &cobra.Command{
	Use:   "validate [schema files...]",
	Short: "Run structural validation over DDL files without backfills",
	RunE:  runValidate,
}

var dumpCmd = &cobra.Command{
	Use:   "dump [schema files...]",
	Short: "Apply DDL files and print the schema back as canonical DDL",
	RunE:  runDump,
}

var exploreCmd = &cobra.Command{
	Use:   "explore [schema files...]",
	Short: "Apply DDL files and browse the schema interactively",
	RunE:  runExplore,
}

var interactiveCmd = &cobra.Command{
	Use:   "interactive",
	Short: "Launch the guided interactive workflow",
	RunE:  runInteractive,
}

var profilesCmd = &cobra.Command{
	Use:   "profiles",
	Short: "List saved configuration profiles",
	RunE:  runProfiles,
}

var workflowService = app.NewService()

var (
	configPath  string
	profileName string
	profileDir  string
	outputPath  string
	verbose     bool
)

func init() {
	for _, cmd := range []*cobra.Command{applyCmd, validateCmd, dumpCmd, exploreCmd} {
		cmd.Flags().StringVar(&configPath, "config", "", "Path to the emulator configuration file")
		cmd.Flags().StringVar(&profileName, "profile", "", "Name of a saved configuration profile")
		cmd.Flags().BoolVar(&verbose, "verbose", false, "Enable verbose logging")
	}
	dumpCmd.Flags().StringVar(&outputPath, "output", "", "Write the dump to a file instead of stdout")

	profilesCmd.Flags().StringVar(&profileDir, "dir", "", "Profile directory")

	rootCmd.AddCommand(applyCmd)
	rootCmd.AddCommand(validateCmd)
	rootCmd.AddCommand(dumpCmd)
	rootCmd.AddCommand(exploreCmd)
	rootCmd.AddCommand(interactiveCmd)
	rootCmd.AddCommand(profilesCmd)

	cobra.OnInitialize(func() {
		rootCmd.SilenceUsage = true
		rootCmd.SilenceErrors = true
	})
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

func loadConfig() (*config.Config, error) {
	if configPath != "" {
		return config.LoadConfig(configPath)
	}
	if profileName != "" {
		return profiles.NewManager(profileDir).Load(profileName)
	}
	return config.Default(), nil
}

func runApply(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	_, err = workflowService.Apply(cfg, args, verbose)
	return err
}

func runValidate(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	schema, err := workflowService.Validate(cfg, args, verbose)
	if err != nil {
		return err
	}
	fmt.Printf("Schema is valid: %d tables, %d indexes.\n",
		len(schema.Tables()), schema.NumIndexes())
	return nil
}

func runDump(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	db, err := workflowService.Apply(cfg, args, verbose)
	if err != nil {
		return err
	}

	out := os.Stdout
	if outputPath != "" {
		file, err := os.Create(outputPath)
		if err != nil {
			return fmt.Errorf("cannot create output file: %w", err)
		}
		defer file.Close()
		out = file
	}
	return workflowService.Dump(db, out)
}

func runExplore(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return fmt.Errorf("cannot load config: %w", err)
	}
	db, err := workflowService.Apply(cfg, args, verbose)
	if err != nil {
		return err
	}
	return workflowService.Explore(db)
}

func runInteractive(cmd *cobra.Command, args []string) error {
	application := app.NewApplication(os.Stdin, printBanner)
	return application.RunInteractive()
}

func runProfiles(cmd *cobra.Command, args []string) error {
	manager := profiles.NewManager(profileDir)
	saved, err := manager.List()
	if err != nil {
		return fmt.Errorf("cannot list profiles: %w", err)
	}
	if len(saved) == 0 {
		fmt.Printf("No profiles found in %s.\n", manager.Directory())
		return nil
	}
	for i, profile := range saved {
		fmt.Printf("%d. %s (database: %s)\n", i+1, profile.Name, profile.Database)
	}
	return nil
}

func printBanner() {
	fmt.Println(appName)
	fmt.Println(strings.Repeat("-", len(appName)))
}

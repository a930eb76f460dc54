package app

import (
	"fmt"
	"io"
	"os"

	"github.com/isabella232/cloud-spanner-emulator/internal/dump"
	"github.com/isabella232/cloud-spanner-emulator/internal/ui/explorer"
	"github.com/isabella232/cloud-spanner-emulator/pkg/interactive"
	"github.com/isabella232/cloud-spanner-emulator/pkg/logger"
)

// Application drives the guided interactive workflow: a single emulated
// database that DDL can be applied to, inspected and dumped from one menu.
type Application struct {
	prompter *interactive.Prompter
	banner   func()
	db       *Database
}

func NewApplication(in io.Reader, banner func()) *Application {
	return &Application{
		prompter: interactive.NewPrompter(in),
		banner:   banner,
		db:       NewDatabase("test-db", logger.NewLogger(false)),
	}
}

func (a *Application) RunInteractive() error {
	if a.banner != nil {
		a.banner()
	}

	options := []string{
		"Apply a schema file",
		"Apply a single DDL statement",
		"Print the schema as DDL",
		"Explore the schema",
		"Quit",
	}

	for {
		choice, err := a.prompter.Select(
			fmt.Sprintf("Database %s (%d tables, %d indexes)",
				a.db.Name, len(a.db.Schema.Tables()), a.db.Schema.NumIndexes()),
			options)
		if err != nil {
			return err
		}

		switch choice {
		case 0:
			a.applySchemaFile()
		case 1:
			a.applyStatement()
		case 2:
			fmt.Println()
			if err := dump.Write(a.db.Schema, os.Stdout); err != nil {
				fmt.Printf("Failed to print schema: %v\n", err)
			}
		case 3:
			if err := explorer.Run(a.db.Name, a.db.Schema); err != nil {
				fmt.Printf("Explorer failed: %v\n", err)
			}
		case 4:
			return nil
		}
	}
}

func (a *Application) applySchemaFile() {
	path, err := a.prompter.ReadLine("Schema file path")
	if err != nil || path == "" {
		fmt.Println("No file selected.")
		return
	}

	statements, err := readStatements(path)
	if err != nil {
		fmt.Printf("Cannot read %s: %v\n", path, err)
		return
	}
	if len(statements) == 0 {
		fmt.Println("The file contains no DDL statements.")
		return
	}
	if !a.prompter.ConfirmAction(fmt.Sprintf("%d statements", len(statements)), a.db.Name) {
		fmt.Println("Operation cancelled.")
		return
	}

	result, err := a.db.ApplyDDL(statements)
	if err != nil {
		fmt.Printf("Schema change failed: %v\n", err)
		return
	}
	fmt.Printf("Applied %d statements.\n", result.NumSuccessfulStatements)
}

func (a *Application) applyStatement() {
	statement, err := a.prompter.ReadLine("DDL statement")
	if err != nil || statement == "" {
		fmt.Println("No statement entered.")
		return
	}

	result, err := a.db.ApplyDDL([]string{statement})
	if err != nil {
		fmt.Printf("Schema change failed: %v\n", err)
		return
	}
	fmt.Printf("Applied %d statement(s).\n", result.NumSuccessfulStatements)
}

package interactive

import (
	"bufio"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Prompter drives the numbered-menu prompts of the interactive workflow.
type Prompter struct {
	reader *bufio.Reader
}

func NewPrompter(in io.Reader) *Prompter {
	return &Prompter{reader: bufio.NewReader(in)}
}

// Select prints a numbered menu and returns the chosen index.
func (p *Prompter) Select(title string, options []string) (int, error) {
	if len(options) == 0 {
		return 0, fmt.Errorf("no options to select from")
	}

	fmt.Println()
	fmt.Println(title)
	fmt.Println(strings.Repeat("=", len(title)))
	for i, option := range options {
		fmt.Printf("%d. %s\n", i+1, option)
	}

	for {
		fmt.Printf("\nSelect an option (1-%d): ", len(options))

		input, err := p.reader.ReadString('\n')
		if err != nil {
			return 0, fmt.Errorf("unable to read input: %w", err)
		}

		input = strings.TrimSpace(input)
		if input == "" {
			fmt.Println("Please enter a number.")
			continue
		}

		choice, err := strconv.Atoi(input)
		if err != nil {
			fmt.Println("Please enter a valid number.")
			continue
		}
		if choice < 1 || choice > len(options) {
			fmt.Printf("Please select a number between 1 and %d.\n", len(options))
			continue
		}
		return choice - 1, nil
	}
}

// ReadLine prompts for a free-form value.
func (p *Prompter) ReadLine(prompt string) (string, error) {
	fmt.Printf("%s: ", prompt)
	input, err := p.reader.ReadString('\n')
	if err != nil {
		return "", fmt.Errorf("unable to read input: %w", err)
	}
	return strings.TrimSpace(input), nil
}

// ConfirmAction asks for a yes/no confirmation, defaulting to no.
func (p *Prompter) ConfirmAction(action, target string) bool {
	fmt.Printf("\nConfirm running %s for %s (y/N): ", action, target)

	input, err := p.reader.ReadString('\n')
	if err != nil {
		return false
	}

	input = strings.ToLower(strings.TrimSpace(input))
	return input == "y" || input == "yes"
}

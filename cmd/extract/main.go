// Command extract runs the question extraction pipeline over a text file
// (or stdin) and prints the questions as JSON.
package main

import (
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"os"

	"github.com/GajendraSingh33/smart-prep/internal/extraction"
	"github.com/GajendraSingh33/smart-prep/internal/models"
)

func main() {
	input := flag.String("input", "-", "text file to read, - for stdin")
	output := flag.String("output", "", "file to write, stdout when empty")
	flag.Parse()

	if err := run(*input, *output, os.Stdin, os.Stdout); err != nil {
		fmt.Fprintln(os.Stderr, "extract:", err)
		os.Exit(1)
	}
}

func run(input, output string, stdin io.Reader, stdout io.Writer) error {
	raw, err := readInput(input, stdin)
	if err != nil {
		return err
	}

	questions := extraction.Extract(string(raw))

	var w io.Writer = stdout
	if output != "" {
		f, err := os.Create(output)
		if err != nil {
			return fmt.Errorf("create output: %w", err)
		}
		defer f.Close()
		w = f
	}
	return writeQuestions(w, questions)
}

func readInput(input string, stdin io.Reader) ([]byte, error) {
	if input == "" || input == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return nil, fmt.Errorf("read stdin: %w", err)
		}
		return data, nil
	}
	data, err := os.ReadFile(input)
	if err != nil {
		return nil, fmt.Errorf("read input: %w", err)
	}
	return data, nil
}

func writeQuestions(w io.Writer, questions []models.Question) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(questions); err != nil {
		return fmt.Errorf("write output: %w", err)
	}
	return nil
}

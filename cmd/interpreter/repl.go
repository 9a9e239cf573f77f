package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mattn/go-isatty"
	"github.com/tailored-agentic-units/interpreter/engine"
)

const (
	banner  = "Type 'exit' to quit."
	prompt  = "You: "
	goodbye = "Goodbye."
)

func isTerminal() bool {
	fd := os.Stdin.Fd()
	return isatty.IsTerminal(fd) || isatty.IsCygwinTerminal(fd)
}

// runREPL feeds trimmed lines from in to the engine until "exit", EOF or
// cancellation. The banner and prompt are only written for terminals.
func runREPL(ctx context.Context, e *engine.Engine, in io.Reader, out io.Writer, interactive bool) error {
	if interactive {
		fmt.Fprintln(out, banner)
	}

	scanner := bufio.NewScanner(in)
	for {
		if interactive {
			fmt.Fprint(out, prompt)
		}
		if !scanner.Scan() {
			return scanner.Err()
		}
		if err := ctx.Err(); err != nil {
			return nil
		}

		line := strings.TrimSpace(scanner.Text())
		if strings.EqualFold(line, "exit") {
			fmt.Fprintln(out, goodbye)
			return nil
		}
		if line == "" {
			continue
		}

		fmt.Fprintln(out, e.Handle(ctx, line))
	}
}

// Command pikabattle asks two trainers for a battle strategy and prints
// the battle between their Pikachus.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"

	"github.com/ericogr/pikabattle/internal/config"
	"github.com/ericogr/pikabattle/internal/engine"
	"github.com/ericogr/pikabattle/internal/game"
	"github.com/ericogr/pikabattle/internal/logging"
	"github.com/ericogr/pikabattle/internal/service"
)

func main() {
	e, err := config.ParseEnv()
	if err != nil {
		logging.Fatal("Missing or invalid configuration", err, nil)
	}
	logging.SetLevel(logging.ParseLevel(e.LogLevel))

	runner, _, err := service.Bootstrap(e)
	if err != nil {
		logging.Fatal("Failed to initialize battle runner", err, logging.Fields{"config_path": e.ConfigPath})
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()
	if err := run(ctx, os.Stdin, os.Stdout, runner); err != nil {
		logging.Fatal("Battle failed", err, nil)
	}
}

type battleRunner interface {
	Run(ctx context.Context, req service.BattleRequest, observer engine.Observer) (*service.BattleResult, error)
}

// readStrategy prompts for one line. End of input yields an empty
// strategy, which selects the default.
func readStrategy(in *bufio.Reader, out io.Writer, trainer int, name string) (string, error) {
	fmt.Fprintf(out, "Trainer %d, enter battle strategy for %s: ", trainer, name)
	line, err := in.ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("read strategy for %s: %w", name, err)
	}
	return strings.TrimSpace(line), nil
}

func printEntry(out io.Writer, e game.LogEntry) {
	if e.Kind == game.LogSystem && strings.HasPrefix(e.Text, "--- Round") {
		fmt.Fprintln(out)
	}
	fmt.Fprintln(out, e.Text)
}

func run(ctx context.Context, stdin io.Reader, out io.Writer, runner battleRunner) error {
	in := bufio.NewReader(stdin)
	s1, err := readStrategy(in, out, 1, "Pikachu1")
	if err != nil {
		return err
	}
	s2, err := readStrategy(in, out, 2, "Pikachu2")
	if err != nil {
		return err
	}
	fmt.Fprintln(out)

	_, err = runner.Run(ctx, service.BattleRequest{Strategy1: s1, Strategy2: s2}, func(e game.LogEntry) {
		printEntry(out, e)
	})
	return err
}

// Command example runs one damage calculation and prints its description.
// Without -request it runs the built-in Gengar vs. Chansey matchup.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/okian/pokecalc/internal/domain/calc"
	"github.com/okian/pokecalc/internal/domain/model"
	"github.com/okian/pokecalc/internal/invoker"
	"github.com/okian/pokecalc/pkg/logger"
)

func main() {
	var (
		gen      = flag.Int("gen", invoker.DefaultGeneration, "Ruleset version (5-9)")
		reqFile  = flag.String("request", "", "JSON request file to calculate instead of the example")
		asJSON   = flag.Bool("json", false, "Print the full result as JSON")
		logLevel = flag.String("log-level", "warn", "Log level")
	)
	flag.Parse()

	if err := logger.Init(logger.WithWriter(os.Stderr)); err != nil {
		fmt.Fprintln(os.Stderr, "failed to initialize logging:", err)
		os.Exit(1)
	}
	if err := logger.SetLevelString(*logLevel); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(2)
	}

	res, err := run(context.Background(), *gen, *reqFile)
	if err != nil {
		fmt.Fprintln(os.Stderr, "calculation failed:", err)
		os.Exit(1)
	}

	if *asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		_ = enc.Encode(res)
		return
	}
	fmt.Println(res.Description)
}

func run(ctx context.Context, gen int, reqFile string) (calc.Result, error) {
	inv, err := invoker.New(invoker.WithGeneration(gen))
	if err != nil {
		return calc.Result{}, err
	}
	if reqFile == "" {
		return inv.RunExample(ctx)
	}

	data, err := os.ReadFile(reqFile)
	if err != nil {
		return calc.Result{}, fmt.Errorf("read request: %w", err)
	}
	var req model.Request
	if err := json.Unmarshal(data, &req); err != nil {
		return calc.Result{}, fmt.Errorf("decode request: %w", err)
	}
	return inv.Compute(ctx, req)
}

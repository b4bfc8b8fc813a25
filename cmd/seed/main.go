// Command seed prints the demo fixtures the server loads on start.
package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/pflag"
	"gopkg.in/yaml.v3"

	"taskboard/internal/seed"
)

func main() {
	if err := run(os.Args[1:], os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout io.Writer) error {
	var (
		seedValue uint64
		format    string
		nowFlag   string
	)

	flagSet := pflag.NewFlagSet("seed", pflag.ContinueOnError)
	flagSet.Uint64Var(&seedValue, "seed", 42, "random seed for task generation")
	flagSet.StringVar(&format, "format", "json", "output format: json or yaml")
	flagSet.StringVar(&nowFlag, "now", "", "reference time in RFC3339 (default: current time)")

	if err := flagSet.Parse(args); err != nil {
		if err == pflag.ErrHelp {
			return nil
		}
		return err
	}
	if rest := flagSet.Args(); len(rest) > 0 {
		return fmt.Errorf("unexpected argument: %s", rest[0])
	}

	now := time.Now()
	if nowFlag != "" {
		t, err := time.Parse(time.RFC3339, nowFlag)
		if err != nil {
			return fmt.Errorf("invalid --now: %w", err)
		}
		now = t
	}

	f, err := seed.Build(seedValue, now, seed.Roster())
	if err != nil {
		return err
	}

	switch format {
	case "json":
		enc := json.NewEncoder(stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(f)
	case "yaml":
		enc := yaml.NewEncoder(stdout)
		enc.SetIndent(2)
		defer enc.Close()
		return enc.Encode(f)
	default:
		return fmt.Errorf("unknown --format %q (want json or yaml)", format)
	}
}

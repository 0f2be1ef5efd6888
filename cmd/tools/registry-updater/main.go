// cmd/tools/registry-updater/main.go
package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/urfave/cli/v3"

	"github.com/DWS-OmarMoreno/alfix-services/internal/common/config"
	ccs "github.com/DWS-OmarMoreno/alfix-services/internal/workers/credit/calculate-credit-score"
	"github.com/DWS-OmarMoreno/alfix-services/pkg/registry"
)

const defaultRegistryPath = "configs/activity-registry.json"

func main() {
	if err := newCommand(os.Stdout).Run(context.Background(), os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "registry-updater: %v\n", err)
		os.Exit(1)
	}
}

func pathFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:  "path",
		Usage: "Path to registry file",
		Value: defaultRegistryPath,
	}
}

func newCommand(out io.Writer) *cli.Command {
	return &cli.Command{
		Name:   "registry-updater",
		Usage:  "Keep the activity registry in step with the implemented workers",
		Writer: out,
		Commands: []*cli.Command{
			{
				Name:  "sync",
				Usage: "Write the current description of every worker into the registry",
				Flags: []cli.Flag{pathFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					path := cmd.String("path")
					reg, err := registry.LoadOrCreate(path)
					if err != nil {
						return fmt.Errorf("failed to load registry: %w", err)
					}

					workerCfg := ccs.LoadConfig(&config.Config{})
					if !reg.Upsert(ccs.Activity(workerCfg)) {
						fmt.Fprintf(out, "%s is up to date\n", path)
						return nil
					}
					if err := reg.Validate(); err != nil {
						return err
					}
					if err := reg.Save(path); err != nil {
						return err
					}
					fmt.Fprintf(out, "updated %s (%d activities)\n", path, len(reg.Activities))
					return nil
				},
			},
			{
				Name:  "validate",
				Usage: "Validate the registry file",
				Flags: []cli.Flag{pathFlag()},
				Action: func(ctx context.Context, cmd *cli.Command) error {
					reg, err := registry.LoadRegistry(cmd.String("path"))
					if err != nil {
						return fmt.Errorf("failed to load registry: %w", err)
					}
					if err := reg.Validate(); err != nil {
						return err
					}
					fmt.Fprintf(out, "Registry validation passed. Found %d activities.\n", len(reg.Activities))
					return nil
				},
			},
		},
	}
}

package maincmd

import (
	"context"
	"fmt"
	"os"

	"github.com/mna/mainer"

	"github.com/mna/neodec/decompile"
)

func (c *Cmd) Decompile(ctx context.Context, stdio mainer.Stdio, args []string) error {
	return DecompileFiles(ctx, stdio, c.Manifest, c.VerifyChecksum, args...)
}

// DecompileFiles runs the pipeline over each NEF path in turn, sharing
// the same manifest document (if any) across all of them, and prints
// each contract's rendered pseudocode to stdout.
func DecompileFiles(ctx context.Context, stdio mainer.Stdio, manifestPath string, verifyChecksum bool, nefPaths ...string) error {
	var manifestData []byte
	if manifestPath != "" {
		data, err := os.ReadFile(manifestPath)
		if err != nil {
			return printError(stdio, fmt.Errorf("reading manifest: %w", err))
		}
		manifestData = data
	}

	var firstErr error
	for _, path := range nefPaths {
		if ctx.Err() != nil {
			return ctx.Err()
		}

		nefData, err := os.ReadFile(path)
		if err != nil {
			printError(stdio, fmt.Errorf("reading %s: %w", path, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		contract, err := decompile.Decompile(decompile.Options{
			NEF:            nefData,
			Manifest:       manifestData,
			VerifyChecksum: verifyChecksum,
		})
		if err != nil {
			printError(stdio, fmt.Errorf("decompiling %s: %w", path, err))
			if firstErr == nil {
				firstErr = err
			}
			continue
		}

		fmt.Fprintln(stdio.Stdout, contract.Pseudocode)
		for _, fn := range contract.Functions {
			for _, w := range fn.Warnings {
				fmt.Fprintf(stdio.Stderr, "%s: %s\n", path, w)
			}
		}
	}
	return firstErr
}

package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/joseph-ayodele/furniture-charges/internal/charges"
	"github.com/joseph-ayodele/furniture-charges/internal/export"
)

var (
	calcMonths int
	calcOut    string
	calcSave   bool
)

var calcCmd = &cobra.Command{
	Use:   "calc <file>...",
	Short: "Extract, classify and price one or more inventory files",
	Long: `Reads .xls, .xlsx or .docx inventories, prints the charges table and totals
for each, and optionally writes a results workbook or PDF (--out, single file only).`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCalc,
}

func init() {
	calcCmd.Flags().IntVar(&calcMonths, "months", 0, "storage duration in months (default from DEFAULT_STORAGE_MONTHS)")
	calcCmd.Flags().StringVarP(&calcOut, "out", "o", "", "write results to this .xlsx or .pdf file")
	calcCmd.Flags().BoolVar(&calcSave, "save", false, "archive the quote")
}

type calcOutcome struct {
	name string
	res  charges.Result
	warn []string
}

func runCalc(cmd *cobra.Command, args []string) error {
	if calcOut != "" && len(args) > 1 {
		return errors.New("--out needs exactly one input file")
	}
	ctx := cmd.Context()
	a, err := newApp(ctx, calcMonths)
	if err != nil {
		return err
	}
	defer a.close()
	if calcSave && a.quotes() == nil {
		return errors.New("--save needs DB_URL, SQLITE_PATH or --inmem")
	}

	outcomes := make([]calcOutcome, len(args))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.cfg.Worker.Workers)
	for i, path := range args {
		i, path := i, path
		g.Go(func() error {
			pr, err := a.processor.ProcessPath(gctx, path)
			if err != nil {
				return fmt.Errorf("%s: %w", path, err)
			}
			res := a.processor.Calculate(gctx, pr.Items)
			outcomes[i] = calcOutcome{name: pr.Filename, res: res, warn: pr.Warnings}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	for _, o := range outcomes {
		for _, msg := range o.warn {
			printError("warning: %s: %s\n", o.name, msg)
		}
		renderResult(w, o.name, o.res)
		if calcSave {
			q, err := a.quotes().Save(ctx, o.name, o.res)
			if err != nil {
				return err
			}
			fmt.Fprintf(w, "Saved quote %s\n", q.ID)
		}
		fmt.Fprintln(w)
	}

	if calcOut == "" {
		return nil
	}
	format, err := export.ParseFormat(strings.TrimPrefix(filepath.Ext(calcOut), "."))
	if err != nil {
		return err
	}
	data, err := a.exporter.Export(ctx, format, outcomes[0].name, outcomes[0].res)
	if err != nil {
		return err
	}
	if err := os.WriteFile(calcOut, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", calcOut, err)
	}
	fmt.Fprintf(w, "Wrote %s\n", calcOut)
	return nil
}

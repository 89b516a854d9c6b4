package cmd

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/solatis/prodrules/internal/catalog"
	"github.com/solatis/prodrules/internal/core/config"
	"github.com/solatis/prodrules/internal/productio"
	"github.com/solatis/prodrules/internal/rules"
	"github.com/solatis/prodrules/internal/types"
)

type applyOptions struct {
	file      string
	fromDB    bool
	typeclass string
	writeBack bool
	trace     bool
}

var (
	applyOpts    applyOptions
	applyRuleset string
	applyWorkers int
	applyOutput  string
)

var applyCmd = &cobra.Command{
	Use:   "apply",
	Short: "Apply a ruleset to products",
	Long: `Apply a ruleset to products read from a document or from the database.

Examples:
  prodrules apply -f products.yaml
  prodrules apply -f products.json --ruleset cascade --output json
  cat products.yaml | prodrules apply --trace --log-level debug
  prodrules apply --from-db --typeclass W600 --write-back`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("ruleset") {
			e.cfg.Ruleset = applyRuleset
		}
		if cmd.Flags().Changed("workers") {
			e.cfg.Workers = applyWorkers
		}
		if cmd.Flags().Changed("output") {
			e.cfg.OutputFormat = applyOutput
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}

		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		return runApply(ctx, e, applyOpts)
	},
}

func init() {
	rootCmd.AddCommand(applyCmd)

	applyCmd.Flags().StringVarP(&applyOpts.file, "file", "f", productio.Stdin, "product document (.yaml, .yml, .json, or - for stdin)")
	applyCmd.Flags().BoolVar(&applyOpts.fromDB, "from-db", false, "read products from the database instead of a document")
	applyCmd.Flags().StringVar(&applyOpts.typeclass, "typeclass", "", "with --from-db, only apply to this typeclass")
	applyCmd.Flags().BoolVar(&applyOpts.writeBack, "write-back", false, "with --from-db, store transformed products")
	applyCmd.Flags().BoolVar(&applyOpts.trace, "trace", false, "log every rule that fires (debug level)")
	applyCmd.Flags().StringVar(&applyRuleset, "ruleset", catalog.DefaultRuleset, fmt.Sprintf("ruleset to apply %v", catalog.Names()))
	applyCmd.Flags().IntVar(&applyWorkers, "workers", rules.DefaultWorkers, "parallel workers for batch application")
	applyCmd.Flags().StringVarP(&applyOutput, "output", "o", config.OutputTable, fmt.Sprintf("output format %v", config.AllOutputs))
}

func runApply(ctx context.Context, e *env, opts applyOptions) error {
	if opts.writeBack && !opts.fromDB {
		return fmt.Errorf("--write-back requires --from-db")
	}

	reg := rules.NewRegistry()
	if err := catalog.Load(e.cfg.Ruleset, reg); err != nil {
		return err
	}
	e.logger.Debug("ruleset loaded", "ruleset", e.cfg.Ruleset, "rules", reg.Len(), "typeclasses", reg.Typeclasses())

	var (
		products []*types.Product
		ids      []types.ProductID
	)

	if opts.fromDB {
		database, st, err := openStore(ctx, e.cfg.DatabaseURL)
		if err != nil {
			return err
		}
		defer database.Close()

		stored, err := st.List(ctx, opts.typeclass)
		if err != nil {
			return err
		}
		for _, sp := range stored {
			products = append(products, sp.Product)
			ids = append(ids, sp.ID)
		}

		results, err := transform(ctx, e, reg, products, opts.trace)
		if err != nil {
			return err
		}

		if opts.writeBack {
			written := 0
			for i, p := range results {
				if p.Equal(products[i]) {
					continue
				}
				if err := st.Replace(ctx, ids[i], p); err != nil {
					return fmt.Errorf("write back %s: %w", ids[i], err)
				}
				written++
			}
			e.logger.Info("products written back", "written", written)
		}

		return writeProducts(e.out, results, e.cfg.OutputFormat)
	}

	products, err := readProducts(opts.file, e.in)
	if err != nil {
		return err
	}

	results, err := transform(ctx, e, reg, products, opts.trace)
	if err != nil {
		return err
	}
	return writeProducts(e.out, results, e.cfg.OutputFormat)
}

// transform applies reg to copies of products. Inputs are left unchanged.
func transform(ctx context.Context, e *env, reg *rules.Registry, products []*types.Product, trace bool) ([]*types.Product, error) {
	var (
		results []*types.Product
		err     error
	)

	if trace {
		results = make([]*types.Product, len(products))
		for i, p := range products {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			out, tr := reg.ApplyRulesTrace(p.Clone())
			for _, f := range tr.Fired {
				e.logger.Debug("rule fired",
					"product", i,
					"typeclass", f.Typeclass,
					"index", f.Index,
					"rule_id", f.RuleID,
					"rule", f.Rule.String())
			}
			e.logger.Debug("product evaluated",
				"product", i,
				"typeclass", tr.Typeclass,
				"evaluated", tr.Evaluated,
				"fired", len(tr.Fired))
			results[i] = out
		}
	} else {
		results, err = reg.ApplyBatch(ctx, products, e.cfg.Workers)
		if err != nil {
			return nil, err
		}
	}

	changed := 0
	for i := range results {
		if !results[i].Equal(products[i]) {
			changed++
		}
	}
	e.logger.Info("rules applied", "ruleset", e.cfg.Ruleset, "products", len(results), "changed", changed)

	return results, nil
}

func readProducts(path string, stdin io.Reader) ([]*types.Product, error) {
	format, err := productio.FormatFromPath(path)
	if err != nil {
		return nil, err
	}

	r := stdin
	if path != productio.Stdin {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		r = f
	}

	products, err := productio.Decode(r, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return products, nil
}

func writeProducts(w io.Writer, products []*types.Product, output string) error {
	switch output {
	case config.OutputTable:
		return productio.RenderTable(w, products)
	case config.OutputJSON:
		return productio.Encode(w, products, productio.FormatJSON)
	case config.OutputYAML:
		return productio.Encode(w, products, productio.FormatYAML)
	default:
		return fmt.Errorf("unsupported output format: %s", output)
	}
}

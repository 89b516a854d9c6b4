package cmd

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/prodrules/internal/core/config"
	"github.com/solatis/prodrules/internal/productio"
	"github.com/solatis/prodrules/internal/types"
)

var (
	importFile         string
	listTypeclass      string
	productsListOutput string
)

var productsCmd = &cobra.Command{
	Use:   "products",
	Short: "Manage stored products",
}

var productsImportCmd = &cobra.Command{
	Use:   "import",
	Short: "Import products from a document into the database",
	Long: `Import products from a YAML or JSON document.

Examples:
  prodrules products import -f products.yaml
  cat products.json | prodrules products import -f -`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		return runProductsImport(cmd.Context(), e, importFile)
	},
}

var productsListCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored products",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("output") {
			e.cfg.OutputFormat = productsListOutput
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		return runProductsList(cmd.Context(), e, listTypeclass)
	},
}

func init() {
	rootCmd.AddCommand(productsCmd)
	productsCmd.AddCommand(productsImportCmd)
	productsCmd.AddCommand(productsListCmd)

	productsImportCmd.Flags().StringVarP(&importFile, "file", "f", "", "product document (.yaml, .yml, .json, or - for stdin)")
	_ = productsImportCmd.MarkFlagRequired("file")

	productsListCmd.Flags().StringVar(&listTypeclass, "typeclass", "", "only list this typeclass")
	productsListCmd.Flags().StringVarP(&productsListOutput, "output", "o", config.OutputTable, fmt.Sprintf("output format %v", config.AllOutputs))
}

func runProductsImport(ctx context.Context, e *env, path string) error {
	products, err := readProducts(path, e.in)
	if err != nil {
		return err
	}

	database, st, err := openStore(ctx, e.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	for i, p := range products {
		id, err := st.Save(ctx, p)
		if err != nil {
			return fmt.Errorf("products[%d]: %w", i, err)
		}
		e.logger.Debug("product imported", "id", id, "typeclass", p.Typeclass())
	}

	fmt.Fprintf(e.out, "Imported %d product(s)\n", len(products))
	return nil
}

func runProductsList(ctx context.Context, e *env, typeclass string) error {
	database, st, err := openStore(ctx, e.cfg.DatabaseURL)
	if err != nil {
		return err
	}
	defer database.Close()

	stored, err := st.List(ctx, typeclass)
	if err != nil {
		return err
	}

	if e.cfg.OutputFormat == config.OutputTable {
		return productio.RenderStored(e.out, stored)
	}

	products := make([]*types.Product, len(stored))
	for i, sp := range stored {
		products[i] = sp.Product
	}
	return writeProducts(e.out, products, e.cfg.OutputFormat)
}

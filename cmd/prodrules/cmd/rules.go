package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/solatis/prodrules/internal/catalog"
	"github.com/solatis/prodrules/internal/productio"
	"github.com/solatis/prodrules/internal/rules"
)

var rulesListRuleset string

var rulesCmd = &cobra.Command{
	Use:   "rules",
	Short: "Inspect rulesets",
}

var rulesListCmd = &cobra.Command{
	Use:   "list",
	Short: "List the rules of a ruleset in evaluation order",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		e, err := setup(cmd)
		if err != nil {
			return err
		}
		if cmd.Flags().Changed("ruleset") {
			e.cfg.Ruleset = rulesListRuleset
		}
		if err := e.cfg.Validate(); err != nil {
			return err
		}
		return runRulesList(e)
	},
}

var rulesSetsCmd = &cobra.Command{
	Use:   "sets",
	Short: "List the available rulesets",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, name := range catalog.Names() {
			fmt.Fprintln(cmd.OutOrStdout(), name)
		}
		return nil
	},
}

func init() {
	rootCmd.AddCommand(rulesCmd)
	rulesCmd.AddCommand(rulesListCmd)
	rulesCmd.AddCommand(rulesSetsCmd)

	rulesListCmd.Flags().StringVar(&rulesListRuleset, "ruleset", catalog.DefaultRuleset, fmt.Sprintf("ruleset to list %v", catalog.Names()))
}

func runRulesList(e *env) error {
	reg := rules.NewRegistry()
	if err := catalog.Load(e.cfg.Ruleset, reg); err != nil {
		return err
	}
	return productio.RenderRules(e.out, reg)
}

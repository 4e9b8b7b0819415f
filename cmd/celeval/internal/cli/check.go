package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	celpkg "github.com/taichimaeda/cel-ts-sub000/cel"
)

func newCheckCmd() *cobra.Command {
	var varFlags []string

	cmd := &cobra.Command{
		Use:   "check [expression]",
		Short: "Parse and type-check a CEL expression without evaluating it",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			vars, err := parseVarFlags(varFlags)
			if err != nil {
				return err
			}

			opts := make([]celpkg.EnvOption, 0, len(vars)+1)
			opts = append(opts, celpkg.Logger(loggerFor(cmd)))
			for name, v := range vars {
				opts = append(opts, celpkg.Variable(name, inferType(v)))
			}
			env, err := celpkg.NewEnv(opts...)
			if err != nil {
				return fmt.Errorf("building environment: %w", err)
			}

			if _, cerr := env.Compile(args[0]); cerr != nil {
				return cerr
			}
			cmd.Println("OK")
			return nil
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().StringArrayVar(&varFlags, FlagVar, nil, "a name=jsonvalue input variable used only to declare its type; may be repeated")
	return cmd
}

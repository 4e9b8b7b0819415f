package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	celpkg "github.com/taichimaeda/cel-ts-sub000/cel"
)

const FlagVar = "var"

func newEvalCmd() *cobra.Command {
	var varFlags []string

	cmd := &cobra.Command{
		Use:   "eval [expression]",
		Short: "Compile and evaluate a CEL expression",
		Args:  cobra.ExactArgs(1),
		Example: strings.TrimSpace(`
celeval eval "1 + 2"
celeval eval --var x=2 "x + 1"
celeval eval --var 'nums=[1,3,4]' "nums.exists(n, n % 2 == 0)"
`),
		RunE: func(cmd *cobra.Command, args []string) error {
			log := loggerFor(cmd)
			vars, err := parseVarFlags(varFlags)
			if err != nil {
				return err
			}

			opts := make([]celpkg.EnvOption, 0, len(vars)+1)
			opts = append(opts, celpkg.Logger(log))
			for name, v := range vars {
				opts = append(opts, celpkg.Variable(name, inferType(v)))
			}
			env, err := celpkg.NewEnv(opts...)
			if err != nil {
				return fmt.Errorf("building environment: %w", err)
			}

			log.V(1).Info("compiling", "expr", args[0])
			ast, cerr := env.Compile(args[0])
			if cerr != nil {
				return cerr
			}

			prog := env.Program(ast)
			log.V(1).Info("evaluating", "vars", vars)
			result, everr := prog.Eval(vars)
			if everr != nil {
				return everr
			}

			cmd.Println(result.String())
			return nil
		},
		DisableAutoGenTag: true,
	}

	cmd.Flags().StringArrayVar(&varFlags, FlagVar, nil, "a name=jsonvalue input variable; may be repeated")
	return cmd
}

package main

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/ports"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/domain/types"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/infrastructure/seed"
	"github.com/Devgupta0/Employee-Org-App/modules/orgchart/services"
	"github.com/Devgupta0/Employee-Org-App/pkg/employeeid"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

type rootOptions struct {
	seedPath     string
	sample       bool
	historyLimit int
	verbose      bool
	logger       *zap.Logger
}

func newRootCmd() *cobra.Command {
	opts := &rootOptions{}
	cmd := &cobra.Command{
		Use:          "orgctl",
		Short:        "Inspect and rearrange an employee org chart.",
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			cfg := zap.NewProductionConfig()
			cfg.OutputPaths = []string{"stderr"}
			if opts.verbose {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			} else {
				cfg.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			}
			logger, err := cfg.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}
	cmd.PersistentFlags().StringVar(&opts.seedPath, "seed", "", "seed YAML file (defaults to ORGCHART_PATH or config/orgchart.yaml)")
	cmd.PersistentFlags().BoolVar(&opts.sample, "sample", false, "use the built-in sample chart instead of a seed file")
	cmd.PersistentFlags().IntVar(&opts.historyLimit, "history-limit", 0, "cap on each undo/redo stack, 0 for none")
	cmd.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "log every applied operation")

	cmd.AddCommand(newTreeCmd(opts), newApplyCmd(opts))
	return cmd
}

func newTreeCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "tree",
		Short: "Print the seeded chart.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			facade, err := opts.facade(cmd.Context())
			if err != nil {
				return err
			}
			printTree(cmd.OutOrStdout(), facade.OrgTree())
			return nil
		},
	}
}

func newApplyCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "apply <op>...",
		Short: "Apply move:<employee>:<supervisor>, undo and redo in order, then print the chart.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ops := make([]operation, 0, len(args))
			for _, arg := range args {
				op, err := parseOperation(arg)
				if err != nil {
					return err
				}
				ops = append(ops, op)
			}
			facade, err := opts.facade(cmd.Context())
			if err != nil {
				return err
			}
			out := cmd.OutOrStdout()
			for _, op := range ops {
				res, err := op.apply(cmd.Context(), facade)
				if err != nil {
					return fmt.Errorf("%s: %w", op.raw, err)
				}
				fmt.Fprintln(out, describe(op, res))
			}
			printTree(out, facade.OrgTree())
			return nil
		},
	}
}

func (o *rootOptions) facade(ctx context.Context) (services.OrgChartFacade, error) {
	var src ports.SeedSource
	switch {
	case o.sample:
		src = seed.StaticSource{Root: seed.Sample()}
	case o.seedPath != "":
		src = seed.FileSource{Path: o.seedPath}
	default:
		fs, err := seed.SourceFromEnv()
		if err != nil {
			return services.OrgChartFacade{}, err
		}
		src = fs
	}
	root, err := src.LoadRoot(ctx)
	if err != nil {
		return services.OrgChartFacade{}, err
	}
	tree, err := services.NewOrgTree(root, services.Options{HistoryLimit: o.historyLimit})
	if err != nil {
		return services.OrgChartFacade{}, err
	}
	return services.NewOrgChartFacade(tree, o.logger), nil
}

type operation struct {
	raw          string
	kind         types.OperationKind
	employeeID   int
	supervisorID int
}

func parseOperation(raw string) (operation, error) {
	parts := strings.Split(strings.TrimSpace(raw), ":")
	switch strings.ToLower(parts[0]) {
	case "move":
		if len(parts) != 3 {
			return operation{}, fmt.Errorf("%q: want move:<employee>:<supervisor>", raw)
		}
		e, s, err := employeeid.ParsePair(parts[1], parts[2])
		if err != nil {
			return operation{}, fmt.Errorf("%q: %w", raw, err)
		}
		return operation{raw: raw, kind: types.OperationMove, employeeID: e, supervisorID: s}, nil
	case "undo", "redo":
		if len(parts) != 1 {
			return operation{}, fmt.Errorf("%q: %s takes no arguments", raw, parts[0])
		}
		kind := types.OperationUndo
		if strings.EqualFold(parts[0], "redo") {
			kind = types.OperationRedo
		}
		return operation{raw: raw, kind: kind}, nil
	default:
		return operation{}, fmt.Errorf("%q: unknown operation", raw)
	}
}

func (op operation) apply(ctx context.Context, f services.OrgChartFacade) (types.MoveResult, error) {
	switch op.kind {
	case types.OperationMove:
		return f.Move(ctx, services.MoveRequest{EmployeeID: op.employeeID, SupervisorID: op.supervisorID})
	case types.OperationUndo:
		return f.Undo(ctx)
	default:
		return f.Redo(ctx)
	}
}

func describe(op operation, res types.MoveResult) string {
	kind := strings.ToLower(string(op.kind))
	if !res.Applied {
		return kind + ": nothing to " + kind
	}
	return fmt.Sprintf("%s: %d %d -> %d", kind, res.Record.EmployeeID, res.Record.OldSupervisorID, res.Record.NewSupervisorID)
}

func printTree(w io.Writer, tree *services.OrgTree) {
	tree.Walk(func(e types.EmployeeRef, depth int) bool {
		fmt.Fprintf(w, "%s%s (%d)\n", strings.Repeat("  ", depth), e.Name, e.ID)
		return true
	})
}

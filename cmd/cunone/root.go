package main

import (
	"fmt"
	"os"

	"github.com/goccy/go-json"
	"github.com/spf13/cobra"

	"github.com/vasilisp/cunone"
	"github.com/vasilisp/cunone/extra"
	"github.com/vasilisp/cunone/internal/util"
	"github.com/vasilisp/cunone/openai"
	"github.com/vasilisp/cunone/pkg/slicev"
	"github.com/vasilisp/cunone/predicates"
)

const defaultPredicate = "positive"

func newRootCmd() *cobra.Command {
	var quiet bool

	rootCmd := &cobra.Command{
		Use:          "cunone",
		Short:        "Cumulatively test whether no element satisfies a predicate",
		SilenceUsage: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if quiet {
				util.Quiet()
			}
		},
	}

	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "discard diagnostics")

	rootCmd.AddCommand(newScanCmd(), newPredicatesCmd(), newSchemaCmd(), newJudgeCmd())

	return rootCmd
}

// tally is the execution context of a CLI scan.
type tally struct {
	calls int
}

func newScanCmd() *cobra.Command {
	var format string
	var predicate string
	var offset int
	var stride int
	var accessor bool
	var verbose bool

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "Scan a JSON or YAML document, reading stdin without a file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in := cmd.InOrStdin()
			path := ""
			if len(args) == 1 {
				path = args[0]
				f, err := os.Open(path)
				if err != nil {
					return err
				}
				defer f.Close()
				in = f
			}

			docFormat, err := formatFor(format, path)
			if err != nil {
				return err
			}

			doc, err := decodeDocument(in, docFormat)
			if err != nil {
				return err
			}

			if cmd.Flags().Changed("predicate") || doc.Predicate == "" {
				doc.Predicate = predicate
			}
			if cmd.Flags().Changed("offset") {
				doc.Offset = &offset
			}
			if cmd.Flags().Changed("stride") {
				doc.Stride = &stride
			}

			out, calls, err := scanDocument(doc, accessor)
			if err != nil {
				return err
			}

			if verbose {
				util.Log.Printf("%s: predicate invoked for %d of %d elements", doc.Predicate, calls, len(doc.Values))
			}

			return json.NewEncoder(cmd.OutOrStdout()).Encode(out)
		},
	}

	cmd.Flags().StringVar(&format, "format", "auto", "document format: json, yaml or auto")
	cmd.Flags().StringVarP(&predicate, "predicate", "p", defaultPredicate, "predicate name, see the predicates command")
	cmd.Flags().IntVar(&offset, "offset", 0, "first visited index")
	cmd.Flags().IntVar(&stride, "stride", 1, "distance between visited indices")
	cmd.Flags().BoolVar(&accessor, "accessor", false, "read values through an accessor array")
	cmd.Flags().BoolVarP(&verbose, "verbose", "v", false, "log predicate invocations")

	return cmd
}

func scanDocument(doc Document, accessor bool) ([]bool, int, error) {
	predicate, err := predicates.Lookup(doc.Predicate)
	if err != nil {
		return nil, 0, err
	}

	x := cunone.FromSlice(doc.Values)
	if accessor {
		x = cunone.FromAccessor[any](slicev.NewRW(doc.Values))
	}

	var opts []cunone.Option
	if doc.Offset != nil {
		opts = append(opts, cunone.WithOffset(*doc.Offset))
	}
	if doc.Stride != nil {
		opts = append(opts, cunone.WithStride(*doc.Stride))
	}

	counts := &tally{}
	out, err := cunone.ScanContext(x, func(t *tally, v any, i int, x cunone.Array[any]) bool {
		t.calls++
		return predicate(v, i, x)
	}, counts, opts...)
	if err != nil {
		return nil, 0, err
	}

	return out, counts.calls, nil
}

func newPredicatesCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "predicates",
		Short: "List the registered predicates",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			w := cmd.OutOrStdout()
			for _, name := range predicates.Names() {
				entry, _ := predicates.Describe(name)

				usage := name
				if entry.Argument != "" {
					usage = fmt.Sprintf("%s:<%s>", name, entry.Argument)
				}

				if _, err := fmt.Fprintf(w, "%-22s %s\n", usage, entry.Doc); err != nil {
					return err
				}
			}
			return nil
		},
	}
}

func newSchemaCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "schema",
		Short: "Print the JSON Schema of the scan document",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			b, err := documentSchema()
			if err != nil {
				return err
			}

			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(b))
			return err
		},
	}
}

func newJudgeCmd() *cobra.Command {
	var criterion string
	var model string
	var retries int
	var backward bool

	cmd := &cobra.Command{
		Use:   "judge",
		Short: "Ask an OpenAI model, line by line from stdin, whether no line so far meets a criterion",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			apiKey := openai.APIKeyFromEnv()
			if apiKey == "" {
				return fmt.Errorf("OPENAI_API_KEY is not set")
			}

			modelID, err := openai.ParseChatModel(model)
			if err != nil {
				return err
			}

			lines, err := extra.ReadLines(cmd.InOrStdin())
			if err != nil {
				return err
			}

			judge := openai.NewJudge(cmd.Context(), openai.NewModel(modelID, apiKey), criterion, retries)

			stride := 1
			if backward {
				stride = -1
			}

			out, err := cunone.ScanContext(cunone.FromSlice(lines), (*openai.Judge).Test, judge, cunone.WithStride(stride))
			if err != nil {
				return err
			}

			if err := extra.Report(cmd.OutOrStdout(), lines, out); err != nil {
				return err
			}

			util.Log.Printf("judge: %d model calls for %d lines", judge.Calls, len(lines))

			return judge.Err
		},
	}

	cmd.Flags().StringVarP(&criterion, "criterion", "c", "", "natural language criterion")
	cmd.Flags().StringVar(&model, "model", "gpt-4o-mini", "chat model: gpt-4o or gpt-4o-mini")
	cmd.Flags().IntVar(&retries, "retries", 3, "attempts per line")
	cmd.Flags().BoolVar(&backward, "backward", false, "visit lines from last to first")
	_ = cmd.MarkFlagRequired("criterion")

	return cmd
}

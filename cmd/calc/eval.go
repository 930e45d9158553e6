package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/pkg/errors"
	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"

	"github.com/zephyrtronium/calc"
)

// result is the outcome of evaluating one expression.
type result struct {
	Expression string   `json:"expression" yaml:"expression"`
	Postfix    string   `json:"postfix,omitempty" yaml:"postfix,omitempty"`
	Value      *float64 `json:"value,omitempty" yaml:"value,omitempty"`
	Error      string   `json:"error,omitempty" yaml:"error,omitempty"`
}

type evalOptions struct {
	validation string
	format     string
	verb       string
	postfix    bool
}

func newEvalCmd(root *rootOptions) *cobra.Command {
	var opts evalOptions
	cmd := &cobra.Command{
		Use:   "eval [expression...]",
		Short: "Evaluate expressions given as arguments or as lines on stdin",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := root.config()
			if err != nil {
				return err
			}
			if opts.validation != "" {
				cfg.Eval.Validation = opts.validation
			}
			mode, err := cfg.Validation()
			if err != nil {
				return err
			}

			srcs := args
			if len(srcs) == 0 {
				srcs, err = readLines(cmd.InOrStdin())
				if err != nil {
					return err
				}
			}
			results := evalAll(srcs, mode, opts.postfix)
			if err := writeResults(cmd.OutOrStdout(), results, opts); err != nil {
				return err
			}
			failed := 0
			for _, r := range results {
				if r.Value == nil {
					failed++
				}
			}
			if failed > 0 {
				return errors.Errorf("%d of %d expressions failed", failed, len(results))
			}
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.validation, "validation", "", "validation mode: grouped, strict, or charset (default from config)")
	cmd.Flags().StringVar(&opts.format, "format", "text", "output format: text, json, or yaml")
	cmd.Flags().StringVar(&opts.verb, "fmt", "%g", "result formatting verb for text output")
	cmd.Flags().BoolVar(&opts.postfix, "postfix", false, "also print each expression in postfix form")
	return cmd
}

// readLines returns the non-blank lines of r with surrounding space removed.
func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	for sc.Scan() {
		if l := strings.TrimSpace(sc.Text()); l != "" {
			lines = append(lines, l)
		}
	}
	return lines, errors.Wrap(sc.Err(), "reading expressions")
}

func evalAll(srcs []string, mode calc.ValidationMode, postfix bool) []result {
	results := make([]result, 0, len(srcs))
	for _, src := range srcs {
		r := result{Expression: src}
		a, err := calc.Parse(src, calc.Validation(mode))
		if err != nil {
			r.Error = err.Error()
			results = append(results, r)
			continue
		}
		if postfix {
			r.Postfix = a.String()
		}
		v, err := a.Eval()
		if err != nil {
			r.Error = err.Error()
		} else {
			r.Value = &v
		}
		results = append(results, r)
	}
	return results
}

func writeResults(w io.Writer, results []result, opts evalOptions) error {
	switch opts.format {
	case "text":
		verb := opts.verb + "\n"
		for _, r := range results {
			if opts.postfix && r.Postfix != "" {
				fmt.Fprintf(w, "%s : ", r.Postfix)
			}
			if r.Value == nil {
				fmt.Fprintln(w, r.Error)
				continue
			}
			fmt.Fprintf(w, verb, *r.Value)
		}
		return nil
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(results), "writing json")
	case "yaml":
		enc := yaml.NewEncoder(w)
		enc.SetIndent(2)
		if err := enc.Encode(results); err != nil {
			return errors.Wrap(err, "writing yaml")
		}
		return errors.Wrap(enc.Close(), "writing yaml")
	default:
		return errors.Errorf("unknown output format %q", opts.format)
	}
}

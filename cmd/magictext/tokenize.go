package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/nullprose/magictext/internal/shatter"
)

var (
	tokenizeStrategy          string
	tokenizeRegexPattern      string
	tokenizeIgnoreEmptyTokens bool
	tokenizeIgnoreLineEnds    bool
	tokenizeIgnoreEmptyLines  bool
)

func init() {
	tokenizeCmd.Flags().StringVar(&tokenizeStrategy, "strategy", "whitespace", "Line shatter strategy: whitespace, character, wholeline, regex")
	tokenizeCmd.Flags().StringVar(&tokenizeRegexPattern, "pattern", "", "Regex pattern, required when --strategy=regex")
	tokenizeCmd.Flags().BoolVar(&tokenizeIgnoreEmptyTokens, "ignore-empty-tokens", false, "Drop null/empty tokens from the output")
	tokenizeCmd.Flags().BoolVar(&tokenizeIgnoreLineEnds, "ignore-line-ends", false, "Suppress the synthetic line-end token between lines")
	tokenizeCmd.Flags().BoolVar(&tokenizeIgnoreEmptyLines, "ignore-empty-lines", false, "Suppress empty-line markers entirely")
}

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [file]",
	Short: "Shatter a file or stdin into tokens and print them",
	Long:  "Runs the line-oriented tokenizer over a file (or stdin, if no file is given) and prints one token per line.",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		strategy, err := resolveStrategy(tokenizeStrategy, tokenizeRegexPattern)
		if err != nil {
			return err
		}

		r, closeFn, err := openInput(args)
		if err != nil {
			return err
		}
		defer closeFn()

		tz := shatter.New(strategy)
		opts := shatter.DefaultOptions()
		opts.IgnoreEmptyTokens = tokenizeIgnoreEmptyTokens
		opts.IgnoreLineEnds = tokenizeIgnoreLineEnds
		opts.IgnoreEmptyLines = tokenizeIgnoreEmptyLines

		var shatterErr error
		for tok := range tz.ShatterErr(r, &opts, &shatterErr) {
			if tok.IsNull() {
				fmt.Println("<null>")
				continue
			}
			fmt.Println(tok.String())
		}
		return shatterErr
	},
}

func resolveStrategy(name, pattern string) (shatter.LineShatterer, error) {
	switch name {
	case "whitespace":
		return shatter.WhitespaceStrategy{}, nil
	case "character":
		return shatter.CharacterStrategy{}, nil
	case "wholeline":
		return shatter.WholeLineStrategy{}, nil
	case "regex":
		if pattern == "" {
			return nil, fmt.Errorf("--pattern is required when --strategy=regex")
		}
		return shatter.NewRegexStrategy(pattern)
	default:
		return nil, fmt.Errorf("unknown strategy %q, want whitespace, character, wholeline, or regex", name)
	}
}

func openInput(args []string) (io.Reader, func(), error) {
	if len(args) == 0 {
		return os.Stdin, func() {}, nil
	}
	f, err := os.Open(args[0])
	if err != nil {
		return nil, nil, fmt.Errorf("failed to open %s: %w", args[0], err)
	}
	return f, func() { f.Close() }, nil
}

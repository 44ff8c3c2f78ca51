package main

import (
	"fmt"
	"os"
	"strconv"

	"github.com/AlecAivazis/survey/v2"
	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/nullprose/magictext/internal/pen"
	"github.com/nullprose/magictext/internal/picker"
	"github.com/nullprose/magictext/internal/shatter"
	"github.com/nullprose/magictext/internal/token"
)

var (
	renderStrategy string
	renderComparer string
	renderSentinel string
	renderN        int
	renderSeed     int64
	renderNoColor  bool
)

func init() {
	renderCmd.Flags().StringVar(&renderStrategy, "strategy", "whitespace", "Line shatter strategy: whitespace, character, wholeline")
	renderCmd.Flags().StringVar(&renderComparer, "comparer", "", "Token comparer: ordinal, ordinal-ignore-case, invariant, invariant-ignore-case")
	renderCmd.Flags().StringVar(&renderSentinel, "sentinel", "", "Sentinel token string (empty means no sentinel)")
	renderCmd.Flags().IntVar(&renderN, "n", 0, "Number of most recent tokens each render step matches against (does not limit output length)")
	renderCmd.Flags().Int64Var(&renderSeed, "seed", 1, "Seed for the render's random picker")
	renderCmd.Flags().BoolVar(&renderNoColor, "no-color", false, "Disable highlighting of sentinel and line-end tokens")
}

var renderCmd = &cobra.Command{
	Use:   "render <file>",
	Short: "Build a Pen from a file and render text from it",
	Long:  "Shatters a file into a corpus, indexes it, and renders with a seeded picker, each step matching the last n rendered tokens, until the render terminates. Prompts interactively for any of comparer, sentinel, or n left unset.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("failed to open %s: %w", args[0], err)
		}
		defer f.Close()

		strategy, err := resolveStrategy(renderStrategy, "")
		if err != nil {
			return err
		}

		if err := promptRenderOptions(); err != nil {
			return err
		}

		cmp, ok := token.ByName(renderComparer)
		if !ok {
			return fmt.Errorf("unknown comparer %q", renderComparer)
		}

		tz := shatter.New(strategy)
		opts := shatter.DefaultOptions()
		var corpus []token.Token
		for tok := range tz.Shatter(f, &opts) {
			corpus = append(corpus, tok)
		}

		var penOpts []pen.Option
		if renderSentinel != "" {
			penOpts = append(penOpts, pen.WithSentinel(token.Of(renderSentinel)))
		}
		p := pen.NewPen(corpus, cmp, penOpts...)

		printRendered(p, renderN, picker.Seeded(renderSeed))
		return nil
	},
}

func promptRenderOptions() error {
	if renderComparer == "" {
		prompt := &survey.Select{
			Message: "Token comparer:",
			Options: []string{token.Ordinal, token.OrdinalIgnoreCase, token.Invariant, token.InvariantIgnoreCase},
			Default: token.Ordinal,
		}
		if err := survey.AskOne(prompt, &renderComparer); err != nil {
			return err
		}
	}

	if renderSentinel == "" {
		prompt := &survey.Input{
			Message: "Sentinel token (blank for none):",
		}
		if err := survey.AskOne(prompt, &renderSentinel); err != nil {
			return err
		}
	}

	if renderN == 0 {
		var nStr string
		prompt := &survey.Input{
			Message: "Number of recent tokens to match (n):",
			Default: "20",
		}
		if err := survey.AskOne(prompt, &nStr, survey.WithValidator(survey.Required)); err != nil {
			return err
		}
		n, err := strconv.Atoi(nStr)
		if err != nil {
			return fmt.Errorf("n must be an integer: %w", err)
		}
		renderN = n
	}

	return nil
}

func printRendered(p *pen.Pen, n int, pick pen.Picker) {
	sentinelColor := color.New(color.FgYellow, color.Bold)
	lineEndColor := color.New(color.FgCyan)
	if renderNoColor {
		sentinelColor.DisableColor()
		lineEndColor.DisableColor()
	}

	sentinel, hasSentinel := p.Sentinel()
	lineEnd := shatter.DefaultOptions().LineEndToken.String()

	for tok := range p.Render(n, pick) {
		switch {
		case tok.IsNull():
			fmt.Print(lineEndColor.Sprint("<null>") + " ")
		case tok.String() == lineEnd:
			fmt.Print(lineEndColor.Sprint(tok.String()) + " ")
		case hasSentinel && !sentinel.IsNull() && tok.String() == sentinel.String():
			fmt.Print(sentinelColor.Sprint(tok.String()) + " ")
		default:
			fmt.Print(tok.String() + " ")
		}
	}
	fmt.Println()
}

package main

import (
	"context"
	"fmt"
	"os"

	"github.com/segmentio/encoding/json"
	"github.com/spf13/cobra"

	"github.com/nullprose/magictext/internal/config"
	"github.com/nullprose/magictext/internal/token"
)

var (
	storeDriver   string
	storeDSN      string
	storeComparer string
)

func init() {
	storeCmd.PersistentFlags().StringVar(&storeDriver, "driver", "sqlite", "Store driver: postgres or sqlite")
	storeCmd.PersistentFlags().StringVar(&storeDSN, "dsn", "magictext.db", "Store connection string or file path")

	inspectCmd.Flags().StringVar(&storeComparer, "comparer", "ordinal", "Comparer to rebuild the Pen with: must match the one it was saved with")
	storeCmd.AddCommand(inspectCmd)
	storeCmd.AddCommand(deleteCmd)
}

var storeCmd = &cobra.Command{
	Use:   "store",
	Short: "Inspect or manage a persisted Pen",
}

var inspectCmd = &cobra.Command{
	Use:   "inspect <id>",
	Short: "Load a persisted Pen and print its corpus, positions, and sentinel",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		cmp, ok := token.ByName(storeComparer)
		if !ok {
			return fmt.Errorf("unknown comparer %q", storeComparer)
		}

		ctx := context.Background()
		pstore, err := openStore(ctx, config.StoreConfig{Driver: storeDriver, DSN: storeDSN})
		if err != nil {
			return err
		}
		defer pstore.Close()

		p, err := pstore.Load(ctx, id, cmp)
		if err != nil {
			return fmt.Errorf("failed to load %q: %w", id, err)
		}

		corpus := make([]*string, p.Len())
		for i, tok := range p.Corpus() {
			if tok.IsNull() {
				continue
			}
			s := tok.String()
			corpus[i] = &s
		}

		out := map[string]any{
			"id":        id,
			"len":       p.Len(),
			"comparer":  p.Comparer().Name(),
			"positions": p.Positions(),
			"corpus":    corpus,
		}
		if sentinel, ok := p.Sentinel(); ok {
			out["sentinel"] = sentinel.String()
		}

		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(out)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a persisted Pen by id",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		id := args[0]

		ctx := context.Background()
		pstore, err := openStore(ctx, config.StoreConfig{Driver: storeDriver, DSN: storeDSN})
		if err != nil {
			return err
		}
		defer pstore.Close()

		if err := pstore.Delete(ctx, id); err != nil {
			return fmt.Errorf("failed to delete %q: %w", id, err)
		}
		fmt.Printf("deleted %s\n", id)
		return nil
	},
}

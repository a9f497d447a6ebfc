package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var seedOwner string

var seedCmd = &cobra.Command{
	Use:   "seed [file.json]",
	Short: "Import records into the record store",
	Long: `Reads a JSON array of records and saves them for --owner.

Each record needs a type and the columns of that type under "fields":

  [
    {"type": "contact", "fields": {"name": "Acme Corp", "email": "ap@acme.example"}},
    {"type": "billing_record", "createdAt": "2024-03-01T00:00:00Z",
     "fields": {"title": "Invoice ACM-001", "vendor": "Acme Corp"}}
  ]

Use "-" to read from stdin. Records without an id get one; records without
createdAt are stamped with the current time.`,
	Args: cobra.ExactArgs(1),
	RunE: runSeed,
}

func init() {
	seedCmd.Flags().StringVar(&seedOwner, "owner", "", "owner assigned to records that lack one (required)")
	rootCmd.AddCommand(seedCmd)
}

func runSeed(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	var r io.Reader = cmd.InOrStdin()
	if args[0] != "-" {
		f, err := os.Open(args[0])
		if err != nil {
			return fmt.Errorf("opening %s: %w", args[0], err)
		}
		defer f.Close()
		r = f
	}

	var records []domain.Record
	if err := json.NewDecoder(r).Decode(&records); err != nil {
		return fmt.Errorf("decoding records: %w", err)
	}

	result, err := recordService.Import(cmd.Context(), seedOwner, records)
	if err != nil {
		return fmt.Errorf("import failed: %w", err)
	}

	cmd.Printf("Imported %d records\n", result.Imported)
	for _, t := range domain.AllRecordTypes() {
		if n := result.ByType[t]; n > 0 {
			cmd.Printf("  %-15s %d\n", t.Description(), n)
		}
	}
	return nil
}

package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/custodia-labs/sercha-federated/internal/core/domain"
)

var (
	searchOwner  string
	searchLimit  int
	searchOffset int
	searchLang   string
	searchTypes  []string
	searchJSON   bool
)

var searchCmd = &cobra.Command{
	Use:   "search [query]",
	Short: "Run a federated search",
	Long: `Searches every record type owned by --owner and prints the ranked results.

Documents, messages, billing records, transcripts, work items and contacts
are searched in parallel. Use --type (repeatable) to restrict the search.`,
	Args: cobra.ExactArgs(1),
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().StringVar(&searchOwner, "owner", "", "owner whose records are searched (required)")
	searchCmd.Flags().IntVarP(&searchLimit, "limit", "n", domain.DefaultLimit, "maximum number of results")
	searchCmd.Flags().IntVar(&searchOffset, "offset", 0, "number of results each source skips")
	searchCmd.Flags().StringVar(&searchLang, "lang", string(domain.LanguageEnglish), "query language (en or fr)")
	searchCmd.Flags().StringSliceVarP(&searchTypes, "type", "t", nil, "restrict to record types (repeatable)")
	searchCmd.Flags().BoolVar(&searchJSON, "json", false, "output results as JSON")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	if searchService == nil {
		return errors.New("search service not configured")
	}

	req := domain.SearchRequest{
		Query:    args[0],
		OwnerID:  searchOwner,
		Limit:    searchLimit,
		Offset:   searchOffset,
		Language: domain.Language(strings.ToLower(searchLang)),
	}
	for _, raw := range searchTypes {
		t, err := domain.ParseRecordType(raw)
		if err != nil {
			return err
		}
		req.Filters.Types = append(req.Filters.Types, t)
	}

	resp, err := searchService.Search(cmd.Context(), req)
	if err != nil {
		return fmt.Errorf("search failed: %w", err)
	}

	if searchJSON {
		return outputSearchJSON(cmd, resp)
	}

	return outputSearchTable(cmd, resp)
}

func outputSearchJSON(cmd *cobra.Command, resp *domain.SearchResponse) error {
	data, err := json.MarshalIndent(resp, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal results: %w", err)
	}
	cmd.Println(string(data))
	return nil
}

func outputSearchTable(cmd *cobra.Command, resp *domain.SearchResponse) error {
	if len(resp.Results) == 0 {
		cmd.Println("No results found.")
		return nil
	}

	cmd.Printf("Results (%d of %d, %dms):\n", len(resp.Results), resp.TotalCount, resp.SearchTimeMs)
	cmd.Println()
	for i := range resp.Results {
		r := &resp.Results[i]
		// Format: [N] (type) Title  NN%
		title := r.Title
		if title == "" {
			title = r.ID
		}

		cmd.Printf("  [%d] (%s) %s  %.0f%%\n", i+1, r.Type.Description(), title, r.ConfidenceScore*100)
		if r.URL != "" {
			cmd.Printf("      %s\n", r.URL)
		}
		if len(r.Highlights) > 0 {
			cmd.Printf("      %s\n", r.Highlights[0])
		}
		cmd.Println()
	}

	if len(resp.Suggestions) > 0 {
		cmd.Printf("Related: %s\n", strings.Join(resp.Suggestions, ", "))
	}
	return nil
}

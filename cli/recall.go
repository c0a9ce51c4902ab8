package cli

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/openmuse/muse/memory"
)

func init() {
	cmd := &cobra.Command{
		Use:   "recall [query]",
		Short: "Search past creations",
		Long:  "Queries both memory tiers for semantically similar creations and shows the best cross-tier match.",
		Args:  cobra.MinimumNArgs(1),
		Run:   runRecall,
	}
	cmd.Flags().IntP("limit", "l", 0, "Max results per tier (0 uses the tier defaults)")
	RootCmd.AddCommand(cmd)
}

func runRecall(cmd *cobra.Command, args []string) {
	cfg, log, cleanup := setup()
	defer cleanup()

	limit, _ := cmd.Flags().GetInt("limit")
	query := strings.Join(args, " ")

	mem, err := buildMemory(cmd.Context(), cfg, log)
	if err != nil {
		exitErr("initialize memory", err)
	}
	defer mem.Close()

	shortTerm := mem.SearchShortTermMemory(cmd.Context(), query, limit)
	longTerm := mem.SearchLongTermMemory(cmd.Context(), query, limit)

	out := struct {
		ShortTerm []memory.SearchResult `json:"short_term"`
		LongTerm  []memory.SearchResult `json:"long_term"`
		Best      *memory.SearchResult  `json:"best,omitempty"`
		Distance  *float32              `json:"distance,omitempty"`
	}{ShortTerm: shortTerm, LongTerm: longTerm}

	if best, distance, ok := mem.SelectBestMatch(shortTerm, longTerm); ok {
		out.Best = best
		out.Distance = &distance
	}

	b, _ := json.MarshalIndent(out, "", "  ")
	fmt.Println(string(b))
}

package cmd

import (
	"fmt"
	"strings"

	"github.com/AnyUserName/tweetshot/internal/encoder"
	"github.com/AnyUserName/tweetshot/internal/palette"
	"github.com/AnyUserName/tweetshot/internal/profile"
	"github.com/spf13/cobra"
)

var paletteCmd = &cobra.Command{
	Use:   "palette",
	Short: "List the selectable backgrounds and capture profiles",
	Args:  cobra.NoArgs,
	Run:   runPalette,
}

func init() {
	rootCmd.AddCommand(paletteCmd)
}

func runPalette(_ *cobra.Command, _ []string) {
	fmt.Println()
	fmt.Println("  Backgrounds:")
	for _, e := range palette.All() {
		fmt.Printf("    %-8s %-14s bg %s  text %s\n", e.Label, e.Token, e.Background, e.Foreground)
	}
	fmt.Printf("    (handle and counters use %s)\n", palette.Muted)
	fmt.Println()

	reg := encoder.NewRegistry()
	avail := map[string]bool{}
	for _, f := range reg.Available() {
		avail[f] = true
	}

	fmt.Println("  Profiles:")
	for _, name := range profile.Names() {
		p := profile.Get(name)
		mark := ""
		if !avail[p.Format] {
			mark = "  (encoder not installed)"
		}
		if name == profile.DefaultName {
			mark += "  (default)"
		}
		fmt.Printf("    %-10s %gx %-5s%s\n", p.Name, p.Scale, p.Format, mark)
	}
	fmt.Println()
	fmt.Printf("  Formats:     %s\n", strings.Join(reg.Available(), ", "))
	fmt.Println()
}

package cli

import (
	"strings"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved words, newest first",
	RunE:  runList,
}

func init() {
	rootCmd.AddCommand(listCmd)
}

func runList(cmd *cobra.Command, _ []string) error {
	s, err := runningService()
	if err != nil {
		return err
	}

	words := s.Words(cmd.Context())
	if len(words) == 0 {
		cmd.Println("Wordbook is empty.")
		return nil
	}

	for _, w := range words {
		line := []string{w.Word}
		if w.Phonetic != "" {
			line = append(line, "["+w.Phonetic+"]")
		}
		if w.Explanation != "" {
			line = append(line, w.Explanation)
		}
		cmd.Printf("#%-5d %-10s %s", w.ID, w.SourceLang+" -> "+w.TargetLang, strings.Join(line, "  "))
		if len(w.Tags) > 0 {
			cmd.Printf("  (%s)", strings.Join(w.Tags, ", "))
		}
		cmd.Printf("  %s\n", w.CreatedAt.Local().Format("2006-01-02 15:04"))
	}
	return nil
}

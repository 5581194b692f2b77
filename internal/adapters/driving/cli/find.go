package cli

import (
	"github.com/spf13/cobra"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

var (
	findFromFlag string
	findToFlag   string
)

var findCmd = &cobra.Command{
	Use:   "find <word>",
	Short: "Look up a word's entry id",
	Args:  cobra.ExactArgs(1),
	RunE:  runFind,
}

func init() {
	findCmd.Flags().StringVar(&findFromFlag, "from", "en", "source language code")
	findCmd.Flags().StringVar(&findToFlag, "to", "zh", "target language code")
	rootCmd.AddCommand(findCmd)
}

func runFind(cmd *cobra.Command, args []string) error {
	s, err := runningService()
	if err != nil {
		return err
	}

	id, ok := s.FindWordID(cmd.Context(), args[0], domain.Lang(findFromFlag), domain.Lang(findToFlag))
	if !ok {
		cmd.Printf("%q (%s -> %s) is not in the wordbook\n", args[0], findFromFlag, findToFlag)
		return nil
	}
	cmd.Printf("#%d\n", id)
	return nil
}

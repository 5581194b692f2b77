package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

var (
	addFromFlag        string
	addToFlag          string
	addPhoneticFlag    string
	addExplanationFlag string
	addTagsFlag        string
)

var addCmd = &cobra.Command{
	Use:   "add <word>",
	Short: "Add a word to the wordbook",
	Long: `Add a word with its language pair and optional notes.

Adding a word that is already present (same word, case-insensitive, and
language pair) is not an error; the existing entry is reported instead.`,
	Args: cobra.ExactArgs(1),
	RunE: runAdd,
}

func init() {
	addCmd.Flags().StringVar(&addFromFlag, "from", "en", "source language code")
	addCmd.Flags().StringVar(&addToFlag, "to", "zh", "target language code")
	addCmd.Flags().StringVar(&addPhoneticFlag, "phonetic", "", "phonetic transcription")
	addCmd.Flags().StringVar(&addExplanationFlag, "explanation", "", "explanation or translation notes")
	addCmd.Flags().StringVar(&addTagsFlag, "tags", "", "comma-separated tags")
	rootCmd.AddCommand(addCmd)
}

func runAdd(cmd *cobra.Command, args []string) error {
	word := args[0]
	if !domain.CanAddToWordbook(word) {
		return fmt.Errorf("%q cannot be added: entries must be non-blank, single-line and at most %d characters",
			word, domain.MaxWordLength)
	}

	s, err := runningService()
	if err != nil {
		return err
	}

	entry := &domain.WordEntry{
		Word:        strings.TrimSpace(word),
		SourceLang:  domain.Lang(addFromFlag),
		TargetLang:  domain.Lang(addToFlag),
		Phonetic:    addPhoneticFlag,
		Explanation: addExplanationFlag,
		Tags:        domain.SplitTags(addTagsFlag),
	}

	id, err := s.AddWord(cmd.Context(), entry)
	if err != nil {
		return fmt.Errorf("adding word: %w", err)
	}

	if entry.Persisted() {
		cmd.Printf("Added #%d %s (%s -> %s)\n", id, entry.Word, entry.SourceLang, entry.TargetLang)
	} else {
		cmd.Printf("Already in wordbook as #%d\n", id)
	}
	return nil
}

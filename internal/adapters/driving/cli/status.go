package cli

import (
	"github.com/spf13/cobra"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

var statusCmd = &cobra.Command{
	Use:   "status",
	Short: "Show the wordbook service state",
	RunE:  runStatus,
}

func init() {
	rootCmd.AddCommand(statusCmd)
}

func runStatus(cmd *cobra.Command, _ []string) error {
	s, state, err := initializedService()
	if err != nil {
		return err
	}

	cmd.Printf("State: %s\n", state)
	switch state {
	case domain.Running:
		if s.HasWords(cmd.Context()) {
			cmd.Printf("Words: %d\n", len(s.Words(cmd.Context())))
		} else {
			cmd.Println("Words: 0")
		}
	case domain.NoDriver:
		cmd.Println(`No usable database driver. Run "wordbook download-driver" to fetch one.`)
	case domain.InitializationError:
		cmd.Println("Initialization failed; re-run with --verbose for details.")
	}
	return nil
}

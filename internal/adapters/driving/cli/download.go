package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/xuie0000/wordbook/internal/core/domain"
)

var downloadCmd = &cobra.Command{
	Use:   "download-driver",
	Short: "Download the database driver artifact",
	Long: `Fetch the versioned driver artifact over HTTPS, verify it against
its pinned checksum and finish service initialization. Only meaningful
when the service is in the NO_DRIVER state.`,
	RunE: runDownload,
}

func init() {
	rootCmd.AddCommand(downloadCmd)
}

func runDownload(cmd *cobra.Command, _ []string) error {
	s, state, err := initializedService()
	if err != nil {
		return err
	}

	switch state {
	case domain.Running:
		cmd.Println("Driver already available; nothing to download.")
		return nil
	case domain.InitializationError:
		return fmt.Errorf("cannot download from state %s", state)
	}

	settled := make(chan struct{}, 1)
	cancel := s.ObserveState(func(_, _ domain.LifecycleState) {
		select {
		case settled <- struct{}{}:
		default:
		}
	})
	defer cancel()

	if !s.RequestDriverDownload(cmd.Context()) {
		return fmt.Errorf("download request rejected in state %s", s.State())
	}
	cmd.Println("Downloading driver artifact...")

	for {
		switch st := s.State(); st {
		case domain.Running:
			cmd.Println("Driver installed; wordbook is running.")
			return nil
		case domain.NoDriver:
			return fmt.Errorf("driver download failed; see log for details")
		case domain.InitializationError:
			return fmt.Errorf("initialization failed after download")
		}
		select {
		case <-settled:
		case <-cmd.Context().Done():
			return domain.ErrDownloadCancelled
		}
	}
}

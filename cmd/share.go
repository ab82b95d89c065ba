package cmd

import (
	"io"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var shareCmd = &cobra.Command{
	Use:   "share <token|link>",
	Short: "Interactive share link screen",
	Long: `Open a terminal screen holding a trip's share link and a copy button.

The link can be edited before copying. A confirmation appears after a
successful copy and disappears after a short delay; a failed copy leaves
a hint to copy the link manually until the next attempt.

Examples:
  tripshare share 0123456789abcdef0123456789abcdef
  tripshare share https://trips.example.com/t/0123456789abcdef0123456789abcdef`,
	Args: cobra.ExactArgs(1),
	RunE: runShare,
}

func init() {
	rootCmd.AddCommand(shareCmd)
}

func runShare(cmd *cobra.Command, args []string) error {
	link, t, err := resolveLink(args[0])
	if err != nil {
		return err
	}

	// OSC52 goes to stderr so it never interleaves with the renderer
	writer, err := newClipboardWriter(os.Stderr)
	if err != nil {
		return err
	}

	// Log lines on stderr would tear the alternate screen
	if logFile == "" {
		log.SetOutput(io.Discard)
	}

	ctx := commandContext(cmd)
	model := newShareModel(ctx, link, t, writer, statusPolicy(), log)
	defer model.control.Close()

	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	model.display.bind(p.Send)

	if _, err := p.Run(); err != nil {
		if ctx.Err() != nil {
			return nil
		}

		// Fallback to a one-shot copy if interactive mode fails
		if logFile == "" {
			log.SetOutput(os.Stderr)
		}
		log.WithError(err).Debug("interactive mode unavailable")
		return runCopy(cmd, args)
	}

	return nil
}

package cmd

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"

	"tripshare/internal/clipboard"
	"tripshare/internal/share"
)

var copyCmd = &cobra.Command{
	Use:   "copy <token|link>",
	Short: "Copy a trip share link to the clipboard",
	Long: `Copy a trip's share link to the clipboard once and print the outcome.

When the clipboard refuses the write the link is printed so it can be copied
by hand.

Examples:
  tripshare copy 0123456789abcdef0123456789abcdef
  tripshare copy https://trips.example.com/t/0123456789abcdef0123456789abcdef`,
	Args: cobra.ExactArgs(1),
	RunE: runCopy,
}

func init() {
	rootCmd.AddCommand(copyCmd)
}

func runCopy(cmd *cobra.Command, args []string) error {
	link, _, err := resolveLink(args[0])
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	writer, err := newClipboardWriter(out)
	if err != nil {
		return err
	}

	state, message := copyOnce(cmd, link, writer)
	printCopyOutcome(out, state, message, link)
	return nil
}

// copyOnce binds a console-backed control, clicks it once and waits for the
// write to finish.
func copyOnce(cmd *cobra.Command, link string, writer clipboard.Writer) (share.State, string) {
	button := &share.Button{}
	label := share.NewLabel(nil)

	control := share.New(
		share.Elements{Trigger: button, Source: share.NewTextField(link), Status: label},
		writer,
		share.WithPolicy(statusPolicy()),
		share.WithLogger(log),
		share.WithContext(commandContext(cmd)),
	)
	defer control.Close()

	button.Click()
	control.Wait()

	return control.State(), label.Text()
}

func printCopyOutcome(out io.Writer, state share.State, message, link string) {
	switch state {
	case share.StateShowingSuccess:
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(primaryGreen).Bold(true).Render("✓ "+message))
	case share.StateShowingFailure:
		fmt.Fprintln(out, lipgloss.NewStyle().Foreground(primaryRed).Bold(true).Render("✗ "+message))
		fmt.Fprintln(out, link)
	}
}

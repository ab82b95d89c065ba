package cmd

import (
	"fmt"
	"os"
	"sort"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/cobra/doc"
)

var docsCmd = &cobra.Command{
	Use:    "docs",
	Short:  "Write the command reference",
	Long:   `Write the tripshare command reference as man pages, Markdown, reStructuredText or YAML.`,
	Hidden: true,
	Args:   cobra.NoArgs,
	RunE:   runDocs,
}

var (
	docsOutputDir string
	docsFormat    string
)

// docGenerators writes the reference for root and its subcommands into dir
var docGenerators = map[string]func(root *cobra.Command, dir string) error{
	"man": func(root *cobra.Command, dir string) error {
		return doc.GenManTree(root, &doc.GenManHeader{
			Title:   "TRIPSHARE",
			Section: "1",
			Source:  "tripshare " + root.Version,
			Manual:  "tripshare commands",
		}, dir)
	},
	"md":   doc.GenMarkdownTree,
	"rest": doc.GenReSTTree,
	"yaml": doc.GenYamlTree,
}

func init() {
	rootCmd.AddCommand(docsCmd)

	docsCmd.Flags().StringVar(&docsOutputDir, "output", "./docs", "Directory to write into")
	docsCmd.Flags().StringVar(&docsFormat, "format", "man", "Format: "+strings.Join(docFormats(), ", "))
}

func docFormats() []string {
	formats := make([]string, 0, len(docGenerators))
	for f := range docGenerators {
		formats = append(formats, f)
	}
	sort.Strings(formats)
	return formats
}

func runDocs(cmd *cobra.Command, args []string) error {
	return writeDocs(rootCmd, docsFormat, docsOutputDir)
}

func writeDocs(root *cobra.Command, format, dir string) error {
	generate, ok := docGenerators[format]
	if !ok {
		return fmt.Errorf("unsupported docs format %q (supported: %s)", format, strings.Join(docFormats(), ", "))
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("failed to create docs directory: %w", err)
	}

	// Keep generated files stable between runs
	disableAutoGenTag(root)
	if err := generate(root, dir); err != nil {
		return fmt.Errorf("failed to write %s docs: %w", format, err)
	}

	log.WithField("dir", dir).WithField("format", format).Debug("docs written")
	return nil
}

func disableAutoGenTag(c *cobra.Command) {
	c.DisableAutoGenTag = true
	for _, sub := range c.Commands() {
		disableAutoGenTag(sub)
	}
}

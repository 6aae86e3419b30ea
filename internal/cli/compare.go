package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

func newCompareCmd() *cobra.Command {
	var user, pass, text1, text2, file1, file2 string

	cmd := &cobra.Command{
		Use:   "compare",
		Short: "Compare two texts, spending one token",
		Long: `Compare two texts and print their similarity in [0,1].

Texts are given inline with --text1/--text2 or read from files with --file1/--file2.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || pass == "" {
				return fmt.Errorf("--user and --pass are required")
			}

			t1, err := textArg(text1, file1, "1")
			if err != nil {
				return err
			}
			t2, err := textArg(text2, file2, "2")
			if err != nil {
				return err
			}

			req := map[string]string{
				"Username": user,
				"Password": pass,
				"Text1":    t1,
				"Text2":    t2,
			}
			var result CompareResult

			if err := client.Post("/api/v1/compare", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Username (required)")
	cmd.Flags().StringVar(&pass, "pass", "", "Password (required)")
	cmd.Flags().StringVar(&text1, "text1", "", "First text")
	cmd.Flags().StringVar(&text2, "text2", "", "Second text")
	cmd.Flags().StringVar(&file1, "file1", "", "Read the first text from a file")
	cmd.Flags().StringVar(&file2, "file2", "", "Read the second text from a file")
	cmd.MarkFlagsMutuallyExclusive("text1", "file1")
	cmd.MarkFlagsMutuallyExclusive("text2", "file2")

	return cmd
}

// textArg returns the inline text or the contents of path
func textArg(text, path, n string) (string, error) {
	if path == "" {
		if text == "" {
			return "", fmt.Errorf("--text%s or --file%s is required", n, n)
		}
		return text, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", fmt.Errorf("failed to read --file%s: %w", n, err)
	}
	return string(data), nil
}

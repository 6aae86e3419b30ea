package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

func newRefillCmd() *cobra.Command {
	var user, adminPass string
	var amount int

	cmd := &cobra.Command{
		Use:   "refill",
		Short: "Add tokens to an account (admin only)",
		RunE: func(cmd *cobra.Command, args []string) error {
			if user == "" || adminPass == "" {
				return fmt.Errorf("--user and --admin-pass are required")
			}
			if amount <= 0 {
				return fmt.Errorf("--amount must be a positive integer")
			}

			req := map[string]any{
				"Username":     user,
				"Password":     adminPass,
				"RefillAmount": amount,
			}
			var result RefillResult

			if err := client.Post("/api/v1/refill", req, &result); err != nil {
				return err
			}

			NewOutput(cfg.Output, cmd.OutOrStdout()).Print(result)
			return nil
		},
	}

	cmd.Flags().StringVar(&user, "user", "", "Account to refill (required)")
	cmd.Flags().StringVar(&adminPass, "admin-pass", "", "Admin password (required)")
	cmd.Flags().IntVar(&amount, "amount", 0, "Tokens to add (required)")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("admin-pass")
	_ = cmd.MarkFlagRequired("amount")

	return cmd
}

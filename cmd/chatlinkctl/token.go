package main

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

var tokenCmd = &cobra.Command{
	Use:   "token <registration-id>",
	Short: "Issue a link token for a bound registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "POST", "/registrations/"+args[0]+"/link_token", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var verifyCmd = &cobra.Command{
	Use:   "verify <token>",
	Short: "Verify a link token against the server",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		err = client.do(cmd.Context(), "POST", "/link_tokens/verify",
			map[string]string{"token": args[0]}, &resp)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	rootCmd.AddCommand(tokenCmd, verifyCmd)
}

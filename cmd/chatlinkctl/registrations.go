package main

import (
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

var (
	provisionLabel      string
	provisionCode       string
	provisionStatus     string
	provisionValidFrom  string
	provisionValidUntil string

	validityFrom  string
	validityUntil string
)

var provisionCmd = &cobra.Command{
	Use:   "provision",
	Short: "Create a registration and print its one-time code",
	Long: `Create a device registration record. The plaintext code is printed
exactly once; only its digest is stored on the server.`,
	Example: `  chatlinkctl provision --label printer-7
  chatlinkctl provision --label kiosk --code LOBBY-KIOSK-01 --valid-until 2026-12-31`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		body := map[string]string{}
		if provisionLabel != "" {
			body["label"] = provisionLabel
		}
		if provisionCode != "" {
			body["code"] = provisionCode
		}
		if provisionStatus != "" {
			body["status"] = provisionStatus
		}
		if provisionValidFrom != "" {
			body["valid_from"] = provisionValidFrom
		}
		if provisionValidUntil != "" {
			body["valid_until"] = provisionValidUntil
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "POST", "/registrations", body, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all registrations",
	RunE: func(cmd *cobra.Command, _ []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "GET", "/registrations", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var getCmd = &cobra.Command{
	Use:   "get <id>",
	Short: "Show one registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "GET", "/registrations/"+args[0], nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var statusCmd = &cobra.Command{
	Use:   "status <id> <active|inactive|suspended>",
	Short: "Set the lifecycle status of a registration",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		err = client.do(cmd.Context(), "PUT", "/registrations/"+args[0]+"/status",
			map[string]string{"status": args[1]}, &resp)
		if err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var validityCmd = &cobra.Command{
	Use:   "validity <id>",
	Short: "Set the validity window of a registration",
	Long:  "Set the inclusive validity window. Omitting a flag clears that bound.",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		body := map[string]string{}
		if validityFrom != "" {
			body["valid_from"] = validityFrom
		}
		if validityUntil != "" {
			body["valid_until"] = validityUntil
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "PUT", "/registrations/"+args[0]+"/validity", body, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

var deleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a registration",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		if err := client.do(cmd.Context(), "DELETE", "/registrations/"+args[0], nil, nil); err != nil {
			return err
		}
		fmt.Println("deleted")
		return nil
	},
}

var unbindCmd = &cobra.Command{
	Use:   "unbind <id>",
	Short: "Clear a registration's chat binding administratively",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := newAPIClient(cmd.Context())
		if err != nil {
			return err
		}
		var resp json.RawMessage
		if err := client.do(cmd.Context(), "DELETE", "/registrations/"+args[0]+"/binding", nil, &resp); err != nil {
			return err
		}
		return printJSON(resp)
	},
}

func init() {
	provisionCmd.Flags().StringVar(&provisionLabel, "label", "", "Human-readable device label")
	provisionCmd.Flags().StringVar(&provisionCode, "code", "", "Supply the code instead of generating one")
	provisionCmd.Flags().StringVar(&provisionStatus, "status", "", "Initial status (default active)")
	provisionCmd.Flags().StringVar(&provisionValidFrom, "valid-from", "", "First valid day (YYYY-MM-DD)")
	provisionCmd.Flags().StringVar(&provisionValidUntil, "valid-until", "", "Last valid day (YYYY-MM-DD)")

	validityCmd.Flags().StringVar(&validityFrom, "from", "", "First valid day (YYYY-MM-DD)")
	validityCmd.Flags().StringVar(&validityUntil, "until", "", "Last valid day (YYYY-MM-DD)")

	rootCmd.AddCommand(provisionCmd, listCmd, getCmd, statusCmd, validityCmd, deleteCmd, unbindCmd)
}

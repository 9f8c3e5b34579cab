package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"landing-waitlist/pkg/signup"
)

var (
	joinEndpoint string
	joinForm     signup.Form
)

func init() {
	joinCmd.Flags().StringVar(&joinEndpoint, "endpoint", "http://localhost:8080/api/join", "join endpoint")
	joinCmd.Flags().StringVar(&joinForm.Email, "email", "", "email address (required)")
	joinCmd.Flags().StringVar(&joinForm.WhatsApp, "whatsapp", "", "WhatsApp number")
	joinCmd.Flags().StringVar(&joinForm.Telegram, "telegram", "", "Telegram handle")
	joinCmd.Flags().StringVar(&joinForm.Note, "note", "", "note for the team")
	rootCmd.AddCommand(joinCmd)
}

var joinCmd = &cobra.Command{
	Use:   "join",
	Short: "Submit the waitlist form once against a running server",
	RunE: func(cmd *cobra.Command, args []string) error {
		out := cmd.OutOrStdout()
		controller := signup.NewController(joinEndpoint, signup.WithObserver(func(s signup.State) {
			fmt.Fprintln(out, s)
		}))

		if failed, ok := controller.Submit(cmd.Context(), &joinForm).(signup.Failed); ok {
			return fmt.Errorf("signup failed: %s", failed.Message)
		}
		return nil
	},
}

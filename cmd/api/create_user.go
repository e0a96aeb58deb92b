package main

import (
	"notesapi/cmd/internal/contract"

	"github.com/spf13/cobra"
)

var (
	userName     string
	userEmail    string
	userPassword string
)

var createUserCmd = &cobra.Command{
	Use:   "create-user",
	Short: "Register a local account",
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := openApp()
		if err != nil {
			return err
		}
		defer a.Close()

		user, apierr := a.Users.CreateUser(&contract.CreateUserRequest{
			Name:                 userName,
			Email:                userEmail,
			Password:             userPassword,
			PasswordConfirmation: userPassword,
		})
		if apierr != nil {
			return apiError(apierr)
		}
		return printJSON(cmd, user)
	},
}

func init() {
	rootCmd.AddCommand(createUserCmd)
	createUserCmd.Flags().StringVar(&userName, "name", "", "Display name")
	createUserCmd.Flags().StringVar(&userEmail, "email", "", "Login email")
	createUserCmd.Flags().StringVar(&userPassword, "password", "", "Password (8 to 72 bytes)")
	_ = createUserCmd.MarkFlagRequired("name")
	_ = createUserCmd.MarkFlagRequired("email")
	_ = createUserCmd.MarkFlagRequired("password")
}

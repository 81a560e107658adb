package main

import (
	"errors"
	"fmt"

	"github.com/Veraticus/spicewatch/internal/cli"
	"github.com/Veraticus/spicewatch/internal/common"
	"github.com/spf13/cobra"
)

func sessionCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "session",
		Short: "Manage the signed-in account",
		Long: `Transactions are submitted on behalf of the signed-in account. Without a
session, notifications are processed but nothing is submitted.`,
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "login <accountId>",
		Short: "Sign an account in",
		Args:  cobra.ExactArgs(1),
		RunE:  runSessionLogin,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "logout",
		Short: "Sign the current account out",
		RunE:  runSessionLogout,
	})
	cmd.AddCommand(&cobra.Command{
		Use:   "show",
		Short: "Show the signed-in account",
		RunE:  runSessionShow,
	})

	return cmd
}

func runSessionLogin(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.SetAccountID(cmd.Context(), args[0]); err != nil {
		return common.NewUserError("Account id cannot be empty", err)
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Signed in as "+args[0]))
	return nil
}

func runSessionLogout(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if err := store.ClearSession(cmd.Context()); err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatSuccess("Signed out"))
	return nil
}

func runSessionShow(cmd *cobra.Command, _ []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	store, err := openStorage(cmd.Context(), cfg)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	accountID, err := store.AccountID(cmd.Context())
	if errors.Is(err, common.ErrNoSession) {
		_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatWarning("Not signed in"))
		return nil
	}
	if err != nil {
		return err
	}
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), cli.FormatInfo("Signed in as "+accountID))
	return nil
}

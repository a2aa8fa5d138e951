package main

import (
	"context"

	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/jsamuelsen11/go-accounts-service/internal/adapters/http/dto"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/accounts"
	"github.com/jsamuelsen11/go-accounts-service/internal/app/runtime"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain"
	"github.com/jsamuelsen11/go-accounts-service/internal/domain/account"
	"github.com/jsamuelsen11/go-accounts-service/internal/ports"
)

func accountCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "account",
		Short: "Create, read, rename, and delete accounts",
	}

	c.AddCommand(accountCreateCmd(a))
	c.AddCommand(accountGetCmd(a))
	c.AddCommand(accountBatchCmd(a))
	c.AddCommand(accountRenameCmd(a))
	c.AddCommand(accountDeleteCmd(a))
	return c
}

func accountCreateCmd(a *app) *cobra.Command {
	var name, rawID string

	cmd := &cobra.Command{
		Use:   "create",
		Short: "Create an account",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			id := uuid.Nil
			if rawID != "" {
				parsed, err := parseID(rawID)
				if err != nil {
					return err
				}
				id = parsed
			}

			req, err := accounts.NewCreateAccount(id, name)
			if err != nil {
				return err
			}

			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			created, err := runtime.Execute[uuid.UUID](cmd.Context(), d, req).Get()
			if err != nil {
				return err
			}

			acct, err := getAccount(cmd.Context(), d, created)
			if err != nil {
				return a.printJSON(dto.CreatedResponse{ID: created.String()})
			}
			return a.printJSON(dto.ToAccountResponse(&acct))
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "Account name (required)")
	cmd.Flags().StringVar(&rawID, "id", "", "Account identity (UUID; generated when omitted)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func accountGetCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "get <id>",
		Short: "Print one account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			acct, err := getAccount(cmd.Context(), d, id)
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToAccountResponse(&acct))
		},
	}
}

func accountBatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "batch <id>...",
		Short: "Print several accounts; unknown identities are listed as missing",
		Args:  cobra.RangeArgs(1, accounts.MaxBatchSize),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]uuid.UUID, 0, len(args))
			for _, raw := range args {
				id, err := parseID(raw)
				if err != nil {
					return err
				}
				ids = append(ids, id)
			}

			req, err := accounts.NewGetAccounts(ids)
			if err != nil {
				return err
			}

			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			batch, err := runtime.Execute[accounts.Batch](cmd.Context(), d, req).Get()
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToAccountBatchResponse(batch.Accounts, batch.Missing))
		},
	}
}

func accountRenameCmd(a *app) *cobra.Command {
	var name string

	cmd := &cobra.Command{
		Use:   "rename <id>",
		Short: "Rename an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req, err := accounts.NewRenameAccount(id, name)
			if err != nil {
				return err
			}

			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			acct, err := runtime.Execute[account.Account](cmd.Context(), d, req).Get()
			if err != nil {
				return err
			}
			return a.printJSON(dto.ToAccountResponse(&acct))
		},
	}

	cmd.Flags().StringVarP(&name, "name", "n", "", "New account name (required)")
	_ = cmd.MarkFlagRequired("name")
	return cmd
}

func accountDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an account",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			req, err := accounts.NewDeleteAccount(id)
			if err != nil {
				return err
			}

			d, err := a.dispatcher(cmd.Context())
			if err != nil {
				return err
			}

			if _, err := d.Execute(cmd.Context(), req).Get(); err != nil {
				return err
			}
			return a.printJSON(struct {
				Deleted string `json:"deleted"`
			}{Deleted: id.String()})
		},
	}
}

func parseID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, domain.NewValidationError("id", "must be a valid UUID")
	}
	return id, nil
}

func getAccount(ctx context.Context, d ports.Dispatcher, id uuid.UUID) (account.Account, error) {
	req, err := accounts.NewGetAccount(id)
	if err != nil {
		return account.Account{}, err
	}
	return runtime.Execute[account.Account](ctx, d, req).Get()
}

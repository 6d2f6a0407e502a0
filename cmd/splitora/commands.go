package main

import (
	"bufio"
	"encoding/json"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"

	"github.com/splitora/client/internal/splitora"
	"github.com/splitora/client/pkg/config"
	"github.com/splitora/client/pkg/logger"
	"github.com/splitora/client/pkg/model"
)

func newRootCmd() *cobra.Command {
	var a *app
	var verbose bool

	root := &cobra.Command{
		Use:           "splitora",
		Short:         "Splitora expense-splitting client",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "version" {
				return nil
			}
			var err error
			a, err = newApp(cmd.Context(), config.Load())
			if err == nil && verbose {
				err = logger.SetLevel("debug")
			}
			return err
		},
		PersistentPostRun: func(*cobra.Command, []string) {
			if a != nil {
				a.Close()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log at debug level")

	get := func() *app { return a }
	root.AddCommand(
		newLoginCmd(get),
		newRegisterCmd(get),
		newLogoutCmd(get),
		newWhoamiCmd(get),
		newRefreshCmd(get),
		newGroupsCmd(get),
		newExpensesCmd(get),
		newSettlementsCmd(get),
		newServeCmd(get),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "splitora version %s\n", version)
		},
	}
}

func printJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

// readSecret returns flagValue or, when empty, the first line of in.
func readSecret(cmd *cobra.Command, flagValue, prompt string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	fmt.Fprint(cmd.ErrOrStderr(), prompt)
	line, err := bufio.NewReader(cmd.InOrStdin()).ReadString('\n')
	if err != nil && err != io.EOF {
		return "", err
	}
	secret := strings.TrimRight(line, "\r\n")
	if secret == "" {
		return "", fmt.Errorf("password is required")
	}
	return secret, nil
}

// ─── Auth ─────────────────────────────────────────────────────────────────────

func newLoginCmd(get func() *app) *cobra.Command {
	var email, password string
	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readSecret(cmd, password, "Password: ")
			if err != nil {
				return err
			}
			a := get()
			user, err := a.api.Login(cmd.Context(), model.Credentials{Email: email, Password: pw})
			if err != nil {
				return err
			}
			a.state.LoggedIn()
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&email, "email", "", "account email")
	cmd.Flags().StringVar(&password, "password", "", "account password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newRegisterCmd(get func() *app) *cobra.Command {
	var reg model.Registration
	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create an account and store the session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			pw, err := readSecret(cmd, reg.Password, "Password: ")
			if err != nil {
				return err
			}
			reg.Password = pw
			a := get()
			user, err := a.api.Register(cmd.Context(), reg)
			if err != nil {
				return err
			}
			a.state.LoggedIn()
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().StringVar(&reg.Name, "name", "", "display name")
	cmd.Flags().StringVar(&reg.Email, "email", "", "account email")
	cmd.Flags().StringVar(&reg.Phone, "phone", "", "phone number")
	cmd.Flags().StringVar(&reg.Password, "password", "", "account password (read from stdin when empty)")
	_ = cmd.MarkFlagRequired("name")
	_ = cmd.MarkFlagRequired("email")
	return cmd
}

func newLogoutCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Revoke and clear the stored session",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			if err := a.state.Logout(cmd.Context(), a.api); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Logged out.")
			return nil
		},
	}
}

func newWhoamiCmd(get func() *app) *cobra.Command {
	var remote bool
	cmd := &cobra.Command{
		Use:   "whoami",
		Short: "Show the logged-in user",
		RunE: func(cmd *cobra.Command, _ []string) error {
			a := get()
			var (
				user *model.User
				err  error
			)
			if remote {
				user, err = a.api.Profile(cmd.Context())
			} else {
				user, err = a.api.CurrentUser(cmd.Context())
			}
			if err != nil {
				return err
			}
			if user == nil {
				fmt.Fprintln(cmd.OutOrStdout(), "Not logged in.")
				return nil
			}
			return printJSON(cmd.OutOrStdout(), user)
		},
	}
	cmd.Flags().BoolVar(&remote, "remote", false, "fetch the profile from the backend")
	return cmd
}

func newRefreshCmd(get func() *app) *cobra.Command {
	return &cobra.Command{
		Use:   "refresh",
		Short: "Renew the access token now",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := get().api.Refresh(cmd.Context()); err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), "Session renewed.")
			return nil
		},
	}
}

// ─── Groups ───────────────────────────────────────────────────────────────────

func newGroupsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "groups",
		Short: "List and manage groups",
		RunE: func(cmd *cobra.Command, _ []string) error {
			groups, err := get().api.ListGroups(cmd.Context())
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), groups)
		},
	}

	cmd.AddCommand(&cobra.Command{
		Use:   "show GROUP_ID",
		Short: "Show one group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := get().api.GetGroup(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	})

	var in model.GroupInput
	create := &cobra.Command{
		Use:   "create",
		Short: "Create a group",
		RunE: func(cmd *cobra.Command, _ []string) error {
			g, err := get().api.CreateGroup(cmd.Context(), in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
	create.Flags().StringVar(&in.Name, "name", "", "group name")
	create.Flags().StringVar(&in.Description, "description", "", "group description")
	_ = create.MarkFlagRequired("name")

	var upd model.GroupInput
	update := &cobra.Command{
		Use:   "update GROUP_ID",
		Short: "Rename or describe a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			g, err := get().api.UpdateGroup(cmd.Context(), args[0], upd)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), g)
		},
	}
	update.Flags().StringVar(&upd.Name, "name", "", "group name")
	update.Flags().StringVar(&upd.Description, "description", "", "group description")

	var name, email, phone, countryCode string
	addMember := &cobra.Command{
		Use:   "add-member GROUP_ID",
		Short: "Invite a member by email or phone",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			invite, err := memberInvite(name, email, phone, countryCode)
			if err != nil {
				return err
			}
			out, err := get().api.AddMembers(cmd.Context(), args[0], invite)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	addMember.Flags().StringVar(&name, "name", "", "member display name")
	addMember.Flags().StringVar(&email, "email", "", "member email")
	addMember.Flags().StringVar(&phone, "phone", "", "member phone number")
	addMember.Flags().StringVar(&countryCode, "country-code", "+1", "dialling prefix for --phone")
	_ = addMember.MarkFlagRequired("name")
	addMember.MarkFlagsMutuallyExclusive("email", "phone")
	addMember.MarkFlagsOneRequired("email", "phone")

	cmd.AddCommand(create, update, addMember,
		&cobra.Command{
			Use:   "remove-member GROUP_ID MEMBER_ID",
			Short: "Remove a member from a group",
			Args:  cobra.ExactArgs(2),
			RunE: func(cmd *cobra.Command, args []string) error {
				return get().api.RemoveMember(cmd.Context(), args[0], args[1])
			},
		},
		&cobra.Command{
			Use:   "delete GROUP_ID",
			Short: "Delete a group",
			Args:  cobra.ExactArgs(1),
			RunE: func(cmd *cobra.Command, args []string) error {
				return get().api.DeleteGroup(cmd.Context(), args[0])
			},
		},
	)
	return cmd
}

// memberInvite builds an invite; the phone keeps only its digits.
func memberInvite(name, email, phone, countryCode string) (model.MemberInvite, error) {
	invite := model.MemberInvite{Name: name, Email: email}
	if phone == "" {
		return invite, nil
	}
	digits := strings.Map(func(r rune) rune {
		if r >= '0' && r <= '9' {
			return r
		}
		return -1
	}, phone)
	n, err := strconv.ParseInt(digits, 10, 64)
	if err != nil {
		return model.MemberInvite{}, fmt.Errorf("invalid phone %q", phone)
	}
	invite.Phone = &model.Phone{CountryCode: countryCode, PhoneNumber: n}
	return invite, nil
}

// ─── Expenses ─────────────────────────────────────────────────────────────────

func expenseInput(description, amount, payerID string) (model.ExpenseInput, error) {
	amt, err := decimal.NewFromString(amount)
	if err != nil {
		return model.ExpenseInput{}, fmt.Errorf("invalid amount %q: %w", amount, err)
	}
	if !amt.IsPositive() {
		return model.ExpenseInput{}, fmt.Errorf("amount must be positive")
	}
	return model.ExpenseInput{Description: description, Amount: amt, PayerID: payerID}, nil
}

func newExpensesCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "expenses GROUP_ID",
		Short: "List and manage a group's expenses",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := get().api.ListExpenses(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}

	var description, amount, payerID string
	create := &cobra.Command{
		Use:   "create GROUP_ID",
		Short: "Record an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := expenseInput(description, amount, payerID)
			if err != nil {
				return err
			}
			e, err := get().api.CreateExpense(cmd.Context(), args[0], in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	update := &cobra.Command{
		Use:   "update GROUP_ID EXPENSE_ID",
		Short: "Change an expense",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			in, err := expenseInput(description, amount, payerID)
			if err != nil {
				return err
			}
			e, err := get().api.UpdateExpense(cmd.Context(), args[0], args[1], in)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), e)
		},
	}
	for _, c := range []*cobra.Command{create, update} {
		c.Flags().StringVar(&description, "description", "", "what the expense was for")
		c.Flags().StringVar(&amount, "amount", "", "amount, e.g. 12.50")
		c.Flags().StringVar(&payerID, "paid-by", "", "group member ID of the payer")
		_ = c.MarkFlagRequired("description")
		_ = c.MarkFlagRequired("amount")
	}

	var members []string
	addDebtors := &cobra.Command{
		Use:   "add-debtors EXPENSE_ID",
		Short: "Add members who owe a share",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := get().api.AddDebtors(cmd.Context(), args[0], members)
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), out)
		},
	}
	addDebtors.Flags().StringSliceVar(&members, "member", nil, "member ID (repeatable)")
	_ = addDebtors.MarkFlagRequired("member")

	cmd.AddCommand(create, update, addDebtors, &cobra.Command{
		Use:   "delete EXPENSE_ID",
		Short: "Delete an expense",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().api.DeleteExpense(cmd.Context(), args[0])
		},
	})
	return cmd
}

// ─── Settlements ──────────────────────────────────────────────────────────────

func newSettlementsCmd(get func() *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "settlements GROUP_ID",
		Short: "Show who owes whom in a group",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			out, err := get().api.ListSettlements(cmd.Context(), args[0])
			if err != nil {
				return err
			}
			return printJSON(cmd.OutOrStdout(), map[string]any{
				"settlements": out,
				"outstanding": splitora.Outstanding(out),
			})
		},
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "pay GROUP_ID SETTLEMENT_ID",
		Short: "Mark a settlement as paid",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return get().api.MarkPaid(cmd.Context(), args[0], args[1])
		},
	})
	return cmd
}

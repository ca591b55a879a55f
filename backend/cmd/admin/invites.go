package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"trojsten-graph/backend/internal/invites"
)

func newInvitesCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "invites",
		Short: "Generate and list registration invite codes",
	}

	var number int
	generate := &cobra.Command{
		Use:   "generate",
		Short: "Create a batch of unique, unused invite codes",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			gen := invites.NewGenerator(e.store, e.log).WithMaxBatch(e.cfg.InviteMaxBatch)
			codes, err := gen.Generate(cmd.Context(), number)
			if err != nil {
				return err
			}
			for _, code := range codes {
				fmt.Fprintln(cmd.OutOrStdout(), code.Code)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "Successfully created %d codes\n", len(codes))
			return nil
		}),
	}
	generate.Flags().IntVarP(&number, "number", "n", 0, "how many codes to create")
	_ = generate.MarkFlagRequired("number")

	var baseURL string
	list := &cobra.Command{
		Use:   "list",
		Short: "List invite codes, unused first, with registration links",
		RunE: a.withEnv(func(cmd *cobra.Command, args []string, e *env) error {
			codes, err := invites.NewGenerator(e.store, e.log).List(cmd.Context())
			if err != nil {
				return err
			}

			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "CODE\tUSER\tLINK")
			for _, code := range codes {
				user, link := "-", invites.RegistrationLink(baseURL, code.Code)
				if code.Used() {
					user, link = *code.UserID, "-"
				}
				fmt.Fprintf(w, "%s\t%s\t%s\n", code.Code, user, link)
			}
			return w.Flush()
		}),
	}
	list.Flags().StringVar(&baseURL, "base-url", "http://localhost:8080", "public address used in registration links")

	cmd.AddCommand(generate, list)
	return cmd
}

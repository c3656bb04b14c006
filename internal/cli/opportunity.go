package cli

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/mesh-intelligence/presales/internal/tracker"
	"github.com/mesh-intelligence/presales/pkg/types"
)

// draftFlags are the field flags shared by add and update.
type draftFlags struct {
	client      string
	scope       string
	status      string
	price       string
	description string
}

func (f *draftFlags) register(fs *pflag.FlagSet) {
	fs.StringVar(&f.client, "client", "", "client name")
	fs.StringVar(&f.scope, "scope", types.ScopeProposal, "scope: Proposal, Paper, or IT Advisory")
	fs.StringVar(&f.status, "status", types.StatusQualifying, "pipeline status")
	fs.StringVar(&f.price, "price", "0", "price in EUR, two decimals")
	fs.StringVar(&f.description, "description", "", "free-text description")
}

// overlay copies the flags the user set onto d.
func (f *draftFlags) overlay(fs *pflag.FlagSet, d types.Draft) (types.Draft, error) {
	if fs.Changed("client") {
		d.Client = f.client
	}
	if fs.Changed("scope") {
		d.Scope = f.scope
	}
	if fs.Changed("status") {
		d.Status = f.status
	}
	if fs.Changed("description") {
		d.Description = f.description
	}
	if fs.Changed("price") {
		p, err := types.ParsePrice(f.price)
		if err != nil {
			return d, err
		}
		d.Price = p
	}
	return d, nil
}

func (f *draftFlags) draft() (types.Draft, error) {
	p, err := types.ParsePrice(f.price)
	if err != nil {
		return types.Draft{}, err
	}
	return types.Draft{
		Scope:       f.scope,
		Client:      f.client,
		Description: f.description,
		Price:       p,
		Status:      f.status,
	}, nil
}

func newAddCmd(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an opportunity",
		Example: `  presales add --client Acme --scope Paper --price 1500 --description "Market study"
  presales add --client Globex --status Negotiating`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d, err := f.draft()
			if err != nil {
				return err
			}
			if err := d.Validate(); err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			id, err := backend.Create(d)
			if err != nil {
				return fmt.Errorf("create opportunity: %w", err)
			}
			if a.flags.jsonMode {
				opp, err := backend.Get(id)
				if err != nil {
					return fmt.Errorf("get opportunity: %w", err)
				}
				return writeJSON(cmd.OutOrStdout(), opp)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Created opportunity #%d\n", id)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newListCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all opportunities",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			opps, err := backend.ListAll()
			if err != nil {
				return fmt.Errorf("list opportunities: %w", err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, opps)
			}
			if len(opps) == 0 {
				fmt.Fprintln(out, "No opportunities found.")
				return nil
			}
			w := tabwriter.NewWriter(out, 0, 0, 2, ' ', 0)
			fmt.Fprintln(w, "ID\tSCOPE\tCLIENT\tPRICE\tSTATUS\tDESCRIPTION")
			for _, o := range opps {
				fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\n",
					o.ID, o.Scope, o.Client, tracker.FormatPrice(o.Price), o.Status, o.Description)
			}
			return w.Flush()
		},
	}
}

func newShowCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "show <id>",
		Short: "Display one opportunity",
		Args:  exactArgs(1, "an opportunity ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			opp, err := backend.Get(id)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("opportunity #%d: %w", id, err)
				}
				return fmt.Errorf("get opportunity: %w", err)
			}

			out := cmd.OutOrStdout()
			if a.flags.jsonMode {
				return writeJSON(out, opp)
			}
			fmt.Fprintf(out, "ID:          %d\n", opp.ID)
			fmt.Fprintf(out, "Client:      %s\n", opp.Client)
			fmt.Fprintf(out, "Scope:       %s\n", opp.Scope)
			fmt.Fprintf(out, "Status:      %s\n", opp.Status)
			fmt.Fprintf(out, "Price:       %s\n", tracker.FormatPrice(opp.Price))
			fmt.Fprintf(out, "Description: %s\n", opp.Description)
			return nil
		},
	}
}

func newUpdateCmd(a *app) *cobra.Command {
	var f draftFlags
	cmd := &cobra.Command{
		Use:     "update <id>",
		Short:   "Change fields of an opportunity",
		Long:    "Update reads the opportunity, replaces the fields whose flags are given, and writes every field back.\nScope, status, and price must be valid; the client may be cleared.",
		Example: "  presales update 3 --status Won --price 2100",
		Args:    exactArgs(1, "an opportunity ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			opp, err := backend.Get(id)
			if err != nil {
				if isNotFound(err) {
					return fmt.Errorf("opportunity #%d: %w", id, err)
				}
				return fmt.Errorf("get opportunity: %w", err)
			}

			d, err := f.overlay(cmd.Flags(), opp.Draft())
			if err != nil {
				return err
			}
			if err := d.ValidateChoices(); err != nil {
				return err
			}
			if err := backend.Update(id, d); err != nil {
				return fmt.Errorf("update opportunity: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Updated opportunity #%d\n", id)
			return nil
		},
	}
	f.register(cmd.Flags())
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete an opportunity",
		Long:  "Delete removes the opportunity with the given ID. Deleting an ID that does not exist succeeds.",
		Args:  exactArgs(1, "an opportunity ID"),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseIDArg(args[0])
			if err != nil {
				return err
			}

			backend, err := a.attachBackend()
			if err != nil {
				return err
			}
			defer backend.Detach()

			if err := backend.Delete(id); err != nil {
				return fmt.Errorf("delete opportunity: %w", err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted opportunity #%d\n", id)
			return nil
		},
	}
}

package cli

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"
	"time"

	"gestion-produits/internal/client"
	"gestion-produits/internal/config"
	"gestion-produits/internal/model"
	"gestion-produits/internal/ui"

	"github.com/spf13/cobra"
)

func newProductsCmd() *cobra.Command {
	var apiURL string

	cmd := &cobra.Command{
		Use:     "products",
		Aliases: []string{"produits"},
		Short:   "Manage products through a running API server",
	}
	cmd.PersistentFlags().StringVar(&apiURL, "api-url", "", "API base URL (default $API_URL or http://localhost:3000)")

	session := func(cmd *cobra.Command) (*ui.Session, error) {
		cfg, err := config.Load()
		if err != nil {
			return nil, fmt.Errorf("failed to load configuration: %w", err)
		}
		base := cfg.Client.APIURL
		if apiURL != "" {
			base = apiURL
		}
		logger := config.NewLoggerTo(cfg.Logger, cmd.ErrOrStderr())
		return ui.NewSession(client.New(base, logger)), nil
	}

	cmd.AddCommand(
		newProductsListCmd(session),
		newProductsAddCmd(session),
		newProductsEditCmd(session),
		newProductsDeleteCmd(session),
	)
	return cmd
}

type sessionFunc func(cmd *cobra.Command) (*ui.Session, error)

func newProductsListCmd(newSession sessionFunc) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List all products, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return sessionError(s, err)
			}

			out := cmd.OutOrStdout()
			if s.Empty() {
				_, err := fmt.Fprintln(out, "Aucun produit.")
				return err
			}
			return printProducts(out, s.Products())
		},
	}
}

func newProductsAddCmd(newSession sessionFunc) *cobra.Command {
	var values ui.FormValues

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Create a product",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.OpenNew(); err != nil {
				return err
			}
			if err := s.SetValues(values); err != nil {
				return err
			}
			if err := s.Submit(cmd.Context()); err != nil {
				return sessionError(s, err)
			}

			p := s.Products()[0]
			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Produit créé: #%d %s\n", p.ID, p.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&values.Name, "name", "", "product name")
	cmd.Flags().StringVar(&values.Price, "price", "", "product price, e.g. 199.99")
	cmd.Flags().StringVar(&values.Category, "category", "", "product category")
	return cmd
}

func newProductsEditCmd(newSession sessionFunc) *cobra.Command {
	var values ui.FormValues

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Replace a product's name, price and category",
		Long:  "Replace a product's fields. Fields not given keep their current value.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			if err := s.Load(cmd.Context()); err != nil {
				return sessionError(s, err)
			}
			if err := s.OpenEdit(id); err != nil {
				if errors.Is(err, ui.ErrNotFound) {
					return fmt.Errorf("produit %d introuvable", id)
				}
				return err
			}

			_, current := s.Form()
			flags := cmd.Flags()
			if flags.Changed("name") {
				current.Name = values.Name
			}
			if flags.Changed("price") {
				current.Price = values.Price
			}
			if flags.Changed("category") {
				current.Category = values.Category
			}
			if err := s.SetValues(current); err != nil {
				return err
			}
			if err := s.Submit(cmd.Context()); err != nil {
				return sessionError(s, err)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "Produit modifié: #%d\n", id)
			return err
		},
	}

	cmd.Flags().StringVar(&values.Name, "name", "", "new product name")
	cmd.Flags().StringVar(&values.Price, "price", "", "new product price")
	cmd.Flags().StringVar(&values.Category, "category", "", "new product category")
	return cmd
}

func newProductsDeleteCmd(newSession sessionFunc) *cobra.Command {
	var yes bool

	cmd := &cobra.Command{
		Use:   "delete <id>",
		Short: "Delete a product",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			confirm := func(prompt string) bool {
				if yes {
					return true
				}
				return askConfirm(cmd.InOrStdin(), out, prompt)
			}

			sent, err := s.Delete(cmd.Context(), id, confirm)
			if err != nil {
				return sessionError(s, err)
			}
			if !sent {
				_, err = fmt.Fprintln(out, "Annulé.")
				return err
			}

			_, err = fmt.Fprintf(out, "Produit supprimé: #%d\n", id)
			return err
		},
	}

	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "do not ask for confirmation")
	return cmd
}

// sessionError returns the session's user-facing message for err, or err
// itself when the session recorded none.
func sessionError(s *ui.Session, err error) error {
	if msg := s.Error(); msg != "" {
		return errors.New(msg)
	}
	return err
}

func parseID(raw string) (int64, error) {
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("identifiant de produit invalide: %q", raw)
	}
	return id, nil
}

func askConfirm(in io.Reader, out io.Writer, prompt string) bool {
	fmt.Fprintf(out, "%s [y/N] ", prompt)

	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && line == "" {
		return false
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes", "o", "oui":
		return true
	default:
		return false
	}
}

func printProducts(w io.Writer, products []model.Product) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "ID\tNOM\tPRIX\tCATÉGORIE\tCRÉÉ LE")
	for _, p := range products {
		fmt.Fprintf(tw, "%d\t%s\t%s\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Price.StringFixed(2),
			p.Category,
			p.CreatedAt.Local().Format(time.DateTime),
		)
	}
	return tw.Flush()
}

package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/card-builder/internal/models"
	"github.com/card-builder/internal/vcard"
	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:     "list [query]",
	Short:   "List stored cards, optionally filtered by name, employee code, title or company",
	GroupID: "cards",
	Args:    cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		cards, err := store.List(context.Background(), strings.Join(args, " "))
		if err != nil {
			return fmt.Errorf("listing cards: %w", err)
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, cards)
		}
		printCardTable(out, cards)
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:     "show <employee-code>",
	Short:   "Show one card",
	GroupID: "cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := findCard(args[0])
		if err != nil {
			return err
		}

		out := cmd.OutOrStdout()
		if jsonOutput {
			return printJSON(out, card)
		}
		printCard(out, card)
		return nil
	},
}

var deleteCmd = &cobra.Command{
	Use:     "delete <employee-code>...",
	Short:   "Delete one or more cards",
	GroupID: "cards",
	Args:    cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		for _, code := range args {
			collection, err := store.Remove(context.Background(), code)
			if err != nil {
				return fmt.Errorf("deleting %s: %w", code, err)
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s (%d remaining)\n", code, collection.Len())
		}
		return nil
	},
}

var vcardCmd = &cobra.Command{
	Use:     "vcard <employee-code>",
	Short:   "Print a card as vCard 3.0",
	GroupID: "cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := findCard(args[0])
		if err != nil {
			return err
		}
		fmt.Fprintln(cmd.OutOrStdout(), vcard.Encode(card))
		return nil
	},
}

var qrCmd = &cobra.Command{
	Use:     "qr <employee-code>",
	Short:   "Write a card's vCard QR code as PNG",
	GroupID: "cards",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		card, err := findCard(args[0])
		if err != nil {
			return err
		}

		size, _ := cmd.Flags().GetInt("size")
		if size == 0 {
			size = cfg.QR.Size
		}
		if size < 1 || size > cfg.QR.MaxSize {
			return fmt.Errorf("--size must be between 1 and %d", cfg.QR.MaxSize)
		}
		path, _ := cmd.Flags().GetString("out")
		if path == "" {
			path = vcard.QRFileName(card)
		}

		png, err := vcard.RenderQR(vcard.Encode(card), size)
		if err != nil {
			return fmt.Errorf("rendering QR code: %w", err)
		}
		if err := os.WriteFile(path, png, 0o644); err != nil {
			return fmt.Errorf("writing %s: %w", path, err)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Wrote %s\n", path)
		return nil
	},
}

func init() {
	qrCmd.Flags().Int("size", 0, "image size in pixels (default QR_SIZE, at most QR_MAX_SIZE)")
	qrCmd.Flags().StringP("out", "o", "", "output file (default \"<name>-qr-code.png\")")
}

func findCard(code string) (*models.CardRecord, error) {
	card, err := store.Find(context.Background(), code)
	if err != nil {
		return nil, fmt.Errorf("loading %s: %w", code, err)
	}
	if card == nil {
		return nil, fmt.Errorf("card %s not found", code)
	}
	return card, nil
}

func printJSON(w io.Writer, v interface{}) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func printCardTable(w io.Writer, cards []models.CardRecord) {
	if len(cards) == 0 {
		fmt.Fprintln(w, "No cards found.")
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "CODE\tNAME\tTITLE\tCOMPANY\tUPDATED")
	for _, c := range cards {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\n", c.EmployeeCode, c.Name, c.Title, c.Company, c.LastUpdated)
	}
	tw.Flush()
	fmt.Fprintf(w, "\n%d card(s)\n", len(cards))
}

func printCard(w io.Writer, card *models.CardRecord) {
	theme := models.ResolveTheme(card.Theme)
	rows := []struct{ label, value string }{
		{"Employee code", card.EmployeeCode},
		{"Name", card.Name},
		{"Title", card.Title},
		{"Company", card.Company},
		{"Email", card.Email},
		{"Phone", card.Phone},
		{"Website", card.Website},
		{"Address", card.Address},
		{"Bio", card.Bio},
		{"Theme", theme.Name},
		{"Profile picture", present(card.ProfilePicture)},
		{"Company logo", present(card.CompanyLogo)},
		{"Last updated", card.LastUpdated},
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		if r.value == "" {
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	tw.Flush()
}

func present(image *string) string {
	if image == nil || *image == "" {
		return ""
	}
	return "yes"
}

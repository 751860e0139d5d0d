package main

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"time"

	"coldspec/internal/models"
	"coldspec/internal/repository"
	"coldspec/internal/service"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/spf13/cobra"
)

var (
	readingsSince time.Duration

	headerStyle = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cellStyle   = lipgloss.NewStyle().Padding(0, 1)
	errorStyle  = cellStyle.Foreground(lipgloss.Color("9"))
)

var readingsCmd = &cobra.Command{
	Use:   "readings",
	Short: "Print stored temperature readings",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()

		var since time.Time
		if readingsSince > 0 {
			since = time.Now().Add(-readingsSince)
		}
		list, err := a.services.Readings.List(cmd.Context(), since)
		if err != nil {
			return err
		}
		return printReadings(cmd.OutOrStdout(), list)
	},
}

var lookupCmd = &cobra.Command{
	Use:   "lookup",
	Short: "Check the user and SKU directories",
}

var lookupUserCmd = &cobra.Command{
	Use:   "user <badge>",
	Short: "Look up a badge in the user directory",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		return lookupUser(cmd.Context(), cmd.OutOrStdout(), a.services.Lookup, args[0])
	},
}

var lookupSkuCmd = &cobra.Command{
	Use:   "sku <code>",
	Short: "Look up a product code in the SKU catalog",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		a, err := bootstrap()
		if err != nil {
			return err
		}
		defer a.close()
		return lookupSku(cmd.Context(), cmd.OutOrStdout(), a.services.Lookup, args[0])
	},
}

func init() {
	readingsCmd.Flags().DurationVar(&readingsSince, "since", 0, "only readings newer than this (e.g. 168h); 0 prints all")
	lookupCmd.AddCommand(lookupUserCmd, lookupSkuCmd)
}

// printReadings renders readings as a table, highlighting out-of-range rows.
func printReadings(w io.Writer, list []models.TemperatureReading) error {
	if len(list) == 0 {
		_, err := fmt.Fprintln(w, "no readings")
		return err
	}
	rows := make([][]string, 0, len(list))
	for _, r := range list {
		rows = append(rows, []string{
			r.Date, r.Time, r.User, r.Role,
			strconv.FormatFloat(r.Value, 'f', -1, 64), r.Status,
		})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Data", "Horario", "Usuario", "Funcao", "Temperatura", "Status").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case row >= 0 && row < len(list) && list[row].Status == models.StatusError:
				return errorStyle
			default:
				return cellStyle
			}
		})
	_, err := fmt.Fprintln(w, t.Render())
	return err
}

func lookupUser(ctx context.Context, w io.Writer, lookup service.Lookup, badge string) error {
	u, err := lookup.User(ctx, badge)
	if errors.Is(err, repository.ErrNotFound) {
		_, err = fmt.Fprintf(w, "badge %s not registered\n", badge)
		return err
	}
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", u.BadgeID, u.Name, u.Role)
	return err
}

func lookupSku(ctx context.Context, w io.Writer, lookup service.Lookup, code string) error {
	res, err := lookup.Sku(ctx, code)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "%s\t%s\t%s\n", res.Code, res.Description, res.Status)
	return err
}

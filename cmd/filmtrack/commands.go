package main

import (
	"fmt"
	"os"
	"os/signal"
	"strconv"
	"syscall"
	"text/tabwriter"

	"github.com/adiwicaksana/filmtrack/internal/controllers"
	"github.com/adiwicaksana/filmtrack/internal/models"
	"github.com/adiwicaksana/filmtrack/internal/scheduler"
	"github.com/adiwicaksana/filmtrack/internal/views"
	"github.com/spf13/cobra"
)

func newLoginCmd(a *app) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Log in and save credentials for later commands",
		RunE: func(cmd *cobra.Command, args []string) error {
			be, closeBackend, err := a.openBackend()
			if err != nil {
				return err
			}
			defer closeBackend()

			credStore, err := a.credStore()
			if err != nil {
				return err
			}

			authCtrl := controllers.NewAuthController(be, credStore, a.logger)
			creds, err := authCtrl.Login(cmd.Context(), user, pass)
			if err != nil {
				return err
			}

			fmt.Printf("Logged in as %s\n", creds.User)
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "username")
	cmd.Flags().StringVarP(&pass, "pass", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newRegisterCmd(a *app) *cobra.Command {
	var user, pass string

	cmd := &cobra.Command{
		Use:   "register",
		Short: "Create a new account",
		RunE: func(cmd *cobra.Command, args []string) error {
			be, closeBackend, err := a.openBackend()
			if err != nil {
				return err
			}
			defer closeBackend()

			credStore, err := a.credStore()
			if err != nil {
				return err
			}

			authCtrl := controllers.NewAuthController(be, credStore, a.logger)
			if err := authCtrl.Register(cmd.Context(), user, pass); err != nil {
				return err
			}

			fmt.Println("Account created, log in with `filmtrack login`")
			return nil
		},
	}

	cmd.Flags().StringVarP(&user, "user", "u", "", "username")
	cmd.Flags().StringVarP(&pass, "pass", "p", "", "password")
	_ = cmd.MarkFlagRequired("user")
	_ = cmd.MarkFlagRequired("pass")
	return cmd
}

func newLogoutCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved credentials",
		RunE: func(cmd *cobra.Command, args []string) error {
			credStore, err := a.credStore()
			if err != nil {
				return err
			}
			authCtrl := controllers.NewAuthController(nil, credStore, a.logger)
			if err := authCtrl.Logout(); err != nil {
				return err
			}
			fmt.Println("Logged out")
			return nil
		},
	}
}

func newListCmd(a *app) *cobra.Command {
	var q views.Query
	var desc bool

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List the collection, optionally filtered and sorted",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			q.SortDirection = views.Ascending
			if desc {
				q.SortDirection = views.Descending
			}

			visible := views.Derive(ctrl.Records(), q)
			printRecords(visible)
			return nil
		},
	}

	cmd.Flags().StringVar(&q.Search, "search", "", "match against title, cast or type")
	cmd.Flags().StringVar(&q.Status, "status", "", "exact status filter")
	cmd.Flags().StringVar(&q.Category, "category", "", "exact type/category filter")
	cmd.Flags().StringVar(&q.SortColumn, "sort", views.ColumnID, "sort column (id, title, cast, type, episodes, status, date)")
	cmd.Flags().BoolVar(&desc, "desc", false, "sort descending")
	return cmd
}

func newAddCmd(a *app) *cobra.Command {
	var rec recordFlags

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add a new entry",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			record := rec.apply(models.Record{Status: models.StatusPlanned}, cmd)
			if err := ctrl.Add(cmd.Context(), record); err != nil {
				return err
			}

			fmt.Printf("Added %q (%d entries)\n", record.Title, ctrl.Stats().Total)
			return nil
		},
	}

	rec.install(cmd)
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEditCmd(a *app) *cobra.Command {
	var rec recordFlags

	cmd := &cobra.Command{
		Use:   "edit <id>",
		Short: "Edit an entry; only the given flags change",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := strconv.Atoi(args[0])
			if err != nil {
				return fmt.Errorf("invalid id %q", args[0])
			}

			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			existing, ok := findRecord(ctrl.Records(), id)
			if !ok {
				return &models.NotFoundError{ID: id}
			}

			updated := rec.apply(existing, cmd)
			if err := ctrl.Edit(cmd.Context(), updated); err != nil {
				return err
			}

			fmt.Printf("Updated #%d %q\n", id, updated.Title)
			return nil
		},
	}

	rec.install(cmd)
	return cmd
}

func newDeleteCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>...",
		Short: "Delete one or more entries",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ids := make([]int, 0, len(args))
			for _, arg := range args {
				id, err := strconv.Atoi(arg)
				if err != nil {
					return fmt.Errorf("invalid id %q", arg)
				}
				ids = append(ids, id)
			}

			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			done, err := ctrl.BulkDelete(cmd.Context(), ids)
			if err != nil {
				return fmt.Errorf("deleted %d of %d before failing: %w", done, len(ids), err)
			}

			fmt.Printf("Deleted %d entries\n", done)
			return nil
		},
	}
}

func newStatsCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "stats",
		Short: "Show collection totals",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			printStats(ctrl.Stats())
			return nil
		},
	}
}

func newWatchCmd(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "watch",
		Short: "Keep the collection refreshed and print it on every change",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctrl, cleanup, err := a.openSession(cmd.Context())
			if err != nil {
				return err
			}
			defer cleanup()

			printRecords(ctrl.Records())

			refresher := scheduler.NewRefresher(a.cfg.RefreshCron, ctrl, func() {
				printRecords(ctrl.Records())
			}, a.logger)
			if err := refresher.Start(); err != nil {
				return err
			}
			defer refresher.Stop()

			sigChan := make(chan os.Signal, 1)
			signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)
			sig := <-sigChan
			a.logger.WithField("signal", sig).Info("Shutting down")
			return nil
		},
	}
}

// recordFlags maps the entry form's fields onto flags shared by add and edit.
type recordFlags struct {
	title    string
	cast     string
	category string
	episodes int
	status   string
	date     string
	notes    string
	link     string
}

func (f *recordFlags) install(cmd *cobra.Command) {
	cmd.Flags().StringVar(&f.title, "title", "", "title")
	cmd.Flags().StringVar(&f.cast, "cast", "", "cast")
	cmd.Flags().StringVar(&f.category, "type", "", "category (Film, Series, Anime, ...)")
	cmd.Flags().IntVar(&f.episodes, "episodes", 0, "episode count, 0 for none")
	cmd.Flags().StringVar(&f.status, "status", "", "watch status")
	cmd.Flags().StringVar(&f.date, "date", "", "date watched (ISO, e.g. 2026-01-31)")
	cmd.Flags().StringVar(&f.notes, "notes", "", "notes")
	cmd.Flags().StringVar(&f.link, "link", "", "streaming link")
}

// apply overlays the flags the user actually set onto base.
func (f *recordFlags) apply(base models.Record, cmd *cobra.Command) models.Record {
	flags := cmd.Flags()
	if flags.Changed("title") {
		base.Title = f.title
	}
	if flags.Changed("cast") {
		base.Cast = f.cast
	}
	if flags.Changed("type") {
		base.Type = f.category
	}
	if flags.Changed("episodes") {
		if f.episodes == 0 {
			base.Episodes = nil
		} else {
			ep := f.episodes
			base.Episodes = &ep
		}
	}
	if flags.Changed("status") {
		base.Status = f.status
	}
	if flags.Changed("date") {
		if f.date == "" {
			base.Date = nil
		} else {
			d := f.date
			base.Date = &d
		}
	}
	if flags.Changed("notes") {
		base.Notes = f.notes
	}
	if flags.Changed("link") {
		base.Link = f.link
	}
	return base
}

func findRecord(records []models.Record, id int) (models.Record, bool) {
	for _, r := range records {
		if r.ID == id {
			return r, true
		}
	}
	return models.Record{}, false
}

func printRecords(records []models.Record) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tTITLE\tCAST\tTYPE\tEP\tSTATUS\tDATE")
	for _, r := range records {
		ep := "-"
		if r.Episodes != nil {
			ep = strconv.Itoa(*r.Episodes)
		}
		date := "-"
		if r.Date != nil {
			date = *r.Date
		}
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\t%s\t%s\n",
			r.ID, r.Title, orDash(r.Cast), orDash(r.Type), ep, orDash(r.Status), date)
	}
	_ = w.Flush()
}

func printStats(s controllers.Stats) {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintf(w, "Total\t%d\n", s.Total)
	fmt.Fprintf(w, "%s\t%d\n", models.StatusCompleted, s.Completed)
	fmt.Fprintf(w, "%s\t%d\n", models.StatusWatching, s.Watching)
	fmt.Fprintf(w, "%s\t%d\n", models.StatusPlanned, s.Planned)
	_ = w.Flush()
}

func orDash(s string) string {
	if s == "" {
		return "-"
	}
	return s
}

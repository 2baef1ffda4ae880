package main

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
	"github.com/yuqie6/AccomTrack/internal/service"
)

func periodCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "period", Short: "Manage six-week grading periods"}

	var p schema.SixWeekPeriod
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a period",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.Repos.Periods.Create(cmd.Context(), &p)
			if err != nil {
				return err
			}
			fmt.Printf("period %d created\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&p.Name, "name", "", "period name")
	add.Flags().StringVar(&p.StartDate, "start", "", "first day (YYYY-MM-DD)")
	add.Flags().StringVar(&p.EndDate, "end", "", "last day (YYYY-MM-DD)")
	add.Flags().StringVar(&p.Year, "year", "", "school year")
	for _, f := range []string{"name", "start", "end"} {
		_ = add.MarkFlagRequired(f)
	}

	var year string
	list := &cobra.Command{
		Use:   "list",
		Short: "List periods",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			periods, err := core.Repos.Periods.List(cmd.Context(), year)
			if err != nil {
				return err
			}
			for _, p := range periods {
				fmt.Printf("%4d  %-20s %s .. %s  %s\n", p.ID, p.Name, p.StartDate, p.EndDate, p.Year)
			}
			return nil
		},
	}
	list.Flags().StringVar(&year, "year", "", "only this school year")

	var on string
	current := &cobra.Command{
		Use:   "current",
		Short: "Show the period containing a date (default today)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := core.Repos.Periods.FindContaining(cmd.Context(), dateOrToday(on))
			if err != nil {
				return err
			}
			fmt.Printf("%d  %s %s .. %s\n", p.ID, p.Name, p.StartDate, p.EndDate)
			return nil
		},
	}
	current.Flags().StringVar(&on, "date", "", "date (YYYY-MM-DD)")

	var name, start, end, pyear string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a period",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := schema.SixWeekPeriodPatch{
				Name:      changed(cmd, "name", name),
				StartDate: changed(cmd, "start", start),
				EndDate:   changed(cmd, "end", end),
				Year:      changed(cmd, "year", pyear),
			}
			if err := core.Repos.Periods.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Printf("period %d updated\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "period name")
	update.Flags().StringVar(&start, "start", "", "first day")
	update.Flags().StringVar(&end, "end", "", "last day")
	update.Flags().StringVar(&pyear, "year", "", "school year")

	del := deleteCmd("period", func(cmd *cobra.Command, id int64) error {
		return core.Repos.Periods.Delete(cmd.Context(), id)
	})

	cmd.AddCommand(add, list, current, update, del)
	return cmd
}

func logCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "log", Short: "Record and review accommodation service logs"}

	var classID, accID int64
	var date string
	var notProvided bool
	set := &cobra.Command{
		Use:   "set",
		Short: "Record whether an accommodation was provided",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			d := dateOrToday(date)
			id, err := core.Services.Tracking.Record(cmd.Context(), classID, accID, d, !notProvided)
			if err != nil {
				return err
			}
			fmt.Printf("log %d: class %d accommodation %d %s provided=%t\n", id, classID, accID, d, !notProvided)
			return nil
		},
	}
	set.Flags().BoolVar(&notProvided, "no", false, "record as not provided")

	toggle := &cobra.Command{
		Use:   "toggle",
		Short: "Flip the provided flag for a day",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			l, err := core.Services.Tracking.Toggle(cmd.Context(), classID, accID, dateOrToday(date))
			if err != nil {
				return err
			}
			fmt.Printf("log %d: %s provided=%t\n", l.ID, l.ServiceDate, l.Provided)
			return nil
		},
	}

	for _, c := range []*cobra.Command{set, toggle} {
		c.Flags().Int64Var(&classID, "class", 0, "class id")
		c.Flags().Int64Var(&accID, "accommodation", 0, "accommodation id")
		c.Flags().StringVar(&date, "date", "", "service date (default today)")
		_ = c.MarkFlagRequired("class")
		_ = c.MarkFlagRequired("accommodation")
	}

	var from, to string
	var periodID int64
	week := &cobra.Command{
		Use:   "grid",
		Short: "Print the tracking grid of a class",
		Long:  "Without --from/--to or --period the grid covers the configured weekdays of the current week.",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			var (
				grid *service.ClassTracking
				err  error
			)
			switch {
			case periodID > 0:
				grid, _, err = core.Services.Tracking.PeriodTracking(ctx, classID, periodID)
			case from != "" || to != "":
				grid, err = core.Services.Tracking.ClassTracking(ctx, classID, from, to)
			default:
				grid, err = core.Services.Tracking.WeekTracking(ctx, classID, dateOrToday(date))
			}
			if err != nil {
				return err
			}
			printGrid(grid)
			return nil
		},
	}
	week.Flags().Int64Var(&classID, "class", 0, "class id")
	week.Flags().StringVar(&date, "date", "", "any day of the week to show")
	week.Flags().StringVar(&from, "from", "", "first day")
	week.Flags().StringVar(&to, "to", "", "last day")
	week.Flags().Int64Var(&periodID, "period", 0, "six-week period id")
	_ = week.MarkFlagRequired("class")

	var onlyProvided bool
	list := &cobra.Command{
		Use:   "list",
		Short: "List raw log rows",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			filter := repository.ServiceLogFilter{ClassID: classID, AccommodationID: accID, From: from, To: to}
			if onlyProvided {
				filter.Provided = &onlyProvided
			}
			logs, err := core.Repos.ServiceLogs.List(cmd.Context(), filter)
			if err != nil {
				return err
			}
			for _, l := range logs {
				fmt.Printf("%5d  %s  class %d  accommodation %d  %t\n", l.ID, l.ServiceDate, l.ClassID, l.AccommodationID, l.Provided)
			}
			return nil
		},
	}
	list.Flags().Int64Var(&classID, "class", 0, "only this class")
	list.Flags().Int64Var(&accID, "accommodation", 0, "only this accommodation")
	list.Flags().StringVar(&from, "from", "", "first day")
	list.Flags().StringVar(&to, "to", "", "last day")
	list.Flags().BoolVar(&onlyProvided, "provided", false, "only provided rows")

	del := deleteCmd("service log", func(cmd *cobra.Command, id int64) error {
		return core.Repos.ServiceLogs.Delete(cmd.Context(), id)
	})

	cmd.AddCommand(set, toggle, week, list, del)
	return cmd
}

func printGrid(grid *service.ClassTracking) {
	fmt.Printf("%s (Period %s)  %s .. %s\n", grid.Class.Name, grid.Class.Period, grid.From, grid.To)
	var b strings.Builder
	fmt.Fprintf(&b, "%-36s", "")
	for _, d := range grid.Dates {
		b.WriteString(" " + d[5:])
	}
	fmt.Println(b.String())

	for _, st := range grid.Students {
		fmt.Printf("%s, %s [%s]\n", st.LastName, st.FirstName, st.PlanType)
		for _, acc := range st.Accommodations {
			b.Reset()
			fmt.Fprintf(&b, "  %-34s", truncate("#"+strconv.FormatInt(acc.ID, 10)+" "+acc.Description, 34))
			for _, d := range grid.Dates {
				provided, logged := acc.Logs[d]
				switch {
				case !logged:
					b.WriteString("     .")
				case provided:
					b.WriteString("     " + core.Cfg.Export.CheckMark)
				default:
					b.WriteString("     -")
				}
			}
			fmt.Println(b.String())
		}
	}
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n-1]) + "~"
}

func dateOrToday(d string) string {
	if d != "" {
		return d
	}
	return time.Now().Format(service.DateLayout)
}

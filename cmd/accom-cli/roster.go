package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/yuqie6/AccomTrack/internal/eventbus"
	"github.com/yuqie6/AccomTrack/internal/repository"
	"github.com/yuqie6/AccomTrack/internal/schema"
)

func classCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "class", Short: "Manage classes"}

	var c schema.Class
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a class",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.Repos.Classes.Create(cmd.Context(), &c)
			if err != nil {
				return err
			}
			core.Events.Publish(eventbus.Event{Type: eventbus.TypeRosterChanged, Data: map[string]any{"class_id": id}})
			fmt.Printf("class %d created\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&c.Name, "name", "", "class name")
	add.Flags().StringVar(&c.Subject, "subject", "", "subject")
	add.Flags().StringVar(&c.Period, "period", "", "bell period")
	add.Flags().StringVar(&c.Year, "year", "", "school year")
	_ = add.MarkFlagRequired("name")

	list := &cobra.Command{
		Use:   "list",
		Short: "List classes",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			classes, err := core.Repos.Classes.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, c := range classes {
				fmt.Printf("%4d  %-24s %-12s period %-4s %s\n", c.ID, c.Name, c.Subject, c.Period, c.Year)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a class with its students and their accommodations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			summary, err := core.Services.Roster.ClassSummary(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%s - %s (Period %s, %s)\n", summary.Name, summary.Subject, summary.Period, summary.Year)
			if len(summary.Students) == 0 {
				fmt.Println("  no students enrolled")
			}
			for _, st := range summary.Students {
				fmt.Printf("  %s, %s [%s %s]\n", st.LastName, st.FirstName, st.StudentID, st.PlanType)
				for _, a := range st.Accommodations {
					fmt.Printf("    #%d %s (%s)\n", a.ID, a.Description, a.Category)
				}
			}
			return nil
		},
	}

	var name, subject, period, year string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a class",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := schema.ClassPatch{
				Name:    changed(cmd, "name", name),
				Subject: changed(cmd, "subject", subject),
				Period:  changed(cmd, "period", period),
				Year:    changed(cmd, "year", year),
			}
			if err := core.Repos.Classes.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Printf("class %d updated\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&name, "name", "", "class name")
	update.Flags().StringVar(&subject, "subject", "", "subject")
	update.Flags().StringVar(&period, "period", "", "bell period")
	update.Flags().StringVar(&year, "year", "", "school year")

	del := deleteCmd("class", func(cmd *cobra.Command, id int64) error {
		return core.Repos.Classes.Delete(cmd.Context(), id)
	})

	cmd.AddCommand(add, list, show, update, del)
	return cmd
}

func studentCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "student", Short: "Manage students"}

	var s schema.Student
	add := &cobra.Command{
		Use:   "add",
		Short: "Create a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.Repos.Students.Create(cmd.Context(), &s)
			if err != nil {
				return err
			}
			core.Events.Publish(eventbus.Event{Type: eventbus.TypeRosterChanged, Data: map[string]any{"student_id": id}})
			fmt.Printf("student %d created\n", id)
			return nil
		},
	}
	add.Flags().StringVar(&s.FirstName, "first", "", "first name")
	add.Flags().StringVar(&s.LastName, "last", "", "last name")
	add.Flags().StringVar(&s.StudentID, "student-id", "", "school student id (unique)")
	add.Flags().StringVar(&s.PlanType, "plan", "", "plan type: 504 or IEP")
	_ = add.MarkFlagRequired("student-id")
	_ = add.MarkFlagRequired("plan")

	list := &cobra.Command{
		Use:   "list",
		Short: "List students",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			students, err := core.Repos.Students.List(cmd.Context())
			if err != nil {
				return err
			}
			for _, st := range students {
				fmt.Printf("%4d  %-10s %-4s %s, %s\n", st.ID, st.StudentID, st.PlanType, st.LastName, st.FirstName)
			}
			return nil
		},
	}

	show := &cobra.Command{
		Use:   "show <id>",
		Short: "Show a student with accommodations and classes",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			st, err := core.Services.Roster.StudentWithAccommodations(cmd.Context(), id)
			if err != nil {
				return err
			}
			classes, err := core.Repos.Enrollments.ListClassesForStudent(cmd.Context(), id)
			if err != nil {
				return err
			}
			fmt.Printf("%s, %s [%s %s]\n", st.LastName, st.FirstName, st.StudentID, st.PlanType)
			fmt.Println("accommodations:")
			for _, a := range st.Accommodations {
				fmt.Printf("  #%d %s (%s)\n", a.ID, a.Description, a.Category)
			}
			fmt.Println("classes:")
			for _, c := range classes {
				fmt.Printf("  #%d %s (Period %s)\n", c.ID, c.Name, c.Period)
			}
			return nil
		},
	}

	var first, last, studentID, plan string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update a student",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := schema.StudentPatch{
				FirstName: changed(cmd, "first", first),
				LastName:  changed(cmd, "last", last),
				StudentID: changed(cmd, "student-id", studentID),
				PlanType:  changed(cmd, "plan", plan),
			}
			if err := core.Repos.Students.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Printf("student %d updated\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&first, "first", "", "first name")
	update.Flags().StringVar(&last, "last", "", "last name")
	update.Flags().StringVar(&studentID, "student-id", "", "school student id")
	update.Flags().StringVar(&plan, "plan", "", "plan type: 504 or IEP")

	del := deleteCmd("student", func(cmd *cobra.Command, id int64) error {
		return core.Repos.Students.Delete(cmd.Context(), id)
	})

	cmd.AddCommand(add, list, show, update, del)
	return cmd
}

func accommodationCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "accommodation", Aliases: []string{"acc"}, Short: "Manage a student's accommodations"}

	var a schema.Accommodation
	add := &cobra.Command{
		Use:   "add",
		Short: "Add an accommodation to a student",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := core.Repos.Accommodations.Create(cmd.Context(), &a)
			if err != nil {
				return err
			}
			fmt.Printf("accommodation %d created\n", id)
			return nil
		},
	}
	add.Flags().Int64Var(&a.StudentID, "student", 0, "student row id")
	add.Flags().StringVar(&a.Description, "description", "", "what is provided")
	add.Flags().StringVar(&a.Category, "category", "", "category, e.g. testing")
	_ = add.MarkFlagRequired("student")
	_ = add.MarkFlagRequired("description")

	list := &cobra.Command{
		Use:   "list <student-id>",
		Short: "List a student's accommodations",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			accs, err := core.Repos.Accommodations.ListByStudent(cmd.Context(), id)
			if err != nil {
				return err
			}
			for _, a := range accs {
				fmt.Printf("%4d  %-14s %s\n", a.ID, a.Category, a.Description)
			}
			return nil
		},
	}

	var description, category string
	update := &cobra.Command{
		Use:   "update <id>",
		Short: "Update an accommodation",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			patch := schema.AccommodationPatch{
				Description: changed(cmd, "description", description),
				Category:    changed(cmd, "category", category),
			}
			if err := core.Repos.Accommodations.Update(cmd.Context(), id, patch); err != nil {
				return err
			}
			fmt.Printf("accommodation %d updated\n", id)
			return nil
		},
	}
	update.Flags().StringVar(&description, "description", "", "what is provided")
	update.Flags().StringVar(&category, "category", "", "category")

	del := deleteCmd("accommodation", func(cmd *cobra.Command, id int64) error {
		return core.Repos.Accommodations.Delete(cmd.Context(), id)
	})

	cmd.AddCommand(add, list, update, del)
	return cmd
}

func enrollCmd() *cobra.Command {
	var classID, studentID int64
	var remove bool

	cmd := &cobra.Command{
		Use:   "enroll",
		Short: "Enroll a student in a class (or --remove)",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if remove {
				if err := core.Repos.Enrollments.Remove(ctx, classID, studentID); err != nil {
					return err
				}
				fmt.Printf("student %d removed from class %d\n", studentID, classID)
			} else {
				if _, err := core.Repos.Enrollments.Add(ctx, classID, studentID); err != nil {
					return err
				}
				fmt.Printf("student %d enrolled in class %d\n", studentID, classID)
			}
			core.Events.Publish(eventbus.Event{
				Type: eventbus.TypeEnrollmentChanged,
				Data: map[string]any{"class_id": classID, "student_id": studentID, "removed": remove},
			})
			return nil
		},
	}
	cmd.Flags().Int64Var(&classID, "class", 0, "class id")
	cmd.Flags().Int64Var(&studentID, "student", 0, "student row id")
	cmd.Flags().BoolVar(&remove, "remove", false, "remove the enrollment instead")
	_ = cmd.MarkFlagRequired("class")
	_ = cmd.MarkFlagRequired("student")

	list := &cobra.Command{
		Use:   "list",
		Short: "List enrollments",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			rows, err := core.Repos.Enrollments.List(cmd.Context(), repository.EnrollmentFilter{ClassID: classID, StudentID: studentID})
			if err != nil {
				return err
			}
			for _, r := range rows {
				fmt.Printf("%4d  class %d  student %d\n", r.ID, r.ClassID, r.StudentID)
			}
			return nil
		},
	}
	list.Flags().Int64Var(&classID, "class", 0, "only this class")
	list.Flags().Int64Var(&studentID, "student", 0, "only this student")

	cmd.AddCommand(list)
	return cmd
}

func deleteCmd(noun string, fn func(cmd *cobra.Command, id int64) error) *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: fmt.Sprintf("Delete a %s and everything that depends on it", noun),
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseID(args[0])
			if err != nil {
				return err
			}
			if err := fn(cmd, id); err != nil {
				return err
			}
			core.Events.Publish(eventbus.Event{Type: eventbus.TypeRosterChanged, Data: map[string]any{noun + "_id": id}})
			fmt.Printf("%s %d deleted\n", noun, id)
			return nil
		},
	}
}

package cli

import (
	"errors"
	"fmt"

	"github.com/shafwanhasyim/sikad-gg/internal/firebase"
	"github.com/shafwanhasyim/sikad-gg/internal/grading"
	"github.com/spf13/cobra"
)

func reportCmd(a *app) *cobra.Command {
	c := &cobra.Command{
		Use:   "report",
		Short: "Compute and print grade reports",
	}

	c.AddCommand(
		reportIPSCmd(a),
		reportRankingCmd(a),
		reportDistributionCmd(a),
		reportTranscriptCmd(a),
	)
	return c
}

func reportIPSCmd(a *app) *cobra.Command {
	var student, semester string

	c := &cobra.Command{
		Use:   "ips",
		Short: "Semester GPA (IP semester) of one student",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !firebase.ValidDocID(student) {
				return fmt.Errorf("invalid student id %q", student)
			}
			if err := grading.ValidateSemester(semester); err != nil {
				return err
			}

			b, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			gpa, err := grading.NewReporter(b.store).SemesterGPA(cmd.Context(), student, semester)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd).SemesterGPA(gpa))
			return nil
		},
	}

	c.Flags().StringVar(&student, "student", "", "student document id (required)")
	c.Flags().StringVar(&semester, "semester", "", `semester label, e.g. "Ganjil 2023/2024" (required)`)
	_ = c.MarkFlagRequired("student")
	_ = c.MarkFlagRequired("semester")
	return c
}

func reportRankingCmd(a *app) *cobra.Command {
	var course string

	c := &cobra.Command{
		Use:   "ranking",
		Short: "Rank students by mean score, overall or within one course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if course != "" && !firebase.ValidDocID(course) {
				return fmt.Errorf("invalid course id %q", course)
			}

			b, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			ranking, err := grading.NewReporter(b.store).Ranking(cmd.Context(), course)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd).Ranking(ranking))
			return nil
		},
	}

	c.Flags().StringVar(&course, "course", "", "course document id (optional)")
	return c
}

func reportDistributionCmd(a *app) *cobra.Command {
	var course, semester string

	c := &cobra.Command{
		Use:   "distribution",
		Short: "Score histogram of one course",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !firebase.ValidDocID(course) {
				return fmt.Errorf("invalid course id %q", course)
			}

			ctx := cmd.Context()
			b, err := a.connect(ctx)
			if err != nil {
				return err
			}

			label := course
			found, err := b.store.GetCourse(ctx, course)
			switch {
			case err == nil:
				label = fmt.Sprintf("%s %s", found.Code, found.Name)
			case !errors.Is(err, firebase.ErrNotFound):
				return err
			}

			dist, err := grading.NewReporter(b.store).Distribution(ctx, course, semester)
			if err != nil {
				return err
			}

			if semester == "" {
				semester = grading.AllSemesters
			}
			fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd).Distribution(label, semester, dist))
			return nil
		},
	}

	c.Flags().StringVar(&course, "course", "", "course document id (required)")
	c.Flags().StringVar(&semester, "semester", "", "semester label (optional, all semesters when empty)")
	_ = c.MarkFlagRequired("course")
	return c
}

func reportTranscriptCmd(a *app) *cobra.Command {
	var student string

	c := &cobra.Command{
		Use:   "transcript",
		Short: "Every grade of one student with pass or fail",
		RunE: func(cmd *cobra.Command, _ []string) error {
			if !firebase.ValidDocID(student) {
				return fmt.Errorf("invalid student id %q", student)
			}

			b, err := a.connect(cmd.Context())
			if err != nil {
				return err
			}

			transcript, err := grading.NewReporter(b.store).Transcript(cmd.Context(), student)
			if err != nil {
				return err
			}

			fmt.Fprint(cmd.OutOrStdout(), a.renderer(cmd).Transcript(transcript))
			return nil
		},
	}

	c.Flags().StringVar(&student, "student", "", "student document id (required)")
	_ = c.MarkFlagRequired("student")
	return c
}

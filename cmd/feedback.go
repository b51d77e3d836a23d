package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	feedbackRatingFlag  int
	feedbackCommentFlag string

	feedbackCmd = &cobra.Command{
		Use:   "feedback [taskID]",
		Short: "Rate a finished task",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()

			if err := engine.SendFeedback(
				cmd.Context(), args[0], feedbackRatingFlag, feedbackCommentFlag,
			); err != nil {
				return err
			}

			fmt.Printf("feedback recorded for %s\n", args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(feedbackCmd)

	feedbackCmd.Flags().IntVar(&feedbackRatingFlag, "rating", 0, "Rating for the task")
	feedbackCmd.Flags().StringVar(&feedbackCommentFlag, "comment", "", "Optional free-form feedback")
	feedbackCmd.MarkFlagRequired("rating")
}

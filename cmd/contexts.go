package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	contextsLimitFlag  int
	contextsOffsetFlag int

	contextsCmd = &cobra.Command{
		Use:   "contexts",
		Short: "Manage conversation contexts",
		RunE: func(cmd *cobra.Command, args []string) error {
			return cmd.Help()
		},
	}

	contextsListCmd = &cobra.Command{
		Use:   "list",
		Short: "List conversation contexts known to the agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()

			listed, err := engine.Contexts(cmd.Context(), contextsLimitFlag, contextsOffsetFlag)
			if err != nil {
				return err
			}

			if len(listed) == 0 {
				fmt.Println("no contexts")
				return nil
			}

			for _, c := range listed {
				preview := c.Preview
				if preview == "" {
					preview = "(no preview)"
				}
				fmt.Printf("%s  %d task(s)  %s\n", c.ID, len(c.TaskIDs), preview)
			}
			return nil
		},
	}

	contextsHistoryCmd = &cobra.Command{
		Use:   "history [contextID]",
		Short: "Replay the message history of a context",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()

			history, err := engine.History(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			for _, msg := range history {
				fmt.Printf("[%s] %s\n", msg.Role, msg.Text())
			}
			return nil
		},
	}

	contextsClearCmd = &cobra.Command{
		Use:   "clear [contextID]",
		Short: "Clear a context on the server and locally",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			engine := newEngine()

			if err := engine.ClearContext(cmd.Context(), args[0]); err != nil {
				return err
			}

			fmt.Printf("cleared %s\n", args[0])
			return nil
		},
	}
)

func init() {
	rootCmd.AddCommand(contextsCmd)
	contextsCmd.AddCommand(contextsListCmd)
	contextsCmd.AddCommand(contextsHistoryCmd)
	contextsCmd.AddCommand(contextsClearCmd)

	contextsListCmd.Flags().IntVar(&contextsLimitFlag, "limit", 0, "Maximum number of contexts to list")
	contextsListCmd.Flags().IntVar(&contextsOffsetFlag, "offset", 0, "Number of contexts to skip")
}

package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/bluemens/dermatopathology-scheduler/internal/roster"
	"github.com/bluemens/dermatopathology-scheduler/pkg/scheduler"
)

var validateCmd = &cobra.Command{
	Use:   "validate",
	Short: "Check a roster and build its constraint model without solving",
	RunE:  runValidate,
}

func init() {
	validateCmd.Flags().StringVarP(&rosterPath, "roster", "r", "", "roster file (json)")
	validateCmd.MarkFlagRequired("roster")
	rootCmd.AddCommand(validateCmd)
}

func runValidate(cmd *cobra.Command, args []string) error {
	if _, err := loadConfig(); err != nil {
		return err
	}

	input, err := roster.Load(rosterPath)
	if err != nil {
		return fmt.Errorf("load roster: %w", err)
	}

	sched, err := scheduler.New(input)
	if err != nil {
		return err
	}
	m, space, err := sched.BuildModel()
	if err != nil {
		return err
	}

	fmt.Printf("roster ok: %d physicians, %d days\n", len(input.Physicians), len(input.Days))
	fmt.Printf("model: %d decision variables, %d total variables, %d constraints\n",
		space.Len(), m.NumVariables(), m.NumConstraints())
	for _, group := range m.Groups() {
		fmt.Printf("  %-24s %d\n", group, m.GroupCount(group))
	}
	return nil
}

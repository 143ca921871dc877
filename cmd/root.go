package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var storeFlag string

var rootCmd = &cobra.Command{
	Use:   "roomradio",
	Short: "RoomRadio - shared listening rooms with a rotating queue.",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runApp(cmd.Context(), storeFlag)
	},
	SilenceUsage: true,
}

func init() {
	rootCmd.Flags().StringVar(&storeFlag, "store", storeValkey, "room state store: valkey or memory (single process)")
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Println(err)
		os.Exit(1)
	}
}

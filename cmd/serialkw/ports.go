package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var portsCmd = &cobra.Command{
	Use:   "ports",
	Short: "List available com ports",
	Long: `List the com ports found on the system, with USB metadata where
available.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		ports, err := lib.ListComPorts()
		if err != nil {
			return err
		}
		if len(ports) == 0 {
			fmt.Println("No com ports found")
			return nil
		}
		namesOnly, _ := cmd.Flags().GetBool("names")
		for _, p := range ports {
			if namesOnly {
				fmt.Println(p.Device)
				continue
			}
			line := p.Device
			if p.Description != "" {
				line += "  " + p.Description
			}
			if p.IsUSB {
				line += fmt.Sprintf("  [VID:PID=%s:%s SER=%s]", p.VID, p.PID, p.SerialNumber)
			}
			fmt.Println(line)
		}
		return nil
	},
}

var matchCmd = &cobra.Command{
	Use:   "match <regexp>",
	Short: "Fail unless a com port matches the pattern",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		lib, err := newLibrary()
		if err != nil {
			return err
		}
		found, err := lib.ComPortShouldExistRegexp(args[0])
		if err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		for _, p := range found {
			fmt.Println(p.Device)
		}
		return nil
	},
}

func init() {
	portsCmd.Flags().Bool("names", false, "print device names only")
	rootCmd.AddCommand(portsCmd)
	rootCmd.AddCommand(matchCmd)
}

package main

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var sendCmd = &cobra.Command{
	Use:   "send <port> [data]",
	Short: "Send data to a serial port and print the reply",
	Long: `Send data to a serial port. Data comes from the argument or from
stdin when piped. The reply buffered within the read timeout is printed,
decoded with the configured encoding.

Example usage:
  serialkw send /dev/ttyUSB0 "AT+GMR" --encoding ascii
  echo "01 02 03" | serialkw send /dev/ttyUSB0
  serialkw send loop:// "Hello" --encoding ascii`,
	Args: cobra.RangeArgs(1, 2),
	RunE: func(cmd *cobra.Command, args []string) error {
		locator := args[0]
		var data string
		if len(args) == 2 {
			data = args[1]
		} else {
			in, err := io.ReadAll(os.Stdin)
			if err != nil {
				return fmt.Errorf("reading stdin: %w", err)
			}
			data = strings.TrimRight(string(in), "\r\n")
		}

		lib, err := newLibrary()
		if err != nil {
			return err
		}
		defer lib.DeleteAllPorts()

		overrides := map[string]any{}
		if baud, _ := cmd.Flags().GetInt("baudrate"); baud > 0 {
			overrides["baudrate"] = baud
		}
		if timeout, _ := cmd.Flags().GetFloat64("timeout"); timeout > 0 {
			overrides["timeout"] = timeout
		}
		if _, err = lib.AddPort(locator, true, false, overrides); err != nil {
			return err
		}
		if err = lib.WriteData(data, "", ""); err != nil {
			return err
		}
		reply, err := lib.ReadAllData("", "")
		if err != nil {
			return err
		}
		if reply != "" {
			fmt.Println(reply)
		}
		return nil
	},
}

func init() {
	sendCmd.Flags().Int("baudrate", 0, "override the configured baud rate")
	sendCmd.Flags().Float64("timeout", 0, "read timeout in seconds")
	rootCmd.AddCommand(sendCmd)
}

package main

import (
	"fmt"
	"net"
	"time"

	"github.com/spf13/cobra"

	"metacache"
)

func init() {
	rootCmd.AddCommand(getCmd, setCmd, delCmd)
}

var getCmd = &cobra.Command{
	Use:   "get <key>",
	Short: "Issue a single meta-get and print the value",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dial(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.AddMGet([]byte(args[0]), nil); err != nil {
			return err
		}
		if _, err := client.Finish(); err != nil {
			return err
		}
		kind, err := client.AwaitNext()
		if err != nil {
			return err
		}
		if kind.String() == "VA" {
			fmt.Printf("%s\n", client.GetData())
		} else {
			fmt.Println(kind)
		}
		return nil
	},
}

var setCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Issue a single meta-set",
	Args:  cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dial(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.AddMSet([]byte(args[0]), []byte(args[1]), nil); err != nil {
			return err
		}
		if _, err := client.Finish(); err != nil {
			return err
		}
		kind, err := client.AwaitNext()
		if err != nil {
			return err
		}
		fmt.Println(kind)
		return nil
	},
}

var delCmd = &cobra.Command{
	Use:   "del <key>",
	Short: "Issue a single meta-delete",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		client, err := dial(cmd)
		if err != nil {
			return err
		}
		defer client.Close()

		if _, err := client.AddDelete([]byte(args[0])); err != nil {
			return err
		}
		if _, err := client.Finish(); err != nil {
			return err
		}
		kind, err := client.AwaitNext()
		if err != nil {
			return err
		}
		fmt.Println(kind)
		return nil
	},
}

func dial(cmd *cobra.Command) (*metacache.Client, error) {
	addr := getStringFlag(cmd, "addr", "127.0.0.1:11211")
	conn, err := net.DialTimeout("tcp", addr, 5*time.Second)
	if err != nil {
		return nil, fmt.Errorf("dial %s: %w", addr, err)
	}
	return metacache.Open(conn), nil
}

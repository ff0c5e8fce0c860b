package counter

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var (
	getCmd = &cobra.Command{
		Use:   "get [name]",
		Short: "Reads the current value of a counter",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if value, err := rpcCounter.Get(name); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, value=%d\n", name, value)
			}
			return nil
		},
	}
	addCmd = &cobra.Command{
		Use:   "add [name] [delta]",
		Short: "Atomically adds delta to a counter and prints the new value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be a number: %w", err)
			}
			if value, err := rpcCounter.AddAndGet(name, delta); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, value=%d\n", name, value)
			}
			return nil
		},
	}
	getAddCmd = &cobra.Command{
		Use:   "getadd [name] [delta]",
		Short: "Atomically adds delta to a counter and prints the previous value",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			delta, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("delta must be a number: %w", err)
			}
			if value, err := rpcCounter.GetAndAdd(name, delta); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, previous=%d\n", name, value)
			}
			return nil
		},
	}
	setCmd = &cobra.Command{
		Use:   "set [name] [value]",
		Short: "Unconditionally sets the value of a counter",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			value, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("value must be a number: %w", err)
			}
			if err := rpcCounter.Set(name, value); err != nil {
				return err
			} else {
				fmt.Println("set successfully")
			}
			return nil
		},
	}
	casCmd = &cobra.Command{
		Use:   "cas [name] [expect] [update]",
		Short: "Sets the counter to update if its current value equals expect",
		Args:  cobra.ExactArgs(3),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			expect, err := strconv.ParseInt(args[1], 10, 64)
			if err != nil {
				return fmt.Errorf("expect must be a number: %w", err)
			}
			update, err := strconv.ParseInt(args[2], 10, 64)
			if err != nil {
				return fmt.Errorf("update must be a number: %w", err)
			}
			if swapped, err := rpcCounter.CompareAndSet(name, expect, update); err != nil {
				return err
			} else {
				fmt.Printf("name=%s, swapped=%t\n", name, swapped)
			}
			return nil
		},
	}
	destroyCmd = &cobra.Command{
		Use:   "destroy [name]",
		Short: "Removes a counter, further operations on the name will fail",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			name := args[0]
			if err := rpcCounter.Destroy(name); err != nil {
				return err
			} else {
				fmt.Println("destroy successfully")
			}
			return nil
		},
	}
)

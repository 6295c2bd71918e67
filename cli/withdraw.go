package cli

import (
	"encoding/json"
	"fmt"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
	"github.com/spf13/cobra"
	"github.com/ssbcDeploy/deploy"
)

var withdrawCmd = &cobra.Command{
	Use:   "withdraw <contract> <destination> <amount>",
	Short: "Call the owner-only Withdraw on a deployed contract",
	Args:  cobra.ExactArgs(3),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid contract address %q", args[0])
		}
		if !common.IsHexAddress(args[1]) {
			return fmt.Errorf("invalid destination %q", args[1])
		}
		amount, ok := new(big.Int).SetString(args[2], 10)
		if !ok {
			return fmt.Errorf("invalid amount %q", args[2])
		}
		signer, err := loadSigner(cmd)
		if err != nil {
			return err
		}
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		c, err := deploy.At(cmd.Context(), l, common.HexToAddress(args[0]), signer)
		if err != nil {
			return err
		}
		r, err := c.Withdraw(cmd.Context(), common.HexToAddress(args[1]), amount)
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(r, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

var showCmd = &cobra.Command{
	Use:   "show <contract>",
	Short: "Print a deployed contract instance",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if !common.IsHexAddress(args[0]) {
			return fmt.Errorf("invalid contract address %q", args[0])
		}
		l, closeFn, err := openLedger(cmd.Context())
		if err != nil {
			return err
		}
		defer closeFn()

		inst, err := l.Instance(cmd.Context(), common.HexToAddress(args[0]))
		if err != nil {
			return err
		}
		out, _ := json.MarshalIndent(inst, "", "  ")
		fmt.Fprintln(cmd.OutOrStdout(), string(out))
		return nil
	},
}

func init() {
	withdrawCmd.Flags().String("key", "", "caller key file (default deploy.key_file)")
}

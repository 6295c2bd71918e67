package cli

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/ssbcDeploy/account"
	"github.com/ssbcDeploy/util"
)

var accountCmd = &cobra.Command{
	Use:   "account",
	Short: "Manage signing identities",
}

var accountNewCmd = &cobra.Command{
	Use:   "new",
	Short: "Generate a secp256k1 key file and print its address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, _ := cmd.Flags().GetString("out")
		if out == "" {
			out = cfg.Deploy.KeyFile
		}
		if out == "" {
			return fmt.Errorf("no key file given (--out or deploy.key_file)")
		}
		if util.FileExists(out) {
			return fmt.Errorf("key file %s already exists", out)
		}
		s, err := account.GenerateSigner()
		if err != nil {
			return err
		}
		if err := s.Save(out); err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Address : %s\n", s.Address().Hex())
		return nil
	},
}

func init() {
	accountNewCmd.Flags().String("out", "", "key file to write (default deploy.key_file)")
	accountCmd.AddCommand(accountNewCmd)
}

// 从 --key 或配置加载签名身份
func loadSigner(cmd *cobra.Command) (*account.Signer, error) {
	file, _ := cmd.Flags().GetString("key")
	if file == "" {
		file = cfg.Deploy.KeyFile
	}
	if file == "" {
		return nil, fmt.Errorf("no key file given (--key or deploy.key_file)")
	}
	return account.LoadSigner(file)
}

package cli

import (
	"github.com/spf13/cobra"
	"github.com/ssbcDeploy/commoncon"
	"github.com/ssbcDeploy/deploy"
)

var deployCmd = &cobra.Command{
	Use:   "deploy",
	Short: "Deploy a contract template; the signing key becomes the owner",
}

var deployFeeCollectorCmd = &cobra.Command{
	Use:   "feecollector",
	Short: "Deploy FeeCollector (no constructor params)",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return runDeploy(cmd, commoncon.FeeCollectorTemplate)
	},
}

var deployCrowdFundCmd = &cobra.Command{
	Use:   "crowdfund",
	Short: "Deploy CrowdFund bound to a token address",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		token, _ := cmd.Flags().GetString("token")
		if token == "" {
			token = cfg.CrowdFund.TokenAddress
		}
		return runDeploy(cmd, commoncon.CrowdFundTemplate, token)
	},
}

func init() {
	deployCmd.PersistentFlags().String("key", "", "deployer key file (default deploy.key_file)")
	deployCrowdFundCmd.Flags().String("token", "", "token address (default crowdfund.token_address)")
	deployCmd.AddCommand(deployFeeCollectorCmd, deployCrowdFundCmd)
}

func runDeploy(cmd *cobra.Command, template string, params ...string) error {
	signer, err := loadSigner(cmd)
	if err != nil {
		return err
	}
	l, closeFn, err := openLedger(cmd.Context())
	if err != nil {
		return err
	}
	defer closeFn()

	d := deploy.New(l,
		deploy.WithConfirmTimeout(cfg.Deploy.ConfirmTimeout),
		deploy.WithOutput(cmd.OutOrStdout()),
	)
	_, err = d.Deploy(cmd.Context(), signer, template, params...)
	return err
}

package cli

import (
	"bytes"
	"context"
	"path/filepath"
	"regexp"
	"testing"

	"github.com/ssbcDeploy/contract"
	"github.com/ssbcDeploy/deploy"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var addrRe = regexp.MustCompile(`contract Address : (0x[0-9a-fA-F]{40})`)

func run(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(append([]string{"--config", ""}, args...))
	err := rootCmd.ExecuteContext(context.Background())
	return out.String(), err
}

func TestDeployAndWithdraw(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("SSBC_STORAGE_LEVELDB_PATH", filepath.Join(dir, "db"))
	t.Setenv("SSBC_CHAIN_BLOCK_INTERVAL", "5ms")
	t.Setenv("SSBC_CROWDFUND_TOKEN_ADDRESS", "Token address that you will change this whichever you want.")
	ownerKey := filepath.Join(dir, "owner.key")
	acc1Key := filepath.Join(dir, "acc1.key")

	out, err := run(t, "account", "new", "--out", ownerKey)
	require.NoError(t, err)
	assert.Contains(t, out, "Address : 0x")
	_, err = run(t, "account", "new", "--out", acc1Key)
	require.NoError(t, err)
	_, err = run(t, "account", "new", "--out", acc1Key)
	assert.Error(t, err, "existing key file must not be overwritten")

	out, err = run(t, "deploy", "feecollector", "--key", ownerKey)
	require.NoError(t, err)
	m := addrRe.FindStringSubmatch(out)
	require.Len(t, m, 2, out)
	assert.Contains(t, out, "FeeCollector contract Address : ")
	feeCollector := m[1]

	out, err = run(t, "show", feeCollector)
	require.NoError(t, err)
	assert.Contains(t, out, `"template": "FeeCollector"`)

	_, err = run(t, "withdraw", feeCollector, feeCollector, "1", "--key", acc1Key)
	require.Error(t, err)
	assert.ErrorIs(t, err, contract.ErrUnauthorized)

	out, err = run(t, "withdraw", feeCollector, feeCollector, "1", "--key", ownerKey)
	require.NoError(t, err)
	assert.Contains(t, out, `"status": "success"`)

	// 配置中的占位 token 地址被拒绝
	_, err = run(t, "deploy", "crowdfund", "--key", ownerKey, "--token", "")
	assert.ErrorIs(t, err, deploy.ErrDeploymentFailed)

	out, err = run(t, "deploy", "crowdfund", "--key", ownerKey, "--token", "0x3333333333333333333333333333333333333333")
	require.NoError(t, err)
	assert.Contains(t, out, "CrowdFund contract Address : 0x")
}

func TestSetLogLevel(t *testing.T) {
	assert.NoError(t, setLogLevel("debug"))
	assert.NoError(t, setLogLevel("INFO"))
	assert.Error(t, setLogLevel("loud"))
	require.NoError(t, setLogLevel("info"))
}

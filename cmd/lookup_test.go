package cmd

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/jmehdipour/pisa-dashboard/internal/logger"
	"github.com/jmehdipour/pisa-dashboard/internal/service/dashboard"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func writeFixtures(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	mat := filepath.Join(dir, "materials.csv")
	require.NoError(t, os.WriteFile(mat, []byte(
		"Material,Tabla_Transiciones,Claudio (Prob Est.)\n"+
			"ABC123,\"[[0.8, 0.2], [0.3, 0.7]]\",\"[0.6, 0.4]\"\n"), 0o600))

	cus := filepath.Join(dir, "customers.csv")
	require.NoError(t, os.WriteFile(cus, []byte("id_cliente,CLV,mu_j\n42,750000,1.5\n"), 0o600))

	cfg := filepath.Join(dir, "config.yaml")
	require.NoError(t, os.WriteFile(cfg, []byte(fmt.Sprintf(
		"csv:\n  materials_path: %q\n  customers_path: %q\n", mat, cus)), 0o600))
	return cfg
}

func runRoot(t *testing.T, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetArgs(args)
	err := rootCmd.Execute()
	return out.String(), err
}

func TestLookupMaterialCommand(t *testing.T) {
	cfg := writeFixtures(t)

	out, err := runRoot(t, "lookup", "material", "ABC123", "--config", cfg)
	require.NoError(t, err)

	var v dashboard.MaterialView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "ABC123", v.Name)
	require.NotNil(t, v.Transition)
	assert.Equal(t, 0.8, v.Transition.Chart.Slices[0].Value)
}

func TestLookupCustomerCommand(t *testing.T) {
	cfg := writeFixtures(t)

	out, err := runRoot(t, "lookup", "customer", "42", "--config", cfg)
	require.NoError(t, err)

	var v dashboard.CustomerView
	require.NoError(t, json.Unmarshal([]byte(out), &v))
	assert.Equal(t, "$750000.00", v.CLV.Display)

	_, err = runRoot(t, "lookup", "customer", "abc", "--config", cfg)
	assert.EqualError(t, err, "Customer ID must be an integer.")

	_, err = runRoot(t, "lookup", "customer", "9", "--config", cfg)
	assert.EqualError(t, err, "Customer ID not found.")
}

func TestLookupCommandInitialisesLogger(t *testing.T) {
	prev := logger.Log
	t.Cleanup(func() { logger.Log = prev })
	logger.Log = zap.NewNop()

	cfg := writeFixtures(t)
	out, err := runRoot(t, "lookup", "material", "ABC123", "--config", cfg)
	require.NoError(t, err)

	// load warnings are no longer discarded, and stdout stays pure JSON
	assert.True(t, logger.Log.Core().Enabled(zap.WarnLevel))
	assert.True(t, json.Valid([]byte(out)))
}

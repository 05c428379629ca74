package cli

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/custodia-labs/pvflow/internal/core/domain"
)

func stubSecretInput(t *testing.T, value string) {
	t.Helper()
	old := secretInput
	secretInput = func() string { return value }
	t.Cleanup(func() { secretInput = old })
}

func TestSettingsShowCmd(t *testing.T) {
	settings := domain.DefaultAppSettings()
	settings.FoxESS.APIKey = "abcd1234efgh5678"
	settings.FoxESS.SerialNumber = "SN123"
	setupServices(t, &Services{Settings: &mockSettingsService{settings: settings}})

	out, err := execute(t, "settings", "show")

	require.NoError(t, err)
	assert.Contains(t, out, "[FoxESS]")
	assert.Contains(t, out, "API Key: abcd...5678")
	assert.NotContains(t, out, "abcd1234efgh5678")
	assert.Contains(t, out, "Serial Number: SN123")
	assert.Contains(t, out, "[Solcast]")
	assert.Contains(t, out, "Site ID: (not set)")
	assert.Contains(t, out, "Status: not configured")
	assert.Contains(t, out, "Forecast refresh: every 3h0m0s")
}

func TestSettingsCmd_DefaultsToShow(t *testing.T) {
	setupServices(t, &Services{Settings: &mockSettingsService{settings: domain.DefaultAppSettings()}})

	out, err := execute(t, "settings")

	require.NoError(t, err)
	assert.Contains(t, out, "Current Settings")
}

func TestSettingsSetCmd(t *testing.T) {
	ss := &mockSettingsService{}
	setupServices(t, &Services{Settings: ss})

	out, err := execute(t, "settings", "set", "solcast.site_id", "abcd-1234")

	require.NoError(t, err)
	assert.Equal(t, "abcd-1234", ss.set["solcast.site_id"])
	assert.Contains(t, out, "solcast.site_id = abcd-1234")
}

func TestSettingsSetCmd_PromptsForSecret(t *testing.T) {
	ss := &mockSettingsService{}
	setupServices(t, &Services{Settings: ss})
	stubSecretInput(t, "secret-token-value")

	out, err := execute(t, "settings", "set", "foxess.api_key")

	require.NoError(t, err)
	assert.Equal(t, "secret-token-value", ss.set["foxess.api_key"])
	assert.Contains(t, out, "foxess.api_key = secr...alue")
	assert.NotContains(t, out, "secret-token-value")
}

func TestSettingsSetCmd_SecretFlagIgnoresArgument(t *testing.T) {
	ss := &mockSettingsService{}
	setupServices(t, &Services{Settings: ss})
	stubSecretInput(t, "typed")

	_, err := execute(t, "settings", "set", "solcast.site_id", "from-args", "--secret")

	require.NoError(t, err)
	assert.Equal(t, "typed", ss.set["solcast.site_id"])
}

func TestSettingsSetCmd_MissingValue(t *testing.T) {
	setupServices(t, &Services{Settings: &mockSettingsService{}})

	_, err := execute(t, "settings", "set", "site.timezone")

	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestSettingsSetCmd_ServiceError(t *testing.T) {
	setupServices(t, &Services{Settings: &mockSettingsService{err: domain.ErrInvalidInput}})

	_, err := execute(t, "settings", "set", "scheduler.enabled", "maybe")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to set scheduler.enabled")
}

func TestSettingsKeysCmd(t *testing.T) {
	setupServices(t, &Services{Settings: &mockSettingsService{}})

	out, err := execute(t, "settings", "keys")

	require.NoError(t, err)
	assert.Equal(t, "foxess.api_key\nsolcast.site_id\n", out)
}

func TestMaskAPIKey(t *testing.T) {
	assert.Equal(t, "****", maskAPIKey("short"))
	assert.Equal(t, "abcd...wxyz", maskAPIKey("abcdefghijklmnopqrstuvwxyz"))
}

func TestReadLine(t *testing.T) {
	assert.Equal(t, "value", readLine(strings.NewReader("  value \nnext\n")))
	assert.Equal(t, "", readLine(strings.NewReader("")))
}

func TestIsSecretKey(t *testing.T) {
	assert.True(t, isSecretKey("foxess.api_key"))
	assert.True(t, isSecretKey("solcast.api_key"))
	assert.False(t, isSecretKey("solcast.site_id"))
}

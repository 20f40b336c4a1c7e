package testutil

import (
	"testing"

	"github.com/spf13/viper"

	"github.com/lepinkainen/bookshelf/internal/config"
)

// ConfigState holds the package-level values of the config package.
type ConfigState struct {
	OverwriteFiles bool
}

// SaveConfigState captures the current config package values.
func SaveConfigState() ConfigState {
	return ConfigState{OverwriteFiles: config.OverwriteFiles}
}

// RestoreConfigState puts back values captured by SaveConfigState.
func RestoreConfigState(state ConfigState) {
	config.OverwriteFiles = state.OverwriteFiles
}

// ResetConfig resets viper and the config package, restoring both when the
// test completes.
func ResetConfig(t *testing.T) {
	t.Helper()

	state := SaveConfigState()
	viper.Reset()

	t.Cleanup(func() {
		RestoreConfigState(state)
		viper.Reset()
	})
}

// SetTestConfig loads the defaults with an instant mock gateway whose
// files live in env.
func SetTestConfig(t *testing.T, env *TestEnv) {
	t.Helper()

	ResetConfig(t)
	config.SetDefaults()
	viper.Set(config.KeyGatewayLatency, "0s")
	viper.Set(config.KeySQLiteDBFile, env.Path("bookshelf.db"))
	viper.Set(config.KeyLogFile, env.Path("bookshelf.log"))
	config.InitConfig()
}

// SetViperValue sets a viper value and restores the previous one on cleanup.
func SetViperValue(t *testing.T, key string, value any) {
	t.Helper()

	oldValue := viper.Get(key)
	hadValue := viper.IsSet(key)
	viper.Set(key, value)

	t.Cleanup(func() {
		// viper has no Unset, so a previously unset key keeps the test value
		if hadValue {
			viper.Set(key, oldValue)
		}
	})
}

package core

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadConfigDefaults(t *testing.T) {
	conf, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "copilot-usage-report", conf.TriggerTitle)
	assert.Equal(t, "copilot-report", conf.ReportLabel)
	assert.Equal(t, "in-progress", conf.InProgressLabel)
	assert.Equal(t, "completed", conf.CompletedLabel)
	assert.Equal(t, "error", conf.ErrorLabel)
	assert.Equal(t, "copilot-report", conf.ReportDir)
	assert.Equal(t, 30, conf.InactiveDays)
	assert.False(t, conf.LogDebug)
}

func TestLoadConfigFromEnv(t *testing.T) {
	t.Setenv("COPILOT_REPORT_GITHUB_TOKEN", "ghp_test")
	t.Setenv("COPILOT_REPORT_ORGANIZATION", "acme")
	t.Setenv("COPILOT_REPORT_TRIGGER_TITLE", "seat report please")
	t.Setenv("COPILOT_REPORT_INACTIVE_DAYS", "7")
	t.Setenv("COPILOT_REPORT_LOG_DEBUG", "true")

	conf, err := LoadConfig()
	require.NoError(t, err)

	assert.Equal(t, "ghp_test", conf.GithubToken)
	assert.Equal(t, "acme", conf.Organization)
	assert.Equal(t, "seat report please", conf.TriggerTitle)
	assert.Equal(t, 7, conf.InactiveDays)
	assert.True(t, conf.LogDebug)
}

func TestLoadConfigIgnoresUnprefixedEnv(t *testing.T) {
	// Generic runner variables must not override the COPILOT_REPORT_*
	// contract.
	t.Setenv("ORGANIZATION", "hijacked-org")
	t.Setenv("TRIGGER_TITLE", "hijacked-title")
	t.Setenv("GITHUB_TOKEN", "hijacked-token")

	conf, err := LoadConfig()
	require.NoError(t, err)

	assert.Empty(t, conf.Organization)
	assert.Equal(t, "copilot-usage-report", conf.TriggerTitle)
	assert.Empty(t, conf.GithubToken)
}

func TestLoadConfigRejectsBadInt(t *testing.T) {
	t.Setenv("COPILOT_REPORT_INACTIVE_DAYS", "not-a-number")

	_, err := LoadConfig()
	assert.Error(t, err)
}

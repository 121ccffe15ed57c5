package core

import "github.com/kelseyhightower/envconfig"

// Config represents the action configuration. Values are read from
// COPILOT_REPORT_* environment variables only (never the bare field name, so
// generic runner variables cannot leak in); action inputs override them in
// the entrypoint.
type Config struct {
	GithubToken     string `split_words:"true"`
	Organization    string
	TriggerTitle    string `split_words:"true" default:"copilot-usage-report"`
	ReportLabel     string `split_words:"true" default:"copilot-report"`
	InProgressLabel string `split_words:"true" default:"in-progress"`
	CompletedLabel  string `split_words:"true" default:"completed"`
	ErrorLabel      string `split_words:"true" default:"error"`
	Assignee        string
	ReportDir       string `split_words:"true" default:"copilot-report"`
	BaseURL         string `split_words:"true"`
	InactiveDays    int    `split_words:"true" default:"30"`
	LogDebug        bool   `split_words:"true"`
}

const appConfPrefix = "COPILOT_REPORT"

// LoadConfig reads the configuration from the environment.
func LoadConfig() (Config, error) {
	var conf Config
	err := envconfig.Process(appConfPrefix, &conf)
	return conf, err
}

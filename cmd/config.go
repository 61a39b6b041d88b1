package cmd

import (
	"fmt"

	"github.com/spf13/viper"
)

// SourceConfig is one SQL Server credential entry in pbnj.yaml:
//
//	sources:
//	  - name: warehouse
//	    server: SQLSRV01
//	    user: reader
//	    password: secret
//	    active: true
type SourceConfig struct {
	Name     string `mapstructure:"name"`
	Server   string `mapstructure:"server"`
	User     string `mapstructure:"user"`
	Password string `mapstructure:"password"`
	Active   bool   `mapstructure:"active"`
}

// GetSourceConfigs returns all configured source credentials.
func GetSourceConfigs() ([]SourceConfig, error) {
	var configs []SourceConfig
	if err := viper.UnmarshalKey("sources", &configs); err != nil {
		return nil, fmt.Errorf("failed to parse sources config: %w", err)
	}
	return configs, nil
}

// CredentialsFor picks the credentials for a server: an exact server match
// wins, otherwise the single active entry applies as the default. No match
// means integrated auth.
func CredentialsFor(configs []SourceConfig, server string) (user, password string) {
	var active *SourceConfig
	for i := range configs {
		if configs[i].Server == server {
			return configs[i].User, configs[i].Password
		}
		if configs[i].Active && active == nil {
			active = &configs[i]
		}
	}
	if active != nil {
		return active.User, active.Password
	}
	return "", ""
}

package main

import (
	"errors"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const (
	// The prefix for configuration keys inside environment.
	envPrefix = "HEAPCTL"
	// The configuration key for the config file itself.
	keyConfig = "config"
)

// initializeConfig applies values from the config file and HEAPCTL_*
// environment variables to every flag not set on the command line.
func initializeConfig(cmd *cobra.Command) error {
	v := viper.New()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return err
		}
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()

	return bindFlags(cmd, v)
}

// bindFlags copies viper values into unchanged cobra flags. Flag names with
// dashes map to env names with underscores: --text-encoding reads
// HEAPCTL_TEXT_ENCODING.
func bindFlags(cmd *cobra.Command, v *viper.Viper) error {
	var errs []error
	cmd.Flags().VisitAll(func(f *pflag.Flag) {
		if f.Name == keyConfig {
			return
		}

		if strings.Contains(f.Name, "-") {
			envVarSuffix := strings.ToUpper(strings.ReplaceAll(f.Name, "-", "_"))
			if err := v.BindEnv(f.Name, fmt.Sprintf("%s_%s", envPrefix, envVarSuffix)); err != nil {
				errs = append(errs, fmt.Errorf("binding env to flag %q: %w", f.Name, err))
				return
			}
		}

		if !f.Changed && v.IsSet(f.Name) {
			val := v.Get(f.Name)
			if err := cmd.Flags().Set(f.Name, fmt.Sprintf("%v", val)); err != nil {
				errs = append(errs, fmt.Errorf("setting flag %q value: %w", f.Name, err))
			}
		}
	})
	return errors.Join(errs...)
}

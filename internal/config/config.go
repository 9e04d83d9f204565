// Package config loads process configuration (C6, spec.md §6): max book
// count, default venue+symbol, accounts file path, HTTP port, and the
// extras flag. Bound with github.com/spf13/viper over CLI flags, with the
// same defaults original_source/disorderCook_front.py's optparse section
// used.
package config

import (
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// Config is the fully resolved process configuration.
type Config struct {
	Port          int
	MaxBooks      int
	DefaultVenue  string
	DefaultSymbol string
	AccountsFile  string
	ExtrasEnabled bool
}

// Load parses args (typically os.Args[1:]) and returns the resolved config.
func Load(args []string) (Config, error) {
	fs := pflag.NewFlagSet("stockexchange", pflag.ContinueOnError)
	fs.IntP("port", "p", 8000, "HTTP port")
	fs.IntP("maxbooks", "b", 100, "maximum number of books (exchange/ticker combos), 0 = unlimited")
	fs.StringP("venue", "v", "TESTEX", "default venue; always exists")
	fs.StringP("symbol", "s", "FOOBAR", "default symbol; always exists on default venue")
	fs.StringP("accounts", "a", "", "file containing a JSON dict of account name -> API key")
	fs.BoolP("extra", "e", false, "enable commands that can return excessive responses")

	if err := fs.Parse(args); err != nil {
		return Config{}, err
	}

	v := viper.New()
	v.SetEnvPrefix("STOCKEXCHANGE")
	v.AutomaticEnv()
	if err := v.BindPFlags(fs); err != nil {
		return Config{}, err
	}

	return Config{
		Port:          v.GetInt("port"),
		MaxBooks:      v.GetInt("maxbooks"),
		DefaultVenue:  v.GetString("venue"),
		DefaultSymbol: v.GetString("symbol"),
		AccountsFile:  v.GetString("accounts"),
		ExtrasEnabled: v.GetBool("extra"),
	}, nil
}

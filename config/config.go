// Package config layers defaults, scan profiles, a config file, environment
// variables and command-line flags into one scan configuration.
package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/liamg/arpsweep/scan"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

const EnvPrefix = "ARPSWEEP"

const (
	KeyInterface = "interface"
	KeyBackend   = "backend"
	KeyProfile   = "profile"
	KeyTimeout   = "timeout"
	KeyQuantum   = "quantum"
	KeyInterval  = "interval"
	KeyBurst     = "burst"
	KeyPasses    = "passes"
	KeyRandom    = "random"
	KeyOutput    = "output"
	KeyColor     = "color"
	KeyVendor    = "vendor"
	KeyResolve   = "resolve"
	KeyMDNS      = "mdns"
	KeyPcapFile  = "pcap-file"
	KeyForce     = "force"
	KeyVerbose   = "verbose"
)

type Config struct {
	Interface string
	Backend   string
	Profile   string
	Timeout   time.Duration
	Quantum   time.Duration
	Interval  time.Duration
	Burst     int
	Passes    int
	Random    bool
	Output    string
	Color     string
	Vendor    bool
	Resolve   bool
	MDNS      bool
	PcapFile  string
	Force     bool
	Verbose   bool
}

// New returns a viper instance reading, in increasing precedence, the
// config file, ARPSWEEP_* environment variables and flags. When file is
// empty the usual locations are searched and a missing file is not an
// error.
func New(flags *pflag.FlagSet, file string) (*viper.Viper, error) {
	v := viper.New()

	v.SetDefault(KeyProfile, DefaultProfile)
	v.SetDefault(KeyQuantum, scan.DefaultReceiveQuantum)
	v.SetDefault(KeyBurst, scan.DefaultBurst)
	v.SetDefault(KeyOutput, "plain")
	v.SetDefault(KeyColor, "auto")
	v.SetDefault(KeyVendor, true)

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if flags != nil {
		if err := v.BindPFlags(flags); err != nil {
			return nil, err
		}
	}

	if file != "" {
		v.SetConfigFile(file)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("reading config %s: %w", file, err)
		}
		return v, nil
	}

	v.SetConfigName("arpsweep")
	v.AddConfigPath("$HOME/.config/arpsweep")
	v.AddConfigPath("/etc/arpsweep")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}
	return v, nil
}

// Load resolves v into a validated Config. Keys governed by the selected
// profile fall back to the profile's value when nothing else sets them.
func Load(v *viper.Viper) (*Config, error) {
	profileName := strings.ToLower(v.GetString(KeyProfile))
	profile, ok := Profiles[profileName]
	if !ok {
		return nil, fmt.Errorf("unknown profile '%s': must be one of %s", profileName, strings.Join(ProfileNames(), ", "))
	}

	cfg := &Config{
		Interface: v.GetString(KeyInterface),
		Backend:   v.GetString(KeyBackend),
		Profile:   profileName,
		Timeout:   profile.Timeout,
		Quantum:   v.GetDuration(KeyQuantum),
		Interval:  profile.Interval,
		Burst:     v.GetInt(KeyBurst),
		Passes:    profile.Passes,
		Random:    profile.Random,
		Output:    v.GetString(KeyOutput),
		Color:     strings.ToLower(v.GetString(KeyColor)),
		Vendor:    v.GetBool(KeyVendor),
		Resolve:   v.GetBool(KeyResolve),
		MDNS:      v.GetBool(KeyMDNS),
		PcapFile:  v.GetString(KeyPcapFile),
		Force:     v.GetBool(KeyForce),
		Verbose:   v.GetBool(KeyVerbose),
	}

	if v.IsSet(KeyTimeout) {
		cfg.Timeout = v.GetDuration(KeyTimeout)
	}
	if v.IsSet(KeyInterval) {
		cfg.Interval = v.GetDuration(KeyInterval)
	}
	if v.IsSet(KeyPasses) {
		cfg.Passes = v.GetInt(KeyPasses)
	}
	if v.IsSet(KeyRandom) {
		cfg.Random = v.GetBool(KeyRandom)
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	if c.Timeout <= 0 {
		return fmt.Errorf("timeout must be positive, got %s", c.Timeout)
	}
	if c.Quantum <= 0 {
		return fmt.Errorf("quantum must be positive, got %s", c.Quantum)
	}
	if c.Interval < 0 {
		return fmt.Errorf("interval must not be negative, got %s", c.Interval)
	}
	if c.Burst < 1 {
		return fmt.Errorf("burst must be at least 1, got %d", c.Burst)
	}
	if c.Passes < 1 {
		return fmt.Errorf("passes must be at least 1, got %d", c.Passes)
	}
	switch c.Color {
	case "auto", "on", "off":
	default:
		return fmt.Errorf("invalid color mode '%s': must be one of auto, on, off", c.Color)
	}
	return nil
}

// ScanOptions translates the configuration into scanner options.
func (c *Config) ScanOptions() []scan.Option {
	return []scan.Option{
		scan.WithTimeout(c.Timeout),
		scan.WithReceiveQuantum(c.Quantum),
		scan.WithSendInterval(c.Interval),
		scan.WithBurst(c.Burst),
		scan.WithPasses(c.Passes),
		scan.WithRandomOrder(c.Random),
	}
}

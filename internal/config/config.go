// Package config gathers tltp settings from command line flags and TLTP_*
// environment variables and validates them before any secret is read.
package config

import (
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/bashhack/tltp/internal/alphabet"
	"github.com/bashhack/tltp/internal/clock"
	"github.com/bashhack/tltp/internal/errs"
	"github.com/bashhack/tltp/internal/generator"
	"github.com/bashhack/tltp/internal/kdf"
	"github.com/bashhack/tltp/internal/logging"
)

// EnvPrefix prefixes every environment variable, e.g. TLTP_INTERVAL.
const EnvPrefix = "TLTP"

// Flag names, which double as viper keys.
const (
	KeyOffset    = "offset"
	KeyInterval  = "interval"
	KeySize      = "size"
	KeyNoShow    = "noshow"
	KeyConfirm   = "confirm"
	KeyClip      = "clip"
	KeyRemaining = "remaining"
	KeyGenerator = "generator"
	KeyAlphabet  = "alphabet"
	KeyKDF       = "kdf"
	KeyAdjacent  = "adjacent"
	KeyVerbose   = "verbose"
	KeyLogLevel  = "log-level"
)

const (
	DefaultIntervalDays = 60
	DefaultSize         = 15
	DefaultLogLevel     = "warn"
)

// Config is one invocation's settings.
type Config struct {
	Names        []string
	IntervalDays int    `flag:"interval" validate:"gt=0,lte=106751"`
	Offset       int64  `flag:"offset"`
	Size         int    `flag:"size" validate:"gt=0,lte=4096"`
	Alphabet     string `flag:"alphabet" validate:"excluded_with=Generator"`
	Generator    string `flag:"generator"`
	KDF          string `flag:"kdf" validate:"oneof=scrypt argon2id"`
	Show         bool
	Confirm      bool
	Clip         bool
	Remaining    bool
	Adjacent     bool
	LogLevel     string `flag:"log-level" validate:"oneof=debug info warn error"`
}

// RegisterFlags adds the tltp flags to fs.
func RegisterFlags(fs *pflag.FlagSet) {
	fs.Int64P(KeyOffset, "o", 0, "number of intervals to skip; negative numbers skip backwards")
	fs.IntP(KeyInterval, "i", DefaultIntervalDays, "number of days between password changes")
	fs.IntP(KeySize, "L", DefaultSize, "length of the derived password in characters")
	fs.Bool(KeyNoShow, false, "do not print the derived password to stdout")
	fs.BoolP(KeyConfirm, "c", false, "confirm the master password by entering it twice")
	fs.BoolP(KeyClip, "x", false, "copy the derived password to the clipboard")
	fs.Bool(KeyRemaining, false, "show the time until the next rotation on stderr")
	fs.String(KeyGenerator, "", "generator reference formatted as package:function (default "+generator.DefaultRef+")")
	fs.String(KeyAlphabet, "", "unordered list of symbols to build passwords from")
	fs.String(KeyKDF, string(kdf.Scrypt), "key stretching function: scrypt or argon2id")
	fs.Bool(KeyAdjacent, false, "print the previous, current and next passwords")
	fs.BoolP(KeyVerbose, "v", false, "log derivation details, same as --log-level=debug")
	fs.String(KeyLogLevel, DefaultLogLevel, "log level: debug, info, warn or error")
}

// NewViper binds fs and the TLTP_* environment. Flags given on the command
// line win over the environment, which wins over flag defaults.
func NewViper(fs *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	if err := v.BindPFlags(fs); err != nil {
		return nil, fmt.Errorf("failed to bind flags: %w", err)
	}
	return v, nil
}

// Load reads a Config from v. Values are converted strictly, so
// TLTP_SIZE=ten is an error rather than zero.
func Load(v *viper.Viper, names []string) (Config, error) {
	cfg := Config{
		Names:     names,
		Alphabet:  v.GetString(KeyAlphabet),
		Generator: strings.TrimSpace(v.GetString(KeyGenerator)),
		KDF:       strings.ToLower(strings.TrimSpace(v.GetString(KeyKDF))),
		LogLevel:  strings.ToLower(strings.TrimSpace(v.GetString(KeyLogLevel))),
	}

	var err error
	if cfg.IntervalDays, err = intValue(v, KeyInterval); err != nil {
		return Config{}, err
	}
	if cfg.Size, err = intValue(v, KeySize); err != nil {
		return Config{}, err
	}
	if cfg.Offset, err = int64Value(v, KeyOffset); err != nil {
		return Config{}, err
	}

	bools := map[string]*bool{
		KeyConfirm:   &cfg.Confirm,
		KeyClip:      &cfg.Clip,
		KeyRemaining: &cfg.Remaining,
		KeyAdjacent:  &cfg.Adjacent,
	}
	for key, dst := range bools {
		if *dst, err = boolValue(v, key); err != nil {
			return Config{}, err
		}
	}

	noShow, err := boolValue(v, KeyNoShow)
	if err != nil {
		return Config{}, err
	}
	cfg.Show = !noShow

	verbose, err := boolValue(v, KeyVerbose)
	if err != nil {
		return Config{}, err
	}
	if verbose {
		cfg.LogLevel = "debug"
	}

	return cfg, nil
}

func intValue(v *viper.Viper, key string) (int, error) {
	n, err := wholeNumber(v.Get(key), strconv.IntSize)
	if err != nil {
		return 0, &errs.ConfigError{Field: key, Message: "must be a whole number", Err: err}
	}
	return int(n), nil
}

func int64Value(v *viper.Viper, key string) (int64, error) {
	n, err := wholeNumber(v.Get(key), 64)
	if err != nil {
		return 0, &errs.ConfigError{Field: key, Message: "must be a whole number", Err: err}
	}
	return n, nil
}

// wholeNumber reads environment strings as plain decimal, so TLTP_INTERVAL=030
// is thirty days and 0x10 is rejected. Typed flag values go through cast.
func wholeNumber(raw any, bits int) (int64, error) {
	if s, ok := raw.(string); ok {
		return strconv.ParseInt(strings.TrimSpace(s), 10, bits)
	}
	return cast.ToInt64E(raw)
}

func boolValue(v *viper.Viper, key string) (bool, error) {
	b, err := cast.ToBoolE(v.Get(key))
	if err != nil {
		return false, &errs.ConfigError{Field: key, Message: "must be true or false", Err: err}
	}
	return b, nil
}

// Interval returns the rotation period.
func (c Config) Interval() time.Duration {
	return clock.Days(c.IntervalDays)
}

// Params returns the key stretching parameters for the configured KDF.
func (c Config) Params() (kdf.Params, error) {
	return kdf.DefaultParams(kdf.Algorithm(c.KDF))
}

// Level returns the configured log level.
func (c Config) Level() (slog.Level, error) {
	return logging.ParseLevel(c.LogLevel)
}

// ResolveGenerator returns the generator selected by --alphabet or
// --generator, falling back to the registry's default.
func (c Config) ResolveGenerator(reg *generator.Registry) (generator.Generator, error) {
	if c.Alphabet != "" && c.Generator != "" {
		return nil, errs.Config(KeyAlphabet, "cannot be combined with --generator")
	}
	if c.Alphabet != "" {
		a, err := alphabet.Parse(c.Alphabet)
		if err != nil {
			return nil, err
		}
		return generator.NewUniform(a), nil
	}

	ref := c.Generator
	if ref == "" {
		ref = generator.DefaultRef
	}
	return reg.Resolve(ref)
}

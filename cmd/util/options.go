package util

import (
	"path/filepath"
	"strings"

	homedir "github.com/mitchellh/go-homedir"
	log "github.com/sirupsen/logrus"
	"github.com/spf13/afero"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/sidkik/jconf/pkg/config"
	"github.com/sidkik/jconf/pkg/errors"
)

// EnvPrefix is prepended to flag names to get the environment variables that
// can be used instead of the flags, e.g. JCONF_OUTPUT for --output.
const EnvPrefix = "JCONF"

// Flag names.
const (
	FileFlag    = "file"
	OutputFlag  = "output"
	ConfigFlag  = "config"
	ForceFlag   = "force"
	DryRunFlag  = "dry-run"
	VerboseFlag = "verbose"
)

// Mocked for unit testing.
var (
	fs     = afero.NewOsFs()
	getEnv = config.OSEnv
)

// Options are the flags shared by the commands that operate on configs.
type Options struct {
	File   string
	Output string

	// Configs is nil when every config should be used.
	Configs []string

	Force  bool
	DryRun bool
}

// AddFlags registers the shared flags.
func AddFlags(flags *pflag.FlagSet) {
	flags.StringP(FileFlag, "f", config.DefaultConfigPath, "File path to the jconf config file")
	flags.StringP(OutputFlag, "o", ".", "Output path to save the configurations")
	flags.StringSliceP(ConfigFlag, "c", nil,
		"Name(s) of the specific config(s) to act on. Ex) `jconf -c helix -c alacritty`")
	flags.Bool(ForceFlag, false, "Overwrite the existing files regardless of their modified date")
	flags.Bool(DryRunFlag, false, "Print what would be copied without copying anything")
	flags.BoolP(VerboseFlag, "v", false, "Log every file operation")
}

// NewViper returns a Viper that reads the shared flags, falling back to
// JCONF_* environment variables.
func NewViper(flags *pflag.FlagSet) (*viper.Viper, error) {
	v := viper.New()
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, errors.WithContext(err, "bind flags")
	}
	return v, nil
}

// ParseOptions reads the shared flags out of `v`.
func ParseOptions(v *viper.Viper) (Options, error) {
	opts := Options{
		Force:  v.GetBool(ForceFlag),
		DryRun: v.GetBool(DryRunFlag),
	}

	// Viper splits JCONF_CONFIG on whitespace, but the flag takes commas, so
	// accept both.
	for _, names := range v.GetStringSlice(ConfigFlag) {
		for _, name := range strings.Split(names, ",") {
			if name = strings.TrimSpace(name); name != "" {
				opts.Configs = append(opts.Configs, name)
			}
		}
	}

	var err error
	if opts.File, err = homedir.Expand(v.GetString(FileFlag)); err != nil {
		return Options{}, errors.WithContext(err, "expand config file path")
	}
	if opts.Output, err = homedir.Expand(v.GetString(OutputFlag)); err != nil {
		return Options{}, errors.WithContext(err, "expand output path")
	}
	return opts, nil
}

// OptionsFromFlags parses the shared flags of a command after cobra has parsed
// its arguments.
func OptionsFromFlags(flags *pflag.FlagSet) (Options, error) {
	v, err := NewViper(flags)
	if err != nil {
		return Options{}, err
	}
	return ParseOptions(v)
}

// ResolveConfigs parses the config file, selects the configs named in `opts`,
// and resolves their paths.
func ResolveConfigs(opts Options) ([]config.Config, error) {
	file, err := config.ParseFile(opts.File)
	if err != nil {
		return nil, errors.WithContext(err, "read config file")
	}
	log.WithFields(log.Fields{
		"path":    file.GetPath(),
		"configs": len(file.Configs),
	}).Debug("Parsed config file")

	entries, err := config.Reduce(file.Configs, opts.Configs)
	if err != nil {
		return nil, errors.WithContext(err, "select configs")
	}
	return config.ResolveAll(entries, getEnv)
}

// LoadConfigs resolves the configs, and creates the output root if it doesn't
// exist. The output root is returned as an absolute path.
func LoadConfigs(opts Options) (configs []config.Config, outputRoot string, err error) {
	configs, err = ResolveConfigs(opts)
	if err != nil {
		return nil, "", err
	}

	outputRoot, err = filepath.Abs(opts.Output)
	if err != nil {
		return nil, "", errors.WithContext(err, "output path")
	}

	if !opts.DryRun {
		if err := fs.MkdirAll(outputRoot, 0755); err != nil {
			return nil, "", errors.WithContext(err, "create output directory")
		}
	}
	return configs, outputRoot, nil
}

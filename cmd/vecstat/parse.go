package main

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/go-yaml/yaml"
	"github.com/spf13/pflag"

	"github.com/BTBurke/vecstat/pkg/conf"
	"github.com/BTBurke/vecstat/pkg/vector"
)

var knownStats = map[string]bool{
	"mean":        true,
	"median":      true,
	"mode":        true,
	"variance":    true,
	"stddev":      true,
	"covariance":  true,
	"correlation": true,
	"lsf":         true,
}

// dualStats need a second column of input from --file.
var dualStats = map[string]bool{
	"covariance":  true,
	"correlation": true,
	"lsf":         true,
}

type options struct {
	stats     []string
	yvalues   []vector.Value
	fixed     int
	growable  bool
	precision int
	confOpts  []conf.Option
}

// fileConfig mirrors the command line flags for the YAML config file.  File
// values act as flag defaults: a flag set on the command line wins.
type fileConfig struct {
	Stats     string  `yaml:"stats"`
	File      string  `yaml:"file"`
	Fixed     int     `yaml:"fixed"`
	Growable  bool    `yaml:"growable"`
	Unbias    bool    `yaml:"unbias"`
	NoFill    bool    `yaml:"nofill"`
	Toler     float64 `yaml:"toler"`
	Precision int     `yaml:"precision"`
	Debug     int     `yaml:"debug"`
}

// parseCommandLine configures the run from command line flags or from a
// YAML configuration file passed with the -c flag.  Returns the values and
// the resolved options.
func parseCommandLine() ([]vector.Value, *options, error) {
	pf := createFlagSet()
	return parse(os.Args[1:], pf)
}

func createFlagSet() *pflag.FlagSet {
	pf := pflag.NewFlagSet("vecstat", pflag.ContinueOnError)
	pf.Usage = func() {
		fmt.Printf("Usage of vecstat:\nvecstat <options> value1 value2 ... valueN\n\nValues are numbers; na marks a missing observation.\n")
		fmt.Printf("\n%s", pf.FlagUsagesWrapped(10))
	}

	pf.String("stats", "mean,median,stddev", "Comma-separated statistics to compute: mean, median, mode, variance, stddev, covariance, correlation, lsf")
	pf.String("file", "", "Read values from a file, one observation per line; a second column enables covariance, correlation, and lsf")
	pf.StringP("config", "c", "", "Use yaml configuration file")
	pf.Int("fixed", 0, "Treat the values as a sliding window of this size")
	pf.Bool("growable", false, "Let the vector grow on insert instead of sliding")
	pf.Bool("unbias", false, "Use sample (N-1) statistics instead of population")
	pf.Bool("no-fill", false, "Pad with missing markers instead of zeros when growing")
	pf.Float64("toler", 0, "Equality tolerance for comparing results")
	pf.IntP("precision", "p", 4, "Digits after the decimal point in output")
	pf.Int("debug", 0, "Log verbosity: 0 off, 1 recomputes, 2 trace")

	return pf
}

func parse(args []string, pf *pflag.FlagSet) ([]vector.Value, *options, error) {
	if err := pf.Parse(args); err != nil {
		return nil, nil, err
	}

	fc := fileConfig{Stats: "mean,median,stddev", Precision: 4}
	if fpath, _ := pf.GetString("config"); fpath != "" {
		if err := parseFromFile(fpath, &fc); err != nil {
			return nil, nil, err
		}
	}
	applyFlags(pf, &fc)

	o := &options{
		fixed:     fc.Fixed,
		growable:  fc.Growable,
		precision: fc.Precision,
	}
	for _, s := range strings.Split(fc.Stats, ",") {
		s = strings.TrimSpace(strings.ToLower(s))
		if s == "" {
			continue
		}
		if !knownStats[s] {
			return nil, nil, fmt.Errorf("unknown statistic: %s", s)
		}
		o.stats = append(o.stats, s)
	}
	if len(o.stats) == 0 {
		return nil, nil, fmt.Errorf("no statistics requested")
	}
	if fc.Unbias {
		o.confOpts = append(o.confOpts, conf.Unbias())
	}
	if fc.NoFill {
		o.confOpts = append(o.confOpts, conf.NoFill())
	}
	if fc.Toler > 0 {
		o.confOpts = append(o.confOpts, conf.Tolerance(fc.Toler))
	}
	if fc.Debug > 0 {
		o.confOpts = append(o.confOpts, conf.Debug(fc.Debug))
	}

	var values []vector.Value
	var err error
	if fc.File != "" {
		if len(pf.Args()) > 0 {
			return nil, nil, fmt.Errorf("values on the command line and --file are exclusive")
		}
		values, o.yvalues, err = parseFileValues(fc.File)
	} else {
		values, err = parseValues(pf.Args())
	}
	if err != nil {
		return nil, nil, err
	}
	for _, s := range o.stats {
		if dualStats[s] && len(o.yvalues) == 0 {
			return nil, nil, fmt.Errorf("%s needs a second column of input from --file", s)
		}
	}
	return values, o, nil
}

// applyFlags overrides file config with any flag changed on the command
// line.
func applyFlags(pf *pflag.FlagSet, fc *fileConfig) {
	if pf.Changed("stats") {
		fc.Stats, _ = pf.GetString("stats")
	}
	if pf.Changed("file") {
		fc.File, _ = pf.GetString("file")
	}
	if pf.Changed("fixed") {
		fc.Fixed, _ = pf.GetInt("fixed")
	}
	if pf.Changed("growable") {
		fc.Growable, _ = pf.GetBool("growable")
	}
	if pf.Changed("unbias") {
		fc.Unbias, _ = pf.GetBool("unbias")
	}
	if pf.Changed("no-fill") {
		fc.NoFill, _ = pf.GetBool("no-fill")
	}
	if pf.Changed("toler") {
		fc.Toler, _ = pf.GetFloat64("toler")
	}
	if pf.Changed("precision") {
		fc.Precision, _ = pf.GetInt("precision")
	}
	if pf.Changed("debug") {
		fc.Debug, _ = pf.GetInt("debug")
	}
}

func parseFromFile(fpath string, fc *fileConfig) error {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return err
	}
	if err := yaml.Unmarshal(data, fc); err != nil {
		return fmt.Errorf("could not parse config file %s: %v", fpath, err)
	}
	return nil
}

func parseValues(args []string) ([]vector.Value, error) {
	if len(args) == 0 {
		return nil, fmt.Errorf("no values given")
	}
	out := make([]vector.Value, 0, len(args))
	for _, a := range args {
		val, err := parseValue(a)
		if err != nil {
			return nil, err
		}
		out = append(out, val)
	}
	return out, nil
}

func parseValue(a string) (vector.Value, error) {
	if strings.EqualFold(a, "na") {
		return vector.NA(), nil
	}
	f, err := strconv.ParseFloat(a, 64)
	if err != nil {
		return vector.Value{}, fmt.Errorf("not a number: %s", a)
	}
	return vector.Num(f), nil
}

// parseFileValues reads observations from fpath, one row per line, columns
// separated by commas or whitespace.  A second column, when present on
// every row, becomes the y values for the dual statistics.
func parseFileValues(fpath string) ([]vector.Value, []vector.Value, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, nil, err
	}
	var x, y []vector.Value
	for i, line := range strings.Split(string(data), "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		cols := strings.FieldsFunc(line, func(r rune) bool {
			return r == ',' || r == ' ' || r == '\t'
		})
		if len(cols) > 2 {
			return nil, nil, fmt.Errorf("line %d: at most two columns allowed, got %d", i+1, len(cols))
		}
		xv, err := parseValue(cols[0])
		if err != nil {
			return nil, nil, fmt.Errorf("line %d: %v", i+1, err)
		}
		x = append(x, xv)
		if len(cols) == 2 {
			yv, err := parseValue(cols[1])
			if err != nil {
				return nil, nil, fmt.Errorf("line %d: %v", i+1, err)
			}
			y = append(y, yv)
		}
	}
	if len(x) == 0 {
		return nil, nil, fmt.Errorf("no values in %s", fpath)
	}
	if len(y) > 0 && len(y) != len(x) {
		return nil, nil, fmt.Errorf("every row in %s must have the same number of columns", fpath)
	}
	return x, y, nil
}

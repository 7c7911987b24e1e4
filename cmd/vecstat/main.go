package main

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"github.com/spf13/pflag"

	"github.com/BTBurke/vecstat/pkg/conf"
	"github.com/BTBurke/vecstat/pkg/stat"
	"github.com/BTBurke/vecstat/pkg/vector"
)

func main() {
	values, opts, err := parseCommandLine()
	if err != nil {
		if !errors.Is(err, pflag.ErrHelp) {
			fmt.Printf("Could not parse options: %s\n\nUse vecstat --help for options\n", err)
		}
		os.Exit(1)
	}

	cfg, err := conf.New(opts.confOpts...)
	if err != nil {
		fmt.Println("Error in config:", err)
		os.Exit(1)
	}

	vopts := []vector.Option{vector.WithConfig(cfg)}
	if opts.fixed > 0 {
		vopts = append(vopts, vector.Fixed(opts.fixed))
	}
	if opts.growable {
		vopts = append(vopts, vector.Growable())
	}
	v, err := vector.New(values, vopts...)
	if err != nil {
		fmt.Println("Error building vector:", err)
		os.Exit(1)
	}
	var y *vector.Vector
	if len(opts.yvalues) > 0 {
		y, err = vector.New(opts.yvalues, vopts...)
		if err != nil {
			fmt.Println("Error building vector:", err)
			os.Exit(1)
		}
	}

	for _, name := range opts.stats {
		fmt.Println(report(name, v, y, opts.precision))
	}
}

func report(name string, v, y *vector.Vector, precision int) string {
	var value float64
	var err error
	switch name {
	case "mode":
		m := stat.NewMode(v)
		if m.IsMultimodal() {
			return fmt.Sprintf("mode = {%s} (multimodal)", joinFloats(m.Modes(), precision))
		}
		value, err = m.Scalar()
	case "mean":
		value, err = stat.NewMean(v).Query()
	case "median":
		value, err = stat.NewMedian(v).Query()
	case "variance":
		value, err = stat.NewVariance(v).Query()
	case "stddev":
		value, err = stat.NewStdDev(v).Query()
	case "covariance":
		var c *stat.Covariance
		if c, err = stat.NewCovariance(v, y); err == nil {
			value, err = c.Query()
		}
	case "correlation":
		var c *stat.Correlation
		if c, err = stat.NewCorrelation(v, y); err == nil {
			value, err = c.Query()
		}
	case "lsf":
		f, ferr := stat.NewLeastSquareFit(v, y)
		if ferr != nil {
			return fmt.Sprintf("lsf = undefined (%s)", ferr)
		}
		co, cerr := f.Query()
		if cerr != nil {
			return fmt.Sprintf("lsf = undefined (%s)", cerr)
		}
		return fmt.Sprintf("lsf = alpha %.*f, beta %.*f", precision, co.Alpha, precision, co.Beta)
	default:
		return fmt.Sprintf("%s = unknown statistic", name)
	}
	if err != nil {
		return fmt.Sprintf("%s = undefined (%s)", name, err)
	}
	return fmt.Sprintf("%s = %.*f", name, precision, value)
}

func joinFloats(fs []float64, precision int) string {
	parts := make([]string, len(fs))
	for i, f := range fs {
		parts[i] = fmt.Sprintf("%.*f", precision, f)
	}
	return strings.Join(parts, ", ")
}

package conf

import (
	"fmt"
	"os"
	"strconv"

	"github.com/go-yaml/yaml"
)

// FromFile loads configuration options from a YAML file.  Recognized keys
// are unbias, nofill, toler, and debug.  The returned options are applied
// on top of environment defaults, so a file setting beats the environment.
func FromFile(fpath string) ([]Option, error) {
	var options []Option
	data, err := os.ReadFile(fpath)
	if err != nil {
		return options, err
	}

	cfg := make(map[string]interface{})
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return options, err
	}
	for k, v := range cfg {
		opt, err := handleOption(k, v)
		if err != nil {
			return options, err
		}
		options = append(options, opt)
	}
	return options, nil
}

func handleOption(key string, value interface{}) (Option, error) {
	switch key {
	case "unbias":
		if asBool(value) {
			return Unbias(), nil
		}
		return Population(), nil
	case "nofill":
		if asBool(value) {
			return NoFill(), nil
		}
		return ZeroFill(), nil
	case "toler":
		f, err := asFloat(value)
		if err != nil {
			return nil, fmt.Errorf("invalid value for toler: %v", value)
		}
		return Tolerance(f), nil
	case "debug":
		n, ok := value.(int)
		if !ok {
			return nil, fmt.Errorf("invalid value for debug: %v", value)
		}
		return Debug(n), nil
	default:
		return nil, fmt.Errorf("unknown option: %s", key)
	}
}

func asBool(v interface{}) bool {
	switch b := v.(type) {
	case bool:
		return b
	case string:
		out, err := strconv.ParseBool(b)
		return err == nil && out
	default:
		return false
	}
}

func asFloat(v interface{}) (float64, error) {
	switch f := v.(type) {
	case float64:
		return f, nil
	case int:
		return float64(f), nil
	case string:
		return strconv.ParseFloat(f, 64)
	default:
		return 0, fmt.Errorf("not a number: %v", v)
	}
}

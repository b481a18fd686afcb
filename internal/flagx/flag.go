// Package flagx lets several components parse their own subset of the
// command line without tripping over each other's flags.
package flagx

import (
	"flag"
	"os"
	"strings"
)

// ConfigEnvVar names the environment variable consulted by ConfigPath when
// neither -c nor -config is given.
const ConfigEnvVar = "FEEDHUB_CONFIG"

// FilterArgs returns the subset of args that belongs to allowedFlags, keeping
// flag values that follow as separate arguments.
//
// Supported formats:
//  1. Flag and value as separate arguments:  -c conf.json
//  2. Flag and value combined with '=':      -config=conf.json
//
// Like the flag package, a double-dash spelling (--config) matches the
// single-dash entry in allowedFlags.
func FilterArgs(args []string, allowedFlags []string) []string {
	allowed := make(map[string]struct{}, len(allowedFlags))
	for _, f := range allowedFlags {
		allowed[f] = struct{}{}
	}

	isAllowed := func(name string) bool {
		if _, ok := allowed[name]; ok {
			return true
		}
		if strings.HasPrefix(name, "--") {
			_, ok := allowed[name[1:]]
			return ok
		}
		return false
	}

	filtered := make([]string, 0, len(args))

	for i := 0; i < len(args); i++ {
		arg := args[i]

		if strings.HasPrefix(arg, "-") && strings.Contains(arg, "=") {
			name := strings.SplitN(arg, "=", 2)[0]
			if isAllowed(name) {
				filtered = append(filtered, arg)
			}
			continue
		}

		if isAllowed(arg) {
			filtered = append(filtered, arg)
			if i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
				filtered = append(filtered, args[i+1])
				i++
			}
		}
	}

	return filtered
}

// ConfigPath returns the JSON config file path given with -c / -config, or
// the value of FEEDHUB_CONFIG when no flag is present. The empty string
// means no file should be loaded.
func ConfigPath() string {
	var path string

	args := FilterArgs(os.Args[1:], []string{"-c", "-config"})

	fs := flag.NewFlagSet("json", flag.ContinueOnError)
	fs.StringVar(&path, "config", "", "Path to config file")
	fs.StringVar(&path, "c", "", "Path to config file (short)")
	_ = fs.Parse(args)

	if path == "" {
		path = os.Getenv(ConfigEnvVar)
	}
	return path
}

// Package flagx picks the flags one component owns out of a shared argument
// list. The server binary hands its raw arguments to both cobra and the
// config loader, and each takes only what it understands.
package flagx

import (
	"flag"
	"io"
	"strings"
)

// FilterArgs keeps the arguments that name one of allowed, in order. A
// separate value is kept with its flag unless it starts with "-"; the
// "-name=value" form is kept whole. Since the flag package accepts one or
// two leading dashes, "--a" matches an allowed "-a" and vice versa.
func FilterArgs(args []string, allowed []string) []string {
	keep := make(map[string]struct{}, len(allowed))
	for _, name := range allowed {
		keep[bare(name)] = struct{}{}
	}

	out := make([]string, 0, len(args))
	for i := 0; i < len(args); i++ {
		name, _, inline := strings.Cut(args[i], "=")
		if !strings.HasPrefix(name, "-") {
			continue
		}
		if _, ok := keep[bare(name)]; !ok {
			continue
		}

		out = append(out, args[i])
		if !inline && i+1 < len(args) && !strings.HasPrefix(args[i+1], "-") {
			out = append(out, args[i+1])
			i++
		}
	}
	return out
}

func bare(name string) string {
	return strings.TrimLeft(name, "-")
}

// ConfigFile returns the JSON config path given with -c or -config, or ""
// when neither is present. The last occurrence wins.
func ConfigFile(args []string) string {
	var path string

	fs := flag.NewFlagSet("config", flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	fs.StringVar(&path, "config", "", "path to a JSON config file")
	fs.StringVar(&path, "c", "", "path to a JSON config file (shorthand)")
	_ = fs.Parse(FilterArgs(args, []string{"-c", "-config"}))

	return path
}

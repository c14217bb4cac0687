// pkg/execute/helpers.go

package execute

import (
	"fmt"
	"strings"
)

func buildCommandString(command string, args ...string) string {
	if len(args) == 0 {
		return command
	}
	return command + " " + joinArgs(args)
}

// joinArgs quotes arguments that would otherwise be ambiguous in a log line.
func joinArgs(args []string) string {
	quoted := make([]string, 0, len(args))
	for _, arg := range args {
		if arg == "" || strings.ContainsAny(arg, " \t\n'\"") {
			quoted = append(quoted, fmt.Sprintf("%q", arg))
			continue
		}
		quoted = append(quoted, arg)
	}
	return strings.Join(quoted, " ")
}

const redacted = "***"

// redactArgs returns args with every value listed in secrets replaced.
func redactArgs(args, secrets []string) []string {
	if len(secrets) == 0 {
		return args
	}
	out := make([]string, len(args))
	for i, arg := range args {
		out[i] = arg
		for _, secret := range secrets {
			if secret != "" && arg == secret {
				out[i] = redacted
				break
			}
		}
	}
	return out
}

package main

import (
	"os"
	"strings"

	"desk-cli/internal/cli"
)

func isItemID(s string) bool {
	s = strings.TrimSpace(s)
	return strings.HasPrefix(s, "item-") && len(s) > len("item-")
}

// rewriteDirectItemLookupArgs makes `desk <item-id>` work like
// `desk items show <item-id>`. Cobra treats the first non-flag token as a
// subcommand, so the rewrite happens before parsing.
func rewriteDirectItemLookupArgs(argv []string) []string {
	if len(argv) < 2 {
		return argv
	}
	if !isItemID(argv[1]) {
		return argv
	}
	out := make([]string, 0, len(argv)+2)
	out = append(out, argv[0], "items", "show")
	out = append(out, argv[1:]...)
	return out
}

func main() {
	os.Args = rewriteDirectItemLookupArgs(os.Args)
	if err := cli.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

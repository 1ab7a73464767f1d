package bump

import (
	"strings"

	"github.com/urfave/cli/v2"
)

// 將 flag 移到位置參數之前，讓 flag 可以出現在任何位置
//
// urfave/cli 遇到第一個位置參數就停止解析 flag，`--` 之後的參數一律視為位置參數。
func reorderArgs(flags []cli.Flag, args []string) []string {
	if len(args) == 0 {
		return args
	}
	valueFlags := valueFlagNames(flags)

	var flagArgs, positionalArgs []string
	rest := args[1:]
	for i := 0; i < len(rest); i++ {
		arg := rest[i]
		if arg == "--" {
			positionalArgs = append(positionalArgs, rest[i+1:]...)
			break
		}
		if len(arg) < 2 || !strings.HasPrefix(arg, "-") {
			positionalArgs = append(positionalArgs, arg)
			continue
		}

		flagArgs = append(flagArgs, arg)
		name := strings.TrimLeft(arg, "-")
		if strings.Contains(name, "=") {
			continue
		}
		if valueFlags[name] && i+1 < len(rest) {
			i++
			flagArgs = append(flagArgs, rest[i])
		}
	}

	reordered := append([]string{args[0]}, flagArgs...)
	if len(positionalArgs) > 0 {
		reordered = append(reordered, "--")
		reordered = append(reordered, positionalArgs...)
	}
	return reordered
}

// 需要帶值的 flag 名稱
func valueFlagNames(flags []cli.Flag) map[string]bool {
	names := map[string]bool{}
	for _, flag := range flags {
		if _, ok := flag.(*cli.BoolFlag); ok {
			continue
		}
		for _, name := range flag.Names() {
			names[name] = true
		}
	}
	return names
}

package v2

import (
	"strings"

	"github.com/fatih/color"
)

var (
	taxiColor   = color.New(color.Bold, color.FgGreen)
	islandColor = color.New(color.Bold, color.FgCyan)
	runColor    = color.New(color.Bold, color.FgMagenta)
)

func shortStr(str string) string {
	if len(str) > 4 {
		str = str[len(str)-4:]
	}
	return runColor.Sprint(strings.ToUpper(str))
}

func taxiLabel(id int) string {
	return taxiColor.Sprintf("T%02d", id)
}

func islandLabel(id int) string {
	return islandColor.Sprintf("I%02d", id)
}

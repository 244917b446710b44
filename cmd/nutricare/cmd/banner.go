package cmd

import (
	"fmt"
)

const banner = `
  _   _       _        _  _____
 | \ | |     | |      (_)/ ____|
 |  \| |_   _| |_ _ __ _| |     __ _ _ __ ___
 | . ` + "`" + ` | | | | __| '__| | |    / _` + "`" + ` | '__/ _ \
 | |\  | |_| | |_| |  | | |___| (_| | | |  __/
 |_| \_|\__,_|\__|_|  |_|\_____\__,_|_|  \___|

`

func printBanner() {
	fmt.Printf("\x1b[34m%s\x1b[0m", banner)
	fmt.Printf("\x1b[32m  Clinical Nutrition Toolkit - Version %s\x1b[0m\n\n", Version)
}

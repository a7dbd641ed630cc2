package common

import (
	"fmt"

	"github.com/ternarybob/banner"
)

// PrintBanner displays the application banner
func PrintBanner(version string) {
	b := banner.New().SetStyle(banner.StyleDouble).SetBold(true)
	b.PrintTopLine()
	b.PrintCenteredText("AICommissioner")
	b.PrintCenteredText(fmt.Sprintf("version %s", version))
	b.PrintBottomLine()
}

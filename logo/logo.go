package logo

import (
	"github.com/pterm/pterm"
	"github.com/pterm/pterm/putils"
)

func Display() {
	s, _ := pterm.DefaultBigText.WithLetters(
		putils.LettersFromStringWithStyle("X", pterm.FgCyan.ToStyle()),
		putils.LettersFromStringWithStyle("transfer", pterm.FgLightMagenta.ToStyle())).Srender()
	pterm.DefaultCenter.Println(s)
	pterm.DefaultCenter.WithCenterEachLineSeparately().
		Println("Compliance endorsed ledger transfers\nsigned locally, endorsed remotely.")
}

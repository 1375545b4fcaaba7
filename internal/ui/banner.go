package ui

import (
	"fmt"
	"math/rand"
	"strings"
	"time"

	"github.com/pterm/pterm"

	"github.com/fr4nk3nst1ner/salarybarometer/internal/utils"
)

const bannerText = `
██████╗  █████╗ ██████╗  ██████╗ ███╗   ███╗███████╗████████╗███████╗██████╗
██╔══██╗██╔══██╗██╔══██╗██╔═══██╗████╗ ████║██╔════╝╚══██╔══╝██╔════╝██╔══██╗
██████╔╝███████║██████╔╝██║   ██║██╔████╔██║█████╗     ██║   █████╗  ██████╔╝
██╔══██╗██╔══██║██╔══██╗██║   ██║██║╚██╔╝██║██╔══╝     ██║   ██╔══╝  ██╔══██╗
██████╔╝██║  ██║██║  ██║╚██████╔╝██║ ╚═╝ ██║███████╗   ██║   ███████╗██║  ██║
╚═════╝ ╚═╝  ╚═╝╚═╝  ╚═╝ ╚═════╝ ╚═╝     ╚═╝╚══════╝   ╚═╝   ╚══════╝╚═╝  ╚═╝
 зарплатный барометр · hh.ru
`

// ColorizeText applies a random gradient to the input text
func ColorizeText(text string) string {
	source := rand.NewSource(time.Now().UnixNano())
	random := rand.New(source)

	startColor := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))
	firstPoint := pterm.NewRGB(uint8(random.Intn(256)), uint8(random.Intn(256)), uint8(random.Intn(256)))

	strs := strings.Split(text, "")
	half := len(strs) / 2
	if half == 0 {
		return text
	}

	var b strings.Builder
	for i, s := range strs {
		b.WriteString(startColor.Fade(0, float32(len(strs)), float32(i%half), firstPoint).Sprint(s))
	}
	return b.String()
}

// PrintBanner displays the application banner
func PrintBanner(silence bool) {
	if !silence {
		fmt.Println(ColorizeText(bannerText))
	}
}

// FormatURL formats a URL, optionally as a clickable terminal hyperlink using OSC 8 escape sequence
func FormatURL(url, label string, useHyperlink bool) string {
	if !useHyperlink || label == "" {
		return url
	}
	// \a (BEL) terminates the sequence for wider compatibility
	return fmt.Sprintf("\033]8;;%s\a%s\033]8;;\a", url, label)
}

// ColorizeSalary colors a monthly ruble amount by how it compares to the market summary
func ColorizeSalary(value, p25, p75 float64) string {
	if value <= 0 {
		return pterm.Red("нет данных")
	}

	formatted := utils.FormatRubles(value)
	switch {
	case value > p75:
		return pterm.Green(formatted)
	case value >= p25:
		return pterm.Yellow(formatted)
	default:
		return pterm.Red(formatted)
	}
}

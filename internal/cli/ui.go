package cli

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"

	"github.com/cropsignal/cropsignal/pkg/config"
	"github.com/cropsignal/cropsignal/pkg/monitor"
)

// =============================================================================
// Color Palette
// =============================================================================

var (
	colorCyan   = lipgloss.Color("36")  // Teal - primary actions
	colorGreen  = lipgloss.Color("35")  // Green - healthy zones
	colorYellow = lipgloss.Color("220") // Amber - warnings
	colorRed    = lipgloss.Color("167") // Soft red - stressed zones
	colorBlue   = lipgloss.Color("75")  // Light blue - links
	colorWhite  = lipgloss.Color("255") // Bright white - values
	colorGray   = lipgloss.Color("245") // Gray - secondary text
	colorDim    = lipgloss.Color("240") // Dim gray - muted text
)

// =============================================================================
// Public Styles
// =============================================================================

var (
	// StyleTitle for main headings.
	StyleTitle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)

	// StyleDim for secondary/muted text.
	StyleDim = lipgloss.NewStyle().Foreground(colorDim)

	// StyleValue for data values.
	StyleValue = lipgloss.NewStyle().Foreground(colorWhite)

	// StyleSuccess for success messages.
	StyleSuccess = lipgloss.NewStyle().Foreground(colorGreen)

	// StyleWarning for warning messages.
	StyleWarning = lipgloss.NewStyle().Foreground(colorYellow)
)

// =============================================================================
// Internal Styles
// =============================================================================

var (
	styleIconSuccess = lipgloss.NewStyle().Foreground(colorGreen)
	styleIconError   = lipgloss.NewStyle().Foreground(colorRed)
	styleIconWarning = lipgloss.NewStyle().Foreground(colorYellow)
	styleIconInfo    = lipgloss.NewStyle().Foreground(colorGray)
	styleIconSpinner = lipgloss.NewStyle().Foreground(colorCyan)

	styleHealthy  = lipgloss.NewStyle().Foreground(colorGreen)
	styleStressed = lipgloss.NewStyle().Foreground(colorRed)

	styleCommand = lipgloss.NewStyle().Foreground(colorBlue)
)

// =============================================================================
// Icons
// =============================================================================

const (
	iconSuccess = "✓"
	iconError   = "✗"
	iconWarning = "!"
	iconInfo    = "›"
	iconArrow   = "→"
)

// =============================================================================
// Status Output
// =============================================================================

// printSuccess prints a success message.
func printSuccess(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconSuccess.Render(iconSuccess) + " " + msg)
}

// printError prints an error message.
func printError(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconError.Render(iconError) + " " + msg)
}

// printWarning prints a warning message.
func printWarning(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconWarning.Render(iconWarning) + " " + StyleWarning.Render(msg))
}

// printInfo prints an info/status message.
func printInfo(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println(styleIconInfo.Render(iconInfo) + " " + msg)
}

// printDetail prints a detail line (indented).
func printDetail(format string, args ...any) {
	msg := fmt.Sprintf(format, args...)
	fmt.Println("  " + StyleDim.Render(msg))
}

// printFile prints a file output line.
func printFile(path string) {
	fmt.Println("  " + StyleDim.Render(iconArrow) + " " + StyleValue.Render(path))
}

// printKeyValue prints a labeled value.
func printKeyValue(key, value string) {
	keyStyle := lipgloss.NewStyle().Foreground(colorGray).Width(12)
	fmt.Println(keyStyle.Render(key) + " " + StyleValue.Render(value))
}

// =============================================================================
// Domain Output
// =============================================================================

// printObservation prints one zone's sweep line, colored by health.
func printObservation(obs monitor.Observation) {
	state := styleHealthy.Render("ok")
	if obs.Alerted {
		state = styleStressed.Render("ALERT")
	} else if obs.NDVI < obs.Stage.MinNDVI {
		state = StyleWarning.Render("low")
	}

	delta := "7d    — "
	if obs.HasPrev {
		delta = fmt.Sprintf("7d %+.2f", obs.Delta7d)
	}

	fmt.Printf("  %-22s %s  %s  %s  %s\n",
		obs.Zone.Name,
		StyleValue.Render(fmt.Sprintf("NDVI %.2f", obs.NDVI)),
		StyleDim.Render(fmt.Sprintf("want ≥%.2f", obs.Stage.MinNDVI)),
		StyleDim.Render(delta),
		state)
}

// printZoneTable prints the configured zones as a plain table.
func printZoneTable(zones []config.Zone) {
	fmt.Println(StyleTitle.Render("Monitored zones"))
	for _, z := range zones {
		fmt.Printf("  %-22s %s  %s  %s\n",
			z.Name,
			StyleDim.Render(fmt.Sprintf("%.2f, %.2f", z.Lat, z.Lon)),
			StyleValue.Render(fmt.Sprintf("%.1f%%", z.Weight*100)),
			StyleDim.Render(string(z.Tier())))
	}
}

// printNextStep prints a suggested next command.
func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

// printNewline prints an empty line.
func printNewline() {
	fmt.Println()
}

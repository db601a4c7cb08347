package cli

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/skillgraph/pkg/hierarchy"
	"github.com/matzehuels/skillgraph/pkg/pipeline"
)

// Terminal palette. The numbers are ANSI 256 colors.
var (
	colorAccent = lipgloss.Color("36")
	colorOK     = lipgloss.Color("35")
	colorWarn   = lipgloss.Color("220")
	colorFail   = lipgloss.Color("167")
	colorLink   = lipgloss.Color("75")
	colorText   = lipgloss.Color("255")
	colorLabel  = lipgloss.Color("245")
	colorMuted  = lipgloss.Color("240")
)

// Styles shared by the commands and the explore view.
var (
	StyleTitle     = lipgloss.NewStyle().Bold(true).Foreground(colorAccent)
	StyleHighlight = lipgloss.NewStyle().Foreground(colorAccent)
	StyleNumber    = StyleHighlight
	StyleDim       = lipgloss.NewStyle().Foreground(colorMuted)
	StyleValue     = lipgloss.NewStyle().Foreground(colorText)
	StyleSuccess   = lipgloss.NewStyle().Foreground(colorOK)
	StyleWarning   = lipgloss.NewStyle().Foreground(colorWarn)

	styleLabel   = lipgloss.NewStyle().Foreground(colorLabel).Width(12)
	styleCommand = lipgloss.NewStyle().Foreground(colorLink)
)

type marker struct {
	glyph string
	style lipgloss.Style
}

var (
	markSuccess = marker{"✓", StyleSuccess}
	markError   = marker{"✗", lipgloss.NewStyle().Foreground(colorFail)}
	markWarning = marker{"!", StyleWarning}
	markInfo    = marker{"›", lipgloss.NewStyle().Foreground(colorLabel)}
)

func (m marker) line(msg string) string { return m.style.Render(m.glyph) + " " + msg }

func printSuccess(format string, args ...any) {
	fmt.Println(markSuccess.line(fmt.Sprintf(format, args...)))
}

func printError(format string, args ...any) {
	fmt.Println(markError.line(fmt.Sprintf(format, args...)))
}

func printWarning(format string, args ...any) {
	fmt.Println(markWarning.line(StyleWarning.Render(fmt.Sprintf(format, args...))))
}

func printInfo(format string, args ...any) {
	fmt.Println(markInfo.line(fmt.Sprintf(format, args...)))
}

// printDetail prints an indented, muted line under the previous status.
func printDetail(format string, args ...any) {
	fmt.Println("  " + StyleDim.Render(fmt.Sprintf(format, args...)))
}

func printFile(path string) {
	fmt.Println("  " + StyleDim.Render("→") + " " + StyleValue.Render(path))
}

func printKeyValue(key, value string) {
	fmt.Println(styleLabel.Render(key) + " " + StyleValue.Render(value))
}

// printStats summarizes a solved scene: domains, cells, retries and whether
// it came from the cache.
func printStats(st pipeline.Stats, cached bool) {
	parts := []string{
		fmt.Sprintf("%d domains", st.Domains),
		fmt.Sprintf("%d cells", st.Cells),
	}
	if st.Attempts > 1 {
		parts = append(parts, fmt.Sprintf("%d attempts", st.Attempts))
	}
	if st.Degraded {
		parts = append(parts, "degraded")
	}
	origin := lipgloss.NewStyle().Foreground(colorLabel).Render("fresh")
	if cached {
		origin = StyleSuccess.Render("cached")
	}
	sep := StyleDim.Render(" · ")
	fmt.Println("  " + StyleDim.Render(strings.Join(parts, " · ")) + sep + origin)
}

// printForest prints one line per hierarchy.
func printForest(f hierarchy.Forest) {
	for _, kind := range hierarchy.Kinds {
		if root := f.Get(kind); root != nil {
			printKeyValue(string(kind), fmt.Sprintf("%d domains, %d leaves, weight %d",
				len(root.Children), len(root.Leaves()), root.Weight))
		}
	}
}

func printNextStep(description, cmd string) {
	fmt.Println(StyleDim.Render(description+":") + " " + styleCommand.Render(cmd))
}

func printNewline() { fmt.Println() }

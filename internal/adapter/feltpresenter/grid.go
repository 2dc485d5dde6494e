package feltpresenter

import (
	"fmt"
	"strings"

	"github.com/pterm/pterm"

	"github.com/park285/holdem-trainer/internal/domain"
	"github.com/park285/holdem-trainer/internal/rangebook"
	"github.com/park285/holdem-trainer/internal/util"
)

const gridCellWidth = 4

var (
	gridColdColor = pterm.NewRGB(70, 74, 90)
	gridHotColor  = pterm.NewRGB(255, 196, 72)
	gridFullColor = pterm.NewRGB(140, 222, 156)
)

// RangeGrid renders a 13x13 strategy chart as a terminal heat map. Suited
// combos sit above the pair diagonal, offsuit below; cell brightness tracks
// how much of the class the range plays.
func (f *Formatter) RangeGrid(grid *rangebook.Grid) string {
	if grid == nil {
		return ""
	}

	var sb strings.Builder
	sb.WriteString("   ")
	for _, r := range domain.RanksDesc {
		sb.WriteString(util.PadRight(string(r), gridCellWidth))
	}
	sb.WriteByte('\n')

	for row := 0; row < 13; row++ {
		sb.WriteString(util.PadRight(string(domain.RanksDesc[row]), 3))
		for col := 0; col < 13; col++ {
			class := grid.Classes[row][col]
			sb.WriteString(gridCell(class))
		}
		sb.WriteByte('\n')
	}
	sb.WriteByte('\n')
	sb.WriteString(gridLegend())

	title := f.render("panel.range", map[string]any{"Name": grid.Name}, "RANGE "+grid.Name)
	header := pterm.LightCyan(title)
	if strings.TrimSpace(grid.Title) != "" {
		header += "  " + pterm.FgGray.Sprint(grid.Title)
	}
	return header + "\n" + sb.String()
}

func gridCell(class rangebook.Class) string {
	label := util.PadRight(class.Label, gridCellWidth)
	switch {
	case class.Weight <= 0:
		return pterm.FgDarkGray.Sprint(label)
	case class.Weight >= 0.999:
		return gridFullColor.Sprint(label)
	default:
		return gridColdColor.Fade(0, 1, float32(class.Weight), gridHotColor).Sprint(label)
	}
}

func gridLegend() string {
	return fmt.Sprintf("%s always  %s sometimes  %s never",
		gridFullColor.Sprint("■"),
		gridHotColor.Sprint("■"),
		pterm.FgDarkGray.Sprint("■"),
	)
}

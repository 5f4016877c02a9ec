package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/san-kum/noisefield/internal/sim"
)

var (
	labelStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	valueStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)
	fpsStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("49")).Bold(true)
	slowStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true)
)

func field(label, value string, style lipgloss.Style) string {
	return labelStyle.Render(label+" ") + style.Render(value)
}

// Header renders the one-line status bar, cut to width cells. A width of 0
// leaves it uncut.
func Header(st sim.Status, width, targetFPS int) string {
	fps := fpsStyle
	if targetFPS > 0 && st.FPS > 0 && st.FPS < 0.9*float64(targetFPS) {
		fps = slowStyle
	}
	parts := []string{
		field("Mouse", fmt.Sprintf("%.0f,%.0f", st.MouseX, st.MouseY), valueStyle),
		field("Vel", fmt.Sprintf("%+.3f,%+.3f,%+.3f", st.XVelocity, st.YVelocity, st.ZVelocity), valueStyle),
		field("Off", fmt.Sprintf("%.2f,%.2f,%.2f", st.XOffset, st.YOffset, st.ZOffset), valueStyle),
		field("FPS", fmt.Sprintf("%.1f", st.FPS), fps),
		field("Cache", fmt.Sprintf("%.0f%% %d", 100*st.HitRatio, st.CacheLen), valueStyle),
	}
	line := strings.Join(parts, "  ")
	if width <= 0 {
		return line
	}
	return lipgloss.NewStyle().MaxWidth(width).Render(line)
}

package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"splitflap/config"
	"splitflap/core"
	"splitflap/protocol"
)

var (
	headStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("12"))
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
	faultStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	settledStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("46"))
)

// symbolLabel shows glyph flaps as <hex>
func symbolLabel(b byte) string {
	if core.IsPrintable(b) {
		return fmt.Sprintf("'%c'", b)
	}
	return fmt.Sprintf("<%02X>", b)
}

func formatStatus(r protocol.StatusReport) string {
	var sb strings.Builder

	sb.WriteString(headStyle.Render("Display status"))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  clock=%d next row=%d", r.Clock, r.Row)))
	sb.WriteString("\n")
	fmt.Fprintf(&sb, "cycles=%d pulses=%d advances=%d\n", r.Cycles, r.Pulses, r.Advances)

	faults := fmt.Sprintf("sensor faults=%d output faults=%d", r.SensorFaults, r.OutputFaults)
	if r.SensorFaults > 0 || r.OutputFaults > 0 {
		faults = faultStyle.Render(faults)
	}
	sb.WriteString(faults)
	sb.WriteString("\n")

	fmt.Fprintf(&sb, "%-4s %-13s %-11s %6s %6s %-6s %5s\n", "bit", "state", "sensor", "steps", "target", "symbol", "homes")
	for i, b := range r.Bits {
		state := fmt.Sprintf("%-13s", core.BitState(b.State))
		if core.BitState(b.State) == core.BitSettled {
			state = settledStyle.Render(state)
		}
		fmt.Fprintf(&sb, "%-4d %s %-11s %6d %6d %-6s %5d\n",
			i, state, core.SensorState(b.Sensor), b.StepsSinceHome, b.TargetSteps, symbolLabel(b.Target), b.Homes)
	}
	return sb.String()
}

func formatConfig(cfg *config.Config) string {
	var sb strings.Builder
	d := cfg.Display

	sb.WriteString(headStyle.Render(fmt.Sprintf("%d cells", len(d.Bits))))
	sb.WriteString(dimStyle.Render(fmt.Sprintf("  step=%s pulse=%dus settle=%dms", d.StepPin, d.PulseWidthUs, d.SettleMs)))
	sb.WriteString("\n")
	for i, b := range d.Bits {
		fmt.Fprintf(&sb, "  bit %d: clutch=%s channel=%d steps/flap=%d home_offset=%d trigger=%d untrigger=%d\n",
			i, b.ClutchPin, b.Channel, b.StepsPerFlap, b.HomeOffset, b.Calibration.Trigger, b.Calibration.Untrigger)
	}

	seq, err := cfg.MessageSequence()
	if err != nil {
		fmt.Fprintf(&sb, "messages: %v\n", err)
		return sb.String()
	}
	sb.WriteString(headStyle.Render(fmt.Sprintf("%d rows", seq.Len())))
	sb.WriteString("\n")
	for i := 0; i < seq.Len(); i++ {
		fmt.Fprintf(&sb, "  [%s]\n", rowLabel(seq.Row(i)))
	}
	return sb.String()
}

func rowLabel(row []byte) string {
	var sb strings.Builder
	for _, b := range row {
		if core.IsPrintable(b) {
			sb.WriteByte(b)
		} else {
			fmt.Fprintf(&sb, "<%02X>", b)
		}
	}
	return sb.String()
}

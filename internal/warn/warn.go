// Package warn turns power status readouts into user-facing warning
// payloads. Delivery (motd text, desktop notifications) is the caller's
// concern; this package only decides what to say.
package warn

import (
	"strings"

	"github.com/waveform80/pemmican/internal/inhibit"
	"github.com/waveform80/pemmican/internal/power"
)

// PSUInfoURL points at the Raspberry Pi 5 power supply documentation.
const PSUInfoURL = "https://rptl.io/rpi5-power-supply-info"

// Title is the summary line used for all power warnings.
const Title = "Raspberry Pi PMIC Monitor"

// Urgency follows the freedesktop notification urgency levels.
type Urgency int

const (
	UrgencyLow Urgency = iota
	UrgencyNormal
	UrgencyCritical
)

// Warning is one deliverable power warning: a stable key, display text,
// urgency, the inhibit marker that suppresses it, and a documentation
// link.
type Warning struct {
	Key     string
	Summary string
	Body    string
	Urgency Urgency
	Inhibit string
	URL     string
}

// ResetWarnings evaluates the boot-time checks. A brownout reset
// outranks an inadequate PSU; the user is not warned twice about the
// same underlying supply problem. inhibited reports whether the named
// marker suppresses a warning; inhibit.Inhibited is the usual value.
func ResetWarnings(st power.Status, inhibited func(string) bool) []Warning {
	brownout := st.Brownout && !inhibited(inhibit.Brownout)
	maxCurrent := st.MaxCurrentMA < 5000 && !inhibited(inhibit.MaxCurrent)

	switch {
	case brownout:
		return []Warning{{
			Key:     "brownout",
			Summary: Title,
			Body:    "Reset due to low power; please check your power supply",
			Urgency: UrgencyCritical,
			Inhibit: inhibit.Brownout,
			URL:     PSUInfoURL,
		}}
	case maxCurrent:
		return []Warning{{
			Key:     "max_current",
			Summary: Title,
			Body: "This power supply is not capable of supplying 5A; power " +
				"to peripherals will be restricted",
			Urgency: UrgencyNormal,
			Inhibit: inhibit.MaxCurrent,
			URL:     PSUInfoURL,
		}}
	}
	return nil
}

// MonitorWarnings evaluates the live undervolt and overcurrent state.
func MonitorWarnings(st power.Status, inhibited func(string) bool) []Warning {
	var warnings []Warning
	if st.Undervolt && !inhibited(inhibit.Undervolt) {
		warnings = append(warnings, Warning{
			Key:     "undervolt",
			Summary: Title,
			Body:    "Low voltage warning; please check your power supply",
			Urgency: UrgencyCritical,
			Inhibit: inhibit.Undervolt,
			URL:     PSUInfoURL,
		})
	}
	if st.Overcurrent && !inhibited(inhibit.Overcurrent) {
		warnings = append(warnings, Warning{
			Key:     "overcurrent",
			Summary: Title,
			Body:    "USB overcurrent; please check your connected USB devices",
			Urgency: UrgencyCritical,
			Inhibit: inhibit.Overcurrent,
			URL:     PSUInfoURL,
		})
	}
	return warnings
}

// MOTD renders warnings as a plain-text message-of-the-day banner: each
// warning wrapped and blank-line separated, followed by a pointer at the
// man page and the PSU documentation. Returns "" when there is nothing
// to report.
func MOTD(warnings []Warning) string {
	if len(warnings) == 0 {
		return ""
	}
	var b strings.Builder
	for _, w := range warnings {
		b.WriteString("\n")
		b.WriteString(wrap(w.Body, 70))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(wrap("See man:pemmican-cli(1) for information on suppressing "+
		"this warning, or "+PSUInfoURL+" for more information on the "+
		"Raspberry Pi 5 power supply", 70))
	b.WriteString("\n")
	return b.String()
}

// wrap greedily word-wraps text to the given width.
func wrap(text string, width int) string {
	words := strings.Fields(text)
	if len(words) == 0 {
		return ""
	}
	var b strings.Builder
	lineLen := 0
	for i, word := range words {
		switch {
		case i == 0:
			b.WriteString(word)
			lineLen = len(word)
		case lineLen+1+len(word) > width:
			b.WriteString("\n" + word)
			lineLen = len(word)
		default:
			b.WriteString(" " + word)
			lineLen += 1 + len(word)
		}
	}
	return b.String()
}

package models

// Window defines the named lookback intervals used to filter sessions.
type Window string

const (
	WindowAll       Window = "alles"
	WindowWeekly    Window = "weekliks"
	WindowMonthly   Window = "maandeliks"
	WindowQuarterly Window = "kwartaalliks"
	WindowYearly    Window = "jaarliks"
)

// ParseWindow maps a query/form value onto a Window, defaulting to WindowAll.
func ParseWindow(s string) Window {
	switch Window(s) {
	case WindowWeekly, WindowMonthly, WindowQuarterly, WindowYearly:
		return Window(s)
	default:
		return WindowAll
	}
}

// Label returns the display name used in reports.
func (w Window) Label() string {
	switch w {
	case WindowWeekly:
		return "Weekliks"
	case WindowMonthly:
		return "Maandeliks"
	case WindowQuarterly:
		return "Kwartaalliks"
	case WindowYearly:
		return "Jaarliks"
	default:
		return "Alles"
	}
}

// GradeLabels defines the accepted grade values for a session.
var GradeLabels = []string{
	"Graad 8",
	"Graad 9",
	"Graad 10",
	"Graad 11",
	"Graad 12",
}

// ValidGrade reports whether g is one of the accepted grade labels.
// The empty string is allowed because grade is optional.
func ValidGrade(g string) bool {
	if g == "" {
		return true
	}
	for _, l := range GradeLabels {
		if g == l {
			return true
		}
	}
	return false
}

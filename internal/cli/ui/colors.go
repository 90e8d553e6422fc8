package ui

// ANSI-коды консоли
const (
	ColorReset  = "\033[0m"
	ColorBold   = "\033[1m"
	ColorRed    = "\033[31m"
	ColorGreen  = "\033[32m"
	ColorYellow = "\033[33m"
	ColorCyan   = "\033[36m"
	ColorGray   = "\033[90m"
)

// Статусы шагов и прогонов
const (
	IconCheckmark = "✓"
	IconCross     = "✗"
	IconPlay      = "▶"
	IconSkip      = "↷"
	IconClock     = "⏳"
)

// Артефакты прогона
const (
	IconCamera   = "📷"
	IconFilm     = "🎬"
	IconDocument = "📝"
)

const (
	IconGlobe = "🌐"
	IconList  = "📋"
	IconChart = "📊"
	IconTime  = "🕐"
	IconBulb  = "💡"
	IconWave  = "👋"
)

package ui

import (
	"fmt"
	"time"
)

// FormatStatus возвращает иконку, цвет и текст для статуса прогона или шага
func FormatStatus(status string) (icon, color, text string) {
	switch status {
	case "passed":
		return IconCheckmark, ColorGreen, "пройден"
	case "failed":
		return IconCross, ColorRed, "провален"
	case "running":
		return IconPlay, ColorCyan, "выполняется"
	case "skipped":
		return IconSkip, ColorGray, "пропущен"
	case "pending":
		return IconClock, ColorYellow, "не реализован"
	default:
		return IconClock, ColorYellow, status
	}
}

// FormatDuration округляет длительность для вывода
func FormatDuration(ms int64) string {
	d := time.Duration(ms) * time.Millisecond
	if d < time.Second {
		return d.String()
	}
	return d.Round(10 * time.Millisecond).String()
}

// ClearScreen очищает терминал
func ClearScreen() {
	fmt.Print("\033[H\033[2J")
}

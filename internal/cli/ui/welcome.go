package ui

import (
	"fmt"
	"io"
)

// PrintWelcome выводит приветствие
func PrintWelcome(w io.Writer, steps int) {
	fmt.Fprintln(w, ColorBold+IconGlobe+" bddbrowser console"+ColorReset)
	fmt.Fprintln(w, ColorGray+"Шаги Gherkin выполняются сразу в живом браузере"+ColorReset)
	fmt.Fprintf(w, ColorGray+"Зарегистрировано шагов: %d"+ColorReset+"\n", steps)
	fmt.Fprintln(w)
	PrintHelp(w)
	fmt.Fprintln(w, ColorCyan+IconBulb+" Совет:"+ColorReset+" введите "+ColorYellow+`I open "https://example.com"`+ColorReset+", затем "+ColorYellow+`I see text "Example"`+ColorReset)
	fmt.Fprintln(w)
	fmt.Fprintln(w, ColorGray+"⬆️ ⬇️"+ColorReset+" Используйте стрелки для навигации по истории команд")
	fmt.Fprintln(w)
}

// PrintHelp выводит список доступных команд
func PrintHelp(w io.Writer) {
	fmt.Fprintln(w, ColorYellow+IconList+" Доступные команды:"+ColorReset)
	fmt.Fprintln(w, "  "+ColorGreen+"<шаг>"+ColorReset+"               - Выполнить шаг, например I click on button \"Save\"")
	fmt.Fprintln(w, "  "+ColorGreen+"steps"+ColorReset+" [фильтр]      - Список шагов")
	fmt.Fprintln(w, "  "+ColorGreen+"match"+ColorReset+" <шаг>         - Показать, какому определению соответствует шаг")
	fmt.Fprintln(w, "  "+ColorGreen+"runs"+ColorReset+"                - Последние прогоны сценариев")
	fmt.Fprintln(w, "  "+ColorGreen+"show"+ColorReset+" <id>           - Детали прогона")
	fmt.Fprintln(w, "  "+ColorGreen+"sessions"+ColorReset+" [имя]      - Сохраненные сессии браузера")
	fmt.Fprintln(w, "  "+ColorGreen+"reset"+ColorReset+"               - Закрыть страницу и начать с чистого контекста")
	fmt.Fprintln(w, "  "+ColorGreen+"clear"+ColorReset+"               - Очистить экран")
	fmt.Fprintln(w, "  "+ColorGreen+"exit"+ColorReset+"                - Выход")
	fmt.Fprintln(w)
}

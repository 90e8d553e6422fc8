// Package features содержит приемочные сценарии и тестовый сайт для них.
// Запуск: go test -tags acceptance ./features/...
package features

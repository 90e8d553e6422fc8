package hooks

import (
	"strings"

	"github.com/cucumber/godog"
)

const (
	tagSession = "@session:"
	tagDevice  = "@device:"
	tagNoVideo = "@no-video"
)

// scenarioTags - настройки сценария, заданные тегами.
type scenarioTags struct {
	// Session - сохраненная сессия, с которой стартует контекст.
	Session string
	// Device - дескриптор устройства playwright. В теге пробелы
	// записываются через "_": @device:iPhone_13 -> "iPhone 13".
	Device  string
	NoVideo bool
}

func tagNames(sc *godog.Scenario) []string {
	if sc == nil {
		return nil
	}
	names := make([]string, 0, len(sc.Tags))
	for _, tag := range sc.Tags {
		names = append(names, tag.Name)
	}
	return names
}

// parseTags разбирает теги сценария. При повторе тега побеждает последний.
func parseTags(tags []string) scenarioTags {
	var res scenarioTags
	for _, tag := range tags {
		tag = strings.TrimSpace(tag)
		lower := strings.ToLower(tag)

		switch {
		case strings.HasPrefix(lower, tagSession):
			res.Session = strings.TrimSpace(tag[len(tagSession):])
		case strings.HasPrefix(lower, tagDevice):
			res.Device = strings.ReplaceAll(strings.TrimSpace(tag[len(tagDevice):]), "_", " ")
		case lower == tagNoVideo:
			res.NoVideo = true
		}
	}
	return res
}

package model

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSettingIsOpen(t *testing.T) {
	assert.True(t, Setting{Value: SwitchOpen}.IsOpen())
	assert.False(t, Setting{Value: SwitchClose}.IsOpen())
	assert.False(t, Setting{}.IsOpen())
}

func TestDefaultSettingsUnique(t *testing.T) {
	seen := map[string]bool{}
	for _, s := range DefaultSettings {
		assert.False(t, seen[s.Key], s.Key)
		seen[s.Key] = true
	}
	assert.Equal(t, "default", defaultValue("current_template_theme"))
	assert.Equal(t, "index", defaultValue("index_template"))
}

func defaultValue(key string) string {
	for _, s := range DefaultSettings {
		if s.Key == key {
			return s.Value
		}
	}
	return ""
}

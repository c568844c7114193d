package main

import (
	"os"
	"path/filepath"
	"testing"
)

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "grv.json")
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write config: %v", err)
	}
	return path
}

func TestLoadConfigMissingFile(t *testing.T) {
	result := loadConfigFromPath(filepath.Join(t.TempDir(), "absent.json"))

	if result.HasError {
		t.Error("missing config file reported as error")
	}
	if result.Status != "Default" {
		t.Errorf("status = %s, want Default", result.Status)
	}
	c := result.Config
	if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
		t.Errorf("default window = %dx%d, want %dx%d", c.WindowWidth, c.WindowHeight, defaultWidth, defaultHeight)
	}
	if c.SortMethod != SortLexicographic {
		t.Errorf("default sort = %d, want lexicographic", c.SortMethod)
	}
	if c.CacheSize != 16 {
		t.Errorf("default cache size = %d, want 16", c.CacheSize)
	}
	if len(c.Keybindings) == 0 || len(c.Mousebindings) == 0 {
		t.Error("default bindings missing")
	}
}

func TestLoadConfigInvalidJSON(t *testing.T) {
	path := writeConfigFile(t, "{not json")
	result := loadConfigFromPath(path)

	if !result.HasError || result.Status != "Error" {
		t.Errorf("invalid JSON: HasError=%v Status=%s, want error status", result.HasError, result.Status)
	}
	if result.Config.WindowWidth != defaultWidth {
		t.Error("invalid JSON did not fall back to defaults")
	}
}

func TestLoadConfigValidation(t *testing.T) {
	tests := []struct {
		name  string
		json  string
		check func(t *testing.T, c Config)
	}{
		{
			"Undersized window reset",
			`{"window_width": 100, "window_height": 50}`,
			func(t *testing.T, c Config) {
				if c.WindowWidth != defaultWidth || c.WindowHeight != defaultHeight {
					t.Errorf("window = %dx%d, want defaults", c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			"Valid window kept",
			`{"window_width": 1280, "window_height": 720}`,
			func(t *testing.T, c Config) {
				if c.WindowWidth != 1280 || c.WindowHeight != 720 {
					t.Errorf("window = %dx%d, want 1280x720", c.WindowWidth, c.WindowHeight)
				}
			},
		},
		{
			"Tiny font reset",
			`{"font_size": 6}`,
			func(t *testing.T, c Config) {
				if c.FontSize != 20.0 {
					t.Errorf("font size = %v, want 20", c.FontSize)
				}
			},
		},
		{
			"Sort method out of range",
			`{"sort_method": 7}`,
			func(t *testing.T, c Config) {
				if c.SortMethod != SortLexicographic {
					t.Errorf("sort = %d, want lexicographic fallback", c.SortMethod)
				}
			},
		},
		{
			"Cache size clamped high",
			`{"cache_size": 500}`,
			func(t *testing.T, c Config) {
				if c.CacheSize != 64 {
					t.Errorf("cache size = %d, want 64", c.CacheSize)
				}
			},
		},
		{
			"Cache size clamped low",
			`{"cache_size": 0}`,
			func(t *testing.T, c Config) {
				if c.CacheSize != 16 {
					t.Errorf("cache size = %d, want 16", c.CacheSize)
				}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := loadConfigFromPath(writeConfigFile(t, tt.json))
			tt.check(t, result.Config)
		})
	}
}

func TestLoadConfigPartialKeybindings(t *testing.T) {
	// Only "next" overridden; every other action keeps its defaults.
	path := writeConfigFile(t, `{"keybindings": {"next": ["KeyJ"]}}`)
	result := loadConfigFromPath(path)

	kb := result.Config.Keybindings
	if len(kb["next"]) != 1 || kb["next"][0] != "KeyJ" {
		t.Errorf("next binding = %v, want [KeyJ]", kb["next"])
	}
	if len(kb["exit"]) == 0 {
		t.Error("unmentioned action lost its default binding")
	}
}

func TestLoadConfigKeybindingConflict(t *testing.T) {
	path := writeConfigFile(t, `{"keybindings": {"next": ["KeyX"], "previous": ["KeyX"]}}`)
	result := loadConfigFromPath(path)

	if result.Status != "Warning" {
		t.Errorf("status = %s, want Warning for conflicting bindings", result.Status)
	}
	defaults := GetDefaultKeybindings()
	got := result.Config.Keybindings["next"]
	if len(got) != len(defaults["next"]) {
		t.Errorf("conflicting bindings not replaced by defaults: %v", got)
	}
}

func TestLoadConfigUnknownKey(t *testing.T) {
	path := writeConfigFile(t, `{"keybindings": {"next": ["KeyUnknown"]}}`)
	result := loadConfigFromPath(path)

	if result.Status != "Warning" {
		t.Errorf("status = %s, want Warning for unknown key", result.Status)
	}
}

func TestValidateKeyString(t *testing.T) {
	validKeys := getKeyMapping()
	tests := []struct {
		keyStr  string
		wantErr bool
	}{
		{"KeyA", false},
		{"Shift+KeyA", false},
		{"Ctrl+Alt+KeyZ", false},
		{"Escape", false},
		{"NotAKey", true},
		{"Hyper+KeyA", true},
		{"", true},
	}

	for _, tt := range tests {
		err := validateKeyString(tt.keyStr, validKeys)
		if (err != nil) != tt.wantErr {
			t.Errorf("validateKeyString(%q) error = %v, wantErr %v", tt.keyStr, err, tt.wantErr)
		}
	}
}

func TestSaveConfigRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grv.json")
	config := loadConfigFromPath(path).Config
	config.WindowWidth = 1024
	config.WindowHeight = 768
	config.SortMethod = SortNatural

	saveConfigToPath(config, path)

	reloaded := loadConfigFromPath(path)
	if reloaded.Status != "OK" {
		t.Errorf("reload status = %s, want OK", reloaded.Status)
	}
	c := reloaded.Config
	if c.WindowWidth != 1024 || c.WindowHeight != 768 || c.SortMethod != SortNatural {
		t.Errorf("round trip lost values: %+v", c)
	}
}

func TestSaveConfigRejectsTinyWindow(t *testing.T) {
	path := filepath.Join(t.TempDir(), "grv.json")
	config := loadConfigFromPath(path).Config
	config.WindowWidth = 10
	config.WindowHeight = 10

	saveConfigToPath(config, path)

	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Error("config with undersized window was written")
	}
}

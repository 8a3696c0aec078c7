package config

import (
	"os"
	"path/filepath"
	"testing"
)

func resetGlobal() {
	globalMu.Lock()
	globalManager = nil
	globalMu.Unlock()
}

func TestInitialize(t *testing.T) {
	t.Run("initializes global manager successfully", func(t *testing.T) {
		resetGlobal()
		t.Cleanup(resetGlobal)

		if err := Initialize(filepath.Join(t.TempDir(), "config.yaml")); err != nil {
			t.Fatalf("Initialize failed: %v", err)
		}
		if !IsInitialized() {
			t.Error("Global manager should be initialized")
		}

		for _, id := range []string{SectionIDStore, SectionIDDisplay, SectionIDLogging} {
			if _, ok := Global().GetSection(id); !ok {
				t.Errorf("%s section not registered", id)
			}
		}
		if GetStore() == nil || GetDisplay() == nil || GetLogging() == nil {
			t.Error("typed getters should return registered sections")
		}
	})

	t.Run("loads existing configuration", func(t *testing.T) {
		resetGlobal()
		t.Cleanup(resetGlobal)
		configPath := filepath.Join(t.TempDir(), "config.yaml")

		if err := Initialize(configPath); err != nil {
			t.Fatalf("First initialize failed: %v", err)
		}
		if err := GetStore().SetData(map[string]any{"root": "/srv/fur", "overwrite": "never"}); err != nil {
			t.Fatalf("SetData failed: %v", err)
		}
		if err := GetDisplay().SetData(map[string]any{"preview_width": 80}); err != nil {
			t.Fatalf("SetData failed: %v", err)
		}
		if err := Global().SaveAll(); err != nil {
			t.Fatalf("SaveAll failed: %v", err)
		}

		resetGlobal()
		if err := Initialize(configPath); err != nil {
			t.Fatalf("Re-initialize failed: %v", err)
		}

		root, policy := GetStore().Settings()
		if root != "/srv/fur" || policy != OverwriteNever {
			t.Errorf("store section not reloaded: %s %s", root, policy)
		}
		if width, _, _, _ := GetDisplay().Settings(); width != 80 {
			t.Errorf("Expected preview width 80, got %d", width)
		}
	})

	t.Run("rejects invalid stored values", func(t *testing.T) {
		resetGlobal()
		t.Cleanup(resetGlobal)
		configPath := filepath.Join(t.TempDir(), "config.yaml")
		content := "sections:\n  store:\n    overwrite: sometimes\n"
		if err := os.WriteFile(configPath, []byte(content), 0644); err != nil {
			t.Fatalf("WriteFile failed: %v", err)
		}

		if err := Initialize(configPath); err == nil {
			t.Error("Expected error for invalid overwrite policy")
		}
		if IsInitialized() {
			t.Error("Failed initialization should not set the global manager")
		}
	})
}

func TestGlobal(t *testing.T) {
	t.Run("panics if not initialized", func(t *testing.T) {
		resetGlobal()

		defer func() {
			if r := recover(); r == nil {
				t.Error("Global() should panic when not initialized")
			}
		}()
		Global()
	})

	t.Run("getters return nil if not initialized", func(t *testing.T) {
		resetGlobal()

		if GetStore() != nil || GetDisplay() != nil || GetLogging() != nil {
			t.Error("getters should return nil before Initialize")
		}
	})
}

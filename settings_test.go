package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func withSettingsDir(t *testing.T) string {
	t.Helper()
	orig := dataDirPath
	dataDirPath = t.TempDir()
	t.Cleanup(func() {
		dataDirPath = orig
		gs = gsdef
	})
	return dataDirPath
}

func writeSettings(t *testing.T, dir string, v any) {
	t.Helper()
	data, err := json.Marshal(v)
	if err != nil {
		t.Fatal(err)
	}
	if err := os.WriteFile(filepath.Join(dir, settingsFile), data, 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadSettingsMissingFile(t *testing.T) {
	withSettingsDir(t)
	gs.Song = "game"
	if loadSettings() {
		t.Fatalf("loadSettings reported success without a file")
	}
	if gs != gsdef {
		t.Fatalf("gs = %+v, want defaults", gs)
	}
}

func TestSaveLoadSettings(t *testing.T) {
	withSettingsDir(t)
	gs = gsdef
	gs.Song = "game"
	gs.MasterVolume = 0.25
	gs.Passes = 3
	saveSettings()

	gs = gsdef
	if !loadSettings() {
		t.Fatalf("loadSettings failed")
	}
	if gs.Song != "game" || gs.MasterVolume != 0.25 || gs.Passes != 3 {
		t.Fatalf("loaded %+v", gs)
	}
}

func TestLoadSettingsVersionMismatch(t *testing.T) {
	dir := withSettingsDir(t)
	s := gsdef
	s.Version = SETTINGS_VERSION + 1
	s.Song = "game"
	writeSettings(t, dir, s)
	if loadSettings() {
		t.Fatalf("loaded settings with the wrong version")
	}
	if gs.Song != gsdef.Song {
		t.Fatalf("Song = %q, want default", gs.Song)
	}
}

func TestLoadSettingsClamps(t *testing.T) {
	dir := withSettingsDir(t)
	s := gsdef
	s.MasterVolume = 3
	s.SoundVolume = -1
	s.Passes = 0
	s.Song = "nope"
	s.WindowWidth = 10
	writeSettings(t, dir, s)
	if !loadSettings() {
		t.Fatalf("loadSettings failed")
	}
	if gs.MasterVolume != gsdef.MasterVolume || gs.SoundVolume != gsdef.SoundVolume {
		t.Fatalf("volumes not clamped: %+v", gs)
	}
	if gs.Passes != gsdef.Passes || gs.Song != gsdef.Song || gs.WindowWidth != gsdef.WindowWidth {
		t.Fatalf("settings not clamped: %+v", gs)
	}
}

func TestLoadSettingsBadJSON(t *testing.T) {
	dir := withSettingsDir(t)
	if err := os.WriteFile(filepath.Join(dir, settingsFile), []byte("{"), 0644); err != nil {
		t.Fatal(err)
	}
	if loadSettings() {
		t.Fatalf("loaded malformed settings")
	}
}

func TestUpdateSettingsClamps(t *testing.T) {
	withSettingsDir(t)
	gs = gsdef
	updateSettings(func(s *settings) { s.MusicVolume = 2 })
	if got := currentSettings().MusicVolume; got != gsdef.MusicVolume {
		t.Fatalf("MusicVolume = %v", got)
	}
}

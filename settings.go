package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/bep/debounce"

	"chipjam/music"
)

const SETTINGS_VERSION = 2

const settingsFile = "settings.json"

// dataDirPath holds settings and exports. It is resolved relative to the
// executable so files land next to the binary regardless of the working
// directory.
var dataDirPath = func() string {
	if exe, err := os.Executable(); err == nil {
		if dir, err := filepath.Abs(filepath.Dir(exe)); err == nil {
			return filepath.Join(dir, "data")
		}
	}
	return "data"
}()

var (
	settingsMu sync.Mutex
	gs         settings = gsdef

	// settingsLoaded reports whether settings were successfully loaded from disk.
	settingsLoaded bool

	saveDebounced = debounce.New(750 * time.Millisecond)
)

var gsdef settings = settings{
	Version: SETTINGS_VERSION,

	Song:         "title",
	Music:        true,
	GameSound:    true,
	Loop:         true,
	MasterVolume: 0.8,
	MusicVolume:  1.0,
	SoundVolume:  0.6,
	Passes:       2,
	WindowWidth:  initialWindowW,
	WindowHeight: initialWindowH,
}

type settings struct {
	Version int

	Song         string
	Music        bool
	GameSound    bool
	Loop         bool
	MasterVolume float64
	MusicVolume  float64
	SoundVolume  float64
	Passes       int
	SoundFont    string
	ExportDir    string
	WindowWidth  int
	WindowHeight int
}

func loadSettings() bool {
	settingsMu.Lock()
	defer settingsMu.Unlock()

	path := filepath.Join(dataDirPath, settingsFile)
	data, err := os.ReadFile(path)
	if err != nil {
		gs = gsdef
		settingsLoaded = false
		return false
	}

	tmp := gsdef
	if err := json.Unmarshal(data, &tmp); err != nil {
		logWarn("load settings: %v", err)
		gs = gsdef
		settingsLoaded = false
		return false
	}
	if tmp.Version != SETTINGS_VERSION {
		logDebug("settings version %d, want %d: using defaults", tmp.Version, SETTINGS_VERSION)
		gs = gsdef
		settingsLoaded = false
		return false
	}

	gs = tmp
	clampSettings(&gs)
	settingsLoaded = true
	return true
}

// clampSettings replaces out of range values with their defaults.
func clampSettings(s *settings) {
	if s.MasterVolume < 0 || s.MasterVolume > 1 {
		s.MasterVolume = gsdef.MasterVolume
	}
	if s.MusicVolume < 0 || s.MusicVolume > 1 {
		s.MusicVolume = gsdef.MusicVolume
	}
	if s.SoundVolume < 0 || s.SoundVolume > 1 {
		s.SoundVolume = gsdef.SoundVolume
	}
	if s.Passes < 1 || s.Passes > 64 {
		s.Passes = gsdef.Passes
	}
	if _, err := music.Song(s.Song); err != nil {
		s.Song = gsdef.Song
	}
	if s.WindowWidth < 320 || s.WindowHeight < 240 {
		s.WindowWidth = gsdef.WindowWidth
		s.WindowHeight = gsdef.WindowHeight
	}
}

func saveSettings() {
	settingsMu.Lock()
	data, err := json.MarshalIndent(gs, "", "  ")
	settingsMu.Unlock()
	if err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.MkdirAll(dataDirPath, 0755); err != nil {
		logError("save settings: %v", err)
		return
	}
	path := filepath.Join(dataDirPath, settingsFile)
	if err := os.WriteFile(path+".tmp", data, 0644); err != nil {
		logError("save settings: %v", err)
		return
	}
	if err := os.Rename(path+".tmp", path); err != nil {
		logError("save settings: %v", err)
	}
}

// updateSettings applies fn under the settings lock and schedules a save.
func updateSettings(fn func(s *settings)) {
	settingsMu.Lock()
	fn(&gs)
	clampSettings(&gs)
	settingsMu.Unlock()
	saveDebounced(saveSettings)
}

// currentSettings returns a copy safe to read without the lock.
func currentSettings() settings {
	settingsMu.Lock()
	defer settingsMu.Unlock()
	return gs
}

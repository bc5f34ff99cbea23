package models

type Theme string

const (
	ThemeDark   Theme = "dark"
	ThemeDarker Theme = "darker"
)

type Settings struct {
	SoundEnabled      bool  `json:"soundEnabled"`
	MusicEnabled      bool  `json:"musicEnabled"`
	AnimationsEnabled bool  `json:"animationsEnabled"`
	Theme             Theme `json:"theme"`
}

type SettingsUpdate struct {
	SoundEnabled      *bool  `json:"soundEnabled,omitempty"`
	MusicEnabled      *bool  `json:"musicEnabled,omitempty"`
	AnimationsEnabled *bool  `json:"animationsEnabled,omitempty"`
	Theme             *Theme `json:"theme,omitempty"`
}

func DefaultSettings() Settings {
	return Settings{
		SoundEnabled:      true,
		MusicEnabled:      true,
		AnimationsEnabled: true,
		Theme:             ThemeDark,
	}
}

func (t Theme) Valid() bool {
	return t == ThemeDark || t == ThemeDarker
}

// Merge returns s with the non-nil fields of u applied.
func (s Settings) Merge(u SettingsUpdate) (Settings, error) {
	if u.SoundEnabled != nil {
		s.SoundEnabled = *u.SoundEnabled
	}
	if u.MusicEnabled != nil {
		s.MusicEnabled = *u.MusicEnabled
	}
	if u.AnimationsEnabled != nil {
		s.AnimationsEnabled = *u.AnimationsEnabled
	}
	if u.Theme != nil {
		if !u.Theme.Valid() {
			return s, ErrInvalidTheme
		}
		s.Theme = *u.Theme
	}
	return s, nil
}

package main

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// sceneSettings holds the tunables that may be overridden from a config file or
// CCTV_* environment variables.
type sceneSettings struct {
	Cutoff            time.Duration
	GrainIntensity    float64
	GlitchProbability float64
	MasterLevel       float64
	SampleRate        int
	Tiger             voiceSettings
	Dog               voiceSettings
}

type voiceSettings struct {
	Interval time.Duration
	Chance   float64
}

func defaultSettings() sceneSettings {
	return sceneSettings{
		Cutoff:            sequenceCutoff,
		GrainIntensity:    grainIntensity,
		GlitchProbability: glitchProbability,
		MasterLevel:       masterLevel,
		SampleRate:        audioSampleRate,
		Tiger:             voiceSettings{Interval: tigerInterval, Chance: tigerChance},
		Dog:               voiceSettings{Interval: dogInterval, Chance: dogChance},
	}
}

// loadSettings reads path (any format viper understands) on top of the
// defaults. An empty path only applies environment overrides.
func loadSettings(path string) (sceneSettings, error) {
	def := defaultSettings()
	v := viper.New()
	v.SetDefault("cutoff", def.Cutoff)
	v.SetDefault("grain.intensity", def.GrainIntensity)
	v.SetDefault("glitch.probability", def.GlitchProbability)
	v.SetDefault("audio.master", def.MasterLevel)
	v.SetDefault("audio.sample_rate", def.SampleRate)
	v.SetDefault("audio.tiger.interval", def.Tiger.Interval)
	v.SetDefault("audio.tiger.chance", def.Tiger.Chance)
	v.SetDefault("audio.dog.interval", def.Dog.Interval)
	v.SetDefault("audio.dog.chance", def.Dog.Chance)

	v.SetEnvPrefix("cctv")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return def, fmt.Errorf("reading config %q: %w", path, err)
		}
	}

	s := sceneSettings{
		Cutoff:            v.GetDuration("cutoff"),
		GrainIntensity:    v.GetFloat64("grain.intensity"),
		GlitchProbability: v.GetFloat64("glitch.probability"),
		MasterLevel:       v.GetFloat64("audio.master"),
		SampleRate:        v.GetInt("audio.sample_rate"),
		Tiger: voiceSettings{
			Interval: v.GetDuration("audio.tiger.interval"),
			Chance:   v.GetFloat64("audio.tiger.chance"),
		},
		Dog: voiceSettings{
			Interval: v.GetDuration("audio.dog.interval"),
			Chance:   v.GetFloat64("audio.dog.chance"),
		},
	}
	if err := s.validate(); err != nil {
		return def, err
	}
	return s, nil
}

func (s sceneSettings) validate() error {
	switch {
	case s.Cutoff <= 0:
		return fmt.Errorf("cutoff must be positive, got %s", s.Cutoff)
	case s.SampleRate < 8000:
		return fmt.Errorf("audio.sample_rate too low: %d", s.SampleRate)
	case s.Tiger.Interval <= 0 || s.Dog.Interval <= 0:
		return fmt.Errorf("vocalization intervals must be positive")
	case s.MasterLevel < 0 || s.MasterLevel > 1:
		return fmt.Errorf("audio.master must be within [0,1], got %g", s.MasterLevel)
	}
	for name, p := range map[string]float64{
		"glitch.probability": s.GlitchProbability,
		"audio.tiger.chance": s.Tiger.Chance,
		"audio.dog.chance":   s.Dog.Chance,
	} {
		if p < 0 || p > 1 {
			return fmt.Errorf("%s must be within [0,1], got %g", name, p)
		}
	}
	return nil
}

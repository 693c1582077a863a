package main

import "time"

// Scene, timing and audio constants. The tunables that can be overridden from a
// config file are mirrored by sceneSettings in settings.go.
const (
	defaultWindowW      = 960
	defaultWindowH      = 540
	maxDevicePixelRatio = 2.0
	defaultTPS          = 60

	sequenceCutoff = 10 * time.Second

	horizonFrac      = 0.35
	roadFarLeftFrac  = 0.35
	roadFarRightFrac = 0.65
	swayRate         = 0.0002 // rad per ms
	swayAmplitude    = 0.02   // fraction of width
	laneWidthFrac    = 0.002
	laneDashFrac     = 0.015
	laneGapFrac      = 0.02

	poolBaseRadius = 0.08
	poolRadiusStep = 0.015

	shadowHalfWidth = 14
	shadowLenFrac   = 0.18
	tigerShadowDir  = -0.25
	dogShadowDir    = 0.25
	dogScaleFactor  = 0.95

	breatheRate      = 0.003 // rad per ms
	breatheAmplitude = 0.5

	vignetteInnerFrac = 0.1
	vignetteOuterFrac = 0.7
	vignetteAlpha     = 0.55

	scanlineHeight = 2
	scanlineAlpha  = 0.08

	grainSeedRate     = 0.0002 // seed units per ms
	grainSeedRange    = 1e6
	grainScale        = 0.6
	grainIntensity    = 18.0
	lumaR             = 0.30
	lumaG             = 0.59
	lumaB             = 0.11
	glitchProbability = 0.02

	hudTopBar      = 28
	hudBottomBar   = 24
	hudBarAlpha    = 0.35
	recBlinkPeriod = 400 // ms
	recDotRadius   = 5

	audioSampleRate     = 48000
	audioBufferDuration = 80 * time.Millisecond
	noiseBufferSeconds  = 2
	brownLeak           = 0.02
	brownMakeup         = 3.5
	pcm16MaxValue       = 32767
	pcm16MinValue       = -32768

	masterLevel   = 0.8
	ambientLevel  = 0.18
	hissLevel     = 0.02
	ambientCutoff = 800.0

	tigerBandHz   = 120.0
	tigerBandQ    = 1.2
	tigerLFOHz    = 1.2
	tigerLFODepth = 60.0
	dogBandHz     = 900.0
	dogBandQ      = 0.8

	tigerInterval = 1400 * time.Millisecond
	tigerChance   = 0.55
	dogInterval   = 900 * time.Millisecond
	dogChance     = 0.45

	masterFade  = 300 * time.Millisecond
	releaseTail = 400 * time.Millisecond
)

// vocalization describes a two-segment linear gain envelope.
type vocalization struct {
	attack  float64 // seconds
	peak    float64
	release float64 // seconds
}

var (
	tigerGrowl = vocalization{attack: 0.3, peak: 0.5, release: 1.5}
	dogBark    = vocalization{attack: 0.02, peak: 0.45, release: 0.16}
)

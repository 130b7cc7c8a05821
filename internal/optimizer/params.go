package optimizer

import "pdfpress/internal/engine"

// Level selects how aggressively a document is rewritten.
type Level int

const (
	LevelLow Level = iota
	LevelMedium
	LevelHigh
)

func (l Level) String() string {
	switch l {
	case LevelLow:
		return "low"
	case LevelMedium:
		return "medium"
	case LevelHigh:
		return "high"
	default:
		return "medium"
	}
}

// ParseLevel maps a user-supplied name onto a Level. Unknown names fall
// back to medium.
func ParseLevel(s string) Level {
	switch s {
	case "low":
		return LevelLow
	case "medium":
		return LevelMedium
	case "high":
		return LevelHigh
	default:
		return LevelMedium
	}
}

// Params are the save parameters applied during a standard
// optimization pass. Immutable once constructed.
type Params struct {
	GarbageLevel int
	Deflate      bool
	Clean        bool
}

var levelParams = map[Level]Params{
	LevelLow:    {GarbageLevel: 1, Deflate: true, Clean: true},
	LevelMedium: {GarbageLevel: 3, Deflate: true, Clean: true},
	LevelHigh:   {GarbageLevel: 4, Deflate: true, Clean: true},
}

// ParamsFor returns the save parameters for level. Unknown levels fall
// back to medium.
func ParamsFor(level Level) Params {
	if p, ok := levelParams[level]; ok {
		return p
	}
	return levelParams[LevelMedium]
}

func (p Params) saveOptions() engine.SaveOptions {
	return engine.SaveOptions{
		GarbageLevel: p.GarbageLevel,
		Deflate:      p.Deflate,
		Clean:        p.Clean,
	}
}

// fallbackSaveOptions is the conservative configuration used when the
// standard save fails in repair mode: incremental, minimal garbage
// collection, deflate on, clean off.
func fallbackSaveOptions() engine.SaveOptions {
	return engine.SaveOptions{
		GarbageLevel: 1,
		Deflate:      true,
		Clean:        false,
		Incremental:  true,
	}
}

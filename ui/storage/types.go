package storage

import "time"

// Rating is a game's age rating.
type Rating int64

const (
	RatingNone Rating = iota
	RatingEveryone
	RatingEveryone10
	RatingTeen
	RatingMature
	RatingAdults
)

// ParseRating maps an ESRB label to a Rating.
func ParseRating(s string) Rating {
	switch s {
	case "E", "E - Everyone", "Everyone":
		return RatingEveryone
	case "E10+", "E10+ - Everyone 10+", "Everyone 10+":
		return RatingEveryone10
	case "T", "T - Teen", "Teen":
		return RatingTeen
	case "M", "M - Mature", "M - Mature 17+", "Mature":
		return RatingMature
	case "AO", "AO - Adult Only 18+", "Adults Only":
		return RatingAdults
	default:
		return RatingNone
	}
}

func (r Rating) String() string {
	switch r {
	case RatingEveryone:
		return "Everyone"
	case RatingEveryone10:
		return "Everyone 10+"
	case RatingTeen:
		return "Teen"
	case RatingMature:
		return "Mature"
	case RatingAdults:
		return "Adults Only"
	default:
		return "Not Rated"
	}
}

// Restricted reports whether launching content with this rating needs the
// passcode in restricted mode.
func (r Rating) Restricted() bool {
	return r >= RatingMature
}

// Platform is an emulator and the folder of ROMs it runs.
type Platform struct {
	ID   int64
	Name string
	// Path is the emulator executable.
	Path string
	// Args is the argument template; %ROM% expands to the game file.
	Args   string
	Folder string
	// ScraperID is the platform id on TheGamesDB.
	ScraperID int64
}

// Game is one ROM on a platform.
type Game struct {
	ID         int64
	PlatformID int64
	Name       string
	Overview   string
	Players    int64
	Rating     Rating
	Released   string
	// File is the ROM path passed as %ROM%.
	File string
	// Boxart is a file path or URL; empty when unknown.
	Boxart  string
	LastRun int64 // Unix timestamp, 0 = never
}

// LastRunTime returns LastRun as a time; the zero time when never run.
func (g *Game) LastRunTime() time.Time {
	if g.LastRun == 0 {
		return time.Time{}
	}
	return time.Unix(g.LastRun, 0)
}

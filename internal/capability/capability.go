// Package capability defines the contracts the conversation core uses to
// reach its OS and network collaborators. Implementations report failure
// through errors; the core translates every failure into a conversational
// reply and never crashes on one.
package capability

import (
	"context"
	"errors"
)

// ErrUnavailable indicates the host cannot provide the requested reading or
// action (missing hardware, unsupported platform, missing helper binary).
var ErrUnavailable = errors.New("capability unavailable")

// ErrNoAnswer indicates a search completed but produced no usable snippet.
var ErrNoAnswer = errors.New("no concise answer found")

// Battery is one battery reading.
type Battery struct {
	Percent  int
	Charging bool
}

// TargetKind selects how OpenTarget interprets its value.
type TargetKind string

const (
	TargetURL    TargetKind = "url"
	TargetFolder TargetKind = "folder"
	TargetMusic  TargetKind = "music"
)

// System is the OS integration surface: readings and fixed-function actions.
type System interface {
	ReadBattery(ctx context.Context) (Battery, error)
	ReadVolume(ctx context.Context) (int, error)
	SetVolume(ctx context.Context, percent int) error
	ReadBrightness(ctx context.Context) (int, error)
	SetBrightness(ctx context.Context, percent int) error
	OpenTarget(ctx context.Context, kind TargetKind, value string) error
}

// Searcher performs a web search and returns one snippet.
type Searcher interface {
	Search(ctx context.Context, query string) (string, error)
}

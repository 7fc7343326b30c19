package tetris

import (
	"errors"
	"fmt"
)

// ErrInvalidConfig is wrapped by every error returned from Config.Validate.
var ErrInvalidConfig = errors.New("invalid game config")

// Board size limits accepted by Validate.
const (
	MinBoardWidth  = 5
	MaxBoardWidth  = 50
	MinBoardHeight = 5
	MaxBoardHeight = 40

	// MaxClutterLevel caps the pre-filled fraction of the board height.
	MaxClutterLevel = 0.9
)

// Delays is the fall-delay curve, in seconds. The delay before the active piece
// drops by one row is max(Min, Start - Decrement*rows), rows being the number of
// rows cleared so far.
type Delays struct {
	Start     float64
	Decrement float64
	Min       float64
}

// For returns the fall delay after the given number of cleared rows.
func (d Delays) For(rows int) float64 {
	return max(d.Min, d.Start-d.Decrement*float64(rows))
}

// Clutter controls the optional pre-fill applied when a game starts. Level is
// the fraction of the board height to fill, e.g. 0.65.
type Clutter struct {
	Enabled bool
	Level   float64
}

// Config is the session-scoped, read-only game configuration.
type Config struct {
	Width   int
	Height  int
	Shapes  []Shape
	Delays  Delays
	Score   ScoreRules
	Clutter Clutter
}

// DefaultConfig returns the classic 10x20 setup.
func DefaultConfig() Config {
	return Config{
		Width:  10,
		Height: 20,
		Shapes: DefaultShapes(),
		Delays: Delays{
			Start:     0.7,
			Decrement: 0.003,
			Min:       0.1,
		},
		Score: DefaultScoreRules(),
		Clutter: Clutter{
			Enabled: false,
			Level:   0.65,
		},
	}
}

// Validate checks the configuration before it is handed to NewGame.
func (c Config) Validate() error {
	if c.Width < MinBoardWidth || c.Width > MaxBoardWidth {
		return fmt.Errorf("%w: board width %d outside [%d, %d]", ErrInvalidConfig, c.Width, MinBoardWidth, MaxBoardWidth)
	}
	if c.Height < MinBoardHeight || c.Height > MaxBoardHeight {
		return fmt.Errorf("%w: board height %d outside [%d, %d]", ErrInvalidConfig, c.Height, MinBoardHeight, MaxBoardHeight)
	}
	if len(c.Shapes) == 0 {
		return fmt.Errorf("%w: no shapes", ErrInvalidConfig)
	}
	for i := range c.Shapes {
		if err := validateShape(&c.Shapes[i]); err != nil {
			return err
		}
	}
	if c.Delays.Start <= 0 {
		return fmt.Errorf("%w: start delay %v must be positive", ErrInvalidConfig, c.Delays.Start)
	}
	if c.Delays.Decrement < 0 || c.Delays.Min < 0 {
		return fmt.Errorf("%w: delay decrement and minimum must not be negative", ErrInvalidConfig)
	}
	if c.Score == nil {
		return fmt.Errorf("%w: no score rules", ErrInvalidConfig)
	}
	if c.Clutter.Level < 0 || c.Clutter.Level > MaxClutterLevel {
		return fmt.Errorf("%w: clutter level %v outside [0, %v]", ErrInvalidConfig, c.Clutter.Level, MaxClutterLevel)
	}
	return nil
}

func validateShape(s *Shape) error {
	if s.Name == "" {
		return fmt.Errorf("%w: shape without a name", ErrInvalidConfig)
	}
	if s.Size < 1 || s.Size > 4 {
		return fmt.Errorf("%w: shape %s has size %d", ErrInvalidConfig, s.Name, s.Size)
	}
	if s.Color == "" {
		return fmt.Errorf("%w: shape %s has no colour", ErrInvalidConfig, s.Name)
	}
	for o, mask := range s.Blocks {
		if mask == 0 {
			return fmt.Errorf("%w: shape %s orientation %d is empty", ErrInvalidConfig, s.Name, o)
		}
		outside := s.First(0, 0, o, func(x, y int) bool {
			return x >= s.Size || y >= s.Size
		})
		if outside {
			return fmt.Errorf("%w: shape %s orientation %d exceeds its %dx%d box", ErrInvalidConfig, s.Name, o, s.Size, s.Size)
		}
	}
	return nil
}

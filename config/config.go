package config

import (
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"othello/game"
	"othello/meta"
	"othello/searcher"
)

var (
	ErrInvalidSize         = errors.New("invalid board size")
	ErrInvalidPosition     = errors.New("invalid starting position")
	ErrInvalidSearch       = errors.New("invalid search parameters")
	ErrUnknownAlgorithm    = errors.New("unknown algorithm")
	ErrUnknownDistribution = errors.New("unknown job distribution")
)

type Config struct {
	Board        BoardConfig        `yaml:"board"`
	Search       SearchConfig       `yaml:"search"`
	Distribution DistributionConfig `yaml:"distribution"`
	Game         GameConfig         `yaml:"game"`
	LogLevel     string             `yaml:"logLevel"`
}

type BoardConfig struct {
	Width  int      `yaml:"width"`
	Height int      `yaml:"height"`
	White  []string `yaml:"white"`
	Black  []string `yaml:"black"`
}

type SearchConfig struct {
	MaxDepth    int `yaml:"maxDepth"`
	MaxBoards   int `yaml:"maxBoards"` // 0 means unlimited
	CornerValue int `yaml:"cornerValue"`
	EdgeValue   int `yaml:"edgeValue"`
}

type DistributionConfig struct {
	Algorithm       Algorithm    `yaml:"algorithm"`
	Workers         int          `yaml:"workers"` // Processes including the master
	JobDistribution Distribution `yaml:"jobDistribution"`
	JobsPerWorker   int          `yaml:"jobsPerWorker"`
	SendSize        int          `yaml:"sendSize"`
	Seed            uint64       `yaml:"seed"` // 0 seeds from the clock
	Compress        bool         `yaml:"compress"`
}

type GameConfig struct {
	MaxTurns int `yaml:"maxTurns"` // 0 plays until the game is over
}

// Default returns the standard 8x8 setup searched serially.
func Default() Config {
	return Config{
		Board: BoardConfig{
			Width:  8,
			Height: 8,
			White:  []string{"d4", "e5"},
			Black:  []string{"d5", "e4"},
		},
		Search: SearchConfig{
			MaxDepth:    4,
			CornerValue: 4,
			EdgeValue:   2,
		},
		Distribution: DistributionConfig{
			Algorithm:       SerialMinimax,
			Workers:         1,
			JobDistribution: Sequential,
			JobsPerWorker:   meta.JOBS_PER_WORKER,
			SendSize:        meta.SEND_SIZE,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML file on top of the defaults and validates the result.
func Load(path string) (Config, error) {
	cfg := Default()
	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to read config file: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	if err := cfg.Validate(); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// Validate checks everything a run depends on so that a bad file fails before any search starts.
func (c Config) Validate() error {
	if c.Board.Width < 2 || c.Board.Height < 2 || c.Board.Width > 26 {
		return fmt.Errorf("%w: %dx%d", ErrInvalidSize, c.Board.Width, c.Board.Height)
	}
	if _, _, err := c.StartingPositions(); err != nil {
		return err
	}
	if c.Search.MaxDepth < 1 {
		return fmt.Errorf("%w: maxDepth must be at least 1, got %d", ErrInvalidSearch, c.Search.MaxDepth)
	}
	if c.Search.MaxBoards < 0 {
		return fmt.Errorf("%w: maxBoards must not be negative, got %d", ErrInvalidSearch, c.Search.MaxBoards)
	}
	if !c.Distribution.Algorithm.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownAlgorithm, c.Distribution.Algorithm)
	}
	if !c.Distribution.JobDistribution.Valid() {
		return fmt.Errorf("%w: %q", ErrUnknownDistribution, c.Distribution.JobDistribution)
	}
	if c.Distribution.Workers < 1 {
		return fmt.Errorf("%w: workers must be at least 1, got %d", ErrInvalidSearch, c.Distribution.Workers)
	}
	if c.Distribution.JobsPerWorker < 1 || c.Distribution.SendSize < 1 {
		return fmt.Errorf("%w: jobsPerWorker and sendSize must be positive", ErrInvalidSearch)
	}
	return nil
}

// StartingPositions parses the white and black starting disks.
func (c Config) StartingPositions() (white, black []game.Position, err error) {
	seen := make(map[game.Position]string)
	parse := func(colour string, in []string) ([]game.Position, error) {
		out := make([]game.Position, 0, len(in))
		for _, s := range in {
			p, err := game.ParsePosition(s)
			if err != nil {
				return nil, fmt.Errorf("%w: %s %v", ErrInvalidPosition, colour, err)
			}
			if p.X >= c.Board.Width || p.Y >= c.Board.Height {
				return nil, fmt.Errorf("%w: %s %s is off the %dx%d board", ErrInvalidPosition, colour, p, c.Board.Width, c.Board.Height)
			}
			if other, ok := seen[p]; ok {
				return nil, fmt.Errorf("%w: %s %s already holds a %s disk", ErrInvalidPosition, colour, p, other)
			}
			seen[p] = colour
			out = append(out, p)
		}
		return out, nil
	}
	if white, err = parse("white", c.Board.White); err != nil {
		return nil, nil, err
	}
	if black, err = parse("black", c.Board.Black); err != nil {
		return nil, nil, err
	}
	return white, black, nil
}

// NewBoard builds the configured starting board.
func (c Config) NewBoard() (*game.Board, error) {
	white, black, err := c.StartingPositions()
	if err != nil {
		return nil, err
	}
	b := game.NewBoard(c.Board.Width, c.Board.Height)
	b.Init(white, black)
	return b, nil
}

// Limits returns the per-run search limits.
func (c Config) Limits() searcher.Limits {
	maxBoards := c.Search.MaxBoards
	if maxBoards == 0 {
		maxBoards = meta.UNLIMITED_BOARDS
	}
	return searcher.Limits{
		Width:       c.Board.Width,
		Height:      c.Board.Height,
		MaxBoards:   maxBoards,
		CornerValue: c.Search.CornerValue,
		EdgeValue:   c.Search.EdgeValue,
	}
}

func (c Config) String() string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "size=%dx%d white=%v black=%v ", c.Board.Width, c.Board.Height, c.Board.White, c.Board.Black)
	fmt.Fprintf(&sb, "maxDepth=%d maxBoards=%d corner=%d edge=%d ", c.Search.MaxDepth, c.Search.MaxBoards, c.Search.CornerValue, c.Search.EdgeValue)
	fmt.Fprintf(&sb, "algorithm=%s workers=%d distribution=%s jobsPerWorker=%d sendSize=%d",
		c.Distribution.Algorithm, c.Distribution.Workers, c.Distribution.JobDistribution,
		c.Distribution.JobsPerWorker, c.Distribution.SendSize)
	return sb.String()
}

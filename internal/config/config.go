// Package config loads server settings from defaults, an optional TOML file
// and CHESS_* environment variables, in that order of precedence.
package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/MaxLeedham/Chess/internal/game"
)

var ErrInvalid = errors.New("invalid config")

// Config holds everything cmd/server needs to start.
type Config struct {
	Addr        string `toml:"addr"`
	BoardSize   int    `toml:"board_size"`
	Database    string `toml:"database"`
	WhitePlayer string `toml:"white"`
	BlackPlayer string `toml:"black"`
	// Site is written into exported PGN headers when set.
	Site string `toml:"site"`
}

func Default() Config {
	return Config{
		Addr:        ":8080",
		BoardSize:   8,
		Database:    "chess.db",
		WhitePlayer: "White",
		BlackPlayer: "Black",
	}
}

// Load is Read followed by Validate.
func Load(path string) (Config, error) {
	cfg, err := Read(path)
	if err != nil {
		return Config{}, err
	}
	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Read starts from Default, overlays path when it is non-empty and then the
// environment. Keys in the file that Config does not know are rejected. The
// result is not validated, so callers can apply further overrides first.
func Read(path string) (Config, error) {
	cfg := Default()
	if path != "" {
		md, err := toml.DecodeFile(path, &cfg)
		if err != nil {
			return Config{}, fmt.Errorf("read %s: %w", path, err)
		}
		if undecoded := md.Undecoded(); len(undecoded) > 0 {
			keys := make([]string, len(undecoded))
			for i, k := range undecoded {
				keys[i] = k.String()
			}
			return Config{}, fmt.Errorf("%w: unknown keys in %s: %s", ErrInvalid, path, strings.Join(keys, ", "))
		}
	}
	if err := cfg.applyEnv(os.LookupEnv); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func (c *Config) applyEnv(lookup func(string) (string, bool)) error {
	if v, ok := lookupNonEmpty(lookup, "CHESS_ADDR"); ok {
		c.Addr = v
	}
	if v, ok := lookupNonEmpty(lookup, "CHESS_BOARD_SIZE"); ok {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("%w: CHESS_BOARD_SIZE=%q is not a number", ErrInvalid, v)
		}
		c.BoardSize = n
	}
	if v, ok := lookupNonEmpty(lookup, "CHESS_DATABASE"); ok {
		c.Database = v
	}
	if v, ok := lookupNonEmpty(lookup, "CHESS_WHITE"); ok {
		c.WhitePlayer = v
	}
	if v, ok := lookupNonEmpty(lookup, "CHESS_BLACK"); ok {
		c.BlackPlayer = v
	}
	if v, ok := lookupNonEmpty(lookup, "CHESS_SITE"); ok {
		c.Site = v
	}
	return nil
}

func lookupNonEmpty(lookup func(string) (string, bool), key string) (string, bool) {
	v, ok := lookup(key)
	v = strings.TrimSpace(v)
	return v, ok && v != ""
}

// Validate checks that the board size has a built-in layout and that the
// remaining fields are usable.
func (c Config) Validate() error {
	supported := false
	for _, size := range game.StandardSizes() {
		if c.BoardSize == size {
			supported = true
			break
		}
	}
	if !supported {
		return fmt.Errorf("%w: board size %d, want one of %v", ErrInvalid, c.BoardSize, game.StandardSizes())
	}
	if strings.TrimSpace(c.Addr) == "" {
		return fmt.Errorf("%w: empty listen address", ErrInvalid)
	}
	if strings.TrimSpace(c.WhitePlayer) == "" || strings.TrimSpace(c.BlackPlayer) == "" {
		return fmt.Errorf("%w: player names must not be empty", ErrInvalid)
	}
	if strings.TrimSpace(c.WhitePlayer) == strings.TrimSpace(c.BlackPlayer) {
		return fmt.Errorf("%w: white and black are both %q", ErrInvalid, c.WhitePlayer)
	}
	return nil
}

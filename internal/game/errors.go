package game

import "errors"

var (
	ErrInvalidConfig = errors.New("invalid configuration")
	ErrInvalidMove   = errors.New("invalid move")
	ErrGameOver      = errors.New("game over")
)

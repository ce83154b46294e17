package config

import (
	"fmt"
	"strings"
)

// Algorithm selects how a search is executed.
type Algorithm string

const (
	SerialMinimax    Algorithm = "SERIAL_MINIMAX"
	SerialAlphaBeta  Algorithm = "SERIAL_ALPHABETA"
	BatchMinimax     Algorithm = "BATCH_MINIMAX"
	BatchAlphaBeta   Algorithm = "BATCH_ALPHABETA"
	JobPoolMinimax   Algorithm = "JOBPOOL_MINIMAX"
	JobPoolAlphaBeta Algorithm = "JOBPOOL_ALPHABETA"
)

// Algorithms lists every variant in a stable order.
var Algorithms = []Algorithm{
	SerialMinimax, SerialAlphaBeta,
	BatchMinimax, BatchAlphaBeta,
	JobPoolMinimax, JobPoolAlphaBeta,
}

func (a Algorithm) Valid() bool {
	for _, v := range Algorithms {
		if a == v {
			return true
		}
	}
	return false
}

func (a Algorithm) IsSerial() bool {
	return a == SerialMinimax || a == SerialAlphaBeta
}

func (a Algorithm) IsBatch() bool {
	return a == BatchMinimax || a == BatchAlphaBeta
}

func (a Algorithm) IsJobPool() bool {
	return a == JobPoolMinimax || a == JobPoolAlphaBeta
}

func (a Algorithm) AlphaBeta() bool {
	return a == SerialAlphaBeta || a == BatchAlphaBeta || a == JobPoolAlphaBeta
}

// ParseAlgorithm accepts any letter case.
func ParseAlgorithm(s string) (Algorithm, error) {
	a := Algorithm(strings.ToUpper(strings.TrimSpace(s)))
	if !a.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownAlgorithm, s)
	}
	return a, nil
}

func (a *Algorithm) UnmarshalText(text []byte) error {
	parsed, err := ParseAlgorithm(string(text))
	if err != nil {
		return err
	}
	*a = parsed
	return nil
}

// Distribution selects which queued jobs a batch share takes.
type Distribution string

const (
	Sequential Distribution = "sequential"
	Random     Distribution = "random"
)

func (d Distribution) Valid() bool {
	return d == Sequential || d == Random
}

// ParseDistribution accepts any letter case.
func ParseDistribution(s string) (Distribution, error) {
	d := Distribution(strings.ToLower(strings.TrimSpace(s)))
	if !d.Valid() {
		return "", fmt.Errorf("%w: %q", ErrUnknownDistribution, s)
	}
	return d, nil
}

func (d *Distribution) UnmarshalText(text []byte) error {
	parsed, err := ParseDistribution(string(text))
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

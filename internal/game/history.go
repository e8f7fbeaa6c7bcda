package game

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/natelac/euchrego/internal/deck"
)

// RoundRecord is the replayable log of one round. Misdeal rounds
// marshal as the literal JSON string "misdeal" instead of a full
// object.
type RoundRecord struct {
	Round       int                    `json:"round"`
	Players     []string               `json:"players"`
	Teams       map[string][]string    `json:"teams"`
	Table       []string               `json:"table"`
	PlayOrder   []string               `json:"playOrder"`
	Kitty       []deck.Card            `json:"kitty"`
	TopCard     deck.Card              `json:"topCard"`
	Maker       string                 `json:"maker,omitempty"`
	Trump       string                 `json:"trump,omitempty"`
	Alone       bool                   `json:"alone"`
	Played      map[string][]deck.Card `json:"played,omitempty"`
	Renegers    []string               `json:"renegers,omitempty"`
	Takers      []string               `json:"takers,omitempty"`
	TrickOrders [][]string             `json:"trickOrders,omitempty"`
	Points      map[string]int         `json:"points"`

	Misdeal bool `json:"-"`
}

// roundRecordAlias avoids recursing through MarshalJSON
type roundRecordAlias RoundRecord

// MarshalJSON emits the full record, or the bare token for a misdeal
func (r *RoundRecord) MarshalJSON() ([]byte, error) {
	if r.Misdeal {
		return json.Marshal("misdeal")
	}
	return json.Marshal((*roundRecordAlias)(r))
}

// UnmarshalJSON accepts either form so logs can be replayed
func (r *RoundRecord) UnmarshalJSON(data []byte) error {
	var token string
	if err := json.Unmarshal(data, &token); err == nil {
		if token != "misdeal" {
			return fmt.Errorf("unknown round token %q", token)
		}
		*r = RoundRecord{Misdeal: true}
		return nil
	}
	return json.Unmarshal(data, (*roundRecordAlias)(r))
}

func (e *Engine) newRoundRecord() *RoundRecord {
	return &RoundRecord{
		Round:   e.round,
		Players: playerNames(e.table),
		Teams: map[string][]string{
			e.team1.Name(): playerNames(e.team1.Players()),
			e.team2.Name(): playerNames(e.team2.Players()),
		},
		Table:     playerNames(e.table),
		PlayOrder: playerNames(e.playOrder),
	}
}

func (r *RoundRecord) setMaker(rs *roundState) {
	r.Maker = rs.maker.Name()
	r.Trump = rs.trump.String()
}

// RoundWriter receives one record per completed round
type RoundWriter interface {
	WriteRound(rec *RoundRecord) error
}

type noopRoundWriter struct{}

func (noopRoundWriter) WriteRound(*RoundRecord) error { return nil }

// MemoryRoundWriter collects records in memory for tests
type MemoryRoundWriter struct {
	Records []*RoundRecord
}

// WriteRound appends the record
func (w *MemoryRoundWriter) WriteRound(rec *RoundRecord) error {
	w.Records = append(w.Records, rec)
	return nil
}

// FileRoundWriter appends one JSON document per round to a log file
type FileRoundWriter struct {
	file *os.File
	enc  *json.Encoder
}

// NewFileRoundWriter opens (or creates) the log file for appending
func NewFileRoundWriter(path string) (*FileRoundWriter, error) {
	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return nil, fmt.Errorf("opening round log: %w", err)
	}
	return &FileRoundWriter{file: f, enc: json.NewEncoder(f)}, nil
}

// WriteRound writes the record as a single JSON line
func (w *FileRoundWriter) WriteRound(rec *RoundRecord) error {
	if err := w.enc.Encode(rec); err != nil {
		return fmt.Errorf("writing round log: %w", err)
	}
	return nil
}

// Close closes the underlying file
func (w *FileRoundWriter) Close() error {
	return w.file.Close()
}

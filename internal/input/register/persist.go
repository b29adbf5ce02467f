package register

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/dshills/modal/internal/input/key"
)

// persisted holds the registers that survive a restart: letters, digits,
// the unnamed and the small delete register.
const persisted = `"-0123456789abcdefghijklmnopqrstuvwxyz`

type persistedRegister struct {
	Name string `json:"name"`
	Type string `json:"type"`
	Text string `json:"text,omitempty"`
	// Keys is the recorded macro in key notation.
	Keys string `json:"keys,omitempty"`
}

type persistedData struct {
	Version   int                 `json:"version"`
	SavedAt   time.Time           `json:"saved_at"`
	Registers []persistedRegister `json:"registers"`
}

const currentVersion = 1

// Save writes the persistent registers of g to path. The file is replaced
// atomically.
func Save(g *Group, path string) error {
	data := persistedData{
		Version: currentVersion,
		SavedAt: time.Now(),
	}
	for _, reg := range g.Registers() {
		if !strings.ContainsRune(persisted, reg.Name) {
			continue
		}
		p := persistedRegister{
			Name: string(reg.Name),
			Type: reg.Type.String(),
			Text: reg.Text,
		}
		if reg.Keys != nil {
			p.Text = ""
			p.Keys = key.Format(reg.Keys)
		}
		data.Registers = append(data.Registers, p)
	}

	out, err := json.MarshalIndent(data, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal registers: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempPath := path + ".tmp"
	if err := os.WriteFile(tempPath, out, 0o600); err != nil {
		return fmt.Errorf("failed to write temp file: %w", err)
	}
	if err := os.Rename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename temp file: %w", err)
	}
	return nil
}

// Load restores registers saved by Save. A missing file is not an error.
// Registers with unknown names or unreadable keys are skipped.
func Load(g *Group, path string) error {
	in, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return fmt.Errorf("failed to read registers file: %w", err)
	}

	var data persistedData
	if err := json.Unmarshal(in, &data); err != nil {
		return fmt.Errorf("failed to unmarshal registers: %w", err)
	}
	if data.Version > currentVersion {
		return fmt.Errorf("unsupported registers file version: %d (max supported: %d)",
			data.Version, currentVersion)
	}

	for _, p := range data.Registers {
		r, size := utf8.DecodeRuneInString(p.Name)
		if size == 0 || size != len(p.Name) || !strings.ContainsRune(persisted, r) {
			continue
		}
		typ := parseSelectionType(p.Type)
		if p.Keys != "" {
			keys, err := key.ParseSequence(p.Keys)
			if err != nil {
				continue
			}
			g.SetKeys(r, keys, typ)
			continue
		}
		g.SaveRegister(r, Register{Type: typ, Text: p.Text})
	}
	return nil
}

func parseSelectionType(s string) SelectionType {
	switch s {
	case "line":
		return LineWise
	case "block":
		return BlockWise
	default:
		return CharacterWise
	}
}

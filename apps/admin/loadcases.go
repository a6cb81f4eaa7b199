package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"

	"github.com/ArKa3003/arkamed/core/casebank"
)

// loadCases seeds the case bank from a JSON file holding an array of cases.
// Existing cases with the same title are left untouched.
func (cli *commandLine) loadCases(path string) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return err
	}

	var newCases []casebank.NewCase
	if err := json.Unmarshal(data, &newCases); err != nil {
		return err
	}

	ctx := context.Background()
	existing, err := cli.caseRepo.QueryAllCases(ctx)
	if err != nil {
		return err
	}
	seen := make(map[string]bool, len(existing))
	for _, cs := range existing {
		seen[cs.Title] = true
	}

	var loaded, skipped int
	now := time.Now().UTC()
	for _, nc := range newCases {
		if seen[nc.Title] {
			skipped++
			continue
		}
		cs := casebank.Case{
			ID:            uuid.New().String(),
			Title:         nc.Title,
			Vignette:      nc.Vignette,
			Category:      nc.Category,
			Specialties:   nc.Specialties,
			Options:       nc.Options,
			CorrectOption: nc.CorrectOption,
			TeachingPoint: nc.TeachingPoint,
			Difficulty:    nc.Difficulty,
			CreatedAt:     now,
			UpdatedAt:     now,
		}
		if _, err := cli.caseRepo.CreateCase(ctx, cs); err != nil {
			return err
		}
		loaded++
	}

	fmt.Printf("loaded %d case(s), skipped %d existing\n", loaded, skipped)
	return nil
}

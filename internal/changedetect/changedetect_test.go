package changedetect_test

import (
	"log/slog"
	"path/filepath"
	"testing"

	"github.com/atniclimate/tcr-policy-scanner/internal/changedetect"
	"github.com/atniclimate/tcr-policy-scanner/internal/model"
	"github.com/stretchr/testify/assert"
)

func item(source model.Source, id, title string) model.ScoredItem {
	return model.ScoredItem{Source: source, SourceID: id, Title: title}
}

func TestDiffFirstRunAllNew(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	d := changedetect.New(path, slog.Default())

	items := make([]model.ScoredItem, 0, 177)
	for i := 0; i < 177; i++ {
		items = append(items, item(model.SourceLegislative, string(rune('a'+i%26))+string(rune(i)), "title"))
	}

	result := d.Diff(items)
	assert.Len(t, result.New, 177)
	assert.Empty(t, result.Changed)
	assert.Empty(t, result.Existing)
}

func TestDiffSecondRunIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	d := changedetect.New(path, slog.Default())

	items := []model.ScoredItem{
		item(model.SourceLegislative, "hr1", "A Bill"),
		item(model.SourceRegulatory, "fr1", "A Notice"),
	}

	first := d.Diff(items)
	assert.Len(t, first.New, 2)

	second := d.Diff(items)
	assert.Empty(t, second.New)
	assert.Empty(t, second.Changed)
	assert.Len(t, second.Existing, 2)
}

func TestDiffDetectsChange(t *testing.T) {
	path := filepath.Join(t.TempDir(), "snapshot.json")
	d := changedetect.New(path, slog.Default())

	d.Diff([]model.ScoredItem{item(model.SourceLegislative, "hr1", "Original Title")})

	changed := item(model.SourceLegislative, "hr1", "Amended Title")
	result := d.Diff([]model.ScoredItem{changed})
	assert.Len(t, result.Changed, 1)
	assert.Empty(t, result.New)
}

func TestDiffMissingSnapshotIsNotFatal(t *testing.T) {
	path := filepath.Join(t.TempDir(), "does-not-exist.json")
	d := changedetect.New(path, slog.Default())

	result := d.Diff([]model.ScoredItem{item(model.SourceGrants, "g1", "Opportunity")})
	assert.Len(t, result.New, 1)
}

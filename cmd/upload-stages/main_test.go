package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/yungbote/cityhunt-backend/internal/types"
)

func writeSeedFile(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("write seed file: %v", err)
	}
	return path
}

func TestReadStages_ParsesJSON(t *testing.T) {
	path := writeSeedFile(t, "stages-data.json", `[
		{"stageId": 1, "stageName": "stage1", "title": "Start",
		 "correctAnswer": "cityhunt", "validationType": "stage1",
		 "media": [{"kind": "image", "url": "https://example.com/a.jpg", "altText": "clue"}]},
		{"stageId": 2, "stageName": "stage2", "title": "Middle",
		 "correctAnswer": "treasure,hidden,secret", "validationType": "stage2"}
	]`)

	inputs, err := readStages(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 2 {
		t.Fatalf("expected 2 stages got %d", len(inputs))
	}
	if inputs[0].StageID != 1 || inputs[0].CorrectAnswer != "cityhunt" {
		t.Fatalf("unexpected first stage: %+v", inputs[0])
	}
	if len(inputs[0].Media) != 1 || inputs[0].Media[0].AltText != "clue" {
		t.Fatalf("media not parsed: %+v", inputs[0].Media)
	}
}

func TestReadStages_ParsesYAML(t *testing.T) {
	path := writeSeedFile(t, "stages.yaml", `
- stageId: 3
  stageName: stage3
  title: Near end
  correctAnswer: keyword
  validationType: stage3
  hint: read closely
`)

	inputs, err := readStages(path)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(inputs) != 1 || inputs[0].StageID != 3 || inputs[0].Hint != "read closely" {
		t.Fatalf("unexpected stages: %+v", inputs)
	}
}

func TestReadStages_BadFile(t *testing.T) {
	if _, err := readStages(filepath.Join(t.TempDir(), "missing.json")); err == nil {
		t.Fatalf("expected error for missing file")
	}
	path := writeSeedFile(t, "bad.json", `{"stageId": }`)
	if _, err := readStages(path); err == nil {
		t.Fatalf("expected parse error")
	}
}

func TestToStageRows_SkipsEntriesWithoutID(t *testing.T) {
	inputs := []stageInput{
		{StageID: 1, StageName: "stage1", Title: "Start", CorrectAnswer: "cityhunt"},
		{StageID: 0, Title: "no id"},
		{StageID: -2, Title: "negative id"},
		{StageID: 4, StageName: "finale", Title: "Finale"},
	}

	rows, skipped := toStageRows(inputs)
	if len(rows) != 2 {
		t.Fatalf("expected 2 rows got %d", len(rows))
	}
	if len(skipped) != 2 {
		t.Fatalf("expected 2 skipped got %d", len(skipped))
	}
	if rows[0].StageID != 1 || rows[1].StageID != 4 {
		t.Fatalf("unexpected row ids: %d %d", rows[0].StageID, rows[1].StageID)
	}
	if rows[0].ID == rows[1].ID {
		t.Fatalf("rows should get distinct primary keys")
	}
}

func TestToStageRows_EncodesMedia(t *testing.T) {
	inputs := []stageInput{{
		StageID: 1,
		Media: []mediaInput{
			{Kind: "image", URL: "https://example.com/a.jpg", AltText: "clue"},
			{Kind: "video", URL: "https://example.com/b.mp4"},
		},
	}}

	rows, _ := toStageRows(inputs)
	var media []types.StageMedia
	if err := json.Unmarshal(rows[0].Media, &media); err != nil {
		t.Fatalf("media column is not JSON: %v", err)
	}
	if len(media) != 2 || media[0].Kind != "image" || media[1].URL != "https://example.com/b.mp4" {
		t.Fatalf("unexpected media: %+v", media)
	}
}

func TestToStageRows_EmptyMediaEncodesArray(t *testing.T) {
	rows, _ := toStageRows([]stageInput{{StageID: 1}})
	if string(rows[0].Media) != "[]" {
		t.Fatalf("expected empty array got %s", rows[0].Media)
	}
}

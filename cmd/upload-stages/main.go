package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"gorm.io/datatypes"

	"github.com/yungbote/cityhunt-backend/internal/db"
	"github.com/yungbote/cityhunt-backend/internal/platform/logger"
	"github.com/yungbote/cityhunt-backend/internal/repos"
	"github.com/yungbote/cityhunt-backend/internal/types"
)

// stageInput is one entry of a stages seed file. The file is YAML or
// JSON (JSON parses as YAML); keys keep the content team's camelCase.
type stageInput struct {
	StageID        int          `yaml:"stageId"`
	StageName      string       `yaml:"stageName"`
	Title          string       `yaml:"title"`
	Description    string       `yaml:"description"`
	Media          []mediaInput `yaml:"media"`
	CorrectAnswer  string       `yaml:"correctAnswer"`
	ValidationType string       `yaml:"validationType"`
	Hint           string       `yaml:"hint"`
}

type mediaInput struct {
	Kind    string `yaml:"kind"`
	URL     string `yaml:"url"`
	AltText string `yaml:"altText"`
}

func main() {
	stagesFile := "./stages-data.json"
	if len(os.Args) > 1 {
		stagesFile = os.Args[1]
	}

	log, err := logger.New(os.Getenv("LOG_MODE"))
	if err != nil {
		fmt.Printf("Failed to init logger: %v\n", err)
		os.Exit(1)
	}
	defer log.Sync()
	log = log.With("cmd", "upload-stages")

	inputs, err := readStages(stagesFile)
	if err != nil {
		log.Error("Failed to read stages file", "path", stagesFile, "error", err)
		os.Exit(1)
	}
	if len(inputs) == 0 {
		log.Error("No stages found in file", "path", stagesFile)
		os.Exit(1)
	}
	log.Info("Found stages to upload", "count", len(inputs))

	database, err := db.New(log)
	if err != nil {
		log.Error("Database init failed", "error", err)
		os.Exit(1)
	}
	if err := database.AutoMigrateAll(); err != nil {
		log.Error("Automigrate failed", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Second)
	defer cancel()

	stageRepo := repos.NewStageRepo(database.DB(), log)

	// Verify the stage store is reachable before writing anything.
	if _, err := stageRepo.Count(ctx, nil); err != nil {
		log.Error("Stage store not reachable", "error", err)
		os.Exit(1)
	}

	rows, skipped := toStageRows(inputs)
	for _, s := range skipped {
		log.Warn("Skipping stage without stageId", "title", s.Title)
	}
	if err := stageRepo.Upsert(ctx, nil, rows); err != nil {
		log.Error("Upload failed", "error", err)
		os.Exit(1)
	}
	log.Info("Upload complete", "uploaded", len(rows), "skipped", len(skipped))
}

func readStages(path string) ([]stageInput, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var inputs []stageInput
	if err := yaml.Unmarshal(raw, &inputs); err != nil {
		return nil, fmt.Errorf("parse stages file: %w", err)
	}
	return inputs, nil
}

// toStageRows converts seed entries to rows, dropping entries with no
// stage id. Uploads overwrite existing stages completely, keyed by
// stage_id.
func toStageRows(inputs []stageInput) ([]*types.Stage, []stageInput) {
	rows := make([]*types.Stage, 0, len(inputs))
	var skipped []stageInput
	for _, in := range inputs {
		if in.StageID <= 0 {
			skipped = append(skipped, in)
			continue
		}
		media := make([]types.StageMedia, 0, len(in.Media))
		for _, m := range in.Media {
			media = append(media, types.StageMedia{Kind: m.Kind, URL: m.URL, AltText: m.AltText})
		}
		rows = append(rows, &types.Stage{
			ID:             uuid.New(),
			StageID:        in.StageID,
			StageName:      in.StageName,
			Title:          in.Title,
			Description:    in.Description,
			Media:          datatypes.JSON(encodeMedia(media)),
			CorrectAnswer:  in.CorrectAnswer,
			ValidationType: in.ValidationType,
			Hint:           in.Hint,
		})
	}
	return rows, skipped
}

func encodeMedia(media []types.StageMedia) []byte {
	raw, err := json.Marshal(media)
	if err != nil {
		return []byte("[]")
	}
	return raw
}

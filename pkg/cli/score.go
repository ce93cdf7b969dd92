package cli

import (
	"fmt"
	"time"

	"github.com/leadpulse/leadctl/pkg/config"
	"github.com/leadpulse/leadctl/pkg/data"
	"github.com/leadpulse/leadctl/pkg/score"
	urfave "github.com/urfave/cli/v2"
)

var (
	scoreLimitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Maximum number of leads to score",
		Value: 1000,
	}

	scoreCmd = &urfave.Command{
		Name:            "score",
		Aliases:         []string{"s"},
		Usage:           "Recompute propensity scores for all imported leads",
		HideHelpCommand: true,
		Action:          cmdScore,
		Flags: []urfave.Flag{
			scoreLimitFlag,
		},
	}
)

// ScoreResult summarizes one scoring run.
type ScoreResult struct {
	Scored      int     `json:"scored"`
	TotalWeight float64 `json:"total_weight"`
	Duration    string  `json:"duration"`
}

func cmdScore(c *urfave.Context) error {
	start := time.Now()
	appCfg := getConfig(c)

	scoringCfg, err := config.ReadOrCreate(getHomeDir())
	if err != nil {
		return fmt.Errorf("loading scoring config: %w", err)
	}

	items, err := data.SearchLeads(appCfg.DB, "", c.Int(scoreLimitFlag.Name))
	if err != nil {
		return fmt.Errorf("listing leads: %w", err)
	}

	now := time.Now().UTC()
	breakdowns := make([]*score.Breakdown, 0, len(items))
	for _, item := range items {
		l, err := data.GetLead(appCfg.DB, item.ID)
		if err != nil {
			return fmt.Errorf("loading lead %s: %w", item.ID, err)
		}
		if l == nil {
			continue
		}

		b, err := score.Score(l, scoringCfg, now)
		if err != nil {
			return fmt.Errorf("scoring lead %s: %w", item.ID, err)
		}
		breakdowns = append(breakdowns, b)
	}

	if err := data.SaveScores(appCfg.DB, breakdowns); err != nil {
		return fmt.Errorf("saving scores: %w", err)
	}

	res := &ScoreResult{
		Scored:      len(breakdowns),
		TotalWeight: scoringCfg.TotalWeight(),
		Duration:    time.Since(start).String(),
	}

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

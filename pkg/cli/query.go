package cli

import (
	"fmt"

	"github.com/leadpulse/leadctl/pkg/data"
	"github.com/leadpulse/leadctl/pkg/rank"
	urfave "github.com/urfave/cli/v2"
)

const queryResultLimitDefault = 100

var (
	queryLimitFlag = &urfave.IntFlag{
		Name:  "limit",
		Usage: "Limits number of results returned",
		Value: queryResultLimitDefault,
	}

	leadLikeQueryFlag = &urfave.StringFlag{
		Name:  "like",
		Usage: "Fuzzy search over lead name, company, and title",
	}

	leadIDQueryFlag = &urfave.StringFlag{
		Name:     "id",
		Usage:    "Lead ID",
		Required: true,
	}

	minScoreFlag = &urfave.Float64Flag{
		Name:  "min-score",
		Usage: "Minimum normalized score (0-100)",
	}

	locationFlag = &urfave.StringSliceFlag{
		Name:  "location",
		Usage: "Location filter (can be specified multiple times)",
	}

	roleFlag = &urfave.StringSliceFlag{
		Name:  "role",
		Usage: "Role keyword filter over titles (can be specified multiple times)",
	}

	topCompaniesFlag = &urfave.IntFlag{
		Name:  "top-companies",
		Usage: "Number of top companies to include",
		Value: 5,
	}

	queryCmd = &urfave.Command{
		Name:    "query",
		Aliases: []string{"q"},
		Usage:   "List data query operations",
		Subcommands: []*urfave.Command{
			{
				Name:    "rank",
				Usage:   "Rank scored leads, filtered and sorted by propensity",
				Aliases: []string{"r"},
				Action:  cmdQueryRank,
				Flags: []urfave.Flag{
					leadLikeQueryFlag,
					minScoreFlag,
					locationFlag,
					roleFlag,
					queryLimitFlag,
				},
			},
			{
				Name:    "lead",
				Usage:   "Get one canonical lead with its full signal set",
				Aliases: []string{"l"},
				Action:  cmdQueryLead,
				Flags: []urfave.Flag{
					leadIDQueryFlag,
				},
			},
			{
				Name:    "stats",
				Usage:   "Summarize the current lead set",
				Aliases: []string{"s"},
				Action:  cmdQueryStats,
				Flags: []urfave.Flag{
					topCompaniesFlag,
				},
			},
		},
	}
)

func cmdQueryRank(c *urfave.Context) error {
	cfg := getConfig(c)

	// coarse SQL cut first, pure ranking pass second
	criteria := &data.ScoredLeadCriteria{
		PageSize: c.Int(queryLimitFlag.Name),
	}
	if v := c.Float64(minScoreFlag.Name); v > 0 {
		criteria.MinScore = &v
	}

	candidates, err := data.QueryScoredLeads(cfg.DB, criteria)
	if err != nil {
		return fmt.Errorf("querying scored leads: %w", err)
	}

	ranked := rank.Rank(candidates, rank.FilterSpec{
		RoleKeywords: c.StringSlice(roleFlag.Name),
		MinScore:     c.Float64(minScoreFlag.Name),
		Locations:    c.StringSlice(locationFlag.Name),
		Search:       c.String(leadLikeQueryFlag.Name),
	})

	if err := encode(ranked); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdQueryLead(c *urfave.Context) error {
	cfg := getConfig(c)

	l, err := data.GetLead(cfg.DB, c.String(leadIDQueryFlag.Name))
	if err != nil {
		return fmt.Errorf("loading lead: %w", err)
	}
	if l == nil {
		return fmt.Errorf("lead not found: %s", c.String(leadIDQueryFlag.Name))
	}

	if err := encode(l); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

func cmdQueryStats(c *urfave.Context) error {
	cfg := getConfig(c)

	stats, err := data.GetLeadStats(cfg.DB, c.Int(topCompaniesFlag.Name))
	if err != nil {
		return fmt.Errorf("loading stats: %w", err)
	}

	if err := encode(stats); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

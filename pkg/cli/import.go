package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/leadpulse/leadctl/pkg/data"
	"github.com/leadpulse/leadctl/pkg/lead"
	"github.com/leadpulse/leadctl/pkg/provider"
	urfave "github.com/urfave/cli/v2"
	"golang.org/x/sync/errgroup"
)

var (
	importFileFlag = &urfave.StringSliceFlag{
		Name:  "file",
		Usage: "Provider dump to import, as source=path (can be specified multiple times)",
	}

	importCmd = &urfave.Command{
		Name:    "import",
		Aliases: []string{"i"},
		Usage:   "Import already-fetched provider responses and merge them into canonical leads",
		UsageText: `leadctl import --file hunter=dumps/hunter.json                            # one provider
   leadctl import --file pubmed=dumps/pubmed.json --file clearbit=dumps/cb.json # several at once`,
		HideHelpCommand: true,
		Action:          cmdImport,
		Flags: []urfave.Flag{
			importFileFlag,
		},
	}
)

// ImportResult summarizes one import run.
type ImportResult struct {
	Files      []string      `json:"files"`
	Candidates int           `json:"candidates"`
	NoMatch    int           `json:"no_match"`
	Invalid    int           `json:"invalid"`
	Leads      int           `json:"leads"`
	Conflicts  int           `json:"conflicts"`
	Duration   string        `json:"duration"`
	Imported   []*LeadRecord `json:"imported,omitempty"`
}

// LeadRecord is the compact per-lead import summary.
type LeadRecord struct {
	ID      string   `json:"lead_id"`
	Name    string   `json:"name"`
	Company string   `json:"company,omitempty"`
	Sources []string `json:"sources"`
}

type providerDump struct {
	source string
	path   string
}

func cmdImport(c *urfave.Context) error {
	start := time.Now()

	files := c.StringSlice(importFileFlag.Name)
	if len(files) == 0 {
		return urfave.ShowSubcommandHelp(c)
	}

	dumps := make([]providerDump, 0, len(files))
	for _, f := range files {
		source, path, ok := strings.Cut(f, "=")
		if !ok {
			return fmt.Errorf("invalid --file value (want source=path): %s", f)
		}
		dumps = append(dumps, providerDump{source: source, path: path})
	}

	normalizer := lead.NewNormalizer()
	provider.RegisterAll(normalizer)

	res, merger, err := ingestDumps(normalizer, dumps)
	if err != nil {
		return err
	}

	cfg := getConfig(c)
	if err := data.SaveLeads(cfg.DB, merger.Leads()); err != nil {
		return fmt.Errorf("saving leads: %w", err)
	}

	for _, l := range merger.Leads() {
		res.Imported = append(res.Imported, &LeadRecord{
			ID:      l.ID,
			Name:    l.Name,
			Company: l.Company,
			Sources: l.Sources,
		})
	}

	res.Leads = merger.Len()
	res.Conflicts = merger.Conflicts()
	res.Duration = time.Since(start).String()

	if err := encode(res); err != nil {
		return fmt.Errorf("error encoding result: %w", err)
	}
	return nil
}

// ingestDumps parses and normalizes provider dumps concurrently, while a
// single aggregation goroutine feeds the merger. The merger is single-writer;
// this is the serialization point for anything fetched in parallel upstream.
func ingestDumps(normalizer *lead.Normalizer, dumps []providerDump) (*ImportResult, *lead.Merger, error) {
	res := &ImportResult{Files: make([]string, 0, len(dumps))}
	for _, d := range dumps {
		res.Files = append(res.Files, d.path)
	}

	partials := make(chan *lead.PartialLead)
	merger := lead.NewMerger(nil)

	done := make(chan struct{})
	go func() {
		defer close(done)
		for p := range partials {
			if _, err := merger.Ingest(p); err != nil {
				// validation failures skip the record, never the batch
				slog.Warn("skipping partial lead", "source", p.SourceID, "error", err)
				res.Invalid++
			}
		}
	}()

	// per-dump counters; summed after the group finishes to keep the
	// normalize goroutines from sharing state
	counts := make([]dumpCounts, len(dumps))

	var g errgroup.Group
	for i, d := range dumps {
		i, d := i, d
		g.Go(func() error {
			return normalizeDump(normalizer, d, partials, &counts[i])
		})
	}

	err := g.Wait()
	close(partials)
	<-done

	if err != nil {
		return nil, nil, err
	}

	for _, c := range counts {
		res.Candidates += c.candidates
		res.NoMatch += c.noMatch
		res.Invalid += c.invalid
	}

	return res, merger, nil
}

type dumpCounts struct {
	candidates int
	noMatch    int
	invalid    int
}

func normalizeDump(normalizer *lead.Normalizer, d providerDump, out chan<- *lead.PartialLead, counts *dumpCounts) error {
	b, err := os.ReadFile(d.path)
	if err != nil {
		return fmt.Errorf("reading dump %s: %w", d.path, err)
	}

	var raws []json.RawMessage
	if err := json.Unmarshal(b, &raws); err != nil {
		return fmt.Errorf("parsing dump %s (want a JSON array of responses): %w", d.path, err)
	}

	for _, raw := range raws {
		counts.candidates++

		p, err := normalizer.Normalize(d.source, raw)
		if err != nil {
			if errors.Is(err, lead.ErrNoMatch) {
				counts.noMatch++
				continue
			}
			if lead.IsValidation(err) {
				slog.Warn("skipping malformed provider result", "source", d.source, "error", err)
				counts.invalid++
				continue
			}
			return fmt.Errorf("normalizing %s result: %w", d.source, err)
		}

		out <- p
	}

	return nil
}

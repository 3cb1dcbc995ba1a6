// Package pipeline sequences one run: build a tour's reference
// directories, replay every match's event log, join the results into the
// player directory, and emit the per-tour artifacts.
package pipeline

import (
	"context"
	"fmt"
	"sync"

	"github.com/bytedance/sonic"
	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/vct-tools/vctstats/internal/agents"
	"github.com/vct-tools/vctstats/internal/aggregator"
	"github.com/vct-tools/vctstats/internal/blob"
	"github.com/vct-tools/vctstats/internal/config"
	"github.com/vct-tools/vctstats/internal/diag"
	"github.com/vct-tools/vctstats/internal/directory"
	"github.com/vct-tools/vctstats/internal/events"
	"github.com/vct-tools/vctstats/internal/model"
)

// json is the artifact encoder. ConfigStd keeps std-compatible output
// (sorted object keys), so artifacts diff cleanly between runs.
var json = sonic.ConfigStd

// Pipeline drives the aggregation run. Tours are processed independently
// and sequentially; matches within a tour may be processed concurrently.
type Pipeline struct {
	store  blob.Store
	cfg    *config.Config
	agents agents.Table
	log    zerolog.Logger
	rec    *diag.Recorder
}

// TourResult summarizes one tour's run for the caller.
type TourResult struct {
	Tour             string
	MatchesProcessed int
	MatchesSkipped   int
	Rows             []model.PlayerGameStat
}

func New(store blob.Store, cfg *config.Config, table agents.Table, log zerolog.Logger, rec *diag.Recorder) *Pipeline {
	return &Pipeline{store: store, cfg: cfg, agents: table, log: log, rec: rec}
}

// Diagnostics exposes the run's recorded diagnostics.
func (p *Pipeline) Diagnostics() *diag.Recorder {
	return p.rec
}

// Run processes every configured tour. A tour whose reference directory
// cannot be built is skipped with a diagnostic; it never aborts the
// other tours.
func (p *Pipeline) Run(ctx context.Context) ([]*TourResult, error) {
	var results []*TourResult
	for _, tour := range p.cfg.Tours {
		result, err := p.RunTour(ctx, tour)
		if err != nil {
			if ctx.Err() != nil {
				return results, ctx.Err()
			}
			p.log.Error().Err(err).Str("tour", tour.Name).Msg("tour aborted")
			p.rec.Record(diag.Event{
				Kind:   diag.KindTransportFailure,
				Tour:   tour.Name,
				Detail: err.Error(),
			})
			continue
		}
		results = append(results, result)
	}
	return results, nil
}

// RunTour builds the tour's directory, processes its matches, and emits
// both artifacts. The returned error is fatal for this tour only.
func (p *Pipeline) RunTour(ctx context.Context, tour config.Tour) (*TourResult, error) {
	dir, err := directory.Build(ctx, p.store, p.cfg.SourceBucket, tour.Name, p.rec)
	if err != nil {
		return nil, fmt.Errorf("build directory for %s: %w", tour.Name, err)
	}
	p.log.Info().
		Str("tour", tour.Name).
		Int("leagues", len(dir.Leagues)).
		Int("teams", len(dir.Teams)).
		Int("players", len(dir.Players)).
		Int("matches", len(dir.Matches)).
		Msg("reference directory built")

	if p.cfg.EmitMetadata {
		p.putArtifact(ctx, tour.Name, "player_metadata.json", dir.Players)
	}

	result := &TourResult{Tour: tour.Name}

	// Join state shared across matches: appends to a player's statistics
	// and the result rows are serialized through one mutex.
	var mu sync.Mutex

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.cfg.Workers)

	for _, gameID := range dir.MatchOrder {
		mu.Lock()
		capReached := p.cfg.MatchCap > 0 && result.MatchesProcessed >= p.cfg.MatchCap
		mu.Unlock()
		if capReached {
			break
		}

		g.Go(func() error {
			rows, ok := p.processMatch(gctx, tour, dir, gameID, &mu)
			mu.Lock()
			defer mu.Unlock()
			if ok {
				result.MatchesProcessed++
				result.Rows = append(result.Rows, rows...)
			} else {
				result.MatchesSkipped++
			}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	statistics := make([]*model.Player, 0, len(dir.PlayerOrder))
	for _, id := range dir.PlayerOrder {
		statistics = append(statistics, dir.Players[id])
	}
	p.putArtifact(ctx, tour.Name, "player_statistics.json", statistics)

	p.log.Info().
		Str("tour", tour.Name).
		Int("processed", result.MatchesProcessed).
		Int("skipped", result.MatchesSkipped).
		Msg("tour complete")
	return result, nil
}

// processMatch locates, replays, and joins one match. Returns ok=false
// when the match was skipped; every skip is logged and recorded.
func (p *Pipeline) processMatch(ctx context.Context, tour config.Tour, dir *directory.Directory, gameID string, mu *sync.Mutex) ([]model.PlayerGameStat, bool) {
	match := dir.Matches[gameID]

	key, ok, err := p.findMatchLog(ctx, tour, gameID)
	if err != nil {
		p.log.Warn().Err(err).Str("game", gameID).Msg("match log probe failed")
		p.rec.Record(diag.Event{Kind: diag.KindTransportFailure, Tour: tour.Name, GameID: gameID, Detail: err.Error()})
		return nil, false
	}
	if !ok {
		p.log.Warn().Str("game", gameID).Str("tour", tour.Name).Msg("match log not found in any year")
		p.rec.Record(diag.Event{Kind: diag.KindMatchNotFound, Tour: tour.Name, GameID: gameID})
		return nil, false
	}

	raw, err := p.store.FetchGzipped(ctx, p.cfg.SourceBucket, key)
	if err != nil {
		p.log.Warn().Err(err).Str("game", gameID).Msg("match log fetch failed")
		p.rec.Record(diag.Event{Kind: diag.KindTransportFailure, Tour: tour.Name, GameID: gameID, Detail: err.Error()})
		return nil, false
	}

	log, err := events.Decode(raw)
	if err != nil {
		p.log.Warn().Err(err).Str("game", gameID).Msg("match log malformed")
		p.rec.Record(diag.Event{Kind: diag.KindMalformedLog, Tour: tour.Name, GameID: gameID, Detail: err.Error()})
		return nil, false
	}

	board := aggregator.Replay(match, log, p.agents)

	mu.Lock()
	rows := joinScoreboard(tour.Name, dir, match, board)
	mu.Unlock()

	p.log.Debug().Str("game", gameID).Str("key", key).Int("players", len(rows)).Msg("match joined")
	return rows, true
}

// findMatchLog probes each configured year in order and returns the key
// of the first hit. ok=false means the match has no log in any year.
func (p *Pipeline) findMatchLog(ctx context.Context, tour config.Tour, gameID string) (key string, ok bool, err error) {
	for _, year := range tour.Years {
		key = fmt.Sprintf("%s/games/%d/%s.json.gz", tour.Name, year, gameID)
		hit, err := p.store.Exists(ctx, p.cfg.SourceBucket, key)
		if err != nil {
			return "", false, err
		}
		if hit {
			return key, true, nil
		}
	}
	return "", false, nil
}

// putArtifact serializes and uploads one per-tour artifact. Upload
// failures are non-fatal: logged and recorded, nothing consumed.
func (p *Pipeline) putArtifact(ctx context.Context, tour, name string, payload any) {
	body, err := json.Marshal(payload)
	if err != nil {
		p.log.Error().Err(err).Str("tour", tour).Str("artifact", name).Msg("artifact encode failed")
		return
	}
	key := fmt.Sprintf("%s/%s", tour, name)
	if err := p.store.Put(ctx, p.cfg.DestBucket, key, body); err != nil {
		p.log.Error().Err(err).Str("key", key).Msg("artifact upload failed")
		p.rec.Record(diag.Event{Kind: diag.KindTransportFailure, Tour: tour, Detail: err.Error()})
		return
	}
	p.log.Info().Str("bucket", p.cfg.DestBucket).Str("key", key).Int("bytes", len(body)).Msg("artifact uploaded")
}

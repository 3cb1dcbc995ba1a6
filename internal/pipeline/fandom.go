package pipeline

import (
	"context"
	"strings"

	"github.com/vct-tools/vctstats/internal/diag"
)

// RunFandom copies every object under the fandom/ prefix from the source
// bucket to the destination bucket, decompressed, with the .gz suffix
// stripped from the key. Per-object failures are logged and recorded;
// only the initial listing is fatal.
func (p *Pipeline) RunFandom(ctx context.Context) error {
	keys, err := p.store.List(ctx, p.cfg.SourceBucket, "fandom/")
	if err != nil {
		return err
	}

	var copied int
	for _, key := range keys {
		if !strings.HasSuffix(key, ".gz") {
			continue
		}

		plain, err := p.store.FetchGzipped(ctx, p.cfg.SourceBucket, key)
		if err != nil {
			p.log.Warn().Err(err).Str("key", key).Msg("fandom fetch failed")
			p.rec.Record(diag.Event{Kind: diag.KindTransportFailure, Detail: err.Error()})
			continue
		}

		destKey := strings.TrimSuffix(key, ".gz")
		if err := p.store.Put(ctx, p.cfg.DestBucket, destKey, plain); err != nil {
			p.log.Warn().Err(err).Str("key", destKey).Msg("fandom upload failed")
			p.rec.Record(diag.Event{Kind: diag.KindTransportFailure, Detail: err.Error()})
			continue
		}
		copied++
		p.log.Info().Str("bucket", p.cfg.DestBucket).Str("key", destKey).Msg("uploaded unzipped fandom file")
	}

	p.log.Info().Int("objects", copied).Msg("fandom passthrough complete")
	return nil
}

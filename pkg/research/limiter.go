package research

import (
	"context"
	"time"

	"golang.org/x/time/rate"
)

// searchPacer spaces search-backend calls out across every branch of one
// research run. One pacer is created per Run and handed down the whole
// tree, so the external provider sees at most one request per interval no
// matter how wide the concurrent fan-out gets.
type searchPacer struct {
	lim *rate.Limiter
}

func newSearchPacer(minInterval time.Duration) *searchPacer {
	return &searchPacer{lim: rate.NewLimiter(rate.Every(minInterval), 1)}
}

// Wait blocks until the next search call is allowed. Concurrent callers
// serialize through the limiter's internal reservation state.
func (p *searchPacer) Wait(ctx context.Context) error {
	return p.lim.Wait(ctx)
}

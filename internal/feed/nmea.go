package feed

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	nmea "github.com/adrianmo/go-nmea"

	"github.com/rickgao/orbit-tracker/internal/sampler"
)

// ErrReplayExhausted is returned once a non-looping replay has no fixes left.
var ErrReplayExhausted = errors.New("nmea replay exhausted")

type fix struct {
	lat, lon float64
	ts       int64
}

// NMEAReplay serves valid RMC fixes from a recorded log in file order.
// A looping replay shifts every later pass forward by one log period, so
// timestamps keep increasing across the wrap.
type NMEAReplay struct {
	mu     sync.Mutex
	fixes  []fix
	next   int
	loop   bool
	passes int64
	period int64
}

// OpenNMEAReplay reads and parses the log at path.
func OpenNMEAReplay(path string, loop bool) (*NMEAReplay, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open nmea log: %w", err)
	}
	defer f.Close()

	return NewNMEAReplay(f, loop)
}

// NewNMEAReplay parses RMC sentences from r. Other sentence types, void
// fixes and lines that fail to parse are skipped.
func NewNMEAReplay(r io.Reader, loop bool) (*NMEAReplay, error) {
	replay := &NMEAReplay{loop: loop}

	scanner := bufio.NewScanner(r)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if !strings.HasPrefix(line, "$") {
			continue
		}

		sentence, err := nmea.Parse(line)
		if err != nil {
			continue
		}
		if sentence.DataType() != nmea.TypeRMC {
			continue
		}

		m := sentence.(nmea.RMC)
		if m.Validity != nmea.ValidRMC || !m.Date.Valid || !m.Time.Valid {
			continue
		}

		replay.fixes = append(replay.fixes, fix{
			lat: m.Latitude,
			lon: m.Longitude,
			ts:  rmcUnix(m.Date, m.Time),
		})
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("read nmea log: %w", err)
	}

	if len(replay.fixes) == 0 {
		return nil, errors.New("no valid RMC fixes")
	}
	replay.period = logPeriod(replay.fixes)
	return replay, nil
}

// Len returns the number of fixes loaded.
func (r *NMEAReplay) Len() int {
	return len(r.fixes)
}

// Fetch returns the next fix as a payload.
func (r *NMEAReplay) Fetch(ctx context.Context) (sampler.Payload, error) {
	if err := ctx.Err(); err != nil {
		return sampler.Payload{}, err
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if r.next >= len(r.fixes) {
		if !r.loop {
			return sampler.Payload{}, ErrReplayExhausted
		}
		r.next = 0
		r.passes++
	}

	f := r.fixes[r.next]
	r.next++
	return sampler.NewPayload(f.lat, f.lon, f.ts+r.passes*r.period), nil
}

// logPeriod is the span from the first fix to one step past the last, where
// the step is the final gap between fixes (1s for a single fix).
func logPeriod(fixes []fix) int64 {
	first, last := fixes[0].ts, fixes[len(fixes)-1].ts
	step := int64(1)
	if n := len(fixes); n > 1 && last-fixes[n-2].ts > 0 {
		step = last - fixes[n-2].ts
	}
	if last-first < 0 {
		return step
	}
	return last - first + step
}

// rmcUnix combines an RMC date and time into epoch seconds. RMC carries a
// two-digit year; 80-99 are taken as 19xx.
func rmcUnix(d nmea.Date, t nmea.Time) int64 {
	year := 2000 + d.YY
	if d.YY >= 80 {
		year = 1900 + d.YY
	}
	return time.Date(year, time.Month(d.MM), d.DD, t.Hour, t.Minute, t.Second, 0, time.UTC).Unix()
}

package pipeline

import (
	"context"
	stderrors "errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/matzehuels/watertower/pkg/cache"
	"github.com/matzehuels/watertower/pkg/errors"
	"github.com/matzehuels/watertower/pkg/observability"
	"github.com/matzehuels/watertower/pkg/render/sink"
)

func TestValidateFormats(t *testing.T) {
	if err := ValidateFormats([]string{"svg", "png"}); err != nil {
		t.Errorf("Valid formats should pass: %v", err)
	}

	if err := ValidateFormats([]string{"svg", "pdf"}); !errors.Is(err, errors.ErrCodeInvalidFormat) {
		t.Errorf("Invalid format should fail with INVALID_FORMAT, got %v", err)
	}

	// Empty slice is valid
	if err := ValidateFormats(nil); err != nil {
		t.Errorf("Empty formats should pass: %v", err)
	}
}

func TestOptionsDefaults(t *testing.T) {
	opts := Options{}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatalf("ValidateAndSetDefaults: %v", err)
	}

	if opts.MaxHeight != DefaultMaxHeight {
		t.Errorf("MaxHeight = %d, want %d", opts.MaxHeight, DefaultMaxHeight)
	}
	if len(opts.Formats) != 1 || opts.Formats[0] != DefaultFormat {
		t.Errorf("Formats = %v, want [%s]", opts.Formats, DefaultFormat)
	}
	if opts.Style != DefaultStyle {
		t.Errorf("Style = %q, want %q", opts.Style, DefaultStyle)
	}
	if opts.CellSize != DefaultCellSize {
		t.Errorf("CellSize = %d, want %d", opts.CellSize, DefaultCellSize)
	}
	if opts.Logger == nil {
		t.Error("Logger should default to a discard logger")
	}
	if opts.Width != 0 {
		t.Errorf("Width = %d, want 0 without random", opts.Width)
	}
}

func TestOptionsValidate(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		code errors.Code
	}{
		{"heights and preset", Options{Heights: []int{1}, Preset: "deep"}, errors.ErrCodeInvalidInput},
		{"preset and random", Options{Preset: "deep", Random: true}, errors.ErrCodeInvalidInput},
		{"max height too large", Options{MaxHeight: 65}, errors.ErrCodeInvalidConfiguration},
		{"negative max height", Options{MaxHeight: -1}, errors.ErrCodeInvalidConfiguration},
		{"bad format", Options{Formats: []string{"gif"}}, errors.ErrCodeInvalidFormat},
		{"bad style", Options{Style: "handdrawn"}, errors.ErrCodeInvalidStyle},
		{"bad cell size", Options{CellSize: -4}, errors.ErrCodeInvalidConfiguration},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.opts.ValidateAndSetDefaults()
			if !errors.Is(err, tt.code) {
				t.Errorf("ValidateAndSetDefaults() = %v, want code %s", err, tt.code)
			}
		})
	}
}

func TestOptionsValidateAndSetDefaultsIdempotent(t *testing.T) {
	opts := Options{Random: true}
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	first := opts
	if err := opts.ValidateAndSetDefaults(); err != nil {
		t.Fatal(err)
	}
	if opts.Width != first.Width || opts.MaxHeight != first.MaxHeight || opts.Style != first.Style {
		t.Error("second call changed options")
	}
	if opts.Width != DefaultWidth {
		t.Errorf("random Width = %d, want %d", opts.Width, DefaultWidth)
	}
}

func TestOptionsHeightmap(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"default", Options{}, "2 | 5 | 1 | 2 | 3 | 4 | 7 | 7 | 6"},
		{"preset", Options{Preset: "deep"}, "5 | 4 | 7 | 2 | 3 | 4 | 7 | 5 | 7"},
		{"heights", Options{Heights: []int{3, 0, 3}, MaxHeight: 3}, "3 | 0 | 3"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if err := tt.opts.ValidateAndSetDefaults(); err != nil {
				t.Fatal(err)
			}
			h, err := tt.opts.Heightmap()
			if err != nil {
				t.Fatal(err)
			}
			if got := h.String(); got != tt.want {
				t.Errorf("Heightmap() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestOptionsHeightmapRandomIsSeeded(t *testing.T) {
	a := Options{Random: true, Seed: 7}
	b := Options{Random: true, Seed: 7}
	_ = a.ValidateAndSetDefaults()
	_ = b.ValidateAndSetDefaults()

	ha, err := a.Heightmap()
	if err != nil {
		t.Fatal(err)
	}
	hb, _ := b.Heightmap()
	if !ha.Equal(hb) {
		t.Errorf("same seed gave %s and %s", ha, hb)
	}
	if ha.Width() != DefaultWidth {
		t.Errorf("width = %d, want %d", ha.Width(), DefaultWidth)
	}
}

func TestRender(t *testing.T) {
	res := mustExecute(t, NewRunner(nil, nil, nil), Options{}).Analysis

	opts := Options{Formats: sink.Formats, Caption: true}
	if err := opts.ValidateForRender(); err != nil {
		t.Fatal(err)
	}
	artifacts, err := Render(res, opts)
	if err != nil {
		t.Fatalf("Render: %v", err)
	}
	for _, f := range sink.Formats {
		if len(artifacts[f]) == 0 {
			t.Errorf("format %s: empty artifact", f)
		}
	}
	if !strings.HasSuffix(string(artifacts[sink.FormatText]), "251234776\n") {
		t.Errorf("text artifact should end with the height axis:\n%s", artifacts[sink.FormatText])
	}
}

func TestExecute(t *testing.T) {
	result := mustExecute(t, NewRunner(nil, nil, nil), Options{Formats: []string{"txt", "json"}})

	if result.Analysis.Volume != 10 {
		t.Errorf("Volume = %d, want 10", result.Analysis.Volume)
	}
	if result.Stats.Volume != 10 || result.Stats.Width != 9 {
		t.Errorf("Stats = %+v", result.Stats)
	}
	if result.ResultHash == "" {
		t.Error("ResultHash should be set")
	}
	if len(result.Artifacts) != 2 {
		t.Errorf("got %d artifacts, want 2", len(result.Artifacts))
	}
	if result.CacheInfo.AnalyzeHit || result.CacheInfo.RenderHit {
		t.Error("null cache should never hit")
	}
}

func TestExecuteCaches(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Heights: []int{5, 1, 5}, MaxHeight: 5, Formats: []string{"svg"}}

	first := mustExecute(t, runner, opts)
	if first.CacheInfo.AnalyzeHit || first.CacheInfo.RenderHit {
		t.Error("first run should miss")
	}

	second := mustExecute(t, runner, opts)
	if !second.CacheInfo.AnalyzeHit || !second.CacheInfo.RenderHit {
		t.Errorf("second run CacheInfo = %+v, want both hits", second.CacheInfo)
	}
	if second.Analysis.Volume != 4 {
		t.Errorf("cached Volume = %d, want 4", second.Analysis.Volume)
	}
	if string(second.Artifacts["svg"]) != string(first.Artifacts["svg"]) {
		t.Error("cached artifact differs")
	}

	opts.Refresh = true
	third := mustExecute(t, runner, opts)
	if third.CacheInfo.AnalyzeHit || third.CacheInfo.RenderHit {
		t.Error("refresh should bypass the cache")
	}
}

func TestExecuteRecomputesCorruptEntry(t *testing.T) {
	c := newMemCache()
	runner := NewRunner(c, nil, nil)
	opts := Options{Heights: []int{3, 1, 3}, MaxHeight: 3}

	key := runner.Keyer.AnalysisKey([]int{3, 1, 3}, 3)
	_ = c.Set(context.Background(), key, []byte(`{"heights":[3,1,3],"volume":99}`), time.Hour)

	result := mustExecute(t, runner, opts)
	if result.CacheInfo.AnalyzeHit {
		t.Error("corrupt entry should not count as a hit")
	}
	if result.Analysis.Volume != 2 {
		t.Errorf("Volume = %d, want 2", result.Analysis.Volume)
	}
	if _, hit, err := runner.cachedAnalysis(context.Background(), key); !hit || err != nil {
		t.Errorf("entry not replaced after recompute: hit %v, err %v", hit, err)
	}
}

func TestCachedAnalysisCorrupt(t *testing.T) {
	ctx := context.Background()
	c := newMemCache()
	runner := NewRunner(c, nil, nil)

	tests := []struct {
		name string
		data string
	}{
		{"not json", `{"heights":`},
		{"volume disagrees with grid", `{"heights":[3,1,3],"volume":99,"grid":{"width":3,"height":3,"rows":["#.#","#.#","###"]}}`},
		{"missing grid", `{"heights":[3,1,3],"volume":2}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_ = c.Set(ctx, "key", []byte(tt.data), 0)
			_, hit, err := runner.cachedAnalysis(ctx, "key")
			if hit {
				t.Error("corrupt entry reported as hit")
			}
			if !stderrors.Is(err, cache.ErrCorrupt) {
				t.Errorf("err = %v, want cache.ErrCorrupt", err)
			}
		})
	}

	if _, hit, err := runner.cachedAnalysis(ctx, "absent"); hit || err != nil {
		t.Errorf("absent key: hit %v, err %v; want clean miss", hit, err)
	}
}

func TestExecuteInvalidHeights(t *testing.T) {
	_, err := NewRunner(nil, nil, nil).Execute(context.Background(), Options{Heights: []int{1, 10}, MaxHeight: 9})
	if !errors.Is(err, errors.ErrCodeInvalidConfiguration) {
		t.Errorf("Execute() = %v, want INVALID_CONFIGURATION", err)
	}
}

func TestExecuteCallsHooks(t *testing.T) {
	hooks := &recordingHooks{}
	observability.SetPipelineHooks(hooks)
	defer observability.Reset()

	mustExecute(t, NewRunner(nil, nil, nil), Options{})

	want := []string{"analyze_start", "analyze_complete", "render_start", "render_complete"}
	if strings.Join(hooks.events, ",") != strings.Join(want, ",") {
		t.Errorf("events = %v, want %v", hooks.events, want)
	}
	if hooks.volume != 10 {
		t.Errorf("reported volume = %d, want 10", hooks.volume)
	}
}

// =============================================================================
// Helpers
// =============================================================================

func mustExecute(t *testing.T, r *Runner, opts Options) *Result {
	t.Helper()
	result, err := r.Execute(context.Background(), opts)
	if err != nil {
		t.Fatalf("Execute: %v", err)
	}
	return result
}

type memCache struct {
	mu   sync.Mutex
	data map[string][]byte
}

func newMemCache() *memCache { return &memCache{data: make(map[string][]byte)} }

func (c *memCache) Get(_ context.Context, key string) ([]byte, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	d, ok := c.data[key]
	return d, ok, nil
}

func (c *memCache) Set(_ context.Context, key string, data []byte, _ time.Duration) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.data[key] = data
	return nil
}

func (c *memCache) Delete(_ context.Context, key string) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	delete(c.data, key)
	return nil
}

func (c *memCache) Close() error { return nil }

var _ cache.Cache = (*memCache)(nil)

type recordingHooks struct {
	observability.NoopPipelineHooks
	events []string
	volume int
}

func (h *recordingHooks) OnAnalyzeStart(context.Context, int, int) {
	h.events = append(h.events, "analyze_start")
}

func (h *recordingHooks) OnAnalyzeComplete(_ context.Context, _, volume int, _ time.Duration, _ error) {
	h.events = append(h.events, "analyze_complete")
	h.volume = volume
}

func (h *recordingHooks) OnRenderStart(context.Context, []string) {
	h.events = append(h.events, "render_start")
}

func (h *recordingHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {
	h.events = append(h.events, "render_complete")
}

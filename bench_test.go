package journal

import (
	"context"
	"testing"

	"github.com/halcyon-engine/journal/unique"
)

// newBenchPipeline constructs a pipeline with a huge flush threshold so the
// benchmark measures enqueue cost, not file I/O.
func newBenchPipeline(b *testing.B) *Logger {
	b.Helper()
	cfg := DefaultConfig()
	cfg.Directory = b.TempDir()
	cfg.FlushCount = 1 << 30
	cfg.FlushIntervalMS = 60_000
	p, err := New(cfg)
	if err != nil {
		b.Fatalf("pipeline: %v", err)
	}
	b.Cleanup(func() { _ = p.Close(context.Background()) })
	log, err := p.Logger("bench")
	if err != nil {
		b.Fatalf("logger: %v", err)
	}
	return log
}

func BenchmarkInfo(b *testing.B) {
	log := newBenchPipeline(b)
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		log.Info("benchmark message")
	}
}

func BenchmarkParallel_Info(b *testing.B) {
	log := newBenchPipeline(b)
	b.ReportAllocs()
	b.RunParallel(func(pb *testing.PB) {
		for pb.Next() {
			log.Info("benchmark message")
		}
	})
}

func BenchmarkState(b *testing.B) {
	log := newBenchPipeline(b)
	snap := struct {
		Frame int     `json:"frame"`
		Dt    float64 `json:"dt"`
	}{Frame: 1, Dt: 0.016}
	b.ReportAllocs()
	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		_ = log.State("frame", snap)
	}
}

func BenchmarkUniqueGenerate(b *testing.B) {
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = unique.Generate()
	}
}

package journal

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"
)

// consumer is the single background worker. It owns the persistence document
// outright; no other goroutine reads or writes it.
type consumer struct {
	cfg      *Config
	mb       *mailbox
	store    *docStore
	mirror   zerolog.Logger
	fallback zerolog.Logger
}

func newConsumer(cfg *Config, mb *mailbox) (*consumer, error) {
	c := &consumer{
		cfg:      cfg,
		mb:       mb,
		store:    newDocStore(filepath.Join(cfg.Directory, cfg.FileName)),
		fallback: zerolog.New(zerolog.ConsoleWriter{Out: os.Stderr}).With().Timestamp().Logger(),
	}

	var writers []io.Writer
	if cfg.FileMirror {
		writers = append(writers, c.rollingMirrorWriter())
	}
	if cfg.ConsoleMirror {
		writers = append(writers, zerolog.ConsoleWriter{Out: os.Stderr})
	}
	if len(writers) == 0 {
		c.mirror = zerolog.Nop()
		return c, nil
	}

	level, err := zerolog.ParseLevel(cfg.MirrorLevel)
	if err != nil {
		return nil, err
	}
	c.mirror = zerolog.New(io.MultiWriter(writers...)).Level(level).With().Timestamp().Logger()
	return c, nil
}

func (c *consumer) rollingMirrorWriter() *lumberjack.Logger {
	name := strings.TrimSuffix(c.cfg.FileName, filepath.Ext(c.cfg.FileName)) + ".log"
	return &lumberjack.Logger{
		Filename:   filepath.Join(c.cfg.Directory, name),
		MaxBackups: c.cfg.MirrorMaxBackups,
		MaxAge:     c.cfg.MirrorMaxAgeDays,
		MaxSize:    c.cfg.MirrorMaxSizeMB,
	}
}

// run is the consumer loop. It assigns sequence indices in arrival order,
// buffers, and flushes per the batching policy documented on Config. A
// buffered panic message forces a flush and ends the loop; any persistence
// failure is fatal to the consumer, never silently degraded.
func (c *consumer) run(p *Pipeline) {
	defer func() {
		p.state.Store(stateTerminated)
		close(p.done)
	}()

	if err := c.store.rotate(); err != nil {
		c.fallback.Warn().Err(err).Msg("unable to rotate previous log document")
	}
	if err := c.store.create(); err != nil {
		c.fail(p, err)
		return
	}

	ticker := time.NewTicker(c.cfg.flushInterval())
	defer ticker.Stop()

	var buffer []Entry
	var seq uint64

	flush := func() error {
		if len(buffer) == 0 {
			return nil
		}
		if err := c.store.appendEntries(buffer); err != nil {
			return err
		}
		buffer = buffer[:0]
		return nil
	}

	for {
		msg, got, drained := c.mb.pop()
		if got {
			c.mirrorMessage(&msg)
			buffer = append(buffer, Entry{Index: seq, Message: msg})
			seq++

			panicking := msg.Level.IsPanic()
			if panicking {
				p.state.CompareAndSwap(stateRunning, stateDraining)
			}
			if panicking || len(buffer) >= c.cfg.FlushCount {
				if err := flush(); err != nil {
					c.fail(p, err)
					return
				}
				if panicking {
					return
				}
			}
			continue
		}
		if drained {
			if err := flush(); err != nil {
				c.fail(p, err)
			}
			return
		}

		select {
		case <-c.mb.wake:
		case <-ticker.C:
			if err := flush(); err != nil {
				c.fail(p, err)
				return
			}
		}
	}
}

func (c *consumer) fail(p *Pipeline, err error) {
	p.failure.Store(err)
	c.fallback.Error().Err(err).Msg("log consumer failed; structured logging is disabled")
}

func (c *consumer) mirrorMessage(msg *Message) {
	e := c.mirror.WithLevel(kindLevel(msg.Level)).Str("topic", msg.Topic)
	if snap, ok := msg.Level.State(); ok {
		e.RawJSON("state", []byte(snap))
	}
	if rec, ok := msg.Level.Panic(); ok {
		e.Str("file", rec.File).Uint32("line", rec.Line)
	}
	e.Msg(msg.Text)
}

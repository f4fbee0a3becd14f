package journal

import (
	"fmt"
	"runtime"
	"runtime/debug"
	"strings"
)

// PanicObserver is invoked with the captured record while Guard is
// unwinding. Observers run in registration order; the pipeline's own
// durable-flush observer is always first and blocks until the record has
// been written to disk, so later observers (and the re-raised panic) see a
// durable log.
type PanicObserver func(rec *PanicRecord)

// OnPanic registers an additional observer after the durable-flush one.
func (p *Pipeline) OnPanic(obs PanicObserver) {
	p.obsMu.Lock()
	p.observers = append(p.observers, obs)
	p.obsMu.Unlock()
}

// Guard must be deferred at the top of any goroutine whose panics should be
// recorded:
//
//	go func() {
//	    defer p.Guard()
//	    run()
//	}()
//
// On a panic it captures the location, payload and backtrace, notifies the
// observers in order, then re-raises the original value so the runtime's
// default crash behavior still occurs. Guard never swallows a panic.
func (p *Pipeline) Guard() {
	r := recover()
	if r == nil {
		return
	}
	p.notify(capturePanic(r))
	panic(r)
}

// Guard is the package-level form of (*Pipeline).Guard for the shared
// pipeline. If the shared pipeline was never created the panic is re-raised
// unrecorded.
func Guard() {
	r := recover()
	if r == nil {
		return
	}
	sharedMu.Lock()
	p := shared
	sharedMu.Unlock()
	if p != nil {
		p.notify(capturePanic(r))
	}
	panic(r)
}

func (p *Pipeline) notify(rec *PanicRecord) {
	p.obsMu.Lock()
	observers := append([]PanicObserver(nil), p.observers...)
	p.obsMu.Unlock()
	for _, obs := range observers {
		obs(rec)
	}
}

// persistPanic is the pipeline's built-in observer: it enqueues the final
// record and blocks the crashing goroutine until the consumer has flushed
// everything and exited.
func (p *Pipeline) persistPanic(rec *PanicRecord) {
	msg := Message{
		Time:  Now(),
		Level: PanicKind(*rec),
		Topic: panicTopic,
		Text:  rec.Message,
	}
	if err := p.mb.push(msg); err != nil {
		// Already draining or terminated; the record cannot be persisted.
		return
	}
	<-p.done
}

func capturePanic(r any) *PanicRecord {
	msg := errMsgNoPayload
	switch v := r.(type) {
	case string:
		msg = v
	case error:
		msg = v.Error()
	case fmt.Stringer:
		msg = v.String()
	}
	file, line := panicSite()
	return &PanicRecord{
		Line:      line,
		File:      file,
		Message:   msg,
		Backtrace: string(debug.Stack()),
	}
}

// panicSite walks the stack for the frame that raised the panic: the first
// frame outside the runtime after runtime.gopanic.
func panicSite() (string, uint32) {
	pcs := make([]uintptr, 64)
	n := runtime.Callers(2, pcs)
	frames := runtime.CallersFrames(pcs[:n])
	seenGopanic := false
	for {
		frame, more := frames.Next()
		if frame.Function == "runtime.gopanic" {
			seenGopanic = true
		} else if seenGopanic && !strings.HasPrefix(frame.Function, "runtime.") {
			return frame.File, uint32(frame.Line)
		}
		if !more {
			return errMsgNoFile, 0
		}
	}
}

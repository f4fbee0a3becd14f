package journal

import (
	"fmt"
	"time"

	"github.com/goccy/go-json"
)

// Timestamp is a wall-clock instant expressed as a duration since the Unix
// epoch. It serializes as {"secs": u64, "nanos": u32}.
type Timestamp struct {
	Secs  uint64 `json:"secs"`
	Nanos uint32 `json:"nanos"`
}

// Now returns the current wall-clock Timestamp.
func Now() Timestamp {
	t := time.Now()
	return Timestamp{Secs: uint64(t.Unix()), Nanos: uint32(t.Nanosecond())}
}

// Time converts the Timestamp back to a time.Time in UTC.
func (t Timestamp) Time() time.Time {
	return time.Unix(int64(t.Secs), int64(t.Nanos)).UTC()
}

// PanicRecord captures the context of an application panic: where it was
// raised, the best-effort string form of its payload, and the full stack.
type PanicRecord struct {
	Line      uint32 `json:"line"`
	File      string `json:"file"`
	Message   string `json:"message"`
	Backtrace string `json:"backtrace"`
}

type kindVariant uint8

const (
	kindInformation kindVariant = iota
	kindWarning
	kindError
	kindState
	kindPanic
)

// Kind classifies a Message. The plain severities serialize as bare strings
// ("Information", "Warning", "Error"); State and Panic carry a payload and
// serialize as a single-key object, e.g. {"State": "<snapshot>"} or
// {"Panic": {...}}.
type Kind struct {
	variant kindVariant
	state   string
	rec     *PanicRecord
}

var (
	Information = Kind{variant: kindInformation}
	Warning     = Kind{variant: kindWarning}
	Error       = Kind{variant: kindError}
)

// StateKind returns a Kind carrying a serialized state snapshot.
func StateKind(snapshot string) Kind {
	return Kind{variant: kindState, state: snapshot}
}

// PanicKind returns a Kind carrying a panic record.
func PanicKind(rec PanicRecord) Kind {
	return Kind{variant: kindPanic, rec: &rec}
}

// IsPanic reports whether the Kind carries a panic record.
func (k Kind) IsPanic() bool {
	return k.variant == kindPanic
}

// State returns the serialized snapshot for a State kind.
func (k Kind) State() (string, bool) {
	if k.variant != kindState {
		return "", false
	}
	return k.state, true
}

// Panic returns the panic record for a Panic kind.
func (k Kind) Panic() (*PanicRecord, bool) {
	if k.variant != kindPanic {
		return nil, false
	}
	return k.rec, true
}

func (k Kind) String() string {
	switch k.variant {
	case kindWarning:
		return "Warning"
	case kindError:
		return "Error"
	case kindState:
		return "State"
	case kindPanic:
		return "Panic"
	default:
		return "Information"
	}
}

func (k Kind) MarshalJSON() ([]byte, error) {
	switch k.variant {
	case kindState:
		return json.Marshal(map[string]string{"State": k.state})
	case kindPanic:
		return json.Marshal(map[string]*PanicRecord{"Panic": k.rec})
	default:
		return json.Marshal(k.String())
	}
}

func (k *Kind) UnmarshalJSON(data []byte) error {
	if len(data) > 0 && data[0] == '"' {
		var tag string
		if err := json.Unmarshal(data, &tag); err != nil {
			return err
		}
		switch tag {
		case "Information":
			*k = Information
		case "Warning":
			*k = Warning
		case "Error":
			*k = Error
		default:
			return fmt.Errorf("journal: unknown message kind %q", tag)
		}
		return nil
	}

	var tagged struct {
		State *string      `json:"State"`
		Panic *PanicRecord `json:"Panic"`
	}
	if err := json.Unmarshal(data, &tagged); err != nil {
		return err
	}
	switch {
	case tagged.State != nil:
		*k = StateKind(*tagged.State)
	case tagged.Panic != nil:
		*k = Kind{variant: kindPanic, rec: tagged.Panic}
	default:
		return fmt.Errorf("journal: unknown message kind %s", data)
	}
	return nil
}

// Message is one immutable log record. Ownership passes from the producing
// goroutine to the pipeline on enqueue; the consumer is the sole reader
// afterwards.
type Message struct {
	Time  Timestamp `json:"time"`
	Level Kind      `json:"level"`
	Topic string    `json:"topic"`
	Text  string    `json:"message"`
}

package text

import (
	"fmt"
	"time"
)

// ISO8601 is the layout used for Record.DateTime: UTC with milliseconds.
const ISO8601 = "2006-01-02T15:04:05.000Z07:00"

// DefaultLinkText is the label used by link transforms.
const DefaultLinkText = "t"

// 📄 Record is one transformed line
type Record struct {
	IndexTitle string `json:"indexTitle"`
	Question   string `json:"question"`
	Answer     string `json:"answer"`
	DateTime   string `json:"dateTime"`
}

// ⏰ Clock provides the current time to transforms
type Clock interface {
	Now() time.Time
}

// ClockFunc adapts a function to Clock
type ClockFunc func() time.Time

func (f ClockFunc) Now() time.Time { return f() }

// SystemClock reads the wall clock.
var SystemClock Clock = ClockFunc(time.Now)

// FixedClock always returns t.
func FixedClock(t time.Time) Clock {
	return ClockFunc(func() time.Time { return t })
}

// 🧩 Templater builds records from lines. The zero value uses the system
// clock and DefaultLinkText.
type Templater struct {
	Clock    Clock
	LinkText string
}

// NewTemplater creates a templater stamping records with clock
func NewTemplater(clock Clock) *Templater {
	return &Templater{Clock: clock, LinkText: DefaultLinkText}
}

func (t *Templater) stamp() string {
	clock := t.Clock
	if clock == nil {
		clock = SystemClock
	}
	return clock.Now().UTC().Format(ISO8601)
}

// LinkString wraps line in a markdown link: [text](line)
func (t *Templater) LinkString(line string) string {
	label := t.LinkText
	if label == "" {
		label = DefaultLinkText
	}
	return fmt.Sprintf("[%s](%s)", label, line)
}

// LinkRecord places the markdown link for line in Answer
func (t *Templater) LinkRecord(line string) Record {
	return Record{
		Answer:   t.LinkString(line),
		DateTime: t.stamp(),
	}
}

// PlainRecord places line verbatim in Answer
func (t *Templater) PlainRecord(line string) Record {
	return Record{
		Answer:   line,
		DateTime: t.stamp(),
	}
}

var defaultTemplater = &Templater{}

// LinkRecord builds a link record stamped with the system clock
func LinkRecord(line string) Record { return defaultTemplater.LinkRecord(line) }

// PlainRecord builds a plain record stamped with the system clock
func PlainRecord(line string) Record { return defaultTemplater.PlainRecord(line) }

// Identity returns line unchanged
func Identity(line string) string { return line }

package recorder

import (
	"time"

	"github.com/guregu/null/v6"
)

// RefreshRecord is one installed bundle, flattened for the journal.
type RefreshRecord struct {
	Version   uint64
	Symbol    string
	Period    string
	Bars      int
	Price     null.Float
	LastMA    null.Float
	LastRSI   null.Float
	Action    string
	Rationale string
	FetchedAt time.Time
}

// ChatRecord is one chat line.
type ChatRecord struct {
	ID     string
	Symbol string
	Sender string
	Body   string
	Time   time.Time
}

// Recorder journals refreshes and chat lines. Nothing reads the journal back.
type Recorder interface {
	RecordRefresh(rec *RefreshRecord) error
	RecordChat(rec *ChatRecord) error
	Close() error
}

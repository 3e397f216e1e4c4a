package id

import (
	"sync"

	"github.com/bwmarrin/snowflake"
	"github.com/google/uuid"
)

var (
	node *snowflake.Node
	once sync.Once
)

// Init initializes the Snowflake node. The server and worker use different node IDs.
func Init(nodeID int64) error {
	var err error
	once.Do(func() {
		node, err = snowflake.NewNode(nodeID)
	})
	return err
}

// New generates a time-ordered int64 ID for leads, deals and ingestion events.
func New() int64 {
	return node.Generate().Int64()
}

// NewEventID returns the opaque identifier handed back to webhook callers.
// Kept separate from snowflake IDs so internal row IDs are never exposed to extensions.
func NewEventID() string {
	return uuid.NewString()
}

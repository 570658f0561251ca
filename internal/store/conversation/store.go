package conversation

import (
	"context"
	"errors"

	"github.com/policypal/backend/internal/model/chat"
)

// DocumentName is the fixed name of the single conversation document kept per
// (applicationId, userId).
const DocumentName = "mainThread"

// ErrNotFound is returned by Load when no conversation document exists yet.
// The caller seeds the default greeting; the store never fabricates content.
var ErrNotFound = errors.New("conversation not found")

// Store persists and retrieves the ordered message log for one user.
//
// Save is a merge-upsert: the messages field and the lastUpdated marker are
// overwritten while other stored fields are preserved, and saving the same
// conversation twice yields the same final stored state. Failures surface as
// ordinary errors; callers degrade to in-memory operation rather than crash.
type Store interface {
	Load(ctx context.Context, appID, userID string) (chat.Conversation, error)
	Save(ctx context.Context, appID, userID string, conv chat.Conversation) error
}

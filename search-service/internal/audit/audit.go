package audit

import (
	"context"

	"github.com/GrandEmpereur/Bookish-sub000/pkg/log"
)

// Audit actions for search-service.
const (
	ActionAddBookmark    = "bookmark.add"
	ActionRemoveBookmark = "bookmark.remove"
)

// Field constants for audit entries.
const (
	FieldAction   = "action"
	FieldItemType = "item_type"
	FieldItemID   = "item_id"
)

// Log emits a structured audit log entry for a bookmark change.
func Log(ctx context.Context, action, userID, itemType, itemID, msg string) {
	l := log.Ctx(ctx)
	l.Info().
		Str(log.FieldLogType, log.LogTypeAudit).
		Str(FieldAction, action).
		Str(log.FieldUserID, userID).
		Str(FieldItemType, itemType).
		Str(FieldItemID, itemID).
		Msg(msg)
}

package handlers

import (
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/session"
	"github.com/jjenkins/regmonitor/internal/service"
	"github.com/jjenkins/regmonitor/internal/store"
)

// Session keys
const (
	keyBatchID   = "batch_id"
	keyStatus    = "status"
	keyReference = "reference"
	keyLawText   = "law_text"
	keyLinkURL   = "link_url"
	keyLinkTitle = "link_title"
	keySelStatus = "selection_status"
)

func sessionString(sess *session.Session, key string) string {
	v, _ := sess.Get(key).(string)
	return v
}

// currentBatch returns the record set loaded by this visitor, nil when none
func currentBatch(sess *session.Session, batches *store.Batches) *store.RecordSet {
	id := sessionString(sess, keyBatchID)
	if id == "" {
		return nil
	}
	set, ok := batches.Get(id)
	if !ok {
		return nil
	}
	return set
}

// storeSelection replaces the visitor's selection
func storeSelection(sess *session.Session, sel *service.Selection) {
	sess.Set(keyReference, sel.Reference)
	sess.Set(keyLawText, sel.Text)
	sess.Set(keyLinkURL, "")
	sess.Set(keyLinkTitle, "")
	if sel.Link != nil {
		sess.Set(keyLinkURL, sel.Link.URL)
		sess.Set(keyLinkTitle, sel.Link.Title)
	}
	sess.Set(keySelStatus, service.StatusMessage(sel.Err, ""))
}

func clearSelection(sess *session.Session) {
	for _, key := range []string{keyReference, keyLawText, keyLinkURL, keyLinkTitle, keySelStatus} {
		sess.Delete(key)
	}
}

func isHTMX(c *fiber.Ctx) bool {
	return c.Get("HX-Request") == "true"
}

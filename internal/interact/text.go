package interact

import (
	"poster/internal/document"
	"poster/internal/logging"
)

// BeginTextEdit enters EditingText for a text element. It reports false when
// the controller is not idle or id is not a text element.
func (c *Controller) BeginTextEdit(id string) bool {
	if c.state != Idle {
		return false
	}
	el, ok := c.stage.Effective().Find(id)
	if !ok || el.Kind != document.KindText || el.Text == nil {
		return false
	}
	c.text = textEdit{id: id, original: el.Text.Content, draft: el.Text.Content}
	c.state = EditingText
	return true
}

// Draft returns the content being edited.
func (c *Controller) Draft() string { return c.text.draft }

// SetDraft replaces the content being edited. Drafts are not staged: they
// live in the editor widget until the edit finishes.
func (c *Controller) SetDraft(s string) {
	if c.state == EditingText {
		c.text.draft = s
	}
}

// FinishTextEdit commits the draft as the element's content and returns to
// Idle. Unchanged content commits nothing. It reports whether a record was
// committed.
func (c *Controller) FinishTextEdit() bool {
	if c.state != EditingText {
		return false
	}
	t := c.text
	c.state = Idle
	c.text = textEdit{}
	if t.draft == t.original {
		return false
	}

	base := c.stage.Effective()
	el, ok := base.Find(t.id)
	if !ok {
		return false
	}
	next, _ := base.WithElement(document.EditText(t.draft).Apply(el))
	c.stage.Stage(next)
	ok = c.stage.Commit(LabelText)
	logging.Logger().Debug("interact: text edit committed", "id", t.id, "committed", ok)
	return ok
}

// CancelTextEdit drops the draft and returns to Idle.
func (c *Controller) CancelTextEdit() {
	if c.state == EditingText {
		c.state = Idle
		c.text = textEdit{}
	}
}

package engine

import (
	"time"

	"github.com/rs/zerolog"
	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/iw2rmb/tokenweave/buffer"
	"github.com/iw2rmb/tokenweave/vtree"
	"github.com/iw2rmb/tokenweave/weave"
)

// Engine owns the raw value and translates surface events into raw edits.
type Engine struct {
	cfg     Config
	log     zerolog.Logger
	surface Surface
	clip    Clipboard
	dmp     *diffmatchpatch.DiffMatchPatch

	buf    *buffer.Buffer
	weaver *weave.Weaver
	source TokenSource
	woven  weave.Result

	// tasks run on Settle, in order.
	tasks []func()
	// expected is the native selection the engine last wrote; the matching
	// selection change is its own echo.
	expected *vtree.Selection

	pending  pendingSelection
	swipe    swipeMemo
	space    loneSpace
	postComp postComposition
	arrow    arrowNav
	comp     composition
}

// New returns an engine rendering into surface. surface and clip may be nil.
func New(cfg Config, surface Surface, clip Clipboard) *Engine {
	cfg = cfg.withDefaults()
	e := &Engine{
		cfg:     cfg,
		log:     *cfg.Logger,
		surface: surface,
		clip:    clip,
		dmp:     diffmatchpatch.New(),
		buf:     buffer.New(cfg.Value, cfg.bufferOptions()),
		weaver:  weave.New(weave.Options{Multiline: cfg.Multiline}),
	}
	e.Render()
	return e
}

func (e *Engine) now() time.Time { return e.cfg.Now() }

// Config returns the normalized configuration.
func (e *Engine) Config() Config { return e.cfg }

// Buffer exposes the underlying buffer for inspection.
func (e *Engine) Buffer() *buffer.Buffer { return e.buf }

// Value returns the raw value.
func (e *Engine) Value() string { return e.buf.Text() }

// SetValue replaces the raw value from outside the editing pipeline. It is
// authoritative: pending edits and memos are dropped and OnChange is not
// called.
func (e *Engine) SetValue(value string) {
	e.resetMemos()
	e.comp = composition{}
	e.buf.EndEditSession()
	if !e.buf.SetText(value) {
		return
	}
	e.Render()
	e.scheduleRestore()
}

// SetMultiline toggles multiline rendering and Enter handling.
func (e *Engine) SetMultiline(on bool) {
	e.cfg.Multiline = on
	e.weaver.SetOptions(weave.Options{Multiline: on})
	e.Render()
}

// RegisterTokens replaces the token declarations used by the next Render.
// It is ignored while a TokenSource is set.
func (e *Engine) RegisterTokens(descs []weave.Descriptor) {
	e.weaver.Register(descs)
}

// SetTokenSource makes every Render consult src for declarations.
func (e *Engine) SetTokenSource(src TokenSource) {
	e.source = src
	e.Render()
}

// Render weaves the current value and draws it on the surface.
func (e *Engine) Render() {
	value := e.buf.Text()
	if e.source != nil {
		e.weaver.Register(e.source.Tokens(value))
	}
	sel := e.buf.Selection()
	res := e.weaver.Weave(value, sel.Start, sel.End)
	if res.Stale {
		e.log.Debug().Str("value", value).Msg("token registrations are stale; weaving suspended")
		// The surface keeps the previous frame. Token-aware edits are off
		// until the next weave since the old nodes no longer index value.
		e.woven.Nodes = nil
		e.woven.Stale = true
		e.woven.Active, e.woven.ActiveState = res.Active, res.ActiveState
		return
	}
	e.woven = res
	if e.surface != nil && e.surface.Attached() {
		e.surface.Draw(e.woven.Root)
	}
}

// Woven returns the result of the last weave.
func (e *Engine) Woven() weave.Result { return e.woven }

// Root returns the current visual tree.
func (e *Engine) Root() *vtree.Node { return e.woven.Root }

// Settle runs deferred work, chiefly restoring the native selection after
// an edit has been rendered.
func (e *Engine) Settle() {
	for len(e.tasks) > 0 {
		task := e.tasks[0]
		e.tasks = e.tasks[1:]
		task()
	}
}

func (e *Engine) enqueue(task func()) { e.tasks = append(e.tasks, task) }

// Defer queues fn to run on the next Settle.
func (e *Engine) Defer(fn func()) {
	if fn != nil {
		e.enqueue(fn)
	}
}

// Refresh re-renders without changing the value and restores the selection
// on the next Settle. Hosts call it when token content changes.
func (e *Engine) Refresh() {
	e.Render()
	e.scheduleRestore()
}

func (e *Engine) scheduleRestore() {
	e.enqueue(func() { e.applySelection(e.buf.Selection()) })
}

// State returns the render-prop view.
func (e *Engine) State() State {
	sel := e.buf.Selection()
	st := State{
		Value:       e.buf.Text(),
		Selection:   sel,
		ActiveToken: e.woven.Active,
		ActiveState: e.woven.ActiveState,
		NativeRange: e.nativeRange(sel),
		Composing:   e.comp.active,
	}
	if st.Value == "" && !e.comp.active {
		st.Placeholder = e.cfg.Placeholder
	}
	return st
}

func (e *Engine) nativeRange(sel buffer.Range) vtree.Range {
	n := sel.Normalized()
	return vtree.Range{
		Start: vtree.ToVisual(e.woven.Root, n.Start),
		End:   vtree.ToVisual(e.woven.Root, n.End),
	}
}

// PortalRect positions contextual UI according to the portal anchor. It
// returns a zero rect when no geometry is available.
func (e *Engine) PortalRect() Rect {
	switch e.cfg.PortalAnchor {
	case AnchorCustom:
		if e.cfg.PortalRect != nil {
			return e.cfg.PortalRect()
		}
	case AnchorRoot:
		if m, ok := e.surface.(Measurer); ok {
			if r, ok := m.RootRect(); ok {
				return r
			}
		}
	case AnchorSelection:
		if m, ok := e.surface.(Measurer); ok {
			focus := vtree.ToVisual(e.woven.Root, e.buf.Selection().End)
			if r, ok := m.RectAt(focus); ok {
				return r
			}
		}
	}
	return Rect{}
}

// commitKind says how an edit enters history.
type commitKind uint8

const (
	commitInsert commitKind = iota
	commitDelete
	// commitOwn pushes its own undo step, outside any session.
	commitOwn
)

// commit replaces r with text, places the caret, re-renders and schedules
// selection restoration. A negative caret selects the end of the insert.
func (e *Engine) commit(r buffer.Range, text string, caret int, kind commitKind) bool {
	// A no-op edit must not open a history step or drop redo.
	if e.buf.Slice(r.Start, r.End) == text {
		return false
	}
	now := e.now()
	switch kind {
	case commitInsert:
		e.buf.BeginEditSession(buffer.EditInsert, now)
	case commitDelete:
		e.buf.BeginEditSession(buffer.EditDelete, now)
	default:
		e.buf.EndEditSession()
		e.buf.PushSnapshot()
	}
	caret, changed := e.buf.ReplaceWithCaret(r, text, caret)
	if !changed {
		return false
	}
	e.pending.set(buffer.Caret(caret), now, e.cfg.PendingSelectionTTL)
	e.afterChange()
	return true
}

// afterChange notifies, re-renders and schedules selection restoration.
func (e *Engine) afterChange() {
	if ch, ok := e.buf.LastChange(); ok {
		e.log.Debug().
			Str("source", ch.Source.String()).
			Uint64("version", ch.VersionAfter).
			Int("edits", len(ch.AppliedEdits)).
			Int("delta", ch.Delta()).
			Msg("value changed")
	}
	if e.cfg.OnChange != nil {
		e.cfg.OnChange(e.buf.Text())
	}
	e.Render()
	e.scheduleRestore()
}

func (e *Engine) resetMemos() {
	e.pending.clear()
	e.swipe.clear()
	e.space.clear()
	e.arrow = arrowNav{}
}
